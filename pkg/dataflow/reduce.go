package dataflow

import (
	"sort"

	"github.com/arrowstream/dbsp/pkg/collection"
	"github.com/arrowstream/dbsp/pkg/order"
	"github.com/arrowstream/dbsp/pkg/trace"
)

// Reduce is nonlinear: f applied to a delta is not, in general, the delta
// of f applied to the whole. So instead of transforming deltas directly,
// the operator keeps an index of every value ever seen per key, and on
// each step recomputes f from scratch for every key touched since the
// last step, at every version where that recomputation could have
// changed. It then emits only the difference between the freshly computed
// result and the last result it emitted for that key at that version,
// which is what keeps the operator's output itself a valid stream of
// deltas rather than repeated whole snapshots.
func Reduce[K, V, R comparable](in Stream[collection.Pair[K, V]], f func([]trace.ValueMultiplicity[V]) []trace.ValueMultiplicity[R]) Stream[collection.Pair[K, R]] {
	type result = collection.Pair[K, R]

	out := newStream[result](in.g)
	e := in.connect()
	op := newUnaryOperator("reduce", e, in.g.frontier(), in.g.log)

	idx := trace.NewIndex[K, V]()
	idxOut := trace.NewIndex[K, R]()
	keysTodo := map[string]map[K]struct{}{}
	versionOf := map[string]order.Version{}

	addTodo := func(v order.Version, key K) {
		vk := v.Key()
		if keysTodo[vk] == nil {
			keysTodo[vk] = map[K]struct{}{}
			versionOf[vk] = v
		}
		keysTodo[vk][key] = struct{}{}
	}

	op.run = func() {
		for _, m := range e.drain() {
			switch m.kind {
			case dataMessage:
				c := m.payload.(*collection.Collection[collection.Pair[K, V]])
				for _, entry := range c.Entries() {
					key := entry.Record.Key
					idx.AddValue(key, m.version, entry.Record.Value, entry.Multiplicity)
					addTodo(m.version, key)
					for _, v2 := range idx.Versions(key) {
						addTodo(m.version.Join(v2), key)
					}
				}
			case frontierMessage:
				op.setInputFrontier(0, m.frontier)
			}
		}

		inputFrontier := op.inputFrontiers[0]
		var finished []string
		for vk, v := range versionOf {
			if !inputFrontier.LessEqualVersion(v) {
				finished = append(finished, vk)
			}
		}
		sort.Strings(finished)

		for _, vk := range finished {
			version := versionOf[vk]
			keys := keysTodo[vk]
			delete(keysTodo, vk)
			delete(versionOf, vk)

			var entries []collection.Entry[result]
			for key := range keys {
				current := idx.ReconstructAt(key, version)
				previous := idxOut.ReconstructAt(key, version)
				delta := subtractValues(f(current), previous)
				for _, vm := range delta {
					entries = append(entries, collection.Entry[result]{Record: result{Key: key, Value: vm.Value}, Multiplicity: vm.Multiplicity})
					idxOut.AddValue(key, version, vm.Value, vm.Multiplicity)
				}
			}
			if len(entries) > 0 {
				out.w.sendData(version, collection.New(entries...))
			}
		}

		if op.advanceOutputFrontier(inputFrontier, out.w) {
			idx.Compact(inputFrontier)
			idxOut.Compact(inputFrontier)
		}
	}

	in.g.addOperator(op)
	return out
}

// subtractValues returns a - b, consolidated by value and with zero-net
// entries dropped.
func subtractValues[R comparable](a, b []trace.ValueMultiplicity[R]) []trace.ValueMultiplicity[R] {
	totals := map[R]int{}
	order := make([]R, 0, len(a)+len(b))
	for _, vm := range a {
		if _, seen := totals[vm.Value]; !seen {
			order = append(order, vm.Value)
		}
		totals[vm.Value] += vm.Multiplicity
	}
	for _, vm := range b {
		if _, seen := totals[vm.Value]; !seen {
			order = append(order, vm.Value)
		}
		totals[vm.Value] -= vm.Multiplicity
	}
	out := make([]trace.ValueMultiplicity[R], 0, len(order))
	for _, v := range order {
		if m := totals[v]; m != 0 {
			out = append(out, trace.ValueMultiplicity[R]{Value: v, Multiplicity: m})
		}
	}
	return out
}

// Count emits, per key, the net multiplicity of every value under that
// key, recomputed incrementally.
func Count[K, V comparable](in Stream[collection.Pair[K, V]]) Stream[collection.Pair[K, int]] {
	return Reduce(in, func(vals []trace.ValueMultiplicity[V]) []trace.ValueMultiplicity[int] {
		total := 0
		for _, vm := range vals {
			total += vm.Multiplicity
		}
		if total == 0 {
			return nil
		}
		return []trace.ValueMultiplicity[int]{{Value: total, Multiplicity: 1}}
	})
}

// Sum emits, per key, the sum of its int values weighted by multiplicity.
func Sum[K comparable](in Stream[collection.Pair[K, int]]) Stream[collection.Pair[K, int]] {
	return Reduce(in, func(vals []trace.ValueMultiplicity[int]) []trace.ValueMultiplicity[int] {
		total := 0
		for _, vm := range vals {
			total += vm.Value * vm.Multiplicity
		}
		if total == 0 {
			return nil
		}
		return []trace.ValueMultiplicity[int]{{Value: total, Multiplicity: 1}}
	})
}

// Distinct emits, per key, every value with strictly positive cumulative
// multiplicity, each with multiplicity one. A value that was ever seen
// with negative net multiplicity indicates an upstream bug (a collection
// cannot remove a record it never added), so Distinct panics rather than
// silently coercing it.
func Distinct[K, V comparable](in Stream[collection.Pair[K, V]]) Stream[collection.Pair[K, V]] {
	return Reduce(in, func(vals []trace.ValueMultiplicity[V]) []trace.ValueMultiplicity[V] {
		consolidated := map[V]int{}
		order := make([]V, 0, len(vals))
		for _, vm := range vals {
			if _, seen := consolidated[vm.Value]; !seen {
				order = append(order, vm.Value)
			}
			consolidated[vm.Value] += vm.Multiplicity
		}
		var out []trace.ValueMultiplicity[V]
		for _, v := range order {
			m := consolidated[v]
			if m < 0 {
				panic(&ContractViolation{Op: "distinct", Msg: "value has negative net multiplicity"})
			}
			if m > 0 {
				out = append(out, trace.ValueMultiplicity[V]{Value: v, Multiplicity: 1})
			}
		}
		return out
	})
}

func minMax[K, V comparable](in Stream[collection.Pair[K, V]], less func(a, b V) bool) Stream[collection.Pair[K, V]] {
	return Reduce(in, func(vals []trace.ValueMultiplicity[V]) []trace.ValueMultiplicity[V] {
		consolidated := map[V]int{}
		order := make([]V, 0, len(vals))
		for _, vm := range vals {
			if _, seen := consolidated[vm.Value]; !seen {
				order = append(order, vm.Value)
			}
			consolidated[vm.Value] += vm.Multiplicity
		}
		var best V
		has := false
		for _, v := range order {
			if consolidated[v] <= 0 {
				continue
			}
			if !has || less(v, best) {
				best = v
				has = true
			}
		}
		if !has {
			return nil
		}
		return []trace.ValueMultiplicity[V]{{Value: best, Multiplicity: 1}}
	})
}

// Min emits, per key, the minimum value under less.
func Min[K, V comparable](in Stream[collection.Pair[K, V]], less func(a, b V) bool) Stream[collection.Pair[K, V]] {
	return minMax(in, less)
}

// Max emits, per key, the maximum value under less.
func Max[K, V comparable](in Stream[collection.Pair[K, V]], less func(a, b V) bool) Stream[collection.Pair[K, V]] {
	return minMax(in, func(a, b V) bool { return less(b, a) })
}
