package collection

// Pair is the record shape key-aware operators (join, reduce) interpret
// Collections as being built from: a grouping Key and a per-record Value.
// Pair is comparable whenever K and V are, so Collection[Pair[K, V]]
// composes with every other Collection operation.
type Pair[K comparable, V comparable] struct {
	Key   K
	Value V
}

// ValueMultiplicity pairs a value with the multiplicity it carries for one
// key; it is what a reducer function is handed.
type ValueMultiplicity[V comparable] struct {
	Value        V
	Multiplicity int
}

// Join matches records (k, v1) from a and (k, v2) from b on equal keys and
// produces (k, (v1, v2)) with multiplicity v1's times v2's, for every
// matching pair. This is the non-incremental, batch definition of join;
// the incremental operator in pkg/dataflow streams the same result a delta
// at a time using indexed traces instead of this cartesian scan.
func Join[K, V1, V2 comparable](a *Collection[Pair[K, V1]], b *Collection[Pair[K, V2]]) *Collection[Pair[K, Pair[V1, V2]]] {
	out := New[Pair[K, Pair[V1, V2]]]()
	bByKey := make(map[K][]Entry[Pair[K, V2]])
	for _, be := range b.Entries() {
		bByKey[be.Record.Key] = append(bByKey[be.Record.Key], be)
	}
	for _, ae := range a.Entries() {
		for _, be := range bByKey[ae.Record.Key] {
			out.add(Pair[K, Pair[V1, V2]]{
				Key:   ae.Record.Key,
				Value: Pair[V1, V2]{Key: ae.Record.Value, Value: be.Record.Value},
			}, ae.Multiplicity*be.Multiplicity)
		}
	}
	return out
}

// ReducePerKey groups c's records by key, applies f to the (value,
// multiplicity) pairs of each group, and flattens the results back into a
// Collection of (key, result) pairs. Unlike the linear operators, reduce is
// not linear: f(A+B) is generally not f(A)+f(B), so the incremental
// operator must recompute per touched key rather than apply f to a delta.
func ReducePerKey[K, V, R comparable](c *Collection[Pair[K, V]], f func([]ValueMultiplicity[V]) []ValueMultiplicity[R]) *Collection[Pair[K, R]] {
	groups := make(map[K][]ValueMultiplicity[V])
	for _, e := range c.Entries() {
		groups[e.Record.Key] = append(groups[e.Record.Key], ValueMultiplicity[V]{Value: e.Record.Value, Multiplicity: e.Multiplicity})
	}
	out := New[Pair[K, R]]()
	for k, vals := range groups {
		for _, r := range f(vals) {
			out.add(Pair[K, R]{Key: k, Value: r.Value}, r.Multiplicity)
		}
	}
	return out
}

// Count produces, for each key, the net multiplicity of all values under
// that key.
func Count[K, V comparable](c *Collection[Pair[K, V]]) *Collection[Pair[K, int]] {
	return ReducePerKey(c, func(vals []ValueMultiplicity[V]) []ValueMultiplicity[int] {
		total := 0
		for _, vm := range vals {
			total += vm.Multiplicity
		}
		if total == 0 {
			return nil
		}
		return []ValueMultiplicity[int]{{Value: total, Multiplicity: 1}}
	})
}

// Sum produces, for each key, the sum of its int values weighted by
// multiplicity.
func Sum[K comparable](c *Collection[Pair[K, int]]) *Collection[Pair[K, int]] {
	return ReducePerKey(c, func(vals []ValueMultiplicity[int]) []ValueMultiplicity[int] {
		total := 0
		for _, vm := range vals {
			total += vm.Value * vm.Multiplicity
		}
		return []ValueMultiplicity[int]{{Value: total, Multiplicity: 1}}
	})
}

// Distinct produces, for each key, every value with strictly positive
// cumulative multiplicity, each with multiplicity one.
func Distinct[K, V comparable](c *Collection[Pair[K, V]]) *Collection[Pair[K, V]] {
	return ReducePerKey(c, func(vals []ValueMultiplicity[V]) []ValueMultiplicity[V] {
		consolidated := map[V]int{}
		for _, vm := range vals {
			consolidated[vm.Value] += vm.Multiplicity
		}
		var out []ValueMultiplicity[V]
		for v, m := range consolidated {
			if m > 0 {
				out = append(out, ValueMultiplicity[V]{Value: v, Multiplicity: 1})
			}
		}
		return out
	})
}

// minMax implements Min and Max: the minimum or maximum value under each
// key, as assessed by less. No record may carry negative multiplicity, as
// it is unclear what the minimum or maximum of a negatively-multiplied
// record should mean.
func minMax[K, V comparable](c *Collection[Pair[K, V]], less func(a, b V) bool) *Collection[Pair[K, V]] {
	return ReducePerKey(c, func(vals []ValueMultiplicity[V]) []ValueMultiplicity[V] {
		consolidated := map[V]int{}
		for _, vm := range vals {
			consolidated[vm.Value] += vm.Multiplicity
		}
		var best V
		has := false
		for v, m := range consolidated {
			if m <= 0 {
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
		return []ValueMultiplicity[V]{{Value: best, Multiplicity: 1}}
	})
}

// Min produces, for each key, the minimum value under less.
func Min[K, V comparable](c *Collection[Pair[K, V]], less func(a, b V) bool) *Collection[Pair[K, V]] {
	return minMax(c, less)
}

// Max produces, for each key, the maximum value under less.
func Max[K, V comparable](c *Collection[Pair[K, V]], less func(a, b V) bool) *Collection[Pair[K, V]] {
	return minMax(c, func(a, b V) bool { return less(b, a) })
}
