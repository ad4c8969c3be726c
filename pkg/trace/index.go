// Package trace implements Index, the key-indexed difference trace that
// join and reduce use to avoid rescanning a whole collection's history on
// every step. It is the Go analog of an arrangement: a map from key, to
// version, to the (value, multiplicity) pairs that arrived for that key at
// that version.
package trace

import (
	"fmt"

	"github.com/arrowstream/dbsp/pkg/order"
)

// ValueMultiplicity pairs a value with the multiplicity it carries.
type ValueMultiplicity[V comparable] struct {
	Value        V
	Multiplicity int
}

type versionValues[V comparable] struct {
	version order.Version
	values  []ValueMultiplicity[V]
}

// Index is a map from key to version to the (value, multiplicity) pairs
// that changed for that key at that version. It is built for the fully
// general case of partially ordered versions; nothing in it assumes
// versions form a total order.
//
// An Index is not safe for concurrent use; operators that own one drive it
// from a single goroutine, same as every other dataflow component.
type Index[K comparable, V comparable] struct {
	inner              map[K]map[string]*versionValues[V]
	compactionFrontier *order.Antichain
}

// NewIndex returns an empty Index with no compaction frontier.
func NewIndex[K comparable, V comparable]() *Index[K, V] {
	return &Index[K, V]{inner: make(map[K]map[string]*versionValues[V])}
}

func (idx *Index[K, V]) validate(requested order.Version) {
	if idx.compactionFrontier == nil {
		return
	}
	if !idx.compactionFrontier.LessEqualVersion(requested) {
		panic(fmt.Sprintf("trace: version %s lies behind the compaction frontier %s", requested, idx.compactionFrontier))
	}
}

// ReconstructAt returns the accumulated (value, multiplicity) pairs for key
// as of requested, i.e. the sum of every entry recorded at a version
// less-or-equal to requested.
func (idx *Index[K, V]) ReconstructAt(key K, requested order.Version) []ValueMultiplicity[V] {
	idx.validate(requested)
	var out []ValueMultiplicity[V]
	for _, vv := range idx.inner[key] {
		if vv.version.LessEqual(requested) {
			out = append(out, vv.values...)
		}
	}
	return out
}

// Versions returns every version at which key has a recorded entry.
func (idx *Index[K, V]) Versions(key K) []order.Version {
	versions := idx.inner[key]
	out := make([]order.Version, 0, len(versions))
	for _, vv := range versions {
		out = append(out, vv.version)
	}
	return out
}

// AddValue records value at version for key.
func (idx *Index[K, V]) AddValue(key K, version order.Version, value V, multiplicity int) {
	idx.validate(version)
	if idx.inner[key] == nil {
		idx.inner[key] = make(map[string]*versionValues[V])
	}
	k := version.Key()
	vv := idx.inner[key][k]
	if vv == nil {
		vv = &versionValues[V]{version: version}
		idx.inner[key][k] = vv
	}
	vv.values = append(vv.values, ValueMultiplicity[V]{Value: value, Multiplicity: multiplicity})
}

// Append merges every entry of other into idx.
func (idx *Index[K, V]) Append(other *Index[K, V]) {
	for key, versions := range other.inner {
		for _, vv := range versions {
			for _, vm := range vv.values {
				idx.AddValue(key, vv.version, vm.Value, vm.Multiplicity)
			}
		}
	}
}

// JoinedPair is one output of Join: the common key, the matched value from
// each side, and the version the match is labeled at (the join of the two
// input versions).
type JoinedPair[K comparable, V1 comparable, V2 comparable] struct {
	Key     K
	Value1  V1
	Value2  V2
	Version order.Version
}

// Join matches idx's entries against other's on equal key, emitting every
// resulting pair labeled at the join (least upper bound) of the two
// entries' versions, with multiplicity equal to the product of the two
// entries' multiplicities.
func Join[K comparable, V1 comparable, V2 comparable](idx *Index[K, V1], other *Index[K, V2]) []struct {
	Pair         JoinedPair[K, V1, V2]
	Multiplicity int
} {
	var out []struct {
		Pair         JoinedPair[K, V1, V2]
		Multiplicity int
	}
	for key, versions := range idx.inner {
		otherVersions, ok := other.inner[key]
		if !ok {
			continue
		}
		for _, vv1 := range versions {
			for _, vv2 := range otherVersions {
				resultVersion := vv1.version.Join(vv2.version)
				for _, vm1 := range vv1.values {
					for _, vm2 := range vv2.values {
						out = append(out, struct {
							Pair         JoinedPair[K, V1, V2]
							Multiplicity int
						}{
							Pair:         JoinedPair[K, V1, V2]{Key: key, Value1: vm1.Value, Value2: vm2.Value, Version: resultVersion},
							Multiplicity: vm1.Multiplicity * vm2.Multiplicity,
						})
					}
				}
			}
		}
	}
	return out
}

// Compact folds every entry recorded at a version not covered by frontier
// forward onto its advance under frontier, consolidating same-version
// entries for the same key afterwards. If keys is non-empty, compaction is
// restricted to those keys; otherwise every key in the index is compacted.
//
// Compact never discards an entry outright: AdvanceBy relabels it onto a
// version that compares the same as the original against every version at
// or beyond the frontier, so a later ReconstructAt at or beyond the
// frontier still sees it.
func (idx *Index[K, V]) Compact(frontier order.Antichain, keys ...K) {
	idx.validateFrontierAdvance(frontier)

	if len(keys) == 0 {
		keys = make([]K, 0, len(idx.inner))
		for k := range idx.inner {
			keys = append(keys, k)
		}
	}

	for _, key := range keys {
		versions := idx.inner[key]
		if versions == nil {
			continue
		}
		merged := make(map[string]*versionValues[V])
		for _, vv := range versions {
			newVersion := vv.version
			if !frontier.LessEqualVersion(vv.version) {
				newVersion = vv.version.AdvanceBy(frontier)
			}
			nk := newVersion.Key()
			target := merged[nk]
			if target == nil {
				target = &versionValues[V]{version: newVersion}
				merged[nk] = target
			}
			target.values = append(target.values, vv.values...)
		}
		for _, vv := range merged {
			vv.values = consolidateValues(vv.values)
		}
		idx.inner[key] = merged
	}

	idx.compactionFrontier = &frontier
}

func (idx *Index[K, V]) validateFrontierAdvance(frontier order.Antichain) {
	if idx.compactionFrontier == nil {
		return
	}
	if !idx.compactionFrontier.LessEqual(frontier) {
		panic("trace: compaction frontier must only ever advance")
	}
}

func consolidateValues[V comparable](values []ValueMultiplicity[V]) []ValueMultiplicity[V] {
	totals := make(map[V]int, len(values))
	order := make([]V, 0, len(values))
	for _, vm := range values {
		if _, seen := totals[vm.Value]; !seen {
			order = append(order, vm.Value)
		}
		totals[vm.Value] += vm.Multiplicity
	}
	out := make([]ValueMultiplicity[V], 0, len(order))
	for _, v := range order {
		if m := totals[v]; m != 0 {
			out = append(out, ValueMultiplicity[V]{Value: v, Multiplicity: m})
		}
	}
	return out
}
