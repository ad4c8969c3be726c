// Package order implements the partial-order version algebra that underlies
// the dataflow's notion of time: versions, antichains (frontiers), and the
// lattice operations (join, meet) used to label and compare changes.
package order

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a tuple of nonnegative integers ordered by the product partial
// order: u <= v iff u[i] <= v[i] for every coordinate i. All versions that
// interact (compared, joined, extended together) must share the same
// arity/dimension.
type Version struct {
	coords []int
}

// NewVersion builds a Version from the given coordinates. It panics on a
// negative coordinate: versions are nonnegative by construction, and a
// negative one is a programmer error, not a recoverable condition.
func NewVersion(coords ...int) Version {
	cs := make([]int, len(coords))
	for i, c := range coords {
		if c < 0 {
			panic(fmt.Sprintf("order: version coordinate %d is negative", c))
		}
		cs[i] = c
	}
	return Version{coords: cs}
}

// Arity returns the number of coordinates.
func (v Version) Arity() int { return len(v.coords) }

// Coord returns the i-th coordinate.
func (v Version) Coord(i int) int { return v.coords[i] }

// Key returns a string uniquely identifying this version, suitable for use
// as a Go map key (Version itself is not comparable since it wraps a
// slice).
func (v Version) Key() string {
	parts := make([]string, len(v.coords))
	for i, c := range v.coords {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ".")
}

func (v Version) String() string {
	return "Version(" + v.Key() + ")"
}

func (v Version) validate(other Version) {
	if v.Arity() != other.Arity() {
		panic(fmt.Sprintf("order: version arity mismatch: %d vs %d", v.Arity(), other.Arity()))
	}
}

// Equal reports whether u and v have identical coordinates.
func (v Version) Equal(other Version) bool {
	v.validate(other)
	for i, c := range v.coords {
		if c != other.coords[i] {
			return false
		}
	}
	return true
}

// LessEqual reports whether v <= other under the product partial order.
func (v Version) LessEqual(other Version) bool {
	v.validate(other)
	for i, c := range v.coords {
		if c > other.coords[i] {
			return false
		}
	}
	return true
}

// LessThan reports whether v <= other and v != other.
func (v Version) LessThan(other Version) bool {
	return v.LessEqual(other) && !v.Equal(other)
}

// Join returns the least version >= both v and other (componentwise max).
func (v Version) Join(other Version) Version {
	v.validate(other)
	out := make([]int, len(v.coords))
	for i, c := range v.coords {
		if other.coords[i] > c {
			out[i] = other.coords[i]
		} else {
			out[i] = c
		}
	}
	return Version{coords: out}
}

// Meet returns the greatest version <= both v and other (componentwise
// min). Used by AdvanceBy.
func (v Version) Meet(other Version) Version {
	v.validate(other)
	out := make([]int, len(v.coords))
	for i, c := range v.coords {
		if other.coords[i] < c {
			out[i] = other.coords[i]
		} else {
			out[i] = c
		}
	}
	return Version{coords: out}
}

// Extend appends a trailing zero coordinate, raising the arity by one. Used
// by iterate's ingress to enter a nested scope.
func (v Version) Extend() Version {
	out := make([]int, len(v.coords)+1)
	copy(out, v.coords)
	return Version{coords: out}
}

// Truncate drops the trailing coordinate, lowering the arity by one. Used by
// iterate's egress to leave a nested scope.
func (v Version) Truncate() Version {
	if len(v.coords) == 0 {
		panic("order: cannot truncate a version of arity 0")
	}
	out := make([]int, len(v.coords)-1)
	copy(out, v.coords[:len(v.coords)-1])
	return Version{coords: out}
}

// ApplyStep increments the trailing coordinate by step. Used by iterate's
// feedback operator to advance a version to the next inner iteration.
func (v Version) ApplyStep(step int) Version {
	if step <= 0 {
		panic("order: step must be positive")
	}
	if len(v.coords) == 0 {
		panic("order: cannot apply a step to a version of arity 0")
	}
	out := make([]int, len(v.coords))
	copy(out, v.coords)
	out[len(out)-1] += step
	return Version{coords: out}
}

// AdvanceBy returns the meet, over every element of frontier, of that
// element joined with v; with an empty frontier it returns v unchanged. The
// result is >= v, and for every version t that is >= some element of
// frontier, the result is <= t exactly when v <= t. It is not necessarily
// itself >= an element of frontier when frontier has several elements.
// This is the advancement law used by differential dataflow's indexed
// traces during compaction (see order.py's Version.advance_by): when a
// trace entry's version is not itself covered by the compaction frontier,
// relabeling it to this value keeps reconstruction at any version above
// the frontier correct while letting entries at identical advanced
// versions be merged.
func (v Version) AdvanceBy(frontier Antichain) Version {
	if len(frontier.elements) == 0 {
		return v
	}
	result := frontier.elements[0].Join(v)
	for _, e := range frontier.elements[1:] {
		result = result.Meet(e.Join(v))
	}
	return result
}
