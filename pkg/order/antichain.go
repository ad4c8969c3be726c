package order

import "strings"

// Antichain is a finite set of pairwise-incomparable versions, interpreted
// as a frontier: the set of versions v such that some element of the
// antichain is <= v. The zero value is the empty antichain, which denotes
// the "all versions closed" terminal frontier.
type Antichain struct {
	elements []Version
}

// NewAntichain builds an antichain from the given versions, dropping any
// element that is dominated by another (insert-with-minimization).
func NewAntichain(versions ...Version) Antichain {
	a := Antichain{}
	for _, v := range versions {
		a.insert(v)
	}
	return a
}

func (a *Antichain) insert(v Version) {
	for _, e := range a.elements {
		if e.LessEqual(v) {
			// v is dominated by an existing, more general element.
			return
		}
	}
	kept := a.elements[:0:0]
	for _, e := range a.elements {
		if !v.LessEqual(e) {
			kept = append(kept, e)
		}
	}
	a.elements = append(kept, v)
}

// Elements returns the antichain's minimal elements. The caller must not
// mutate the returned slice.
func (a Antichain) Elements() []Version { return a.elements }

// IsEmpty reports whether this is the terminal "all versions closed"
// frontier.
func (a Antichain) IsEmpty() bool { return len(a.elements) == 0 }

// String renders the antichain's elements for logging and panic messages.
func (a Antichain) String() string {
	parts := make([]string, len(a.elements))
	for i, e := range a.elements {
		parts[i] = e.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// LessEqualVersion reports whether some element of a is <= v, i.e. whether
// v lies within the frontier a represents.
func (a Antichain) LessEqualVersion(v Version) bool {
	for _, e := range a.elements {
		if e.LessEqual(v) {
			return true
		}
	}
	return false
}

// LessEqual reports whether a's frontier contains b's frontier: every
// element of b is >= some element of a.
func (a Antichain) LessEqual(b Antichain) bool {
	for _, be := range b.elements {
		if !a.LessEqualVersion(be) {
			return false
		}
	}
	return true
}

// Equal reports whether a and b contain the same minimal elements.
func (a Antichain) Equal(b Antichain) bool {
	if len(a.elements) != len(b.elements) {
		return false
	}
	return a.LessEqual(b) && b.LessEqual(a)
}

// LessThan reports whether a's frontier strictly contains b's, i.e. a <= b
// and a != b.
func (a Antichain) LessThan(b Antichain) bool {
	return a.LessEqual(b) && !a.Equal(b)
}

// Meet forms the union of a and b and minimizes it, yielding the antichain
// whose frontier is the union of a's and b's frontiers. Used by concat and
// join to combine two input frontiers.
func (a Antichain) Meet(b Antichain) Antichain {
	out := Antichain{}
	for _, e := range a.elements {
		out.insert(e)
	}
	for _, e := range b.elements {
		out.insert(e)
	}
	return out
}

// Extend maps Extend pointwise over the antichain's elements and
// re-minimizes.
func (a Antichain) Extend() Antichain {
	out := Antichain{}
	for _, e := range a.elements {
		out.insert(e.Extend())
	}
	return out
}

// Truncate maps Truncate pointwise over the antichain's elements and
// re-minimizes.
func (a Antichain) Truncate() Antichain {
	out := Antichain{}
	for _, e := range a.elements {
		out.insert(e.Truncate())
	}
	return out
}

// ApplyStep maps ApplyStep pointwise over the antichain's elements and
// re-minimizes.
func (a Antichain) ApplyStep(step int) Antichain {
	out := Antichain{}
	for _, e := range a.elements {
		out.insert(e.ApplyStep(step))
	}
	return out
}
