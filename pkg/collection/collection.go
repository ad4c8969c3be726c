// Package collection implements Collection, the in-memory multiset over
// records with signed multiplicities that every dataflow operator ultimately
// produces and consumes. A Collection is a value type: every transformation
// returns a new Collection rather than mutating its receiver, so a producer
// handing a Collection to a consumer never has to worry about the consumer
// observing a later mutation.
package collection

// Entry pairs a record with the multiplicity it carries in a Collection.
type Entry[T comparable] struct {
	Record       T
	Multiplicity int
}

// Collection is a multiset over records of type T: an unordered mapping
// from record to nonzero multiplicity. Two collections are equal iff they
// yield the same multiplicity for every record (see Equal). The zero value
// is the empty collection.
type Collection[T comparable] struct {
	counts map[T]int
}

// New builds a Collection from a sequence of entries, summing multiplicities
// for repeated records and dropping any that net to zero.
func New[T comparable](entries ...Entry[T]) *Collection[T] {
	c := &Collection[T]{counts: make(map[T]int, len(entries))}
	for _, e := range entries {
		c.add(e.Record, e.Multiplicity)
	}
	return c
}

// Empty returns a new, empty Collection.
func Empty[T comparable]() *Collection[T] { return New[T]() }

func (c *Collection[T]) ensure() {
	if c.counts == nil {
		c.counts = make(map[T]int)
	}
}

func (c *Collection[T]) add(r T, mult int) {
	c.ensure()
	if mult == 0 {
		return
	}
	c.counts[r] += mult
	if c.counts[r] == 0 {
		delete(c.counts, r)
	}
}

// Entries returns every (record, multiplicity) pair in the collection, in
// no particular order.
func (c *Collection[T]) Entries() []Entry[T] {
	out := make([]Entry[T], 0, len(c.counts))
	for r, m := range c.counts {
		out = append(out, Entry[T]{Record: r, Multiplicity: m})
	}
	return out
}

// Multiplicity returns the multiplicity of r in c (zero if absent).
func (c *Collection[T]) Multiplicity(r T) int {
	if c.counts == nil {
		return 0
	}
	return c.counts[r]
}

// IsZero reports whether the collection has no records with nonzero
// multiplicity.
func (c *Collection[T]) IsZero() bool { return len(c.counts) == 0 }

// Size returns the number of distinct records with nonzero multiplicity.
func (c *Collection[T]) Size() int { return len(c.counts) }

// Concat performs pointwise addition: the multiset union of c and other.
// Linear operators commute with Concat (f(A+B) = f(A)+f(B)), which is the
// property that makes incremental processing sound.
func (c *Collection[T]) Concat(other *Collection[T]) *Collection[T] {
	out := New[T]()
	for r, m := range c.counts {
		out.add(r, m)
	}
	if other != nil {
		for r, m := range other.counts {
			out.add(r, m)
		}
	}
	return out
}

// Negate returns the pointwise negation of c: every multiplicity flips
// sign.
func (c *Collection[T]) Negate() *Collection[T] {
	out := New[T]()
	for r, m := range c.counts {
		out.add(r, -m)
	}
	return out
}

// Equal reports whether c and other yield the same multiplicity for every
// record.
func (c *Collection[T]) Equal(other *Collection[T]) bool {
	if c.Size() != other.Size() {
		return false
	}
	for r, m := range c.counts {
		if other.Multiplicity(r) != m {
			return false
		}
	}
	return true
}

// Map applies f to every record, producing a new Collection over the
// (possibly different) element type U. Map is linear: it commutes with
// Concat.
func Map[T, U comparable](c *Collection[T], f func(T) U) *Collection[U] {
	out := New[U]()
	for r, m := range c.counts {
		out.add(f(r), m)
	}
	return out
}

// Filter keeps only the records for which p returns true. Filter is
// linear.
func Filter[T comparable](c *Collection[T], p func(T) bool) *Collection[T] {
	out := New[T]()
	for r, m := range c.counts {
		if p(r) {
			out.add(r, m)
		}
	}
	return out
}
