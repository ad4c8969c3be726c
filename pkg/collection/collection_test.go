package collection_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/arrowstream/dbsp/pkg/collection"
)

var _ = Describe("Collection", func() {
	It("sums multiplicities for repeated records and drops zero nets", func() {
		c := collection.New(
			collection.Entry[string]{Record: "a", Multiplicity: 2},
			collection.Entry[string]{Record: "a", Multiplicity: -2},
			collection.Entry[string]{Record: "b", Multiplicity: 3},
		)
		Expect(c.Size()).To(Equal(1))
		Expect(c.Multiplicity("a")).To(Equal(0))
		Expect(c.Multiplicity("b")).To(Equal(3))
	})

	It("concats pointwise", func() {
		a := collection.New(collection.Entry[string]{Record: "x", Multiplicity: 1})
		b := collection.New(collection.Entry[string]{Record: "x", Multiplicity: 1}, collection.Entry[string]{Record: "y", Multiplicity: 2})
		sum := a.Concat(b)
		Expect(sum.Multiplicity("x")).To(Equal(2))
		Expect(sum.Multiplicity("y")).To(Equal(2))
	})

	It("negates every multiplicity", func() {
		a := collection.New(collection.Entry[string]{Record: "x", Multiplicity: 1})
		Expect(a.Negate().Multiplicity("x")).To(Equal(-1))
	})

	It("is equal when every record carries the same multiplicity", func() {
		a := collection.New(collection.Entry[int]{Record: 1, Multiplicity: 2})
		b := collection.New(collection.Entry[int]{Record: 1, Multiplicity: 2})
		Expect(a.Equal(b)).To(BeTrue())
		Expect(a.Equal(collection.Empty[int]())).To(BeFalse())
	})

	It("maps linearly: Map(A)+Map(B) = Map(A+B)", func() {
		a := collection.New(collection.Entry[int]{Record: 1, Multiplicity: 1})
		b := collection.New(collection.Entry[int]{Record: 2, Multiplicity: 1})
		double := func(x int) int { return x * 2 }
		lhs := collection.Map(a, double).Concat(collection.Map(b, double))
		rhs := collection.Map(a.Concat(b), double)
		Expect(lhs.Equal(rhs)).To(BeTrue())
	})

	It("filters out records failing the predicate", func() {
		c := collection.New(
			collection.Entry[int]{Record: 1, Multiplicity: 1},
			collection.Entry[int]{Record: 2, Multiplicity: 1},
			collection.Entry[int]{Record: 3, Multiplicity: 1},
		)
		even := collection.Filter(c, func(x int) bool { return x%2 == 0 })
		Expect(even.Size()).To(Equal(1))
		Expect(even.Multiplicity(2)).To(Equal(1))
	})
})

var _ = Describe("Join and reduce", func() {
	type order = collection.Pair[string, int]

	It("joins matching keys with multiplied multiplicities", func() {
		a := collection.New(
			collection.Entry[order]{Record: order{Key: "alice", Value: 1}, Multiplicity: 2},
		)
		b := collection.New(
			collection.Entry[order]{Record: order{Key: "alice", Value: 9}, Multiplicity: 3},
		)
		joined := collection.Join(a, b)
		Expect(joined.Size()).To(Equal(1))
		for _, e := range joined.Entries() {
			Expect(e.Record.Key).To(Equal("alice"))
			Expect(e.Record.Value).To(Equal(collection.Pair[int, int]{Key: 1, Value: 9}))
			Expect(e.Multiplicity).To(Equal(6))
		}
	})

	It("counts net multiplicity per key", func() {
		c := collection.New(
			collection.Entry[order]{Record: order{Key: "a", Value: 1}, Multiplicity: 1},
			collection.Entry[order]{Record: order{Key: "a", Value: 2}, Multiplicity: 1},
			collection.Entry[order]{Record: order{Key: "b", Value: 1}, Multiplicity: 1},
		)
		counted := collection.Count(c)
		Expect(counted.Multiplicity(collection.Pair[string, int]{Key: "a", Value: 2})).To(Equal(1))
		Expect(counted.Multiplicity(collection.Pair[string, int]{Key: "b", Value: 1})).To(Equal(1))
	})

	It("sums weighted values per key", func() {
		c := collection.New(
			collection.Entry[order]{Record: order{Key: "a", Value: 3}, Multiplicity: 2},
			collection.Entry[order]{Record: order{Key: "a", Value: 1}, Multiplicity: 1},
		)
		summed := collection.Sum(c)
		Expect(summed.Multiplicity(collection.Pair[string, int]{Key: "a", Value: 7})).To(Equal(1))
	})

	It("keeps only distinct values with positive multiplicity per key", func() {
		c := collection.New(
			collection.Entry[order]{Record: order{Key: "a", Value: 1}, Multiplicity: 2},
			collection.Entry[order]{Record: order{Key: "a", Value: 1}, Multiplicity: -1},
			collection.Entry[order]{Record: order{Key: "a", Value: 2}, Multiplicity: 1},
		)
		d := collection.Distinct(c)
		Expect(d.Multiplicity(collection.Pair[string, int]{Key: "a", Value: 1})).To(Equal(1))
		Expect(d.Multiplicity(collection.Pair[string, int]{Key: "a", Value: 2})).To(Equal(1))
	})

	It("finds the min and max per key", func() {
		c := collection.New(
			collection.Entry[order]{Record: order{Key: "a", Value: 5}, Multiplicity: 1},
			collection.Entry[order]{Record: order{Key: "a", Value: 1}, Multiplicity: 1},
			collection.Entry[order]{Record: order{Key: "a", Value: 9}, Multiplicity: 1},
		)
		less := func(a, b int) bool { return a < b }
		Expect(collection.Min(c, less).Multiplicity(collection.Pair[string, int]{Key: "a", Value: 1})).To(Equal(1))
		Expect(collection.Max(c, less).Multiplicity(collection.Pair[string, int]{Key: "a", Value: 9})).To(Equal(1))
	})
})

var _ = Describe("JSONRecord", func() {
	It("canonicalizes regardless of field order", func() {
		r1, err := collection.NewJSONRecord(collection.Document{"a": 1.0, "b": 2.0})
		Expect(err).NotTo(HaveOccurred())
		r2, err := collection.NewJSONRecord(collection.Document{"b": 2.0, "a": 1.0})
		Expect(err).NotTo(HaveOccurred())
		Expect(r1).To(Equal(r2))
	})

	It("round-trips through Document", func() {
		r, err := collection.NewJSONRecord(collection.Document{"name": "alice"})
		Expect(err).NotTo(HaveOccurred())
		doc, err := r.Document()
		Expect(err).NotTo(HaveOccurred())
		Expect(doc["name"]).To(Equal("alice"))
	})

	It("projects a field by JSONPath and keys records by it", func() {
		byName, err := collection.ByField("$.name")
		Expect(err).NotTo(HaveOccurred())

		r1, _ := collection.NewJSONRecord(collection.Document{"name": "alice", "age": 30.0})
		r2, _ := collection.NewJSONRecord(collection.Document{"name": "bob", "age": 25.0})
		c := collection.New(
			collection.Entry[collection.JSONRecord]{Record: r1, Multiplicity: 1},
			collection.Entry[collection.JSONRecord]{Record: r2, Multiplicity: 1},
		)
		keyed, err := collection.KeyedBy(c, byName)
		Expect(err).NotTo(HaveOccurred())
		Expect(keyed.Size()).To(Equal(2))
	})
})
