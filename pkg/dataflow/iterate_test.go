package dataflow_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/arrowstream/dbsp/pkg/collection"
	"github.com/arrowstream/dbsp/pkg/dataflow"
	"github.com/arrowstream/dbsp/pkg/order"
)

// geometricSeries computes, within one iteration of the loop, the set
// reachable from the current collection by doubling and re-including
// itself, bounded to stay at or below 100. Iterating this to a fixedpoint
// starting from {1} yields the powers of two up to 64.
func geometricSeries(x dataflow.Stream[int]) dataflow.Stream[int] {
	doubled := dataflow.Map(x, func(v int) int { return v + v })
	unioned := dataflow.Concat(doubled, x)
	bounded := dataflow.Filter(unioned, func(v int) bool { return v <= 100 })
	keyed := dataflow.Map(bounded, func(v int) collection.Pair[int, struct{}] {
		return collection.Pair[int, struct{}]{Key: v}
	})
	distinct := dataflow.Distinct(keyed)
	back := dataflow.Map(distinct, func(p collection.Pair[int, struct{}]) int { return p.Key })
	return dataflow.Consolidate(back)
}

var _ = Describe("Iterate", func() {
	It("reaches the fixedpoint of a bounded doubling closure", func() {
		g := dataflow.NewGraphBuilder(order.NewAntichain(order.NewVersion(0)), nullLogger())
		in, writer := dataflow.NewInput[int](g)
		result := dataflow.Iterate(in, geometricSeries)
		sink := dataflow.NewSink(result)
		graph := g.Finalize()

		writer.SendData(order.NewVersion(0), collection.New(collection.Entry[int]{Record: 1, Multiplicity: 1}))
		writer.SendFrontier(order.NewAntichain(order.NewVersion(1)))

		for i := 0; i < 1000; i++ {
			graph.Step()
		}

		total := sink.Collect()
		for _, v := range []int{1, 2, 4, 8, 16, 32, 64} {
			Expect(total.Multiplicity(v)).To(Equal(1), "expected %d with multiplicity 1", v)
		}
		Expect(total.Multiplicity(128)).To(Equal(0))
		for _, e := range total.Entries() {
			Expect(e.Multiplicity).To(Equal(1))
			Expect(e.Record).To(BeNumerically("<=", 100))
		}
	})
})
