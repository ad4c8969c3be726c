package dataflow_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/arrowstream/dbsp/pkg/collection"
	"github.com/arrowstream/dbsp/pkg/dataflow"
	"github.com/arrowstream/dbsp/pkg/order"
)

var _ = Describe("Reduce family", func() {
	type pair = collection.Pair[string, int]

	It("counts incrementally as records arrive across versions", func() {
		g := dataflow.NewGraphBuilder(order.NewAntichain(order.NewVersion(0)), nullLogger())
		in, writer := dataflow.NewInput[pair](g)
		counted := dataflow.Count(in)
		sink := dataflow.NewSink(counted)
		graph := g.Finalize()

		writer.SendData(order.NewVersion(0), collection.New(collection.Entry[pair]{Record: pair{Key: "a", Value: 1}, Multiplicity: 1}))
		writer.SendFrontier(order.NewAntichain(order.NewVersion(1)))
		graph.Step()

		writer.SendData(order.NewVersion(1), collection.New(collection.Entry[pair]{Record: pair{Key: "a", Value: 2}, Multiplicity: 1}))
		writer.SendFrontier(order.NewAntichain(order.NewVersion(2)))
		graph.Step()

		total := sink.Collect()
		Expect(total.Multiplicity(collection.Pair[string, int]{Key: "a", Value: 2})).To(Equal(1))
	})

	It("keeps distinct values unique per key and retracts removed ones", func() {
		g := dataflow.NewGraphBuilder(order.NewAntichain(order.NewVersion(0)), nullLogger())
		in, writer := dataflow.NewInput[pair](g)
		distinct := dataflow.Distinct(in)
		sink := dataflow.NewSink(distinct)
		graph := g.Finalize()

		writer.SendData(order.NewVersion(0), collection.New(
			collection.Entry[pair]{Record: pair{Key: "a", Value: 1}, Multiplicity: 1},
			collection.Entry[pair]{Record: pair{Key: "a", Value: 1}, Multiplicity: 1},
		))
		writer.SendFrontier(order.NewAntichain(order.NewVersion(1)))
		graph.Step()

		total := sink.Collect()
		Expect(total.Multiplicity(collection.Pair[string, int]{Key: "a", Value: 1})).To(Equal(1))

		writer.SendData(order.NewVersion(1), collection.New(collection.Entry[pair]{Record: pair{Key: "a", Value: 1}, Multiplicity: -2}))
		writer.SendFrontier(order.NewAntichain(order.NewVersion(2)))
		graph.Step()

		finalTotal := sink.Collect()
		Expect(finalTotal.Multiplicity(collection.Pair[string, int]{Key: "a", Value: 1})).To(Equal(0))
	})

	It("sums weighted values incrementally", func() {
		g := dataflow.NewGraphBuilder(order.NewAntichain(order.NewVersion(0)), nullLogger())
		in, writer := dataflow.NewInput[pair](g)
		summed := dataflow.Sum(in)
		sink := dataflow.NewSink(summed)
		graph := g.Finalize()

		writer.SendData(order.NewVersion(0), collection.New(
			collection.Entry[pair]{Record: pair{Key: "a", Value: 3}, Multiplicity: 2},
			collection.Entry[pair]{Record: pair{Key: "a", Value: 1}, Multiplicity: 1},
		))
		writer.SendFrontier(order.NewAntichain(order.NewVersion(1)))
		graph.Step()

		Expect(sink.Collect().Multiplicity(collection.Pair[string, int]{Key: "a", Value: 7})).To(Equal(1))
	})
})
