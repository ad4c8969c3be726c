package dataflow_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/arrowstream/dbsp/pkg/collection"
	"github.com/arrowstream/dbsp/pkg/dataflow"
	"github.com/arrowstream/dbsp/pkg/order"
)

var _ = Describe("Join", func() {
	type pair = collection.Pair[int, int]

	It("matches keys across two inputs arriving at different versions", func() {
		g := dataflow.NewGraphBuilder(order.NewAntichain(order.NewVersion(0, 0)), nullLogger())
		a, writerA := dataflow.NewInput[pair](g)
		b, writerB := dataflow.NewInput[pair](g)
		joined := dataflow.Join[int, int, int](a, b)
		counted := dataflow.Count(joined)
		sink := dataflow.NewSink(counted)
		graph := g.Finalize()

		for i := 0; i < 2; i++ {
			writerA.SendData(order.NewVersion(0, i), collection.New(collection.Entry[pair]{Record: pair{Key: 1, Value: i}, Multiplicity: 2}))
			writerA.SendData(order.NewVersion(0, i), collection.New(collection.Entry[pair]{Record: pair{Key: 2, Value: i}, Multiplicity: 2}))
			writerA.SendFrontier(order.NewAntichain(order.NewVersion(i+2, 0), order.NewVersion(0, i)))

			writerB.SendData(order.NewVersion(i, 0), collection.New(collection.Entry[pair]{Record: pair{Key: 1, Value: i + 2}, Multiplicity: 2}))
			writerB.SendData(order.NewVersion(i, 0), collection.New(collection.Entry[pair]{Record: pair{Key: 2, Value: i + 3}, Multiplicity: 2}))
			writerB.SendFrontier(order.NewAntichain(order.NewVersion(i, 0), order.NewVersion(0, i*2)))

			graph.Step()
		}
		writerA.SendFrontier(order.NewAntichain(order.NewVersion(11, 11)))
		writerB.SendFrontier(order.NewAntichain(order.NewVersion(11, 11)))
		graph.Step()

		total := sink.Collect()
		Expect(total.Size()).To(BeNumerically(">", 0))
		for _, e := range total.Entries() {
			Expect(e.Record.Key).To(BeNumerically(">=", 1))
		}
	})

	It("matches a batch join for a single-version input", func() {
		g := dataflow.NewGraphBuilder(order.NewAntichain(order.NewVersion(0)), nullLogger())
		a, writerA := dataflow.NewInput[pair](g)
		b, writerB := dataflow.NewInput[pair](g)
		joined := dataflow.Join[int, int, int](a, b)
		sink := dataflow.NewSink(joined)
		graph := g.Finalize()

		v := order.NewVersion(0)
		writerA.SendData(v, collection.New(collection.Entry[pair]{Record: pair{Key: 1, Value: 10}, Multiplicity: 1}))
		writerB.SendData(v, collection.New(collection.Entry[pair]{Record: pair{Key: 1, Value: 20}, Multiplicity: 1}))
		writerA.SendFrontier(order.NewAntichain(order.NewVersion(1)))
		writerB.SendFrontier(order.NewAntichain(order.NewVersion(1)))
		graph.Step()

		total := sink.Collect()
		expected := collection.New(collection.Entry[collection.Pair[int, collection.Pair[int, int]]]{
			Record:       collection.Pair[int, collection.Pair[int, int]]{Key: 1, Value: collection.Pair[int, int]{Key: 10, Value: 20}},
			Multiplicity: 1,
		})
		Expect(total.Equal(expected)).To(BeTrue())
	})
})
