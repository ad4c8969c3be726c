package dataflow

import (
	"github.com/arrowstream/dbsp/pkg/collection"
	"github.com/arrowstream/dbsp/pkg/order"
)

// Batch is one data message a Sink has captured: the version it arrived
// at and the collection of changes sent at that version.
type Batch[T comparable] struct {
	Version order.Version
	Data    *collection.Collection[T]
}

// Sink is a terminal operator that accumulates every batch a stream
// produces and records the latest frontier it reported, for a caller to
// inspect once the graph has
// drained. It is the same shape as Debug, minus the logging: callers
// driving a graph programmatically (tests, or a host embedding this
// package rather than talking to it over a wire) attach a Sink wherever
// they need to read results back out.
type Sink[T comparable] struct {
	op       *baseOperator
	Batches  []Batch[T]
	Frontier order.Antichain
}

// NewSink attaches a Sink to in.
func NewSink[T comparable](in Stream[T]) *Sink[T] {
	e := in.connect()
	s := &Sink[T]{}
	op := newUnaryOperator("sink", e, in.g.frontier(), in.g.log)
	s.op = op
	s.Frontier = in.g.frontier()

	op.run = func() {
		for _, m := range e.drain() {
			switch m.kind {
			case dataMessage:
				c := m.payload.(*collection.Collection[T])
				s.Batches = append(s.Batches, Batch[T]{Version: m.version, Data: c})
			case frontierMessage:
				op.setInputFrontier(0, m.frontier)
				s.Frontier = m.frontier
			}
		}
	}

	in.g.addOperator(op)
	return s
}

// Collect sums every batch's collection, regardless of version, into a
// single Collection -- the total effect of everything the stream has
// produced so far. Useful once a graph has drained and a test or caller
// just wants the net result.
func (s *Sink[T]) Collect() *collection.Collection[T] {
	out := collection.Empty[T]()
	for _, b := range s.Batches {
		out = out.Concat(b.Data)
	}
	return out
}
