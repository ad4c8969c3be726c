package dataflow

import (
	"github.com/arrowstream/dbsp/pkg/collection"
	"github.com/arrowstream/dbsp/pkg/util"
)

// linearUnary wires up an operator that applies transform to every
// incoming collection independently, with no state carried between
// batches. Map, Filter, and Negate are all instances of this shape. Only
// linear transforms are safe to build this way: the runtime relies on
// being able to feed in delta-sized collections instead of whole
// recomputed ones, and that is only sound when transform(A)+transform(B)
// equals transform(A+B).
func linearUnary[T, U comparable](name string, in Stream[T], transform func(*collection.Collection[T]) *collection.Collection[U]) Stream[U] {
	out := newStream[U](in.g)
	e := in.connect()
	op := newUnaryOperator(name, e, in.g.frontier(), in.g.log)

	op.run = func() {
		for _, m := range e.drain() {
			switch m.kind {
			case dataMessage:
				c := m.payload.(*collection.Collection[T])
				out.w.sendData(m.version, transform(c))
			case frontierMessage:
				op.setInputFrontier(0, m.frontier)
			}
		}
		op.advanceOutputFrontier(op.inputFrontiers[0], out.w)
	}

	in.g.addOperator(op)
	return out
}

// Map applies f to every record of in, producing a new stream of U.
func Map[T, U comparable](in Stream[T], f func(T) U) Stream[U] {
	return linearUnary("map", in, func(c *collection.Collection[T]) *collection.Collection[U] {
		return collection.Map(c, f)
	})
}

// Filter keeps only the records of in for which p returns true.
func Filter[T comparable](in Stream[T], p func(T) bool) Stream[T] {
	return linearUnary("filter", in, func(c *collection.Collection[T]) *collection.Collection[T] {
		return collection.Filter(c, p)
	})
}

// Negate flips the sign of every record's multiplicity. Negating a stream
// and concatenating it with another is how this package expresses
// "subtract". Iterate's ingress operator negates its input collections
// the same way (via Collection.Negate) to cancel the loop input one
// iteration after it enters.
func Negate[T comparable](in Stream[T]) Stream[T] {
	return linearUnary("negate", in, func(c *collection.Collection[T]) *collection.Collection[T] {
		return c.Negate()
	})
}

// Concat merges a and b's records into a single stream, pointwise.
func Concat[T comparable](a, b Stream[T]) Stream[T] {
	if a.g != b.g {
		panic(&StructuralError{Msg: "concat: streams belong to different graphs"})
	}
	out := newStream[T](a.g)
	ea := a.connect()
	eb := b.connect()
	op := newBinaryOperator("concat", ea, eb, a.g.frontier(), a.g.log)

	op.run = func() {
		for _, m := range ea.drain() {
			switch m.kind {
			case dataMessage:
				out.w.sendData(m.version, m.payload)
			case frontierMessage:
				op.setInputFrontier(0, m.frontier)
			}
		}
		for _, m := range eb.drain() {
			switch m.kind {
			case dataMessage:
				out.w.sendData(m.version, m.payload)
			case frontierMessage:
				op.setInputFrontier(1, m.frontier)
			}
		}
		op.advanceOutputFrontier(op.meetInputFrontiers(), out.w)
	}

	a.g.addOperator(op)
	return out
}

// Debug taps a stream, logging every data batch and frontier advance it
// sees under name, and passes everything through unchanged.
func Debug[T comparable](name string, in Stream[T]) Stream[T] {
	out := newStream[T](in.g)
	e := in.connect()
	op := newUnaryOperator("debug:"+name, e, in.g.frontier(), in.g.log)

	op.run = func() {
		for _, m := range e.drain() {
			switch m.kind {
			case dataMessage:
				c := m.payload.(*collection.Collection[T])
				op.log.V(2).Info("debug data", "name", name, "version", m.version.String(), "size", c.Size(), "entries", util.Stringify(c.Entries()))
				out.w.sendData(m.version, c)
			case frontierMessage:
				op.setInputFrontier(0, m.frontier)
				op.log.V(2).Info("debug frontier", "name", name, "frontier", m.frontier.String())
			}
		}
		op.advanceOutputFrontier(op.inputFrontiers[0], out.w)
	}

	in.g.addOperator(op)
	return out
}
