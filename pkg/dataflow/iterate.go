package dataflow

import (
	"github.com/arrowstream/dbsp/pkg/collection"
	"github.com/arrowstream/dbsp/pkg/order"
)

// ingress moves a stream one scope deeper: every version it carries grows
// an extra trailing coordinate, which is the per-iteration loop counter
// Iterate's body runs at. It also immediately sends the negation of
// whatever it just sent, one iteration step later, so that a value fed
// into the loop only contributes to the body's first pass; without this,
// the body would keep re-ingesting the same initial collection on every
// iteration forever instead of seeing it once and then only seeing the
// loop's own feedback.
func ingress[T comparable](in Stream[T]) Stream[T] {
	out := newStream[T](in.g)
	e := in.connect()
	op := newUnaryOperator("ingress", e, in.g.frontier(), in.g.log)

	op.run = func() {
		for _, m := range e.drain() {
			switch m.kind {
			case dataMessage:
				c := m.payload.(*collection.Collection[T])
				entered := m.version.Extend()
				out.w.sendData(entered, c)
				out.w.sendData(entered.ApplyStep(1), c.Negate())
			case frontierMessage:
				op.setInputFrontier(0, m.frontier.Extend())
			}
		}
		op.advanceOutputFrontier(op.inputFrontiers[0], out.w)
	}

	in.g.addOperator(op)
	return out
}

// egress moves a stream one scope back out, dropping the trailing
// coordinate ingress added.
func egress[T comparable](in Stream[T]) Stream[T] {
	out := newStream[T](in.g)
	e := in.connect()
	op := newUnaryOperator("egress", e, in.g.frontier(), in.g.log)

	op.run = func() {
		for _, m := range e.drain() {
			switch m.kind {
			case dataMessage:
				c := m.payload.(*collection.Collection[T])
				out.w.sendData(m.version.Truncate(), c)
			case frontierMessage:
				op.setInputFrontier(0, m.frontier.Truncate())
			}
		}
		op.advanceOutputFrontier(op.inputFrontiers[0], out.w)
	}

	in.g.addOperator(op)
	return out
}

// feedback closes the loop: it reads the iteration body's result, advances
// every version by one iteration step, and writes it straight into
// target, the writer wired into the concat point upstream of the body.
// There is no output stream to return since this operator's only job is
// to drive that writer.
//
// feedback's frontier logic decides when the loop has reached a
// fixedpoint. A naive version would just keep incrementing the frontier's
// iteration coordinate forever, circulating frontier notifications for an
// iteration count that no data will ever arrive at again. Instead it
// tracks, per outer (non-iteration) version, how many distinct iteration
// counts it has already advanced the frontier through; once that count
// passes two, a further advance is only justified if it would actually
// unblock some version that still has data pending (tracked in
// pendingVersionsWithData). Once neither condition holds, that outer
// version's row is dropped from bookkeeping and its frontier element is
// simply omitted going forward: the loop has converged for that input.
func feedback[T comparable](in Stream[T], step int, target *writer, g *GraphBuilder) {
	e := in.connect()
	op := newUnaryOperator("feedback", e, g.frontier(), g.log)

	pendingVersionsWithData := map[string]order.Version{}
	versionsPerToplevel := map[string]map[string]order.Version{}

	op.run = func() {
		for _, m := range e.drain() {
			switch m.kind {
			case dataMessage:
				c := m.payload.(*collection.Collection[T])
				stepped := m.version.ApplyStep(step)
				target.sendData(stepped, c)
				pendingVersionsWithData[stepped.Key()] = stepped
			case frontierMessage:
				op.setInputFrontier(0, m.frontier)
			}
		}

		incremented := op.inputFrontiers[0].ApplyStep(step)
		var candidates []order.Version
		for _, elem := range incremented.Elements() {
			truncated := elem.Truncate()
			tk := truncated.Key()
			if versionsPerToplevel[tk] == nil {
				versionsPerToplevel[tk] = map[string]order.Version{}
			}
			versionsPerToplevel[tk][elem.Key()] = elem

			if len(versionsPerToplevel[tk]) <= 2 {
				candidates = append(candidates, elem)
				continue
			}

			var closed []string
			for k, pending := range pendingVersionsWithData {
				if pending.LessThan(elem) {
					closed = append(closed, k)
				}
			}
			if len(closed) > 0 {
				candidates = append(candidates, elem)
				for _, k := range closed {
					delete(pendingVersionsWithData, k)
				}
			} else {
				delete(versionsPerToplevel, tk)
			}
		}

		op.advanceOutputFrontier(order.NewAntichain(candidates...), target)
	}

	g.addOperator(op)
}

// Iterate runs body repeatedly on its own output until it stops producing
// changes, the dataflow equivalent of a fixedpoint loop. body is called
// exactly once, with a stream scoped one dimension deeper than in; what
// makes it iterate is that its own result is fed back in as additional
// input to itself, at successive iteration counts, until the body's
// output frontier shows no input arrives at a given iteration count
// twice in a row.
//
// body must be safe to call with partial, incrementally-arriving input:
// it is not called once per iteration by this package, it is wired once
// into the graph and driven by however many Step calls it takes the
// feedback loop to converge.
func Iterate[T comparable](in Stream[T], body func(Stream[T]) Stream[T]) Stream[T] {
	g := in.g
	g.pushFrontier(g.frontier().Extend())

	entering := ingress(in)
	loopInput := newStream[T](g)
	entered := Concat(entering, loopInput)

	result := body(entered)
	feedback(result, 1, loopInput.w, g)

	g.popFrontier()
	return egress(result)
}
