package dataflow

import (
	"github.com/go-logr/logr"

	"github.com/arrowstream/dbsp/pkg/order"
)

// Operator is a computation node in the dataflow graph: given pending
// input messages, it produces output messages and advances its output
// frontier monotonically with its input frontier. Everything the runtime
// schedules implements this interface; map, filter, join, reduce, and
// iterate are all built on top of it.
type Operator interface {
	// Run drains and processes whatever input is currently pending.
	Run()
	// HasPendingWork reports whether a subsequent Run would have anything
	// to do; the scheduler uses this to decide when a graph has drained.
	HasPendingWork() bool
	// Name identifies the operator for diagnostics and visualize; it is
	// the string passed to newUnaryOperator/newBinaryOperator at
	// construction and is not guaranteed unique across a graph.
	Name() string
	// Arity reports how many inputs the operator was built with.
	Arity() int
}

// baseOperator is the common bookkeeping every concrete operator embeds:
// its input edges, the frontier last reported on each of them, and the
// frontier it has itself last reported downstream. Concrete operators
// supply the run closure that interprets their inputs; baseOperator never
// interprets message payloads itself.
type baseOperator struct {
	name           string
	inputs         []*edge
	inputFrontiers []order.Antichain
	outputFrontier order.Antichain
	run            func()
	log            logr.Logger
}

func newBaseOperator(name string, inputs []*edge, initialFrontier order.Antichain, log logr.Logger) *baseOperator {
	frontiers := make([]order.Antichain, len(inputs))
	for i := range frontiers {
		frontiers[i] = initialFrontier
	}
	return &baseOperator{
		name:           name,
		inputs:         inputs,
		inputFrontiers: frontiers,
		outputFrontier: initialFrontier,
		log:            log,
	}
}

func (o *baseOperator) Run() {
	o.log.V(8).Info("running operator", "name", o.name)
	o.run()
}

func (o *baseOperator) Name() string { return o.name }

func (o *baseOperator) Arity() int { return len(o.inputs) }

func (o *baseOperator) HasPendingWork() bool {
	for _, in := range o.inputs {
		if !in.isEmpty() {
			return true
		}
	}
	return false
}

// advanceOutputFrontier reports frontier downstream on out iff it actually
// advances past what was last reported, honoring the contract that a
// frontier notification is sent at most once per advance. Reports whether
// it advanced, which stateful operators use to decide whether this is also
// a good moment to compact their traces.
func (o *baseOperator) advanceOutputFrontier(frontier order.Antichain, out *writer) bool {
	if !o.outputFrontier.LessEqual(frontier) {
		panic(&ContractViolation{Op: o.name, Msg: "output frontier would regress"})
	}
	if o.outputFrontier.LessThan(frontier) {
		o.outputFrontier = frontier
		out.sendFrontier(frontier)
		return true
	}
	return false
}

// setInputFrontier records the new frontier reported on input i, checking
// that it only ever advances.
func (o *baseOperator) setInputFrontier(i int, frontier order.Antichain) {
	if !o.inputFrontiers[i].LessEqual(frontier) {
		panic(&ContractViolation{Op: o.name, Msg: "input frontier would regress"})
	}
	o.inputFrontiers[i] = frontier
}

// meetInputFrontiers returns the meet of every input frontier, i.e. the
// frontier below which no further input can arrive on any input.
func (o *baseOperator) meetInputFrontiers() order.Antichain {
	m := o.inputFrontiers[0]
	for _, f := range o.inputFrontiers[1:] {
		m = m.Meet(f)
	}
	return m
}

// newUnaryOperator allocates a baseOperator with a single input but no run
// closure yet. Callers set op.run themselves, since the closure almost
// always needs to call back into op (to advance frontiers), which would
// be a chicken-and-egg problem if run had to be supplied to the
// constructor.
func newUnaryOperator(name string, input *edge, initialFrontier order.Antichain, log logr.Logger) *baseOperator {
	return newBaseOperator(name, []*edge{input}, initialFrontier, log)
}

func newBinaryOperator(name string, inputA, inputB *edge, initialFrontier order.Antichain, log logr.Logger) *baseOperator {
	return newBaseOperator(name, []*edge{inputA, inputB}, initialFrontier, log)
}
