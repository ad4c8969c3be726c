package dataflow

import (
	"github.com/go-logr/logr"

	"github.com/arrowstream/dbsp/pkg/collection"
	"github.com/arrowstream/dbsp/pkg/order"
)

// Stream[T] is a handle to one edge of the dataflow graph as it is being
// built, carrying Collection[T] deltas once the graph runs. Streams are
// produced by NewInput and by every operator constructor in
// this package; they carry no data themselves until the graph they belong
// to is stepped.
type Stream[T comparable] struct {
	g *GraphBuilder
	w *writer
}

func newStream[T comparable](g *GraphBuilder) Stream[T] {
	return Stream[T]{g: g, w: newWriter()}
}

// connect attaches a fresh edge to the stream's writer and registers it
// with the graph, returning the edge for an operator to read from. A
// Stream may be connected any number of times, which is how one stream
// fans out to several consumers.
func (s Stream[T]) connect() *edge {
	e := s.w.newEdge()
	s.g.registerEdge(e)
	return e
}

// InputHandle writes Collection[T] batches and frontier advances onto a
// graph input created with NewInput.
type InputHandle[T comparable] struct {
	w *writer
}

// SendData pushes a collection of changes at version onto the input.
func (h InputHandle[T]) SendData(version order.Version, c *collection.Collection[T]) {
	h.w.sendData(version, c)
}

// SendFrontier notifies every downstream operator that this input will
// send no further data at a version not covered by frontier.
func (h InputHandle[T]) SendFrontier(frontier order.Antichain) {
	h.w.sendFrontier(frontier)
}

// GraphBuilder accumulates operators and edges while a computation is
// being described; Finalize freezes it into a runnable Graph. The
// frontier stack tracks the ambient scope an operator is being built in,
// pushed by Iterate before it builds ingress and the body and popped
// before it builds egress, so every operator
// built inside an iterate body starts with the right initial frontier
// without the caller having to thread it through explicitly.
type GraphBuilder struct {
	operators     []Operator
	edges         []*edge
	frontierStack []order.Antichain
	log           logr.Logger
}

// NewGraphBuilder starts a builder whose outermost scope begins at
// initialFrontier. A nil logger logs nothing.
func NewGraphBuilder(initialFrontier order.Antichain, log logr.Logger) *GraphBuilder {
	return &GraphBuilder{frontierStack: []order.Antichain{initialFrontier}, log: log}
}

// NewInput creates a graph input: a Stream that downstream operators can
// be chained off of, and the InputHandle used to drive it from outside the
// graph.
func NewInput[T comparable](g *GraphBuilder) (Stream[T], InputHandle[T]) {
	s := newStream[T](g)
	return s, InputHandle[T]{w: s.w}
}

func (g *GraphBuilder) addOperator(op Operator) { g.operators = append(g.operators, op) }

func (g *GraphBuilder) registerEdge(e *edge) { g.edges = append(g.edges, e) }

// frontier returns the frontier new operators in the current scope should
// be initialized with.
func (g *GraphBuilder) frontier() order.Antichain {
	return g.frontierStack[len(g.frontierStack)-1]
}

func (g *GraphBuilder) pushFrontier(f order.Antichain) { g.frontierStack = append(g.frontierStack, f) }

func (g *GraphBuilder) popFrontier() { g.frontierStack = g.frontierStack[:len(g.frontierStack)-1] }

// Finalize freezes the builder into a runnable Graph. The builder must not
// be used again afterwards.
func (g *GraphBuilder) Finalize() *Graph {
	return &Graph{operators: g.operators, log: g.log}
}

// Graph is a fixed, runnable dataflow: a set of operators wired together
// by edges. Step drives every operator once; callers push new input
// between calls to Step and call it repeatedly until HasPendingWork
// reports false.
type Graph struct {
	operators []Operator
	log       logr.Logger
}

// Step runs every operator in the graph exactly once, in the order they
// were added. This is a fairness choice, not a topological one: an
// operator several hops downstream of a burst of input may need several
// Step calls to see it drained, which is why callers loop on
// HasPendingWork rather than assuming one Step suffices.
func (g *Graph) Step() {
	for _, op := range g.operators {
		op.Run()
	}
}

// HasPendingWork reports whether any operator in the graph still has
// input queued that a further Step would process.
func (g *Graph) HasPendingWork() bool {
	for _, op := range g.operators {
		if op.HasPendingWork() {
			return true
		}
	}
	return false
}

// Drain calls Step until no operator reports pending work, as a
// convenience for callers that just want a graph to reach quiescence
// after pushing input, rather than stepping by hand and inspecting
// HasPendingWork themselves.
func (g *Graph) Drain() {
	for g.HasPendingWork() {
		g.Step()
	}
}

// NodeInfo describes one operator in a Graph for visualize's benefit.
type NodeInfo struct {
	// Index is the operator's position in build order, used as a stable
	// node identifier since operator names repeat (every Map is named
	// "map").
	Index int
	Name  string
	Arity int
}

// Description is a Graph reduced to what visualize needs to render it: the
// operators in the order they were built. The runtime does not track which
// edge connects which pair of operators, so a rendering is a list of nodes
// annotated with their arity rather than a precise wiring diagram.
type Description struct {
	Nodes []NodeInfo
}

// Describe reports the operators a Graph was built from, for diagnostics
// and visualization. It is read-only and safe to call at any point in the
// graph's lifetime.
func (g *Graph) Describe() Description {
	nodes := make([]NodeInfo, len(g.operators))
	for i, op := range g.operators {
		nodes[i] = NodeInfo{Index: i, Name: op.Name(), Arity: op.Arity()}
	}
	return Description{Nodes: nodes}
}
