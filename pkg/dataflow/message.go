package dataflow

import "github.com/arrowstream/dbsp/pkg/order"

// messageKind distinguishes the two things that travel along an edge: a
// batch of collection changes at a version, or a notification that an
// input frontier has advanced.
type messageKind int

const (
	dataMessage messageKind = iota
	frontierMessage
)

// message is the type-erased unit an edge carries. payload holds a
// *collection.Collection[T] for dataMessage and is unused for
// frontierMessage; every operator that reads it knows T from the Stream it
// was built against and asserts accordingly.
type message struct {
	kind     messageKind
	version  order.Version
	frontier order.Antichain
	payload  any
}

// edge is the FIFO queue between one writer and one reader, modeled after
// a single-producer single-consumer channel that is drained in bulk rather
// than read one message at a time. An edge belongs to exactly one writer
// but a writer may fan out to many edges (one per consumer of a Stream).
type edge struct {
	queue []message
}

func (e *edge) push(m message) { e.queue = append(e.queue, m) }

// drain returns every message queued since the last drain, in the order
// they were sent, and empties the queue.
func (e *edge) drain() []message {
	out := e.queue
	e.queue = nil
	return out
}

func (e *edge) isEmpty() bool { return len(e.queue) == 0 }

// writer fans a stream's messages out to every edge connected to it. A
// fresh writer has no readers; readers attach by calling newEdge, which is
// how Stream.connect works for every operator that consumes a stream.
type writer struct {
	edges []*edge
}

func newWriter() *writer { return &writer{} }

func (w *writer) newEdge() *edge {
	e := &edge{}
	w.edges = append(w.edges, e)
	return e
}

func (w *writer) sendData(version order.Version, payload any) {
	for _, e := range w.edges {
		e.push(message{kind: dataMessage, version: version, payload: payload})
	}
}

func (w *writer) sendFrontier(frontier order.Antichain) {
	for _, e := range w.edges {
		e.push(message{kind: frontierMessage, frontier: frontier})
	}
}
