// Package dataflow implements the incremental dataflow runtime: a graph of
// operators connected by edges, each edge carrying versioned collection
// deltas and frontier notifications, driven by a single-threaded
// cooperative scheduler.
//
// Callers build a graph with a GraphBuilder, describing the computation in
// terms of Stream values the way one chains methods on a slice; the
// builder wires up the concrete operators and edges underneath. Once
// built, a Graph's Step method drains every operator's pending input once;
// callers push new data and frontier advances onto input streams between
// steps and call Step again until fully caught up.
package dataflow
