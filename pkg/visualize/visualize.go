// Package visualize renders a dataflow graph as a diagram, for inspecting
// the operator pipeline a computation was built into.
package visualize

import (
	"fmt"
	"strings"

	"github.com/emicklei/dot"

	"github.com/arrowstream/dbsp/pkg/dataflow"
	"github.com/arrowstream/dbsp/pkg/util"
)

// BuildDotGraph renders a graph description as a dot.Graph. Nodes are laid
// out in build order and connected to their immediate predecessor(s) by
// arity: a unary operator's node is drawn downstream of the node built just
// before it, a binary operator's downstream of the two preceding it. A
// Graph does not retain which edge feeds which operator, so this is an
// approximation rather than the exact wiring, but it renders a faithful
// left-to-right picture of any pipeline built the way this package's
// constructors build one, where each operator consumes the stream(s)
// produced immediately before it.
func BuildDotGraph(desc dataflow.Description) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "LR")
	graph.Attr("fontsize", "16")

	nodes := make([]dot.Node, len(desc.Nodes))
	for _, n := range desc.Nodes {
		node := graph.Node(fmt.Sprintf("op%d", n.Index)).
			Attr("label", fmt.Sprintf("#%d %s", n.Index, n.Name)).
			Attr("shape", "box").
			Attr("style", "filled,rounded").
			Attr("fillcolor", "lightblue").
			Attr("color", "darkblue").
			Attr("fontname", "helvetica")
		nodes[n.Index] = node

		switch n.Arity {
		case 1:
			if n.Index > 0 {
				graph.Edge(nodes[n.Index-1], node)
			}
		case 2:
			if n.Index > 1 {
				graph.Edge(nodes[n.Index-2], node)
				graph.Edge(nodes[n.Index-1], node)
			}
		}
	}

	return graph
}

// Summarize renders a one-line-per-operator plaintext listing, for logging
// a graph's shape without generating a full diagram.
func Summarize(desc dataflow.Description) string {
	lines := util.Map(func(n dataflow.NodeInfo) string {
		return fmt.Sprintf("#%d %s (arity %d)", n.Index, n.Name, n.Arity)
	}, desc.Nodes)
	return strings.Join(lines, "\n")
}
