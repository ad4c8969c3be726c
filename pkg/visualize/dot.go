package visualize

import "github.com/arrowstream/dbsp/pkg/dataflow"

// DotGenerator generates Graphviz DOT diagrams from a dataflow graph.
type DotGenerator struct{}

// Generate renders graph as a DOT diagram.
func (d *DotGenerator) Generate(graph *dataflow.Graph) string {
	return BuildDotGraph(graph.Describe()).String()
}
