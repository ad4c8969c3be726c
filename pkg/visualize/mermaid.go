package visualize

import (
	"fmt"

	"github.com/emicklei/dot"

	"github.com/arrowstream/dbsp/pkg/dataflow"
)

// MermaidGenerator generates Mermaid flowchart diagrams from a dataflow
// graph.
type MermaidGenerator struct{}

// Generate renders graph as a Mermaid flowchart, wrapped in a markdown
// code block.
func (m *MermaidGenerator) Generate(graph *dataflow.Graph) string {
	dotGraph := BuildDotGraph(graph.Describe())
	mermaid := dot.MermaidFlowchart(dotGraph, dot.MermaidLeftToRight)
	return fmt.Sprintf("```mermaid\n%s\n```\n", mermaid)
}
