package dag

import (
	"fmt"
	"strings"

	"github.com/vk/monoplan/internal/action"
)

// fillColors gives each node kind a distinct fill in DOT output.
var fillColors = map[action.Kind]string{
	action.KindSetupToolchain:      "gray",
	action.KindInstallDependencies: "palegreen",
	action.KindSyncProject:         "lightskyblue",
	action.KindRunTask:             "gold",
}

// ToDOT renders the graph in Graphviz DOT format. Nodes are emitted in
// index order and edges in insertion order, so the output is stable.
func (g *Graph) ToDOT() string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var sb strings.Builder
	sb.WriteString("digraph {\n")
	for i, n := range g.nodes {
		fmt.Fprintf(&sb, "    %d [ label=%s style=filled, shape=oval, fillcolor=%s ]\n",
			i, dotQuote(n.Label()), fillColors[n.Kind()])
	}
	for _, e := range g.edges {
		fmt.Fprintf(&sb, "    %d -> %d [ arrowhead=box, arrowtail=box ]\n", e.From, e.To)
	}
	sb.WriteString("}\n")
	return sb.String()
}

func dotQuote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}
