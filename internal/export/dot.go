package export

import (
	"fmt"
	"strings"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/plugin"
	"github.com/vizlab/algoviz/internal/viz"
)

// dotExporter writes the dataset as a Graphviz document. A single
// directed edge promotes the whole graph to digraph; undirected edges
// inside one are marked dir=none.
type dotExporter struct{}

func (dotExporter) Info() plugin.Info {
	return plugin.Info{Name: "dot", Version: exporterVersion, Kinds: draw.Kinds()}
}

func (dotExporter) Formats() []string { return []string{"dot", "gv"} }

func (dotExporter) Export(h plugin.Host, _ plugin.ExportConfig) (plugin.Blob, error) {
	ds := datasetOf(h)
	directed := false
	for _, e := range ds.Edges() {
		if e.Directed {
			directed = true
			break
		}
	}

	var b strings.Builder
	keyword, arrow := "graph", " -- "
	if directed {
		keyword, arrow = "digraph", " -> "
	}
	fmt.Fprintf(&b, "%s %q {\n", keyword, h.ID())
	b.WriteString("  node [shape=circle];\n")
	for _, n := range ds.Nodes() {
		label := n.Label
		if label == "" {
			label = n.ID
		}
		fmt.Fprintf(&b, "  %q [label=%q, color=%q];\n",
			n.ID, label, viz.ElementColor(n.Style, n.State).Hex())
	}
	for _, e := range ds.Edges() {
		attrs := []string{fmt.Sprintf("color=%q", viz.ElementColor(e.Style, e.State).Hex())}
		if e.Weight != 1 {
			attrs = append(attrs, fmt.Sprintf("label=%q", trimFloat(e.Weight)))
		}
		if directed && !e.Directed {
			attrs = append(attrs, "dir=none")
		}
		fmt.Fprintf(&b, "  %q%s%q [%s];\n", e.Source, arrow, e.Target, strings.Join(attrs, ", "))
	}
	b.WriteString("}\n")
	return plugin.Blob{Format: "dot", Data: []byte(b.String())}, nil
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
