package export

import (
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/plugin"
	"github.com/vizlab/algoviz/internal/step"
)

type nodeJSON struct {
	ID    string      `json:"id"`
	Label string      `json:"label,omitempty"`
	Value float64     `json:"value,omitempty"`
	X     float64     `json:"x,omitempty"`
	Y     float64     `json:"y,omitempty"`
	Z     float64     `json:"z,omitempty"`
	State graph.State `json:"state"`
}

type edgeJSON struct {
	ID       string      `json:"id"`
	Source   string      `json:"source"`
	Target   string      `json:"target"`
	Weight   float64     `json:"weight"`
	Directed bool        `json:"directed,omitempty"`
	State    graph.State `json:"state"`
}

type documentJSON struct {
	Visualizer string      `json:"visualizer"`
	Kind       draw.Kind   `json:"kind"`
	Nodes      []nodeJSON  `json:"nodes"`
	Edges      []edgeJSON  `json:"edges"`
	Steps      []step.Step `json:"steps,omitempty"`
}

func nodesJSON(ds *graph.Dataset) []nodeJSON {
	out := make([]nodeJSON, 0, ds.NodeCount())
	for _, n := range ds.Nodes() {
		out = append(out, nodeJSON{
			ID:    n.ID,
			Label: n.Label,
			Value: n.Value,
			X:     n.Position.X,
			Y:     n.Position.Y,
			Z:     n.Position.Z,
			State: n.State,
		})
	}
	return out
}

func edgesJSON(ds *graph.Dataset) []edgeJSON {
	out := make([]edgeJSON, 0, ds.EdgeCount())
	for _, e := range ds.Edges() {
		out = append(out, edgeJSON{
			ID:       e.ID,
			Source:   e.Source,
			Target:   e.Target,
			Weight:   e.Weight,
			Directed: e.Directed,
			State:    e.State,
		})
	}
	return out
}

func datasetFromJSON(nodes []nodeJSON, edges []edgeJSON) (*graph.Dataset, error) {
	ds := graph.New()
	for _, n := range nodes {
		node := &graph.Node{
			ID:       n.ID,
			Label:    n.Label,
			Value:    n.Value,
			Position: graph.Vec3{X: n.X, Y: n.Y, Z: n.Z},
			State:    n.State,
		}
		if err := ds.AddNode(node); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		edge := &graph.Edge{
			ID:       e.ID,
			Source:   e.Source,
			Target:   e.Target,
			Weight:   e.Weight,
			Directed: e.Directed,
			State:    e.State,
		}
		if err := ds.AddEdge(edge); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// jsonExporter emits the dataset, and the trace when one is armed, as
// an indented JSON document.
type jsonExporter struct{}

func (jsonExporter) Info() plugin.Info {
	return plugin.Info{Name: "json", Version: exporterVersion, Kinds: draw.Kinds()}
}

func (jsonExporter) Formats() []string { return []string{"json"} }

func (jsonExporter) Export(h plugin.Host, _ plugin.ExportConfig) (plugin.Blob, error) {
	ds := datasetOf(h)
	doc := documentJSON{
		Visualizer: h.ID(),
		Kind:       h.Kind(),
		Nodes:      nodesJSON(ds),
		Edges:      edgesJSON(ds),
	}
	if tc, found := h.(traceCarrier); found {
		doc.Steps = tc.Steps()
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return plugin.Blob{}, errors.Wrap(err, "algoviz/export: encode json")
	}
	return plugin.Blob{Format: "json", Data: data}, nil
}
