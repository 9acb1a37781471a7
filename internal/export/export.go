// Package export renders visualizer state into portable artifacts: JSON
// and DOT descriptions, SVG vector frames, animated GIF replays, and a
// checksummed binary trace format for later replay. Every exporter is a
// plugin; Register defines them all in a registry and instances install
// the ones they need.
package export

import (
	"github.com/vizlab/algoviz/internal/governor"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/layout"
	"github.com/vizlab/algoviz/internal/plugin"
	"github.com/vizlab/algoviz/internal/step"
)

const exporterVersion = "1.0.0"

// Register defines every built-in exporter in reg.
func Register(reg *plugin.Registry) error {
	for _, p := range []plugin.Plugin{
		jsonExporter{},
		dotExporter{},
		svgExporter{},
		gifExporter{},
		traceExporter{},
	} {
		if err := reg.Define(p); err != nil {
			return err
		}
	}
	return nil
}

// Hosts may implement views richer than plugin.Host. Exporters assert
// for them and fall back to the narrow contract when absent.

type snapshotter interface {
	Snapshot() *graph.Dataset
}

type traceCarrier interface {
	Steps() []step.Step
	Baseline() (*graph.Dataset, error)
}

type tuned interface {
	Options() (governor.Options, float64)
}

func datasetOf(h plugin.Host) *graph.Dataset {
	if s, found := h.(snapshotter); found {
		return s.Snapshot()
	}
	return h.Dataset().Clone()
}

func optionsOf(h plugin.Host) (governor.Options, float64) {
	if t, found := h.(tuned); found {
		return t.Options()
	}
	return governor.DefaultOptions(), layout.DefaultConfig().Spacing
}
