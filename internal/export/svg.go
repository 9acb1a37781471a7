package export

import (
	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/plugin"
	"github.com/vizlab/algoviz/internal/viz"
)

const (
	defaultSVGWidth  = 640
	defaultSVGHeight = 480
)

// svgExporter replays the renderer's draw calls into vector elements,
// so the output scales and keeps labels.
type svgExporter struct{}

func (svgExporter) Info() plugin.Info {
	return plugin.Info{Name: "svg", Version: exporterVersion, Kinds: draw.Kinds()}
}

func (svgExporter) Formats() []string { return []string{"svg"} }

func (svgExporter) Export(h plugin.Host, ec plugin.ExportConfig) (plugin.Blob, error) {
	w, hgt := ec.Width, ec.Height
	if w < 1 {
		w = defaultSVGWidth
	}
	if hgt < 1 {
		hgt = defaultSVGHeight
	}
	opts, spacing := optionsOf(h)
	s := newSVGSurface(w, hgt)
	if err := viz.RenderDataset(s, datasetOf(h), h.Kind(), opts, spacing); err != nil {
		return plugin.Blob{}, err
	}
	return plugin.Blob{Format: "svg", Data: s.document()}, nil
}
