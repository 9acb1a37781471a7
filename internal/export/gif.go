package export

import (
	"bytes"
	"context"
	"image"
	"image/gif"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/plugin"
	"github.com/vizlab/algoviz/internal/step"
	"github.com/vizlab/algoviz/internal/trace"
	"github.com/vizlab/algoviz/internal/viz"
)

const (
	defaultGIFWidth  = 320
	defaultGIFHeight = 240

	// Long traces are sampled down to this many frames; the final state
	// is always among them.
	maxGIFFrames = 200
)

// gifExporter replays the recorded trace against the baseline dataset
// and rasterizes one frame per kept step. Without a trace it emits a
// single frame of the current dataset.
type gifExporter struct{}

func (gifExporter) Info() plugin.Info {
	return plugin.Info{Name: "gif", Version: exporterVersion, Kinds: draw.Kinds()}
}

func (gifExporter) Formats() []string { return []string{"gif"} }

func (gifExporter) Export(h plugin.Host, ec plugin.ExportConfig) (plugin.Blob, error) {
	w, hgt := ec.Width, ec.Height
	if w < 1 {
		w = defaultGIFWidth
	}
	if hgt < 1 {
		hgt = defaultGIFHeight
	}
	delay := 10
	if ec.Delay > 0 {
		delay = int(ec.Delay / (10 * time.Millisecond))
		if delay < 1 {
			delay = 1
		}
	}
	opts, spacing := optionsOf(h)

	var steps []step.Step
	base := datasetOf(h)
	if tc, ok := h.(traceCarrier); ok {
		steps = tc.Steps()
		if len(steps) > 0 {
			bl, err := tc.Baseline()
			if err != nil {
				return plugin.Blob{}, errors.Wrap(err, "algoviz/export: rebuild baseline")
			}
			base = bl
		}
	}

	capture := func(out *gif.GIF, ds *graph.Dataset) error {
		img := image.NewPaletted(image.Rect(0, 0, w, hgt), exportPalette)
		s := newImageSurface(img)
		if err := viz.RenderDataset(s, ds, h.Kind(), opts, spacing); err != nil {
			return err
		}
		out.Image = append(out.Image, img)
		out.Delay = append(out.Delay, delay)
		return nil
	}

	out := &gif.GIF{}
	if err := capture(out, base); err != nil {
		return plugin.Blob{}, err
	}

	if len(steps) > 0 {
		stride := 1
		if len(steps) > maxGIFFrames-1 {
			stride = (len(steps) + maxGIFFrames - 2) / (maxGIFFrames - 1)
		}
		eng, err := trace.NewFromSteps(base, steps)
		if err != nil {
			return plugin.Blob{}, err
		}
		ctx := context.Background()
		for applied := 1; applied <= len(steps); applied++ {
			res := eng.StepForward(ctx)
			if res.Status != trace.Advanced {
				err := res.Err
				if err == nil {
					err = errors.Newf("status %v", res.Status)
				}
				return plugin.Blob{}, errors.Wrapf(err, "algoviz/export: replay stopped at step %d", applied-1)
			}
			if applied%stride != 0 && applied != len(steps) {
				continue
			}
			if err := capture(out, eng.Dataset()); err != nil {
				return plugin.Blob{}, err
			}
		}
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, out); err != nil {
		return plugin.Blob{}, errors.Wrap(err, "algoviz/export: encode gif")
	}
	return plugin.Blob{Format: "gif", Data: buf.Bytes()}, nil
}
