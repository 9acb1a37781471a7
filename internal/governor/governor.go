// Package governor decides how much detail each element gets in a render
// pass. The policy is pure: identical inputs always classify identically,
// and small datasets are exempt so correctness-sensitive views never lose
// elements.
package governor

import "github.com/cockroachdb/errors"

// Detail grades how much of an element the renderer draws.
type Detail uint8

const (
	// Full draws the element with label, style and weight annotations.
	Full Detail = iota
	// Reduced drops labels and annotations.
	Reduced
	// Minimal draws the bare shape only.
	Minimal
	// Culled excludes the element from the pass entirely; it stays in the
	// data model.
	Culled
)

var detailNames = [...]string{
	Full:    "full",
	Reduced: "reduced",
	Minimal: "minimal",
	Culled:  "culled",
}

func (d Detail) String() string {
	if int(d) < len(detailNames) {
		return detailNames[d]
	}
	return "unknown"
}

// Options tunes when the policy starts shedding detail.
type Options struct {
	Virtualization bool       `yaml:"enableVirtualization"`
	Threshold      int        `yaml:"virtualizationThreshold"`
	LOD            bool       `yaml:"enableLOD"`
	LODDistances   [3]float64 `yaml:"lodDistances"`
	Culling        bool       `yaml:"enableCulling"`
	CullDistance   float64    `yaml:"cullingDistance"`
}

// DefaultOptions matches the construction-time defaults.
func DefaultOptions() Options {
	return Options{
		Virtualization: true,
		Threshold:      1000,
		LOD:            true,
		LODDistances:   [3]float64{10, 25, 50},
		Culling:        true,
		CullDistance:   100,
	}
}

func (o Options) Validate() error {
	if o.Threshold < 0 {
		return errors.Newf("algoviz/governor: negative virtualization threshold %d", o.Threshold)
	}
	if !(o.LODDistances[0] <= o.LODDistances[1] && o.LODDistances[1] <= o.LODDistances[2]) {
		return errors.Newf("algoviz/governor: lodDistances %v must ascend", o.LODDistances)
	}
	if o.CullDistance < 0 {
		return errors.Newf("algoviz/governor: negative culling distance %g", o.CullDistance)
	}
	return nil
}

// Governor applies one Options set to every frame of one visualizer.
type Governor struct {
	opts Options
}

func New(opts Options) *Governor {
	return &Governor{opts: opts}
}

// Classify grades one element by dataset size and camera distance.
// Datasets below the virtualization threshold render Full at any
// distance.
func (g *Governor) Classify(n int, distance float64) Detail {
	if !g.opts.Virtualization || n < g.opts.Threshold {
		return Full
	}
	if g.opts.Culling && distance > g.opts.CullDistance {
		return Culled
	}
	if !g.opts.LOD {
		return Full
	}
	switch {
	case distance <= g.opts.LODDistances[0]:
		return Full
	case distance <= g.opts.LODDistances[1]:
		return Reduced
	default:
		return Minimal
	}
}

// Budget caps how many elements one frame may draw.
func (g *Governor) Budget(n int) int {
	if !g.opts.Virtualization || n < g.opts.Threshold {
		return n
	}
	return g.opts.Threshold
}

// Plan tallies one render pass for the metrics surface.
type Plan struct {
	Total   int
	Full    int
	Reduced int
	Minimal int
	Culled  int
}

func (p *Plan) Add(d Detail) {
	p.Total++
	switch d {
	case Full:
		p.Full++
	case Reduced:
		p.Reduced++
	case Minimal:
		p.Minimal++
	case Culled:
		p.Culled++
	}
}

// Rendered reports how many classified elements the pass actually draws.
func (p Plan) Rendered() int { return p.Total - p.Culled }
