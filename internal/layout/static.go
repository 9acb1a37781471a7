package layout

import (
	"context"
	"math"

	"github.com/vizlab/algoviz/internal/graph"
)

// gridLayout fills rows left to right in insertion order. The grid is
// as close to square as the node count allows.
type gridLayout struct{}

func (gridLayout) Name() string { return "grid" }

func (gridLayout) Apply(ctx context.Context, ds *graph.Dataset, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nodes := ds.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	cols := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	sp := cfg.spacing()
	for i, n := range nodes {
		n.Position = graph.Vec3{
			X: float64(i%cols) * sp,
			Y: float64(i/cols) * sp,
		}
	}
	return nil
}

// circleLayout spaces nodes evenly on a ring. The radius grows with the
// node count so arc gaps stay near the configured spacing.
type circleLayout struct{}

func (circleLayout) Name() string { return "circle" }

func (circleLayout) Apply(ctx context.Context, ds *graph.Dataset, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nodes := ds.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	sp := cfg.spacing()
	r := math.Max(sp, sp*float64(len(nodes))/(2*math.Pi))
	step := 2 * math.Pi / float64(len(nodes))
	for i, n := range nodes {
		a := float64(i) * step
		n.Position = graph.Vec3{X: r * math.Cos(a), Y: r * math.Sin(a)}
	}
	return nil
}

// sphereLayout distributes nodes on a Fibonacci lattice, the even
// spherical spread used by the 3-D view.
type sphereLayout struct{}

func (sphereLayout) Name() string { return "sphere" }

func (sphereLayout) Apply(ctx context.Context, ds *graph.Dataset, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	nodes := ds.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	sp := cfg.spacing()
	r := math.Max(sp, sp*math.Sqrt(float64(len(nodes)))/2)
	if len(nodes) == 1 {
		nodes[0].Position = graph.Vec3{Z: r}
		return nil
	}
	golden := math.Pi * (3 - math.Sqrt(5))
	for i, n := range nodes {
		y := 1 - 2*(float64(i)+0.5)/float64(len(nodes))
		ring := math.Sqrt(1 - y*y)
		a := float64(i) * golden
		n.Position = graph.Vec3{
			X: r * ring * math.Cos(a),
			Y: r * y,
			Z: r * ring * math.Sin(a),
		}
	}
	return nil
}
