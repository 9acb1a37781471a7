package layout

import (
	"context"
	"math"
	"math/rand"

	"github.com/vizlab/algoviz/internal/graph"
)

// forceLayout runs Fruchterman-Reingold relaxation in the plane. Nodes
// repel each other, edges pull their endpoints together, and a cooling
// cap shrinks the per-iteration displacement until the layout settles.
//
// Positions are rewritten only at iteration boundaries, and the context
// is checked between iterations, so cancellation always leaves the
// positions of some fully completed iteration.
type forceLayout struct{}

func (forceLayout) Name() string { return "force" }

func (forceLayout) Apply(ctx context.Context, ds *graph.Dataset, cfg Config) error {
	nodes := ds.Nodes()
	if len(nodes) == 0 {
		return ctx.Err()
	}

	k := cfg.spacing()
	side := k * math.Sqrt(float64(len(nodes)))
	rng := rand.New(rand.NewSource(cfg.Seed))
	for _, n := range nodes {
		n.Position = graph.Vec3{
			X: (rng.Float64() - 0.5) * side,
			Y: (rng.Float64() - 0.5) * side,
		}
	}

	at := make(map[string]int, len(nodes))
	for i, n := range nodes {
		at[n.ID] = i
	}
	edges := ds.Edges()
	disp := make([]graph.Vec3, len(nodes))

	iters := cfg.iterations()
	for it := 0; it < iters; it++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		for i := range disp {
			disp[i] = graph.Vec3{}
		}

		// Pairwise repulsion.
		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				delta := nodes[i].Position.Sub(nodes[j].Position)
				d := delta.Length()
				if d < 0.01 {
					d = 0.01
					delta = graph.Vec3{X: 0.01}
				}
				push := delta.Scale(k * k / (d * d))
				disp[i] = disp[i].Add(push)
				disp[j] = disp[j].Sub(push)
			}
		}

		// Edge attraction.
		for _, e := range edges {
			si, ti := at[e.Source], at[e.Target]
			delta := nodes[si].Position.Sub(nodes[ti].Position)
			d := delta.Length()
			if d < 0.01 {
				continue
			}
			pull := delta.Scale(d / k)
			disp[si] = disp[si].Sub(pull)
			disp[ti] = disp[ti].Add(pull)
		}

		// Commit the iteration, displacement capped by the cooling
		// temperature.
		t := side / 10 * (1 - float64(it)/float64(iters))
		for i, n := range nodes {
			d := disp[i].Length()
			if d > t {
				disp[i] = disp[i].Scale(t / d)
			}
			n.Position = n.Position.Add(disp[i])
		}
	}
	return nil
}
