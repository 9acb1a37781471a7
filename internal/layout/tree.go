package layout

import (
	"context"

	"github.com/vizlab/algoviz/internal/graph"
)

// TreePositions computes a tidy layout for the dataset's parent/child
// structure. Leaves take sequential x slots left to right, every parent
// sits centered over its children, and depth sets y. Forests lay out
// one root after another. Nodes outside any tree land on a trailing row
// of their own.
func TreePositions(ds *graph.Dataset, spacing float64) map[string]graph.Vec3 {
	if spacing <= 0 {
		spacing = 8
	}
	pos := make(map[string]graph.Vec3, ds.NodeCount())
	var nextX float64

	var place func(id string, depth int) float64
	place = func(id string, depth int) float64 {
		if p, done := pos[id]; done {
			return p.X
		}
		// Reserve the slot first so a parent cycle cannot recurse
		// forever.
		pos[id] = graph.Vec3{}
		kids := ds.ChildrenOf(id)
		var x float64
		if len(kids) == 0 {
			x = nextX
			nextX += spacing
		} else {
			first := place(kids[0], depth+1)
			last := first
			for _, k := range kids[1:] {
				last = place(k, depth+1)
			}
			x = (first + last) / 2
		}
		pos[id] = graph.Vec3{X: x, Y: float64(depth) * spacing}
		return x
	}

	for _, root := range ds.Roots() {
		place(root, 0)
	}
	for _, n := range ds.Nodes() {
		if _, ok := pos[n.ID]; !ok {
			pos[n.ID] = graph.Vec3{X: nextX}
			nextX += spacing
		}
	}
	return pos
}

// treeLayout writes the tidy tree positions back into the dataset.
type treeLayout struct{}

func (treeLayout) Name() string { return "tree" }

func (treeLayout) Apply(ctx context.Context, ds *graph.Dataset, cfg Config) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pos := TreePositions(ds, cfg.spacing())
	for _, n := range ds.Nodes() {
		n.Position = pos[n.ID]
	}
	return nil
}
