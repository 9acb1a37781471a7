package viz

import (
	"math"
	"sort"
	"strconv"

	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/governor"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/layout"
)

// stateColor is the palette elements fall back to when their style does
// not pin a color.
var stateColor = map[graph.State]draw.Color{
	graph.StateDefault:     draw.Gray,
	graph.StateVisited:     draw.Blue,
	graph.StateFrontier:    draw.Cyan,
	graph.StateCurrent:     draw.Yellow,
	graph.StateSorted:      draw.Green,
	graph.StateHighlighted: draw.Orange,
	graph.StatePivot:       draw.Magenta,
	graph.StateError:       draw.Red,
}

func colorFor(st draw.Style, state graph.State) draw.Color {
	if st.Color != (draw.Color{}) {
		return st.Color
	}
	if c, ok := stateColor[state]; ok {
		return c
	}
	return draw.Gray
}

// hitTarget names the element under a pointer position. Exactly one of
// the ids is set.
type hitTarget struct {
	NodeID string
	EdgeID string
}

type hitRegion struct {
	x0, y0, x1, y1 int
	target         hitTarget
}

// hitIndex records the screen rectangles elements were drawn into.
// Lookups prefer the most recently added region, which is the element
// painted on top.
type hitIndex struct {
	regions []hitRegion
}

func (h *hitIndex) addNode(id string, x, y, r int) {
	if r < 1 {
		r = 1
	}
	h.regions = append(h.regions, hitRegion{x - r, y - r, x + r, y + r, hitTarget{NodeID: id}})
}

func (h *hitIndex) addEdge(id string, x, y int) {
	h.regions = append(h.regions, hitRegion{x - 1, y - 1, x + 1, y + 1, hitTarget{EdgeID: id}})
}

func (h *hitIndex) at(x, y int) (hitTarget, bool) {
	for i := len(h.regions) - 1; i >= 0; i-- {
		r := h.regions[i]
		if x >= r.x0 && x <= r.x1 && y >= r.y0 && y <= r.y1 {
			return r.target, true
		}
	}
	return hitTarget{}, false
}

// frame carries the inputs and outputs of one render pass. Renderers
// fill plan and hits as they draw.
type frame struct {
	surface draw.Surface
	ds      *graph.Dataset
	gov     *governor.Governor
	cam     *camera
	spacing float64
	hits    *hitIndex
	plan    governor.Plan
}

// renderer turns one dataset shape into draw calls.
type renderer interface {
	kind() draw.Kind
	render(f *frame) error
}

func rendererFor(k draw.Kind) renderer {
	switch k {
	case draw.KindSequence:
		return sequenceRenderer{}
	case draw.KindGraph2D:
		return graph2DRenderer{}
	case draw.KindTree:
		return treeRenderer{}
	case draw.KindGraph3D:
		return graph3DRenderer{}
	}
	return nil
}

func nodeRadius(n *graph.Node, d governor.Detail) int {
	if d == governor.Minimal {
		return 0
	}
	if n.Style.Size > 0 {
		return int(n.Style.Size)
	}
	return 2
}

func valueLabel(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}

// sequenceRenderer draws node values as a bar chart in insertion order.
// Oversized datasets are stride-sampled down to the governor budget so
// the chart stays within one frame's draw allowance.
type sequenceRenderer struct{}

func (sequenceRenderer) kind() draw.Kind { return draw.KindSequence }

func (sequenceRenderer) render(f *frame) error {
	nodes := f.ds.Nodes()
	n := len(nodes)
	if n == 0 {
		return nil
	}
	budget := f.gov.Budget(n)
	stride := 1
	if budget < n {
		stride = (n + budget - 1) / budget
	}
	sampled := make([]*graph.Node, 0, budget)
	for i := 0; i < n; i += stride {
		sampled = append(sampled, nodes[i])
	}

	maxVal := 0.0
	for _, nd := range sampled {
		if v := math.Abs(nd.Value); v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	sw, sh := f.surface.Size()
	const baseMargin = 4
	chartH := sh - 2*baseMargin
	if chartH < 1 {
		chartH = 1
	}
	slot := float64(sw) / float64(len(sampled))
	barW := int(slot) - 1
	if barW < 1 {
		barW = 1
	}
	detail := governor.Full
	if stride > 1 {
		detail = governor.Reduced
	}
	for i, nd := range sampled {
		h := int(math.Abs(nd.Value) / maxVal * float64(chartH))
		if h < 1 {
			h = 1
		}
		x := int(float64(i) * slot)
		y := sh - baseMargin - h
		f.surface.FillRect(x, y, barW, h, colorFor(nd.Style, nd.State))
		f.hits.addNode(nd.ID, x+barW/2, y+h/2, (barW+h)/4+1)
		if detail == governor.Full && barW >= 3 {
			f.surface.Text(x, sh-baseMargin+1, valueLabel(nd.Value), draw.White)
		}
	}
	f.plan.Total = n
	f.plan.Culled = n - len(sampled)
	if detail == governor.Full {
		f.plan.Full = len(sampled)
	} else {
		f.plan.Reduced = len(sampled)
	}
	return nil
}

// bounds is the world-space box a 2-D projection fits to the surface.
type bounds struct {
	minX, minY, maxX, maxY float64
}

func boundsOf(positions map[string]graph.Vec3) bounds {
	b := bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, p := range positions {
		b.minX = math.Min(b.minX, p.X)
		b.minY = math.Min(b.minY, p.Y)
		b.maxX = math.Max(b.maxX, p.X)
		b.maxY = math.Max(b.maxY, p.Y)
	}
	return b
}

// fit maps a world point into surface pixels with a uniform scale and a
// fixed margin. Degenerate boxes collapse to the surface center.
func (b bounds) fit(p graph.Vec3, sw, sh int) (int, int) {
	const margin = 6
	w, h := b.maxX-b.minX, b.maxY-b.minY
	scale := math.Inf(1)
	if w > 0 {
		scale = float64(sw-2*margin) / w
	}
	if h > 0 {
		scale = math.Min(scale, float64(sh-2*margin)/h)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}
	cx, cy := (b.minX+b.maxX)/2, (b.minY+b.maxY)/2
	x := int((p.X-cx)*scale) + sw/2
	y := int((p.Y-cy)*scale) + sh/2
	return x, y
}

func centroid(nodes []*graph.Node) graph.Vec3 {
	var c graph.Vec3
	if len(nodes) == 0 {
		return c
	}
	for _, n := range nodes {
		c = c.Add(n.Position)
	}
	return c.Scale(1 / float64(len(nodes)))
}

// drawFlat renders nodes at the given world positions with a bounds-fit
// projection. Detail grades use the data-space distance from the
// dataset centroid, so the same dataset always sheds the same elements.
func drawFlat(f *frame, positions map[string]graph.Vec3) error {
	nodes := f.ds.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	b := boundsOf(positions)
	sw, sh := f.surface.Size()
	center := centroid(nodes)
	n := len(nodes)

	for _, e := range f.ds.Edges() {
		sp, ok1 := positions[e.Source]
		tp, ok2 := positions[e.Target]
		if !ok1 || !ok2 {
			continue
		}
		mid := sp.Add(tp).Scale(0.5)
		d := f.gov.Classify(n, mid.Sub(center).Length())
		f.plan.Add(d)
		if d == governor.Culled {
			continue
		}
		x0, y0 := b.fit(sp, sw, sh)
		x1, y1 := b.fit(tp, sw, sh)
		f.surface.Line(x0, y0, x1, y1, colorFor(e.Style, e.State))
		f.hits.addEdge(e.ID, (x0+x1)/2, (y0+y1)/2)
		if d == governor.Full && e.Weight != 0 && e.Weight != 1 {
			f.surface.Text((x0+x1)/2, (y0+y1)/2, valueLabel(e.Weight), draw.White)
		}
	}

	for _, nd := range nodes {
		p, ok := positions[nd.ID]
		if !ok {
			continue
		}
		d := f.gov.Classify(n, p.Sub(center).Length())
		f.plan.Add(d)
		if d == governor.Culled {
			continue
		}
		x, y := b.fit(p, sw, sh)
		r := nodeRadius(nd, d)
		f.surface.Circle(x, y, r, colorFor(nd.Style, nd.State))
		f.hits.addNode(nd.ID, x, y, r)
		if d == governor.Full {
			f.surface.Text(x+r+1, y, nd.Label, draw.White)
		}
	}
	return nil
}

// graph2DRenderer projects stored node positions onto the surface.
type graph2DRenderer struct{}

func (graph2DRenderer) kind() draw.Kind { return draw.KindGraph2D }

func (graph2DRenderer) render(f *frame) error {
	nodes := f.ds.Nodes()
	positions := make(map[string]graph.Vec3, len(nodes))
	for _, n := range nodes {
		positions[n.ID] = n.Position
	}
	return drawFlat(f, positions)
}

// treeRenderer ignores stored positions and derives a tidy hierarchy
// from the edge topology on every pass, so rotations reshape the
// picture without a layout step.
type treeRenderer struct{}

func (treeRenderer) kind() draw.Kind { return draw.KindTree }

func (treeRenderer) render(f *frame) error {
	sp := f.spacing
	if sp <= 0 {
		sp = layout.DefaultConfig().Spacing
	}
	return drawFlat(f, layout.TreePositions(f.ds, sp))
}

// graph3DRenderer projects through the camera and paints back to front.
type graph3DRenderer struct{}

func (graph3DRenderer) kind() draw.Kind { return draw.KindGraph3D }

type paintOp struct {
	depth float64
	paint func()
}

func (graph3DRenderer) render(f *frame) error {
	nodes := f.ds.Nodes()
	n := len(nodes)
	sw, sh := f.surface.Size()
	ops := make([]paintOp, 0, n+f.ds.EdgeCount())

	type projected struct {
		x, y    int
		depth   float64
		visible bool
	}
	proj := make(map[string]projected, n)
	for _, nd := range nodes {
		x, y, depth, vis := f.cam.project(nd.Position, sw, sh)
		proj[nd.ID] = projected{x, y, depth, vis}
	}

	for _, e := range f.ds.Edges() {
		sp, ok1 := proj[e.Source]
		tp, ok2 := proj[e.Target]
		if !ok1 || !ok2 || (!sp.visible && !tp.visible) {
			f.plan.Add(governor.Culled)
			continue
		}
		d := f.gov.Classify(n, f.cam.distance(edgeMidpoint(f.ds, e)))
		f.plan.Add(d)
		if d == governor.Culled {
			continue
		}
		ops = append(ops, paintOp{(sp.depth + tp.depth) / 2, func() {
			f.surface.Line(sp.x, sp.y, tp.x, tp.y, colorFor(e.Style, e.State))
			f.hits.addEdge(e.ID, (sp.x+tp.x)/2, (sp.y+tp.y)/2)
		}})
	}

	for _, nd := range nodes {
		p := proj[nd.ID]
		if !p.visible {
			f.plan.Add(governor.Culled)
			continue
		}
		d := f.gov.Classify(n, f.cam.distance(nd.Position))
		f.plan.Add(d)
		if d == governor.Culled {
			continue
		}
		r := nodeRadius(nd, d)
		full := d == governor.Full
		ops = append(ops, paintOp{p.depth, func() {
			f.surface.Circle(p.x, p.y, r, colorFor(nd.Style, nd.State))
			f.hits.addNode(nd.ID, p.x, p.y, r)
			if full {
				f.surface.Text(p.x+r+1, p.y, nd.Label, draw.White)
			}
		}})
	}

	sort.SliceStable(ops, func(i, j int) bool { return ops[i].depth < ops[j].depth })
	for _, op := range ops {
		op.paint()
	}
	return nil
}

func edgeMidpoint(ds *graph.Dataset, e *graph.Edge) graph.Vec3 {
	s, ok1 := ds.Node(e.Source)
	t, ok2 := ds.Node(e.Target)
	if !ok1 || !ok2 {
		return graph.Vec3{}
	}
	return s.Position.Add(t.Position).Scale(0.5)
}
