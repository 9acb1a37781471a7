package viz

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vizlab/algoviz/internal/algo"
	"github.com/vizlab/algoviz/internal/config"
	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/governor"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/layout"
	"github.com/vizlab/algoviz/internal/plugin"
	"github.com/vizlab/algoviz/internal/step"
)

// fakeSurface records draw calls for assertions.
type fakeSurface struct {
	w, h    int
	calls   []string
	circles [][3]int
	clears  int
	flushes int
}

func newFakeSurface(w, h int) *fakeSurface { return &fakeSurface{w: w, h: h} }

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }

func (s *fakeSurface) Clear() {
	s.clears++
	s.calls = append(s.calls, "clear")
}

func (s *fakeSurface) Pixel(x, y int, _ draw.Color) {
	s.calls = append(s.calls, "pixel")
}

func (s *fakeSurface) Line(x0, y0, x1, y1 int, _ draw.Color) {
	s.calls = append(s.calls, "line")
}

func (s *fakeSurface) Circle(cx, cy, r int, _ draw.Color) {
	s.circles = append(s.circles, [3]int{cx, cy, r})
	s.calls = append(s.calls, "circle")
}

func (s *fakeSurface) FillRect(x, y, w, h int, _ draw.Color) {
	s.calls = append(s.calls, "rect")
}

func (s *fakeSurface) Text(x, y int, str string, _ draw.Color) {
	s.calls = append(s.calls, "text:"+str)
}

func (s *fakeSurface) Flush() error {
	s.flushes++
	return nil
}

func (s *fakeSurface) Resize(w, h int) { s.w, s.h = w, h }

func (s *fakeSurface) count(kind string) int {
	n := 0
	for _, c := range s.calls {
		if c == kind {
			n++
		}
	}
	return n
}

func newTestViz(t *testing.T, preset string) (*Visualizer, *fakeSurface) {
	t.Helper()
	cfg, found := config.GetPreset(preset)
	if !found {
		t.Fatalf("preset %q missing", preset)
	}
	return vizFor(t, cfg)
}

func vizFor(t *testing.T, cfg *config.Config) (*Visualizer, *fakeSurface) {
	t.Helper()
	v, err := New(cfg, WithPlugins(plugin.New()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = v.Close() })
	s := newFakeSurface(160, 96)
	if err := v.Initialize(s); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return v, s
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Algorithm = "ghost"
	if _, err := New(cfg); !errors.Is(err, algo.ErrUnknownAlgorithm) {
		t.Fatalf("err = %v, want unknown algorithm", err)
	}
	if _, err := New(nil); err != nil {
		t.Fatalf("nil config should fall back to defaults, got %v", err)
	}
}

func TestRenderDirtyFlow(t *testing.T) {
	v, s := newTestViz(t, "dijkstra-demo")
	if res := v.Render(); !res.OK() {
		t.Fatalf("first render: %+v", res)
	}
	if res := v.Render(); res.Status != StatusNoOp {
		t.Fatalf("clean render status = %v, want no-op", res.Status)
	}
	if res := v.ForceRender(); !res.OK() {
		t.Fatalf("force render: %+v", res)
	}
	if res := v.AddNode(&graph.Node{ID: "Z"}); !res.OK() {
		t.Fatalf("add node: %+v", res)
	}
	if res := v.Render(); !res.OK() {
		t.Fatalf("render after mutation: %+v", res)
	}
	if s.clears != 3 || s.flushes != 3 {
		t.Fatalf("clears/flushes = %d/%d, want 3/3", s.clears, s.flushes)
	}
	m := v.Metrics()
	if m.Frames != 3 {
		t.Fatalf("frames = %d, want 3", m.Frames)
	}
	if m.FrameP50 <= 0 || m.FrameMax < m.FrameP50 {
		t.Fatalf("latency snapshot out of order: %+v", m)
	}
}

func TestRenderWithoutSurface(t *testing.T) {
	cfg, _ := config.GetPreset("dijkstra-demo")
	v, err := New(cfg, WithPlugins(plugin.New()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer v.Close()
	if res := v.ForceRender(); !errors.Is(res.Err, ErrNoSurface) {
		t.Fatalf("render err = %v, want %v", res.Err, ErrNoSurface)
	}
	if err := v.Initialize(nil); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("Initialize(nil) = %v, want %v", err, ErrNoSurface)
	}
}

func TestDataIsolation(t *testing.T) {
	v, _ := newTestViz(t, "dijkstra-demo")
	out := v.Data()
	if err := out.RemoveNode("A"); err != nil {
		t.Fatalf("mutating the copy: %v", err)
	}
	if _, found := v.Data().Node("A"); !found {
		t.Fatal("external mutation leaked into the visualizer")
	}

	ds := graph.New()
	if err := ds.AddNode(&graph.Node{ID: "only"}); err != nil {
		t.Fatal(err)
	}
	if res := v.SetData(ds); !res.OK() {
		t.Fatalf("SetData: %+v", res)
	}
	if err := ds.RemoveNode("only"); err != nil {
		t.Fatal(err)
	}
	if v.Data().NodeCount() != 1 {
		t.Fatal("SetData did not clone the input")
	}
}

func TestMutationResults(t *testing.T) {
	v, _ := newTestViz(t, "dijkstra-demo")

	res := v.AddNode(&graph.Node{ID: "A"})
	if res.Status != StatusFailed || !errors.Is(res.Err, graph.ErrDuplicateID) {
		t.Fatalf("duplicate add = %+v", res)
	}
	res = v.RemoveNode("ghost")
	if res.Status != StatusFailed || !errors.Is(res.Err, graph.ErrMissingNode) {
		t.Fatalf("remove missing = %+v", res)
	}
	res = v.AddEdge(&graph.Edge{ID: "xx", Source: "A", Target: "ghost"})
	if res.Status != StatusFailed {
		t.Fatalf("edge to missing node = %+v", res)
	}

	res = v.AddNode(&graph.Node{ID: "E", Value: 7})
	if !res.OK() || len(res.NodeIDs) != 1 || res.NodeIDs[0] != "E" {
		t.Fatalf("add = %+v", res)
	}
	res = v.AddEdge(&graph.Edge{ID: "DE", Source: "D", Target: "E", Weight: 2})
	if !res.OK() || len(res.EdgeIDs) != 1 || res.EdgeIDs[0] != "DE" {
		t.Fatalf("add edge = %+v", res)
	}
	res = v.RemoveEdge("DE")
	if !res.OK() {
		t.Fatalf("remove edge = %+v", res)
	}
}

func TestRunBubbleSortToCompletion(t *testing.T) {
	v, _ := newTestViz(t, "bubble-demo")
	cfg, _ := config.GetPreset("bubble-demo")

	completed := 0
	off, err := v.On(EventStepComplete, func(e Event) {
		if e.Step == nil {
			t.Error("step:complete without step payload")
		}
		completed++
	})
	if err != nil {
		t.Fatalf("On: %v", err)
	}
	defer off()

	if res := v.Run(cfg.Algorithm, cfg.Params()); !res.OK() {
		t.Fatalf("Run: %+v", res)
	}
	ctx := context.Background()
	moves := 0
	for {
		res := v.StepForward(ctx)
		if res.Status == StatusNoOp {
			break
		}
		if !res.OK() {
			t.Fatalf("step %d: %+v", moves, res)
		}
		if res.Step == nil {
			t.Fatalf("step %d carried no payload", moves)
		}
		moves++
		if moves > 10000 {
			t.Fatal("playback did not terminate")
		}
	}
	want := []float64{1, 1, 2, 3, 4, 5, 6, 9}
	got := v.Data().Values()
	if len(got) != len(want) {
		t.Fatalf("values = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("values = %v, want %v", got, want)
		}
	}
	if completed != moves {
		t.Fatalf("step:complete fired %d times over %d moves", completed, moves)
	}
	if m := v.Metrics(); m.StepsApplied != int64(moves) {
		t.Fatalf("StepsApplied = %d, want %d", m.StepsApplied, moves)
	}
}

func TestRunUnknownAlgorithm(t *testing.T) {
	v, _ := newTestViz(t, "dijkstra-demo")
	res := v.Run("ghost", algo.Params{})
	if res.Status != StatusFailed || !errors.Is(res.Err, algo.ErrUnknownAlgorithm) {
		t.Fatalf("run = %+v", res)
	}
}

func TestStepWithoutRun(t *testing.T) {
	v, _ := newTestViz(t, "dijkstra-demo")
	if res := v.StepForward(context.Background()); !errors.Is(res.Err, ErrNoRun) {
		t.Fatalf("step = %+v", res)
	}
	if res := v.SetBreakpoint(0); !errors.Is(res.Err, ErrNoRun) {
		t.Fatalf("breakpoint = %+v", res)
	}
	if v.Engine() != nil {
		t.Fatal("engine should be nil before Run")
	}
}

func TestStepBackwardAndReset(t *testing.T) {
	v, _ := newTestViz(t, "bubble-demo")
	cfg, _ := config.GetPreset("bubble-demo")
	baseline := v.Data().Values()

	if res := v.Run(cfg.Algorithm, cfg.Params()); !res.OK() {
		t.Fatalf("Run: %+v", res)
	}
	ctx := context.Background()
	if res := v.StepBackward(); res.Status != StatusNoOp {
		t.Fatalf("backward at baseline = %+v", res)
	}
	for i := 0; i < 5; i++ {
		if res := v.StepForward(ctx); !res.OK() {
			t.Fatalf("forward %d: %+v", i, res)
		}
	}
	if res := v.StepBackward(); !res.OK() {
		t.Fatalf("backward: %+v", res)
	}
	if res := v.JumpTo(ctx, 2); !res.OK() {
		t.Fatalf("jump: %+v", res)
	}
	if got := v.Engine().Cursor(); got != 3 {
		t.Fatalf("cursor = %d, want 3 applied steps", got)
	}
	if res := v.ResetTrace(ctx); !res.OK() {
		t.Fatalf("reset: %+v", res)
	}
	got := v.Data().Values()
	for i := range baseline {
		if got[i] != baseline[i] {
			t.Fatalf("reset values = %v, want %v", got, baseline)
		}
	}
}

func TestBreakpointHalt(t *testing.T) {
	v, _ := newTestViz(t, "dijkstra-demo")
	cfg, _ := config.GetPreset("dijkstra-demo")
	if res := v.Run(cfg.Algorithm, cfg.Params()); !res.OK() {
		t.Fatalf("Run: %+v", res)
	}
	if res := v.SetBreakpoint(2); !res.OK() {
		t.Fatalf("SetBreakpoint: %+v", res)
	}
	res := v.ContinueToBreakpoint(context.Background())
	if !res.OK() || res.Step == nil || res.Step.Index != 2 {
		t.Fatalf("continue = %+v", res)
	}
	if got := v.Engine().Cursor(); got != 3 {
		t.Fatalf("cursor = %d, want 3 applied steps", got)
	}
	if res := v.ClearBreakpoint(2); !res.OK() {
		t.Fatalf("ClearBreakpoint: %+v", res)
	}
	res = v.ContinueToBreakpoint(context.Background())
	if !res.OK() {
		t.Fatalf("continue to end = %+v", res)
	}
	if !v.Engine().Done() || v.Engine().Cursor() != v.Engine().Len() {
		t.Fatal("engine did not reach the end")
	}
}

func TestCameraOps(t *testing.T) {
	flat, _ := newTestViz(t, "dijkstra-demo")
	if res := flat.RotateCamera(0.3, 0, 0); res.Status != StatusNoOp {
		t.Fatalf("2d rotate = %v", res.Status)
	}
	if res := flat.ZoomCamera(2); res.Status != StatusNoOp {
		t.Fatalf("2d zoom = %v", res.Status)
	}

	v, _ := newTestViz(t, "graph3d-demo")
	if res := v.ForceRender(); !res.OK() {
		t.Fatalf("render: %+v", res)
	}
	if res := v.Render(); res.Status != StatusNoOp {
		t.Fatal("expected clean frame before camera move")
	}
	if res := v.RotateCamera(0.2, 0.1, 0); !res.OK() {
		t.Fatalf("rotate = %+v", res)
	}
	if res := v.Render(); !res.OK() {
		t.Fatal("camera move should dirty the frame")
	}
	if res := v.ZoomCamera(0); res.Status != StatusNoOp {
		t.Fatalf("zero zoom = %v", res.Status)
	}
	if res := v.PanCamera(1, -1); !res.OK() {
		t.Fatalf("pan = %+v", res)
	}
	if res := v.ResetCamera(); !res.OK() {
		t.Fatalf("reset = %+v", res)
	}
}

func TestApplyLayoutFlow(t *testing.T) {
	v, _ := newTestViz(t, "dijkstra-demo")
	ctx := context.Background()

	res := v.ApplyLayout(ctx, layout.Config{Name: "ghost"})
	if res.Status != StatusFailed || !errors.Is(res.Err, layout.ErrUnknownLayout) {
		t.Fatalf("unknown layout = %+v", res)
	}

	before := v.Data()
	if res := v.ApplyLayout(ctx, layout.Config{Name: "circle", Spacing: 10}); !res.OK() {
		t.Fatalf("circle: %+v", res)
	}
	after := v.Data()
	movedAny := false
	for _, n := range after.Nodes() {
		prev, _ := before.Node(n.ID)
		if prev.Position != n.Position {
			movedAny = true
		}
	}
	if !movedAny {
		t.Fatal("layout left every position unchanged")
	}

	cancelledCtx, cancel := context.WithCancel(context.Background())
	cancel()
	res = v.ApplyLayout(cancelledCtx, layout.Config{Name: "force", Spacing: 8, Iterations: 50, Seed: 1})
	if res.Status != StatusCancelled {
		t.Fatalf("cancelled layout = %v", res.Status)
	}
}

func TestHandlePointerEvents(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.View = "graph2d"
	cfg.Nodes = []config.NodeConfig{{ID: "solo"}}
	v, s := vizFor(t, cfg)

	var got []Event
	off, err := v.On(EventNodeClick, func(e Event) { got = append(got, e) })
	if err != nil {
		t.Fatalf("On: %v", err)
	}

	if res := v.ForceRender(); !res.OK() {
		t.Fatalf("render: %+v", res)
	}
	if len(s.circles) != 1 {
		t.Fatalf("circles drawn = %d, want 1", len(s.circles))
	}
	cx, cy := s.circles[0][0], s.circles[0][1]

	res := v.HandlePointer(cx, cy, true)
	if !res.OK() || len(res.NodeIDs) != 1 || res.NodeIDs[0] != "solo" {
		t.Fatalf("click = %+v", res)
	}
	if len(got) != 1 || got[0].Type != EventNodeClick || got[0].NodeID != "solo" {
		t.Fatalf("event = %+v", got)
	}
	if got[0].X != cx || got[0].Y != cy {
		t.Fatalf("event position = (%d,%d), want (%d,%d)", got[0].X, got[0].Y, cx, cy)
	}

	if res := v.HandlePointer(0, 0, true); res.Status != StatusNoOp {
		t.Fatalf("miss = %v", res.Status)
	}

	hovers := 0
	offHover, err := v.On(EventNodeHover, func(Event) { hovers++ })
	if err != nil {
		t.Fatalf("On: %v", err)
	}
	defer offHover()
	if res := v.HandlePointer(cx, cy, false); !res.OK() {
		t.Fatalf("hover = %+v", res)
	}
	if hovers != 1 {
		t.Fatalf("hovers = %d, want 1", hovers)
	}

	off()
	if res := v.HandlePointer(cx, cy, true); !res.OK() {
		t.Fatalf("click after unsubscribe = %+v", res)
	}
	if len(got) != 1 {
		t.Fatal("unsubscribed handler still fired")
	}
}

func TestRenderEventsOrder(t *testing.T) {
	v, _ := newTestViz(t, "dijkstra-demo")
	var order []string
	mustOn := func(et EventType) {
		t.Helper()
		_, err := v.On(et, func(e Event) {
			order = append(order, fmt.Sprintf("%s:%d", e.Type, e.Frame))
		})
		if err != nil {
			t.Fatalf("On(%s): %v", et, err)
		}
	}
	mustOn(EventRenderStart)
	mustOn(EventRenderComplete)

	if res := v.ForceRender(); !res.OK() {
		t.Fatalf("render: %+v", res)
	}
	want := []string{"render:start:1", "render:complete:1"}
	if len(order) != 2 || order[0] != want[0] || order[1] != want[1] {
		t.Fatalf("order = %v, want %v", order, want)
	}

	if _, err := v.On("bogus", func(Event) {}); err == nil {
		t.Fatal("bogus event type accepted")
	}
	if _, err := v.On(EventRenderStart, nil); err == nil {
		t.Fatal("nil handler accepted")
	}
}

func TestSequenceBudgetCulling(t *testing.T) {
	cfg := config.GenerateSequence(1500, 7)
	v, s := vizFor(t, cfg)
	if res := v.ForceRender(); !res.OK() {
		t.Fatalf("render: %+v", res)
	}
	plan := v.Metrics().LastPlan
	if plan.Total != 1500 {
		t.Fatalf("plan total = %d, want 1500", plan.Total)
	}
	if plan.Culled != 750 || plan.Reduced != 750 {
		t.Fatalf("plan = %+v, want 750 culled and 750 reduced", plan)
	}
	if got := s.count("rect"); got != 750 {
		t.Fatalf("bars drawn = %d, want 750", got)
	}

	small := config.GenerateSequence(8, 7)
	v2, _ := vizFor(t, small)
	if res := v2.ForceRender(); !res.OK() {
		t.Fatalf("render: %+v", res)
	}
	plan = v2.Metrics().LastPlan
	if plan.Culled != 0 || plan.Full != 8 {
		t.Fatalf("small plan = %+v, want everything full", plan)
	}
}

func TestIngestStream(t *testing.T) {
	cfg := config.DefaultConfig()
	v, _ := vizFor(t, cfg)

	src := make(chan IngestItem, 3)
	src <- IngestItem{Node: &graph.Node{ID: "a"}}
	src <- IngestItem{Node: &graph.Node{ID: "b"}}
	src <- IngestItem{Edge: &graph.Edge{ID: "ab", Source: "a", Target: "b"}}
	close(src)

	res := v.IngestStream(context.Background(), src, IngestOptions{})
	if !res.OK() {
		t.Fatalf("ingest = %+v", res)
	}
	if len(res.NodeIDs) != 2 || len(res.EdgeIDs) != 1 {
		t.Fatalf("ingested ids = %v / %v", res.NodeIDs, res.EdgeIDs)
	}
	if got := v.Data().NodeCount(); got != 2 {
		t.Fatalf("node count = %d, want 2", got)
	}

	bad := make(chan IngestItem, 2)
	bad <- IngestItem{Node: &graph.Node{ID: "c"}}
	bad <- IngestItem{}
	close(bad)
	res = v.IngestStream(context.Background(), bad, IngestOptions{})
	if res.Status != StatusFailed {
		t.Fatalf("empty item = %+v", res)
	}
	if len(res.NodeIDs) != 1 || res.NodeIDs[0] != "c" {
		t.Fatalf("prefix before failure = %v", res.NodeIDs)
	}
}

func TestIngestStreamCancelled(t *testing.T) {
	cfg := config.DefaultConfig()
	v, _ := vizFor(t, cfg)

	src := make(chan IngestItem, 5)
	for i := 0; i < 5; i++ {
		src <- IngestItem{Node: &graph.Node{ID: fmt.Sprintf("n%d", i)}}
	}
	close(src)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	res := v.IngestStream(ctx, src, IngestOptions{RatePerSecond: 10, Burst: 1})
	if res.Status != StatusCancelled {
		t.Fatalf("status = %v, want cancelled", res.Status)
	}
	if len(res.NodeIDs) >= 5 {
		t.Fatalf("pacing let all %d items through", len(res.NodeIDs))
	}
	if got := v.Data().NodeCount(); got != len(res.NodeIDs) {
		t.Fatalf("dataset has %d nodes, result reported %d", got, len(res.NodeIDs))
	}
}

// sweepAdapter is a plugin-contributed algorithm with a single step.
type sweepAdapter struct{}

func (sweepAdapter) Name() string    { return "sweep" }
func (sweepAdapter) Kind() draw.Kind { return draw.KindSequence }

func (sweepAdapter) Execute(ds *graph.Dataset, _ algo.Params) ([]step.Step, error) {
	return []step.Step{{Index: 0, Description: "sweep", Status: step.StatusCompleted}}, nil
}

type sweepPlugin struct{}

func (sweepPlugin) Info() plugin.Info {
	return plugin.Info{Name: "sweeper", Version: "1.0.0", Kinds: []draw.Kind{draw.KindSequence}}
}

func (sweepPlugin) Adapter() algo.Adapter { return sweepAdapter{} }

type countingDrawer struct{ n *int }

func (d countingDrawer) Draw(s draw.Surface, _ *graph.Dataset) error {
	*d.n++
	s.Text(0, 0, "custom", draw.White)
	return nil
}

type overridePlugin struct{ draws *int }

func (overridePlugin) Info() plugin.Info {
	return plugin.Info{Name: "override", Version: "0.1.0", Kinds: draw.Kinds()}
}

func (p overridePlugin) NewRenderer() plugin.Drawer { return countingDrawer{p.draws} }

func TestInstallPluginLifecycle(t *testing.T) {
	reg := plugin.New()
	if err := reg.Define(sweepPlugin{}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	cfg, _ := config.GetPreset("bubble-demo")
	v, err := New(cfg, WithPlugins(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer v.Close()
	if err := v.Initialize(newFakeSurface(160, 96)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if res := v.InstallPlugin("sweeper"); !res.OK() {
		t.Fatalf("install = %+v", res)
	}
	names := v.Algorithms()
	foundSweep := false
	for _, n := range names {
		if n == "sweep" {
			foundSweep = true
		}
	}
	if !foundSweep {
		t.Fatalf("algorithms = %v, want sweep included", names)
	}

	if res := v.Run("sweep", algo.Params{}); !res.OK() {
		t.Fatalf("run contributed = %+v", res)
	}
	if res := v.StepForward(context.Background()); !res.OK() {
		t.Fatalf("step contributed = %+v", res)
	}

	if res := v.InstallPlugin("sweeper"); res.Status != StatusFailed {
		t.Fatalf("double install = %+v", res)
	}

	if res := v.UninstallPlugin("sweeper"); !res.OK() {
		t.Fatalf("uninstall = %+v", res)
	}
	if res := v.Run("sweep", algo.Params{}); !errors.Is(res.Err, algo.ErrUnknownAlgorithm) {
		t.Fatalf("run after uninstall = %+v", res)
	}
}

func TestInstallPluginKindMismatch(t *testing.T) {
	reg := plugin.New()
	if err := reg.Define(sweepPlugin{}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	cfg, _ := config.GetPreset("dijkstra-demo")
	v, err := New(cfg, WithPlugins(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer v.Close()
	res := v.InstallPlugin("sweeper")
	if res.Status != StatusFailed || !errors.Is(res.Err, plugin.ErrIncompatiblePlugin) {
		t.Fatalf("install = %+v", res)
	}
}

func TestRendererOverride(t *testing.T) {
	draws := 0
	reg := plugin.New()
	if err := reg.Define(overridePlugin{&draws}); err != nil {
		t.Fatalf("Define: %v", err)
	}
	cfg, _ := config.GetPreset("dijkstra-demo")
	v, err := New(cfg, WithPlugins(reg))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer v.Close()
	s := newFakeSurface(160, 96)
	if err := v.Initialize(s); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if res := v.InstallPlugin("override"); !res.OK() {
		t.Fatalf("install = %+v", res)
	}
	if res := v.ForceRender(); !res.OK() {
		t.Fatalf("render = %+v", res)
	}
	if draws != 1 {
		t.Fatalf("override drew %d times, want 1", draws)
	}
	if s.count("circle") != 0 {
		t.Fatal("builtin renderer ran despite override")
	}
}

func TestExportWithoutExporter(t *testing.T) {
	v, _ := newTestViz(t, "dijkstra-demo")
	if _, err := v.Export("svg", plugin.ExportConfig{}); !errors.Is(err, plugin.ErrNoExporter) {
		t.Fatalf("export err = %v, want %v", err, plugin.ErrNoExporter)
	}
}

func TestCloseLifecycle(t *testing.T) {
	v, _ := newTestViz(t, "dijkstra-demo")
	if err := v.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := v.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if res := v.AddNode(&graph.Node{ID: "x"}); !errors.Is(res.Err, ErrClosed) {
		t.Fatalf("add after close = %+v", res)
	}
	if res := v.ForceRender(); !errors.Is(res.Err, ErrClosed) {
		t.Fatalf("render after close = %+v", res)
	}
	if err := v.Initialize(newFakeSurface(10, 10)); !errors.Is(err, ErrClosed) {
		t.Fatalf("initialize after close = %v", err)
	}
}

func TestResizeForwards(t *testing.T) {
	v, s := newTestViz(t, "dijkstra-demo")
	if res := v.Resize(0, 10); res.Status != StatusFailed {
		t.Fatalf("invalid resize = %+v", res)
	}
	if res := v.Resize(200, 120); !res.OK() {
		t.Fatalf("resize = %+v", res)
	}
	if s.w != 200 || s.h != 120 {
		t.Fatalf("surface size = %dx%d, want 200x120", s.w, s.h)
	}
	if res := v.Render(); !res.OK() {
		t.Fatal("resize should dirty the frame")
	}
}

func TestRenderDatasetOffscreen(t *testing.T) {
	cfg, _ := config.GetPreset("dijkstra-demo")
	ds, err := cfg.Dataset()
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	s := newFakeSurface(120, 80)
	if err := RenderDataset(s, ds, draw.KindGraph2D, governor.DefaultOptions(), 8); err != nil {
		t.Fatalf("RenderDataset: %v", err)
	}
	if s.count("circle") != ds.NodeCount() {
		t.Fatalf("circles = %d, want %d", s.count("circle"), ds.NodeCount())
	}
	if s.flushes != 1 {
		t.Fatalf("flushes = %d, want 1", s.flushes)
	}
	if err := RenderDataset(s, ds, draw.Kind("bogus"), governor.DefaultOptions(), 8); err == nil {
		t.Fatal("bogus kind accepted")
	}
}
