// Package viz hosts the unified visualizer: one data model, four
// renderers behind a shared host, trace playback, layout application,
// plugin dispatch, and frame metrics. A Visualizer serializes every
// mutating operation behind one mutex; plugin hooks and event handlers
// always run after that mutex is released, so they may call back into
// the visualizer without deadlocking.
package viz

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vizlab/algoviz/internal/algo"
	"github.com/vizlab/algoviz/internal/config"
	"github.com/vizlab/algoviz/internal/draw"
	"github.com/vizlab/algoviz/internal/governor"
	"github.com/vizlab/algoviz/internal/graph"
	"github.com/vizlab/algoviz/internal/layout"
	"github.com/vizlab/algoviz/internal/plugin"
	"github.com/vizlab/algoviz/internal/step"
	"github.com/vizlab/algoviz/internal/trace"
)

// Option configures a Visualizer at construction time.
type Option func(*Visualizer)

// WithPlugins points the visualizer at an alternate plugin registry.
// Tests use this to keep installs out of the process-wide default.
func WithPlugins(r *plugin.Registry) Option {
	return func(v *Visualizer) { v.plugins = r }
}

// WithFrameHistogram additionally publishes frame latencies to a
// prometheus histogram.
func WithFrameHistogram(h prometheus.Histogram) Option {
	return func(v *Visualizer) { v.promHist = h }
}

// Visualizer owns the single source of truth for one visualization: the
// dataset, the active trace engine, the camera, and the renderer chosen
// from the config kind.
type Visualizer struct {
	mu       sync.Mutex
	id       string
	kind     draw.Kind
	cfg      *config.Config
	surface  draw.Surface
	ds       *graph.Dataset
	engine   *trace.Engine
	registry *algo.Registry
	layouts  *layout.Registry
	plugins  *plugin.Registry
	gov      *governor.Governor
	cam      *camera
	rend     renderer
	events   *eventBus
	metrics  *collector
	promHist prometheus.Histogram
	hits     *hitIndex
	dirty    atomic.Bool
	closed   bool

	// plugin name -> registry names it contributed, removed again on
	// uninstall.
	contribAlgos   map[string]string
	contribLayouts map[string]string
}

// New validates cfg, builds the initial dataset from it, and picks the
// renderer for the config kind. The visualizer keeps its own clone of
// cfg and its own per-instance algorithm and layout registries.
func New(cfg *config.Config, opts ...Option) (*Visualizer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind, err := cfg.Kind()
	if err != nil {
		return nil, err
	}
	ds, err := cfg.Dataset()
	if err != nil {
		return nil, err
	}
	v := &Visualizer{
		id:             cfg.ID,
		kind:           kind,
		cfg:            cfg.Clone(),
		ds:             ds,
		registry:       algo.NewRegistry(),
		layouts:        layout.NewRegistry(),
		plugins:        plugin.Default,
		gov:            governor.New(cfg.Performance),
		cam:            newCamera(),
		rend:           rendererFor(kind),
		events:         newEventBus(),
		hits:           &hitIndex{},
		contribAlgos:   make(map[string]string),
		contribLayouts: make(map[string]string),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.metrics = newCollector(v.promHist)
	v.dirty.Store(true)
	return v, nil
}

// ID returns the instance id from the config.
func (v *Visualizer) ID() string { return v.id }

// Kind returns the renderer kind the visualizer was built for.
func (v *Visualizer) Kind() draw.Kind { return v.kind }

// Initialize attaches the surface the visualizer renders into.
func (v *Visualizer) Initialize(s draw.Surface) error {
	if s == nil {
		return ErrNoSurface
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrClosed
	}
	v.surface = s
	v.dirty.Store(true)
	return nil
}

// SetData replaces the dataset with an independent clone of ds. Any
// active trace is discarded because its undo log no longer matches.
func (v *Visualizer) SetData(ds *graph.Dataset) Result {
	if ds == nil {
		return failed(errors.New("algoviz/viz: nil dataset"))
	}
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return failed(ErrClosed)
	}
	if v.engine != nil {
		v.engine.Close()
		v.engine = nil
	}
	v.ds = ds.Clone()
	v.mu.Unlock()
	v.dirty.Store(true)
	v.plugins.FireDataChange(pluginHost{v})
	return ok()
}

// Data returns an independent clone of the current dataset.
func (v *Visualizer) Data() *graph.Dataset {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ds.Clone()
}

// AddNode copies n into the dataset.
func (v *Visualizer) AddNode(n *graph.Node) Result {
	if n == nil {
		return failed(errors.New("algoviz/viz: nil node"))
	}
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return failed(ErrClosed)
	}
	cp := *n
	err := v.ds.AddNode(&cp)
	v.mu.Unlock()
	if err != nil {
		return failed(err)
	}
	v.dirty.Store(true)
	v.plugins.FireDataChange(pluginHost{v})
	return okNodes(n.ID)
}

// RemoveNode removes the node and its incident edges. Unknown ids are a
// reported failure, not a panic.
func (v *Visualizer) RemoveNode(id string) Result {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return failed(ErrClosed)
	}
	err := v.ds.RemoveNode(id)
	v.mu.Unlock()
	if err != nil {
		return failed(err)
	}
	v.dirty.Store(true)
	v.plugins.FireDataChange(pluginHost{v})
	return okNodes(id)
}

// AddEdge copies e into the dataset.
func (v *Visualizer) AddEdge(e *graph.Edge) Result {
	if e == nil {
		return failed(errors.New("algoviz/viz: nil edge"))
	}
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return failed(ErrClosed)
	}
	cp := *e
	err := v.ds.AddEdge(&cp)
	v.mu.Unlock()
	if err != nil {
		return failed(err)
	}
	v.dirty.Store(true)
	v.plugins.FireDataChange(pluginHost{v})
	return okEdges(e.ID)
}

func (v *Visualizer) RemoveEdge(id string) Result {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return failed(ErrClosed)
	}
	err := v.ds.RemoveEdge(id)
	v.mu.Unlock()
	if err != nil {
		return failed(err)
	}
	v.dirty.Store(true)
	v.plugins.FireDataChange(pluginHost{v})
	return okEdges(id)
}

// Render draws a frame if anything changed since the last one.
func (v *Visualizer) Render() Result {
	if !v.dirty.Load() {
		return noOp()
	}
	return v.renderPass()
}

// ForceRender draws a frame regardless of the dirty flag.
func (v *Visualizer) ForceRender() Result {
	return v.renderPass()
}

func (v *Visualizer) renderPass() Result {
	host := pluginHost{v}
	v.events.fire(Event{Type: EventRenderStart, Frame: v.metrics.snapshot().Frames + 1})
	v.plugins.FireBeforeRender(host)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return failed(ErrClosed)
	}
	if v.surface == nil {
		v.mu.Unlock()
		return failed(ErrNoSurface)
	}
	start := time.Now()
	f := &frame{
		surface: v.surface,
		ds:      v.ds,
		gov:     v.gov,
		cam:     v.cam,
		spacing: v.cfg.Layout.Spacing,
		hits:    &hitIndex{},
	}
	v.surface.Clear()
	var err error
	if drawer, found := v.plugins.RendererOverride(host); found {
		err = drawer.Draw(v.surface, v.ds)
	} else {
		err = v.rend.render(f)
	}
	if err == nil {
		err = v.surface.Flush()
	}
	if err != nil {
		v.mu.Unlock()
		return failed(err)
	}
	frameNo := v.metrics.recordFrame(time.Since(start), f.plan)
	v.hits = f.hits
	v.dirty.Store(false)
	v.mu.Unlock()

	v.plugins.FireAfterRender(host)
	v.events.fire(Event{Type: EventRenderComplete, Frame: frameNo})
	return ok()
}

// Resize records the new surface dimensions and forwards them to
// backends that support resizing. Units are the backend's constructor
// units.
func (v *Visualizer) Resize(w, h int) Result {
	if w < 1 || h < 1 {
		return failed(errors.Newf("algoviz/viz: invalid size %dx%d", w, h))
	}
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return failed(ErrClosed)
	}
	v.cfg.Width, v.cfg.Height = w, h
	if r, found := v.surface.(interface{ Resize(w, h int) }); found {
		r.Resize(w, h)
	}
	v.mu.Unlock()
	v.dirty.Store(true)
	return ok()
}

// ApplyLayout runs the named layout against the dataset. The layout
// checks ctx between iterations; a cancelled run leaves the positions
// from the last completed iteration in place.
func (v *Visualizer) ApplyLayout(ctx context.Context, lc layout.Config) Result {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return failed(ErrClosed)
	}
	l, err := v.layouts.Get(lc.Name)
	if err != nil {
		v.mu.Unlock()
		return failed(err)
	}
	err = l.Apply(ctx, v.ds, lc)
	v.mu.Unlock()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return cancelled(err)
		}
		return failed(err)
	}
	v.dirty.Store(true)
	v.plugins.FireDataChange(pluginHost{v})
	return ok()
}

// Camera operations apply to the 3-D view and report no-op elsewhere.
// They never fail.

func (v *Visualizer) RotateCamera(dx, dy, dz float64) Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.kind != draw.KindGraph3D {
		return noOp()
	}
	v.cam.rotate(dx, dy, dz)
	v.dirty.Store(true)
	return ok()
}

// ZoomCamera applies steps of the fixed zoom factor, positive in,
// negative out.
func (v *Visualizer) ZoomCamera(steps int) Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.kind != draw.KindGraph3D || steps == 0 {
		return noOp()
	}
	v.cam.zoomBy(steps)
	v.dirty.Store(true)
	return ok()
}

func (v *Visualizer) PanCamera(dx, dy float64) Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.kind != draw.KindGraph3D {
		return noOp()
	}
	v.cam.pan(dx, dy)
	v.dirty.Store(true)
	return ok()
}

func (v *Visualizer) ResetCamera() Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.kind != draw.KindGraph3D {
		return noOp()
	}
	v.cam.reset()
	v.dirty.Store(true)
	return ok()
}

// Metrics returns a snapshot of the frame and step counters.
func (v *Visualizer) Metrics() Metrics {
	return v.metrics.snapshot()
}

// On subscribes a handler and returns its unsubscribe function.
func (v *Visualizer) On(t EventType, fn Handler) (func(), error) {
	return v.events.on(t, fn)
}

// Run resolves the algorithm in the per-instance registry, validates
// its parameters against the current dataset, and arms a fresh trace
// engine at the baseline.
func (v *Visualizer) Run(algorithm string, p algo.Params) Result {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return failed(ErrClosed)
	}
	a, err := v.registry.Get(algorithm)
	if err != nil {
		v.mu.Unlock()
		return failed(err)
	}
	src, err := algo.Stream(a, v.ds, p)
	if err != nil {
		v.mu.Unlock()
		return failed(err)
	}
	if v.engine != nil {
		v.engine.Close()
	}
	v.engine = trace.New(v.ds, src)
	v.mu.Unlock()
	v.dirty.Store(true)
	return ok()
}

// LoadSteps arms the engine with a pre-recorded step sequence against
// the current dataset, as used when replaying an exported trace.
func (v *Visualizer) LoadSteps(steps []step.Step) Result {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return failed(ErrClosed)
	}
	eng, err := trace.NewFromSteps(v.ds, steps)
	if err != nil {
		v.mu.Unlock()
		return failed(err)
	}
	if v.engine != nil {
		v.engine.Close()
	}
	v.engine = eng
	v.mu.Unlock()
	v.dirty.Store(true)
	return ok()
}

// Engine exposes the active trace engine. It is nil before the first
// Run. Callers must not navigate it concurrently with the visualizer's
// own step operations.
func (v *Visualizer) Engine() *trace.Engine {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.engine
}

func fromTrace(r trace.Result) Result {
	switch r.Status {
	case trace.Advanced, trace.SteppedBack, trace.Halted, trace.Jumped:
		return Result{Status: StatusOK, Step: r.Step}
	case trace.AtStart, trace.AtEnd:
		return Result{Status: StatusNoOp, Step: r.Step}
	case trace.Cancelled:
		return Result{Status: StatusCancelled, Err: r.Err}
	default:
		return Result{Status: StatusFailed, Err: r.Err}
	}
}

// navigate runs one engine move under the lock, then fires the change
// notifications when the cursor actually moved.
func (v *Visualizer) navigate(fn func() trace.Result) Result {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return failed(ErrClosed)
	}
	if v.engine == nil {
		v.mu.Unlock()
		return failed(ErrNoRun)
	}
	before := v.engine.Cursor()
	res := fn()
	moved := v.engine.Cursor() - before
	if moved < 0 {
		moved = -moved
	}
	if moved > 0 {
		v.metrics.recordSteps(moved)
	}
	v.mu.Unlock()
	if moved > 0 {
		v.dirty.Store(true)
		v.plugins.FireDataChange(pluginHost{v})
		if res.Step != nil {
			v.events.fire(Event{Type: EventStepComplete, Step: res.Step})
		}
	}
	out := fromTrace(res)
	if out.Status == StatusNoOp && moved > 0 {
		// A continue that ran to the end still did work.
		out.Status = StatusOK
	}
	return out
}

// StepForward applies the next step.
func (v *Visualizer) StepForward(ctx context.Context) Result {
	return v.navigate(func() trace.Result { return v.engine.StepForward(ctx) })
}

// StepBackward reverses the last applied step.
func (v *Visualizer) StepBackward() Result {
	return v.navigate(func() trace.Result { return v.engine.StepBackward() })
}

// ContinueToBreakpoint advances until a breakpoint or the end.
func (v *Visualizer) ContinueToBreakpoint(ctx context.Context) Result {
	return v.navigate(func() trace.Result { return v.engine.ContinueToBreakpoint(ctx) })
}

// JumpTo moves the cursor to the given step index, replaying or
// unwinding as needed.
func (v *Visualizer) JumpTo(ctx context.Context, index int) Result {
	return v.navigate(func() trace.Result { return v.engine.JumpTo(ctx, index) })
}

// ResetTrace unwinds every applied step, leaving the armed engine at
// the baseline.
func (v *Visualizer) ResetTrace(ctx context.Context) Result {
	return v.navigate(func() trace.Result { return v.engine.Reset(ctx) })
}

func (v *Visualizer) SetBreakpoint(index int) Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return failed(ErrClosed)
	}
	if v.engine == nil {
		return failed(ErrNoRun)
	}
	v.engine.SetBreakpoint(index)
	return ok()
}

func (v *Visualizer) ClearBreakpoint(index int) Result {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return failed(ErrClosed)
	}
	if v.engine == nil {
		return failed(ErrNoRun)
	}
	v.engine.ClearBreakpoint(index)
	return ok()
}

// HandlePointer resolves the element drawn under (x, y) in the last
// completed frame and fires the matching click or hover event.
func (v *Visualizer) HandlePointer(x, y int, click bool) Result {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return failed(ErrClosed)
	}
	t, found := v.hits.at(x, y)
	v.mu.Unlock()
	if !found {
		return noOp()
	}
	e := Event{NodeID: t.NodeID, EdgeID: t.EdgeID, X: x, Y: y}
	switch {
	case t.NodeID != "" && click:
		e.Type = EventNodeClick
	case t.NodeID != "":
		e.Type = EventNodeHover
	case click:
		e.Type = EventEdgeClick
	default:
		e.Type = EventEdgeHover
	}
	v.events.fire(e)
	if t.NodeID != "" {
		return okNodes(t.NodeID)
	}
	return okEdges(t.EdgeID)
}

// InstallPlugin installs the named plugin on this instance and merges
// any algorithm or layout it contributes into the per-instance
// registries.
func (v *Visualizer) InstallPlugin(name string) Result {
	host := pluginHost{v}
	if err := v.plugins.Install(host, name); err != nil {
		return failed(err)
	}
	p, err := v.plugins.Get(name)
	if err != nil {
		return failed(err)
	}
	v.mu.Lock()
	if ap, found := p.(plugin.Algorithm); found {
		ad := ap.Adapter()
		if err := v.registry.Register(ad.Name(), func() algo.Adapter { return ad }); err != nil {
			v.mu.Unlock()
			_ = v.plugins.Uninstall(host, name)
			return failed(err)
		}
		v.contribAlgos[name] = ad.Name()
	}
	if lp, found := p.(plugin.Layout); found {
		la := lp.Layout()
		if err := v.layouts.Register(la.Name(), func() layout.Algorithm { return la }); err != nil {
			if an, had := v.contribAlgos[name]; had {
				v.registry.Unregister(an)
				delete(v.contribAlgos, name)
			}
			v.mu.Unlock()
			_ = v.plugins.Uninstall(host, name)
			return failed(err)
		}
		v.contribLayouts[name] = la.Name()
	}
	v.mu.Unlock()
	v.dirty.Store(true)
	return ok()
}

// UninstallPlugin removes the plugin from this instance together with
// the registry entries it contributed.
func (v *Visualizer) UninstallPlugin(name string) Result {
	if err := v.plugins.Uninstall(pluginHost{v}, name); err != nil {
		return failed(err)
	}
	v.mu.Lock()
	if an, found := v.contribAlgos[name]; found {
		v.registry.Unregister(an)
		delete(v.contribAlgos, name)
	}
	if ln, found := v.contribLayouts[name]; found {
		v.layouts.Unregister(ln)
		delete(v.contribLayouts, name)
	}
	v.mu.Unlock()
	v.dirty.Store(true)
	return ok()
}

// Algorithms lists the algorithm names runnable on this instance,
// builtins plus plugin contributions.
func (v *Visualizer) Algorithms() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.registry.Names()
}

// Layouts lists the layout names available on this instance.
func (v *Visualizer) Layouts() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.layouts.Names()
}

// Export renders the current state through the installed exporter
// claiming the format.
func (v *Visualizer) Export(format string, ec plugin.ExportConfig) (plugin.Blob, error) {
	host := pluginHost{v}
	exp, err := v.plugins.ExporterFor(host, format)
	if err != nil {
		return plugin.Blob{}, err
	}
	if ec.Format == "" {
		ec.Format = format
	}
	return exp.Export(host, ec)
}

// Close releases the engine and uninstalls this instance's plugins.
// Close is idempotent.
func (v *Visualizer) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return nil
	}
	v.closed = true
	if v.engine != nil {
		v.engine.Close()
		v.engine = nil
	}
	v.mu.Unlock()
	v.plugins.Release(pluginHost{v})
	return nil
}

// RenderDataset draws ds into s with the renderer for kind, a default
// camera, and the given governor options. Exporters use it to rasterize
// replay states into offscreen surfaces.
func RenderDataset(s draw.Surface, ds *graph.Dataset, kind draw.Kind, opts governor.Options, spacing float64) error {
	r := rendererFor(kind)
	if r == nil {
		return errors.Newf("algoviz/viz: unknown renderer kind %q", kind)
	}
	f := &frame{
		surface: s,
		ds:      ds,
		gov:     governor.New(opts),
		cam:     newCamera(),
		spacing: spacing,
		hits:    &hitIndex{},
	}
	s.Clear()
	if err := r.render(f); err != nil {
		return err
	}
	return s.Flush()
}

// ElementColor resolves the drawn color for an element's style and
// state, the same rule the renderers use.
func ElementColor(st draw.Style, state graph.State) draw.Color {
	return colorFor(st, state)
}

// pluginHost is the narrow view handed to plugins. It is a value type
// so the same visualizer always presents the same host identity to the
// plugin registry.
type pluginHost struct{ v *Visualizer }

func (h pluginHost) ID() string      { return h.v.id }
func (h pluginHost) Kind() draw.Kind { return h.v.kind }

// Dataset returns the live dataset. It is valid for reading only for
// the duration of the hook invocation.
func (h pluginHost) Dataset() *graph.Dataset {
	h.v.mu.Lock()
	defer h.v.mu.Unlock()
	return h.v.ds
}

func (h pluginHost) Surface() draw.Surface {
	h.v.mu.Lock()
	defer h.v.mu.Unlock()
	return h.v.surface
}

// Redraw schedules a frame without rendering inline, so hooks may
// request one mid-pass.
func (h pluginHost) Redraw() { h.v.dirty.Store(true) }

// Snapshot returns an independent clone of the current dataset.
func (h pluginHost) Snapshot() *graph.Dataset { return h.v.Data() }

// Steps returns the materialized steps of the active engine, nil
// without one.
func (h pluginHost) Steps() []step.Step {
	h.v.mu.Lock()
	defer h.v.mu.Unlock()
	if h.v.engine == nil {
		return nil
	}
	return h.v.engine.Steps()
}

// Baseline reconstructs the dataset as it was before any step applied.
// Without an armed engine it falls back to a clone of the current
// dataset.
func (h pluginHost) Baseline() (*graph.Dataset, error) {
	h.v.mu.Lock()
	defer h.v.mu.Unlock()
	if h.v.engine == nil {
		return h.v.ds.Clone(), nil
	}
	return h.v.engine.Baseline()
}

// Options exposes the governor settings and layout spacing exporters
// need to rasterize consistently with the live view.
func (h pluginHost) Options() (governor.Options, float64) {
	h.v.mu.Lock()
	defer h.v.mu.Unlock()
	return h.v.cfg.Performance, h.v.cfg.Layout.Spacing
}
