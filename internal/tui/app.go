// Package tui is the interactive terminal frontend: a preset picker and
// a step-through playback view drawn on the braille canvas, with a
// metrics side panel.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/vizlab/algoviz/internal/canvas"
	"github.com/vizlab/algoviz/internal/config"
	"github.com/vizlab/algoviz/internal/viz"
)

const (
	sideWidth      = 38
	latencyHistory = 120

	minCanvasCols = 40
	maxCanvasCols = 110
	minCanvasRows = 12
	maxCanvasRows = 40

	defaultDelay = 150 * time.Millisecond
	minDelay     = 25 * time.Millisecond
	maxDelay     = 2 * time.Second
)

type phase int

const (
	phaseMenu phase = iota
	phasePlay
)

type tickMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// App drives the two-screen terminal flow. Methods use value receivers
// the way bubbletea expects; the visualizer and surface are shared by
// reference across copies.
type App struct {
	phase   phase
	cursor  int
	presets []string

	preset    string
	algorithm string
	vis       *viz.Visualizer
	surface   *canvas.Canvas

	playing  bool
	done     bool
	showHelp bool
	delay    time.Duration
	lastErr  error
	frameMS  []float64

	theme  Theme
	styles styleSet

	width, height int
}

// New starts at the preset menu.
func New() *App {
	return &App{
		presets: config.ListPresets(),
		delay:   defaultDelay,
		theme:   ThemeClassic,
		styles:  stylesFor(ThemeClassic),
	}
}

// NewWithConfig skips the menu and opens playback on cfg directly.
func NewWithConfig(cfg *config.Config) (*App, error) {
	a := New()
	name := "custom"
	if cfg != nil && cfg.ID != "" {
		name = cfg.ID
	}
	if err := a.open(cfg, name); err != nil {
		return nil, err
	}
	return a, nil
}

// Run blocks until the user quits, then releases the visualizer.
func Run(a *App) error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	final, err := p.Run()
	switch m := final.(type) {
	case App:
		m.close()
	case *App:
		m.close()
	default:
		a.close()
	}
	return err
}

func (a *App) close() {
	if a.vis != nil {
		a.vis.Close()
		a.vis = nil
		a.surface = nil
	}
}

// open builds a visualizer for cfg sized to the current terminal and
// arms the configured algorithm, paused at the initial state.
func (a *App) open(cfg *config.Config, name string) error {
	if cfg == nil {
		cfg = config.DefaultConfig()
	} else {
		cfg = cfg.Clone()
	}
	cols, rows := a.canvasDims()
	cfg.Width, cfg.Height = cols, rows

	v, err := viz.New(cfg)
	if err != nil {
		return err
	}
	surf := canvas.New(cols, rows)
	if err := v.Initialize(surf); err != nil {
		v.Close()
		return err
	}
	if res := v.Run(cfg.Algorithm, cfg.Params()); !res.OK() {
		v.Close()
		return res.Err
	}

	a.close()
	a.vis = v
	a.surface = surf
	a.preset = name
	a.algorithm = cfg.Algorithm
	a.phase = phasePlay
	a.playing = false
	a.done = false
	a.showHelp = false
	a.lastErr = nil
	a.frameMS = a.frameMS[:0]
	a.render()
	return nil
}

func (a *App) canvasDims() (int, int) {
	cols, rows := config.DefaultWidth, config.DefaultHeight
	if a.width > 0 {
		cols = clampInt(a.width-sideWidth-8, minCanvasCols, maxCanvasCols)
	}
	if a.height > 0 {
		rows = clampInt(a.height-9, minCanvasRows, maxCanvasRows)
	}
	return cols, rows
}

// render repaints when the visualizer is dirty and records the frame
// latency for the side-panel chart.
func (a *App) render() {
	if a.vis == nil {
		return
	}
	start := time.Now()
	if res := a.vis.Render(); res.OK() {
		ms := float64(time.Since(start).Microseconds()) / 1000
		a.frameMS = append(a.frameMS, ms)
		if len(a.frameMS) > latencyHistory {
			a.frameMS = a.frameMS[1:]
		}
	}
}

func (a *App) advance(ctx context.Context) {
	res := a.vis.StepForward(ctx)
	switch res.Status {
	case viz.StatusFailed, viz.StatusCancelled:
		a.playing = false
		a.lastErr = res.Err
	}
	a.syncDone()
	if a.done {
		a.playing = false
	}
}

// syncDone derives the at-end flag from the engine cursor.
func (a *App) syncDone() {
	e := a.vis.Engine()
	a.done = e != nil && e.Done() && e.Cursor() == e.Len()
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.phase == phaseMenu {
			return a.menuKey(msg)
		}
		return a.playKey(msg)
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.phase == phasePlay && a.vis != nil {
			cols, rows := a.canvasDims()
			a.vis.Resize(cols, rows)
			a.render()
		}
		return a, nil
	case tickMsg:
		if a.phase != phasePlay || !a.playing {
			return a, nil
		}
		a.advance(context.Background())
		a.render()
		if a.playing {
			return a, tick(a.delay)
		}
		return a, nil
	}
	return a, nil
}

func (a App) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter", " ":
		name := a.presets[a.cursor]
		cfg, ok := config.GetPreset(name)
		if !ok {
			return a, nil
		}
		if err := a.open(cfg, name); err != nil {
			a.lastErr = err
			return a, nil
		}
		return a, tea.ClearScreen
	}
	return a, nil
}

func (a App) playKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := context.Background()
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "q", "esc":
		a.close()
		a.phase = phaseMenu
		a.playing = false
		a.lastErr = nil
		return a, tea.ClearScreen
	case " ":
		a.playing = !a.playing
		if a.playing {
			return a, tick(a.delay)
		}
	case "right", "l", "n":
		a.playing = false
		a.advance(ctx)
		a.render()
	case "left", "h":
		a.playing = false
		a.vis.StepBackward()
		a.syncDone()
		a.render()
	case "c":
		a.playing = false
		if res := a.vis.ContinueToBreakpoint(ctx); res.Status == viz.StatusFailed {
			a.lastErr = res.Err
		}
		a.syncDone()
		a.render()
	case "b":
		if e := a.vis.Engine(); e != nil {
			idx := e.Cursor()
			if e.HasBreakpoint(idx) {
				a.vis.ClearBreakpoint(idx)
			} else {
				a.vis.SetBreakpoint(idx)
			}
		}
	case "r":
		a.playing = false
		a.vis.ResetTrace(ctx)
		a.syncDone()
		a.lastErr = nil
		a.render()
	case "+", "=":
		a.delay /= 2
		if a.delay < minDelay {
			a.delay = minDelay
		}
	case "-", "_":
		a.delay *= 2
		if a.delay > maxDelay {
			a.delay = maxDelay
		}
	case "0":
		a.delay = defaultDelay
	case "t":
		names := ThemeNames()
		for i, n := range names {
			if n == a.theme.Name {
				a.theme = GetTheme(names[(i+1)%len(names)])
				a.styles = stylesFor(a.theme)
				break
			}
		}
	case "?":
		a.showHelp = !a.showHelp
	case "x":
		a.vis.RotateCamera(0.1, 0, 0)
		a.render()
	case "X":
		a.vis.RotateCamera(-0.1, 0, 0)
		a.render()
	case "y":
		a.vis.RotateCamera(0, 0.1, 0)
		a.render()
	case "Y":
		a.vis.RotateCamera(0, -0.1, 0)
		a.render()
	case "z":
		a.vis.RotateCamera(0, 0, 0.1)
		a.render()
	case "Z":
		a.vis.RotateCamera(0, 0, -0.1)
		a.render()
	case "i":
		a.vis.ZoomCamera(1)
		a.render()
	case "o":
		a.vis.ZoomCamera(-1)
		a.render()
	case "v":
		a.vis.ResetCamera()
		a.render()
	}
	return a, nil
}

func (a App) View() string {
	if a.phase == phaseMenu {
		return a.viewMenu()
	}
	return a.viewPlay()
}

func (a App) viewMenu() string {
	s := a.styles
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(s.dim.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + s.header.Render("a l g o v i z") + "\n")
	b.WriteString(s.dim.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	for i, name := range a.presets {
		desc := ""
		if p, ok := config.Presets[name]; ok {
			desc = p.Algorithm
		}
		if i == a.cursor {
			b.WriteString("      " + s.selected.Render("▸ ") + s.text.Render(fmt.Sprintf("%-16s", name)) + s.muted.Render(desc) + "\n")
		} else {
			b.WriteString("        " + s.muted.Render(fmt.Sprintf("%-16s", name)) + s.dim.Render(desc) + "\n")
		}
	}

	b.WriteString("\n")
	if a.lastErr != nil {
		b.WriteString("      " + s.errorText.Render(truncate(a.lastErr.Error(), 60)) + "\n\n")
	}
	b.WriteString(s.muted.Render("      ↑↓ select   enter start   q quit") + "\n")
	return b.String()
}

const helpOverlay = `
  ╭──────────────────────────────────────╮
  │             key bindings             │
  ├──────────────────────────────────────┤
  │  space        play / pause           │
  │  → l          step forward           │
  │  ← h          step backward          │
  │  c            continue to breakpoint │
  │  b            toggle breakpoint      │
  │  r            reset to initial state │
  │  + - 0        playback speed         │
  │  x/X y/Y z/Z  rotate camera (3d)     │
  │  i o v        zoom in / out / reset  │
  │  t            cycle theme            │
  │  ?            toggle this help       │
  │  q            back to menu           │
  ╰──────────────────────────────────────╯
`

func (a App) viewPlay() string {
	if a.vis == nil {
		return ""
	}
	s := a.styles
	e := a.vis.Engine()
	cur, total := 0, 0
	if e != nil {
		cur, total = e.Cursor(), e.Len()
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n  %s %s  %s\n",
		a.statusLine(), s.header.Render(a.preset), s.muted.Render(string(a.vis.Kind()))))

	progress := 0.0
	if total > 0 {
		progress = float64(cur) / float64(total)
	}
	counter := fmt.Sprintf("%d/%d", cur, total)
	if e != nil && !e.Done() {
		counter += "+"
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", s.progressBar(progress, 36), s.muted.Render(counter)))

	pane := s.pane.Render(a.surface.String())
	side := s.panel.Render(a.sidePanel())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, pane, side))
	b.WriteString("\n" + s.dim.Render("  space play  ←→ step  c continue  b break  r reset  ? help  q menu") + "\n")

	if a.showHelp {
		return helpOverlay + b.String()
	}
	return b.String()
}

func (a App) statusLine() string {
	s := a.styles
	switch {
	case a.lastErr != nil:
		return s.errorText.Render("● error")
	case a.done:
		return s.success.Render("● done")
	case a.playing:
		return s.success.Render("▶ playing")
	default:
		return s.warning.Render("❚❚ paused")
	}
}

func (a App) sidePanel() string {
	s := a.styles
	var b strings.Builder
	m := a.vis.Metrics()
	e := a.vis.Engine()

	b.WriteString(s.header.Render(strings.ToUpper(a.algorithm)) + "\n\n")
	if e != nil {
		if st, ok := e.Current(); ok && st.Description != "" {
			b.WriteString(s.text.Render(truncate(st.Description, sideWidth-6)) + "\n\n")
		} else {
			b.WriteString(s.muted.Render("(initial state)") + "\n\n")
		}
	}

	row := func(label, value string) {
		b.WriteString(s.muted.Render(fmt.Sprintf("%-9s", label)) + s.value.Render(value) + "\n")
	}
	row("steps", strconv.FormatInt(m.StepsApplied, 10))
	row("frames", strconv.FormatInt(m.Frames, 10))
	row("p50", fmtDur(m.FrameP50))
	row("p95", fmtDur(m.FrameP95))
	if m.LastPlan.Total > 0 {
		row("rendered", fmt.Sprintf("%d/%d", m.LastPlan.Rendered(), m.LastPlan.Total))
	}
	if e != nil {
		if bps := e.Breakpoints(); len(bps) > 0 {
			row("breaks", joinInts(bps))
		}
	}

	if len(a.frameMS) > 1 {
		b.WriteString("\n" + s.separator(sideWidth-6) + "\n")
		chart := asciigraph.Plot(a.frameMS,
			asciigraph.Height(4),
			asciigraph.Width(sideWidth-12),
			asciigraph.Caption("frame ms"))
		b.WriteString(s.spark.Render(chart) + "\n")
	}
	if a.lastErr != nil {
		b.WriteString("\n" + s.errorText.Render(truncate(a.lastErr.Error(), sideWidth-6)) + "\n")
	}
	return b.String()
}

func fmtDur(d time.Duration) string {
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func truncate(s string, n int) string {
	if n < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
