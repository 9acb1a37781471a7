// Package gui runs visualizations in a raylib window: the same preset
// menu and trace navigation as the terminal frontend, drawn through the
// hardware Surface at 60 FPS.
package gui

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/vizlab/algoviz/internal/config"
	"github.com/vizlab/algoviz/internal/viz"
)

// HUD palette, monochrome so the element colors coming out of the
// renderers stand out against it.
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

const (
	winWidth  = 1280
	winHeight = 720
	winScale  = 6

	defaultInterval = 0.15
	minInterval     = 0.02
	maxInterval     = 2.0
	telemetryCap    = 200
)

type App struct {
	Vis    *viz.Visualizer
	Window *Window
	Font   rl.Font

	Presets  []string
	Selected int
	InMenu   bool

	Preset    string
	Algorithm string
	Playing   bool
	Done      bool
	Quit      bool
	Interval  float32
	Accum     float32
	LastErr   error

	Telemetry []float64
}

func initWindow() {
	rl.InitWindow(winWidth, winHeight, "algoviz")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp builds the app and its shared window surface. With interactive
// set it starts on the preset menu; otherwise the caller loads a preset
// before entering the loop.
func NewApp(interactive bool) *App {
	font := loadFont()
	return &App{
		Window:    NewWindow(winWidth, winHeight, winScale, font),
		Font:      font,
		Presets:   config.ListPresets(),
		InMenu:    interactive,
		Interval:  defaultInterval,
		Telemetry: make([]float64, 0, telemetryCap),
	}
}

// RunInteractive opens the window on the preset menu and blocks until
// the user quits.
func RunInteractive() error {
	initWindow()
	defer rl.CloseWindow()
	a := NewApp(true)
	defer a.close()
	a.RunLoop()
	return nil
}

// Run opens the window directly on one preset.
func Run(presetName string) error {
	initWindow()
	defer rl.CloseWindow()
	a := NewApp(false)
	defer a.close()
	if err := a.loadPreset(presetName); err != nil {
		return err
	}
	a.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.Quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) close() {
	if a.Vis != nil {
		a.Vis.Close()
		a.Vis = nil
	}
}

func (a *App) loadPreset(name string) error {
	cfg, ok := config.GetPreset(name)
	if !ok {
		return errors.Wrapf(config.ErrConfiguration, "algoviz/gui: unknown preset %q", name)
	}
	v, err := viz.New(cfg)
	if err != nil {
		return err
	}
	if err := v.Initialize(a.Window); err != nil {
		v.Close()
		return err
	}
	if res := v.Run(cfg.Algorithm, cfg.Params()); !res.OK() {
		v.Close()
		return res.Err
	}

	a.close()
	a.Vis = v
	a.Preset = name
	a.Algorithm = cfg.Algorithm
	a.InMenu = false
	a.Playing = false
	a.Done = false
	a.Accum = 0
	a.LastErr = nil
	return nil
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.Quit = true
		return
	}
	if a.InMenu {
		a.updateMenu()
		return
	}
	a.updatePlayback()
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
	}
	if a.Selected >= len(a.Presets) {
		a.Selected = 0
	}
	if a.Selected < 0 {
		a.Selected = len(a.Presets) - 1
	}

	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		if err := a.loadPreset(a.Presets[a.Selected]); err != nil {
			a.LastErr = err
		}
	}
}

func (a *App) updatePlayback() {
	ctx := context.Background()

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.close()
		a.InMenu = true
		a.Playing = false
		a.LastErr = nil
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Playing = !a.Playing
		a.Accum = 0
	}
	if rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyL) {
		a.Playing = false
		a.advance(ctx)
	}
	if rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyH) {
		a.Playing = false
		a.Vis.StepBackward()
		a.syncDone()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		a.Playing = false
		if res := a.Vis.ContinueToBreakpoint(ctx); res.Status == viz.StatusFailed {
			a.LastErr = res.Err
		}
		a.syncDone()
	}
	if rl.IsKeyPressed(rl.KeyB) {
		if e := a.Vis.Engine(); e != nil {
			idx := e.Cursor()
			if e.HasBreakpoint(idx) {
				a.Vis.ClearBreakpoint(idx)
			} else {
				a.Vis.SetBreakpoint(idx)
			}
		}
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Playing = false
		a.Vis.ResetTrace(ctx)
		a.syncDone()
		a.LastErr = nil
	}

	if rl.IsKeyPressed(rl.KeyEqual) {
		a.Interval /= 2
		if a.Interval < minInterval {
			a.Interval = minInterval
		}
	}
	if rl.IsKeyPressed(rl.KeyMinus) {
		a.Interval *= 2
		if a.Interval > maxInterval {
			a.Interval = maxInterval
		}
	}
	if rl.IsKeyPressed(rl.KeyZero) {
		a.Interval = defaultInterval
	}

	// Camera input only moves anything on a 3d view; elsewhere the
	// visualizer reports no-op and the keys are free.
	if rl.IsKeyDown(rl.KeyW) {
		a.Vis.RotateCamera(0.02, 0, 0)
	}
	if rl.IsKeyDown(rl.KeyS) {
		a.Vis.RotateCamera(-0.02, 0, 0)
	}
	if rl.IsKeyDown(rl.KeyA) {
		a.Vis.RotateCamera(0, -0.02, 0)
	}
	if rl.IsKeyDown(rl.KeyD) {
		a.Vis.RotateCamera(0, 0.02, 0)
	}
	if rl.IsKeyPressed(rl.KeyV) {
		a.Vis.ResetCamera()
	}
	wheel := rl.GetMouseWheelMove()
	if wheel > 0 {
		a.Vis.ZoomCamera(1)
	} else if wheel < 0 {
		a.Vis.ZoomCamera(-1)
	}
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		a.Vis.PanCamera(float64(delta.X)/8, float64(delta.Y)/8)
	}

	mouse := rl.GetMousePosition()
	mx, my := a.Window.Logical(mouse.X, mouse.Y)
	a.Vis.HandlePointer(mx, my, rl.IsMouseButtonPressed(rl.MouseLeftButton))

	if a.Playing {
		a.Accum += rl.GetFrameTime()
		for a.Accum >= a.Interval && a.Playing {
			a.Accum -= a.Interval
			a.advance(ctx)
		}
	}
}

func (a *App) advance(ctx context.Context) {
	res := a.Vis.StepForward(ctx)
	switch res.Status {
	case viz.StatusFailed, viz.StatusCancelled:
		a.Playing = false
		a.LastErr = res.Err
	}
	a.syncDone()
	if a.Done {
		a.Playing = false
	}
}

func (a *App) syncDone() {
	e := a.Vis.Engine()
	a.Done = e != nil && e.Done() && e.Cursor() == e.Len()
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		start := time.Now()
		a.Vis.ForceRender()
		a.recordFrame(float64(time.Since(start).Microseconds()) / 1000)
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) recordFrame(ms float64) {
	a.Telemetry = append(a.Telemetry, ms)
	if len(a.Telemetry) > telemetryCap {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) DrawHUD() {
	a.drawText("algoviz", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Preset), 140, 34, 16, ColText)

	status, col := "PAUSED", ColTextDim
	switch {
	case a.LastErr != nil:
		status, col = "ERROR", rl.Red
	case a.Done:
		status, col = "DONE", ColAccent
	case a.Playing:
		status, col = "RUNNING", ColSelect
	}
	a.drawText(status, 1150, 30, 16, col)

	if e := a.Vis.Engine(); e != nil {
		counter := fmt.Sprintf("%d/%d", e.Cursor(), e.Len())
		if !e.Done() {
			counter += "+"
		}
		a.drawText(counter, 1150, 54, 16, ColText)
		if bps := e.Breakpoints(); len(bps) > 0 {
			a.drawText(fmt.Sprintf("break %v", bps), 1040, 78, 14, ColTextDim)
		}
		if st, ok := e.Current(); ok && st.Description != "" {
			a.drawText(st.Description, 30, 560, 16, ColAccent)
		}
	}
	if a.LastErr != nil {
		a.drawText(a.LastErr.Error(), 30, 536, 14, rl.Red)
	}

	a.DrawTelemetry()

	a.drawText("[SPACE] PAUSE  [<-/->] STEP  [C] CONTINUE  [B] BREAK  [R] RESET  [ESC] MENU  [Q] QUIT", 540, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

// DrawTelemetry plots the recent render cost as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("%.1fms", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

func (a *App) drawMenu() {
	a.drawText("algoviz", 50, 50, 40, ColSelect)
	a.drawText("Select Preset", 50, 100, 16, ColTextDim)

	limit := 18
	startIdx := 0
	if a.Selected >= limit {
		startIdx = a.Selected - limit + 1
	}

	y := 160
	for i := startIdx; i < len(a.Presets) && i < startIdx+limit; i++ {
		name := a.Presets[i]
		algoName := ""
		if p, ok := config.Presets[name]; ok {
			algoName = p.Algorithm
		}
		if i == a.Selected {
			a.drawText(fmt.Sprintf("> %-18s %s", name, algoName), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %-18s %s", name, algoName), 50, y, 20, ColText)
		}
		y += 28
	}

	if a.LastErr != nil {
		a.drawText(a.LastErr.Error(), 50, 650, 14, rl.Red)
	}
	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 680, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
