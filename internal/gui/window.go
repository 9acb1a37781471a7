package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/vizlab/algoviz/internal/draw"
)

// Window is the hardware draw.Surface. Renderers work in logical surface
// pixels; the window multiplies every coordinate by a backing scale so
// node radii and line widths computed for the terminal raster come out
// at a sensible size on screen. Draw calls are only valid between
// BeginDrawing and EndDrawing, which the app loop brackets.
type Window struct {
	cols, rows int
	scale      int32
	labelSize  float32
	font       rl.Font
	background rl.Color
}

// NewWindow derives a logical surface from the device size and scale.
func NewWindow(width, height, scale int, font rl.Font) *Window {
	if scale < 1 {
		scale = 1
	}
	return &Window{
		cols:       width / scale,
		rows:       height / scale,
		scale:      int32(scale),
		labelSize:  float32(scale) * 2,
		font:       font,
		background: ColBg,
	}
}

// Logical maps device coordinates (mouse) into surface pixels.
func (w *Window) Logical(x, y float32) (int, int) {
	return int(x) / int(w.scale), int(y) / int(w.scale)
}

func (w *Window) Size() (int, int) { return w.cols, w.rows }

func (w *Window) Clear() {
	rl.ClearBackground(w.background)
}

func (w *Window) Pixel(x, y int, c draw.Color) {
	rl.DrawRectangle(int32(x)*w.scale, int32(y)*w.scale, w.scale, w.scale, toRL(c))
}

func (w *Window) Line(x0, y0, x1, y1 int, c draw.Color) {
	thick := float32(w.scale) / 3
	if thick < 1 {
		thick = 1
	}
	rl.DrawLineEx(w.device(x0, y0), w.device(x1, y1), thick, toRL(c))
}

func (w *Window) Circle(cx, cy, r int, c draw.Color) {
	center := w.device(cx, cy)
	radius := float32(r) * float32(w.scale)
	if radius < float32(w.scale) {
		radius = float32(w.scale)
	}
	rl.DrawCircleV(center, radius, toRL(c))
}

func (w *Window) FillRect(x, y, wd, h int, c draw.Color) {
	rl.DrawRectangle(int32(x)*w.scale, int32(y)*w.scale, int32(wd)*w.scale, int32(h)*w.scale, toRL(c))
}

func (w *Window) Text(x, y int, s string, c draw.Color) {
	pos := w.device(x, y)
	pos.Y -= w.labelSize / 2
	rl.DrawTextEx(w.font, s, pos, w.labelSize, 1, toRL(c))
}

// Flush is a no-op; EndDrawing presents the frame.
func (w *Window) Flush() error { return nil }

func (w *Window) device(x, y int) rl.Vector2 {
	half := float32(w.scale) / 2
	return rl.NewVector2(float32(int32(x)*w.scale)+half, float32(int32(y)*w.scale)+half)
}

func toRL(c draw.Color) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, 255)
}
