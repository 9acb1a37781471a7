// Package draw defines the rendering vocabulary shared by visualizers,
// plugins, and surface backends: view kinds, colors, element styles, and
// the Surface draw-primitive boundary.
package draw

import "fmt"

// Kind identifies the shape of data a renderer displays.
type Kind string

const (
	KindSequence Kind = "sequence"
	KindGraph2D  Kind = "graph2d"
	KindTree     Kind = "tree"
	KindGraph3D  Kind = "graph3d"
)

// Kinds lists every renderer kind in display order.
func Kinds() []Kind {
	return []Kind{KindSequence, KindGraph2D, KindTree, KindGraph3D}
}

// ParseKind maps a config string to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindSequence, KindGraph2D, KindTree, KindGraph3D:
		return Kind(s), true
	}
	return "", false
}

// Color is an 8-bit RGB triple. Monochrome surfaces may ignore it.
type Color struct {
	R, G, B uint8
}

// Hex renders the color as "#rrggbb" for SVG and terminal profiles.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

var (
	Black   = Color{0x00, 0x00, 0x00}
	White   = Color{0xf0, 0xf0, 0xf0}
	Gray    = Color{0x80, 0x80, 0x80}
	Red     = Color{0xe0, 0x4a, 0x4a}
	Green   = Color{0x4a, 0xe0, 0x7a}
	Blue    = Color{0x4a, 0x8a, 0xe0}
	Yellow  = Color{0xe0, 0xd0, 0x4a}
	Cyan    = Color{0x4a, 0xd0, 0xe0}
	Magenta = Color{0xd0, 0x4a, 0xe0}
	Orange  = Color{0xe0, 0x9a, 0x3a}
)

// Style carries the algorithm-independent visual attributes of an element.
type Style struct {
	Color   Color
	Size    float64
	Opacity float64
}

// Surface is the boundary between renderers and concrete backends. All
// coordinates are surface pixels with the origin at the top left. A
// backend that cannot honor color (the braille terminal canvas) ignores
// it; Flush presents the completed frame.
type Surface interface {
	Size() (w, h int)
	Clear()
	Pixel(x, y int, c Color)
	Line(x0, y0, x1, y1 int, c Color)
	Circle(cx, cy, r int, c Color)
	FillRect(x, y, w, h int, c Color)
	Text(x, y int, s string, c Color)
	Flush() error
}
