// Package canvas implements draw.Surface on a braille character grid,
// the terminal backend for 2-D and 3-D views. Every cell packs 2x4 dots,
// so a cols x rows canvas exposes a (cols*2) x (rows*4) pixel surface.
package canvas

import (
	"strings"

	"github.com/vizlab/algoviz/internal/draw"
)

// Braille dot layout per cell:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// Unicode offset 0x2800.
var pixelMap = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const blank = rune(0x2800)

// Canvas is a monochrome braille surface with a text overlay for labels.
// Colors are accepted and ignored. Flush is a no-op; callers read the
// frame back with String.
type Canvas struct {
	cols, rows int
	cells      [][]rune
	overlay    [][]rune
}

// New allocates a canvas of cols x rows character cells.
func New(cols, rows int) *Canvas {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c := &Canvas{cols: cols, rows: rows}
	c.cells = make([][]rune, rows)
	c.overlay = make([][]rune, rows)
	for i := range c.cells {
		c.cells[i] = make([]rune, cols)
		c.overlay[i] = make([]rune, cols)
		for j := range c.cells[i] {
			c.cells[i][j] = blank
		}
	}
	return c
}

// Size reports the surface in pixels.
func (c *Canvas) Size() (int, int) { return c.cols * 2, c.rows * 4 }

// Resize reallocates the grid for a new cell size, dropping content.
func (c *Canvas) Resize(cols, rows int) {
	*c = *New(cols, rows)
}

// Cells reports the surface in character cells.
func (c *Canvas) Cells() (int, int) { return c.cols, c.rows }

// Clear blanks every dot and the text overlay.
func (c *Canvas) Clear() {
	for i := range c.cells {
		for j := range c.cells[i] {
			c.cells[i][j] = blank
			c.overlay[i][j] = 0
		}
	}
}

func (c *Canvas) Pixel(x, y int, _ draw.Color) { c.set(x, y) }

func (c *Canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row][col] |= pixelMap[y%4][x%2]
}

// Unset clears one dot.
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.cols || row >= c.rows {
		return
	}
	c.cells[row][col] &^= pixelMap[y%4][x%2]
	if c.cells[row][col] < blank {
		c.cells[row][col] = blank
	}
}

// At reports whether the dot at (x, y) is lit.
func (c *Canvas) At(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.cols || row >= c.rows {
		return false
	}
	return c.cells[row][col]&pixelMap[y%4][x%2] != 0
}

// Line draws with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int, col draw.Color) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Pixel(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Circle draws a midpoint circle outline.
func (c *Canvas) Circle(cx, cy, r int, col draw.Color) {
	if r < 0 {
		return
	}
	if r == 0 {
		c.Pixel(cx, cy, col)
		return
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		c.Pixel(cx+x, cy+y, col)
		c.Pixel(cx-x, cy+y, col)
		c.Pixel(cx+x, cy-y, col)
		c.Pixel(cx-x, cy-y, col)
		c.Pixel(cx+y, cy+x, col)
		c.Pixel(cx-y, cy+x, col)
		c.Pixel(cx+y, cy-x, col)
		c.Pixel(cx-y, cy-x, col)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// FillRect lights every dot inside the rectangle.
func (c *Canvas) FillRect(x, y, w, h int, col draw.Color) {
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			c.Pixel(x+dx, y+dy, col)
		}
	}
}

// Text places s on the overlay starting at the cell containing (x, y).
// Overlay runes replace braille cells when the frame is composed.
func (c *Canvas) Text(x, y int, s string, _ draw.Color) {
	if y < 0 {
		return
	}
	row := y / 4
	if row >= c.rows {
		return
	}
	col := x / 2
	for _, r := range s {
		if col >= c.cols {
			return
		}
		if col >= 0 {
			c.overlay[row][col] = r
		}
		col++
	}
}

func (c *Canvas) Flush() error { return nil }

// String composes the frame, one line per cell row.
func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.rows * (c.cols + 1))
	line := make([]rune, c.cols)
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			if r := c.overlay[row][col]; r != 0 {
				line[col] = r
			} else {
				line[col] = c.cells[row][col]
			}
		}
		b.WriteString(string(line))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
