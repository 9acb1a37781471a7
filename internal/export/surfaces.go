package export

import (
	"bytes"
	"fmt"
	"html"
	"image"
	"image/color"

	"github.com/vizlab/algoviz/internal/draw"
)

// svgSurface collects draw calls as SVG elements.
type svgSurface struct {
	w, h  int
	elems []string
}

func newSVGSurface(w, h int) *svgSurface { return &svgSurface{w: w, h: h} }

func (s *svgSurface) Size() (int, int) { return s.w, s.h }
func (s *svgSurface) Clear()           { s.elems = s.elems[:0] }
func (s *svgSurface) Flush() error     { return nil }

func (s *svgSurface) Pixel(x, y int, c draw.Color) {
	s.elems = append(s.elems, fmt.Sprintf(`<rect x="%d" y="%d" width="1" height="1" fill="%s"/>`, x, y, c.Hex()))
}

func (s *svgSurface) Line(x0, y0, x1, y1 int, c draw.Color) {
	s.elems = append(s.elems, fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`, x0, y0, x1, y1, c.Hex()))
}

func (s *svgSurface) Circle(cx, cy, r int, c draw.Color) {
	if r < 1 {
		s.Pixel(cx, cy, c)
		return
	}
	s.elems = append(s.elems, fmt.Sprintf(`<circle cx="%d" cy="%d" r="%d" fill="none" stroke="%s"/>`, cx, cy, r, c.Hex()))
}

func (s *svgSurface) FillRect(x, y, w, h int, c draw.Color) {
	s.elems = append(s.elems, fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`, x, y, w, h, c.Hex()))
}

func (s *svgSurface) Text(x, y int, str string, c draw.Color) {
	s.elems = append(s.elems, fmt.Sprintf(`<text x="%d" y="%d" fill="%s" font-family="monospace" font-size="10">%s</text>`,
		x, y, c.Hex(), html.EscapeString(str)))
}

func (s *svgSurface) document() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`, s.w, s.h, s.w, s.h)
	b.WriteByte('\n')
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, s.w, s.h, draw.Black.Hex())
	b.WriteByte('\n')
	for _, e := range s.elems {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	b.WriteString("</svg>\n")
	return b.Bytes()
}

// exportPalette is shared by every GIF frame. Index 0 is the background.
var exportPalette = color.Palette{
	color.Black,
	toRGBA(draw.White),
	toRGBA(draw.Gray),
	toRGBA(draw.Red),
	toRGBA(draw.Green),
	toRGBA(draw.Blue),
	toRGBA(draw.Yellow),
	toRGBA(draw.Cyan),
	toRGBA(draw.Magenta),
	toRGBA(draw.Orange),
}

func toRGBA(c draw.Color) color.Color {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

// imageSurface rasterizes draw calls into a paletted frame. Labels are
// omitted: raster surfaces carry no font, the vector formats keep them.
type imageSurface struct {
	img *image.Paletted
}

func newImageSurface(img *image.Paletted) *imageSurface { return &imageSurface{img: img} }

func (s *imageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *imageSurface) Clear() {
	for i := range s.img.Pix {
		s.img.Pix[i] = 0
	}
}

func (s *imageSurface) Flush() error { return nil }

func (s *imageSurface) Pixel(x, y int, c draw.Color) {
	s.img.Set(x, y, toRGBA(c))
}

func (s *imageSurface) Line(x0, y0, x1, y1 int, c draw.Color) {
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
		s.Pixel(x0, y0, c)
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

func (s *imageSurface) Circle(cx, cy, r int, c draw.Color) {
	if r < 0 {
		return
	}
	if r == 0 {
		s.Pixel(cx, cy, c)
		return
	}
	x, y := r, 0
	err := 1 - r
	for x >= y {
		s.Pixel(cx+x, cy+y, c)
		s.Pixel(cx-x, cy+y, c)
		s.Pixel(cx+x, cy-y, c)
		s.Pixel(cx-x, cy-y, c)
		s.Pixel(cx+y, cy+x, c)
		s.Pixel(cx-y, cy+x, c)
		s.Pixel(cx+y, cy-x, c)
		s.Pixel(cx-y, cy-x, c)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

func (s *imageSurface) FillRect(x, y, w, h int, c draw.Color) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			s.Pixel(xx, yy, c)
		}
	}
}

func (s *imageSurface) Text(int, int, string, draw.Color) {}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
