package canvas

import (
	"strings"
	"testing"

	"github.com/vizlab/algoviz/internal/draw"
)

func TestSizes(t *testing.T) {
	c := New(10, 5)
	if w, h := c.Size(); w != 20 || h != 20 {
		t.Fatalf("Size() = %dx%d, want 20x20", w, h)
	}
	if cols, rows := c.Cells(); cols != 10 || rows != 5 {
		t.Fatalf("Cells() = %dx%d, want 10x5", cols, rows)
	}
}

func TestPixelMapsToBrailleDot(t *testing.T) {
	c := New(2, 1)
	c.Pixel(0, 0, draw.White)
	line := strings.SplitN(c.String(), "\n", 2)[0]
	if got := []rune(line)[0]; got != rune(0x2801) {
		t.Fatalf("top-left cell = %U, want U+2801", got)
	}
	if !c.At(0, 0) {
		t.Fatal("At(0,0) = false after Pixel")
	}
	if c.At(1, 0) {
		t.Fatal("At(1,0) = true, neighbor dot leaked")
	}
}

func TestUnset(t *testing.T) {
	c := New(2, 2)
	c.Pixel(3, 5, draw.White)
	c.Unset(3, 5)
	if c.At(3, 5) {
		t.Fatal("dot survives Unset")
	}
	for _, line := range strings.Split(strings.TrimRight(c.String(), "\n"), "\n") {
		for _, r := range line {
			if r != rune(0x2800) {
				t.Fatalf("cell %U not blank after Unset", r)
			}
		}
	}
}

func TestClear(t *testing.T) {
	c := New(4, 2)
	c.FillRect(0, 0, 8, 8, draw.White)
	c.Text(0, 0, "x", draw.White)
	c.Clear()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if c.At(x, y) {
				t.Fatalf("dot (%d,%d) survives Clear", x, y)
			}
		}
	}
	if strings.ContainsRune(c.String(), 'x') {
		t.Fatal("overlay survives Clear")
	}
}

func TestLineEndpointsAndMonotone(t *testing.T) {
	c := New(8, 4)
	c.Line(0, 0, 15, 15, draw.White)
	if !c.At(0, 0) || !c.At(15, 15) {
		t.Fatal("line endpoints not lit")
	}
	for i := 0; i <= 15; i++ {
		if !c.At(i, i) {
			t.Fatalf("diagonal dot (%d,%d) not lit", i, i)
		}
	}
}

func TestCircleCardinalPoints(t *testing.T) {
	c := New(10, 5)
	c.Circle(10, 10, 5, draw.White)
	for _, p := range [][2]int{{15, 10}, {5, 10}, {10, 15}, {10, 5}} {
		if !c.At(p[0], p[1]) {
			t.Fatalf("circle misses cardinal point (%d,%d)", p[0], p[1])
		}
	}
	if c.At(10, 10) {
		t.Fatal("circle outline filled its center")
	}
}

func TestFillRect(t *testing.T) {
	c := New(4, 2)
	c.FillRect(1, 1, 3, 4, draw.White)
	for y := 1; y < 5; y++ {
		for x := 1; x < 4; x++ {
			if !c.At(x, y) {
				t.Fatalf("rect dot (%d,%d) not lit", x, y)
			}
		}
	}
	if c.At(0, 0) || c.At(4, 1) {
		t.Fatal("rect spilled outside its bounds")
	}
}

func TestTextOverlay(t *testing.T) {
	c := New(6, 2)
	c.Pixel(0, 0, draw.White)
	c.Text(0, 0, "ab", draw.White)
	line := strings.SplitN(c.String(), "\n", 2)[0]
	if !strings.HasPrefix(line, "ab") {
		t.Fatalf("overlay line %q, want prefix \"ab\"", line)
	}
	c.Text(10, 0, "wide", draw.White)
	line = strings.SplitN(c.String(), "\n", 2)[0]
	if !strings.HasSuffix(line, "w") {
		t.Fatalf("overlay line %q, want clipped text ending in \"w\"", line)
	}
}

func TestOutOfBoundsIgnored(t *testing.T) {
	c := New(2, 2)
	c.Pixel(-1, 0, draw.White)
	c.Pixel(0, -3, draw.White)
	c.Pixel(100, 2, draw.White)
	c.Unset(-5, -5)
	c.Text(0, 100, "off", draw.White)
	c.Line(-4, -4, 2, 2, draw.White)
	if !c.At(0, 0) || !c.At(2, 2) {
		t.Fatal("in-bounds tail of clipped line not lit")
	}
	if c.At(100, 2) || c.At(-1, 0) {
		t.Fatal("At reports dots outside the surface")
	}
}

func TestFlush(t *testing.T) {
	if err := New(1, 1).Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestStringShape(t *testing.T) {
	c := New(3, 2)
	s := c.String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("%d lines, want 2", len(lines))
	}
	for i, line := range lines {
		if got := len([]rune(line)); got != 3 {
			t.Fatalf("line %d has %d runes, want 3", i, got)
		}
	}
}
