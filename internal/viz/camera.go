package viz

import (
	"math"

	"github.com/vizlab/algoviz/internal/graph"
)

const (
	minZoom  = 0.1
	maxZoom  = 10
	zoomStep = 1.2
	nearClip = 0.1
)

// camera projects world coordinates onto the surface plane for the 3-D
// view. The 2-D renderers never consult it.
type camera struct {
	position         graph.Vec3
	rotX, rotY, rotZ float64
	zoom             float64
	panX, panY       float64
}

func newCamera() *camera {
	return &camera{position: graph.Vec3{Z: 50}, zoom: 1}
}

func (c *camera) reset() { *c = *newCamera() }

func (c *camera) rotate(dx, dy, dz float64) {
	c.rotX += dx
	c.rotY += dy
	c.rotZ += dz
}

// zoomBy applies steps of the fixed zoom factor, positive in, negative
// out, clamped to [minZoom, maxZoom].
func (c *camera) zoomBy(steps int) {
	for ; steps > 0; steps-- {
		c.zoom = math.Min(maxZoom, c.zoom*zoomStep)
	}
	for ; steps < 0; steps++ {
		c.zoom = math.Max(minZoom, c.zoom/zoomStep)
	}
}

func (c *camera) pan(dx, dy float64) {
	c.panX += dx
	c.panY += dy
}

// rotatePoint rotates p around the X, then Y, then Z axis.
func (c *camera) rotatePoint(p graph.Vec3) graph.Vec3 {
	cx, sx := math.Cos(c.rotX), math.Sin(c.rotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.rotY), math.Sin(c.rotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.rotZ), math.Sin(c.rotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// project maps a world point to surface pixels. It returns the rotated
// depth and whether the point landed inside the surface.
func (c *camera) project(p graph.Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.rotatePoint(p).Scale(c.zoom)
	dist := c.position.Z
	if rot.Z >= dist-nearClip {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := float64(sh)
	if float64(sw) < minDim {
		minDim = float64(sw)
	}
	pScale := minDim / 3.0
	sx := int((rot.X+c.panX)*scale*pScale) + sw/2
	sy := int(-(rot.Y+c.panY)*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// distance measures how far p sits from the camera after rotation and
// zoom, for detail grading.
func (c *camera) distance(p graph.Vec3) float64 {
	return c.rotatePoint(p).Scale(c.zoom).Sub(c.position).Length()
}
