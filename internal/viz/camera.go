package viz

import (
	"math"
	"sort"

	"github.com/san-kum/dynpoly/internal/dynamo"
)

// Camera projects world points onto a canvas with a weak perspective
// around the origin.
type Camera struct {
	RotX, RotY, RotZ float64
	Zoom             float64
	// Extent is the world half-width that fills the shorter canvas side.
	Extent   float64
	Distance float64
}

func NewCamera(extent float64) *Camera {
	if extent <= 0 {
		extent = 1
	}
	return &Camera{Zoom: 1, Extent: extent, Distance: 8 * extent, RotX: 0.35, RotY: -0.5}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) rotate(p dynamo.Vec3) dynamo.Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps p to sub-pixel coordinates of a w x h canvas. It returns
// the depth for ordering and whether the point lands on the canvas.
func (c *Camera) Project(p dynamo.Vec3, w, h int) (int, int, float64, bool) {
	r := c.rotate(p)
	if r.Z >= c.Distance {
		return 0, 0, 0, false
	}
	persp := c.Distance / (c.Distance - r.Z)
	half := float64(min(w, h)) / 2
	s := persp * c.Zoom * half / c.Extent
	x := int(math.Round(r.X*s)) + w/2
	y := int(math.Round(-r.Y*s)) + h/2
	return x, y, r.Z, x >= 0 && x < w && y >= 0 && y < h
}

// Scene collects segments in world space and draws them back to front.
type Scene struct {
	segs []segment
}

type segment struct {
	a, b dynamo.Vec3
}

func (s *Scene) Reset()                { s.segs = s.segs[:0] }
func (s *Scene) Line(a, b dynamo.Vec3) { s.segs = append(s.segs, segment{a, b}) }
func (s *Scene) Point(p dynamo.Vec3)   { s.segs = append(s.segs, segment{p, p}) }
func (s *Scene) Len() int              { return len(s.segs) }

// Render draws every segment with at least one visible end.
func (s *Scene) Render(c *Canvas, cam *Camera) {
	w, h := c.Pixels()
	type projected struct {
		x0, y0, x1, y1 int
		depth          float64
	}
	out := make([]projected, 0, len(s.segs))
	for _, sg := range s.segs {
		x0, y0, d0, ok0 := cam.Project(sg.a, w, h)
		x1, y1, d1, ok1 := cam.Project(sg.b, w, h)
		if ok0 || ok1 {
			out = append(out, projected{x0, y0, x1, y1, (d0 + d1) / 2})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].depth < out[j].depth })
	for _, p := range out {
		c.DrawLine(p.x0, p.y0, p.x1, p.y1)
	}
}
