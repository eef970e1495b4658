package raster

import (
	"github.com/akmonengine/occluder/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// A triangle clipped by 6 planes has at most 9 vertices
const maxClipVertices = 12

// clipper holds the ping-pong polygon buffers of one worker
type clipper struct {
	a, b []mgl64.Vec3
}

func newClipper() *clipper {
	return &clipper{
		a: make([]mgl64.Vec3, 0, maxClipVertices),
		b: make([]mgl64.Vec3, 0, maxClipVertices),
	}
}

// area returns the area of the part of tri lying inside the closed box
func (c *clipper) area(tri geom.Triangle, box geom.AABB) float64 {
	poly := append(c.a[:0], tri[0], tri[1], tri[2])
	out := c.b

	for axis := 0; axis < 3; axis++ {
		out = clipPlane(poly, out, axis, box.Min[axis], 1)
		poly, out = out, poly
		if len(poly) < 3 {
			return 0
		}

		out = clipPlane(poly, out, axis, box.Max[axis], -1)
		poly, out = out, poly
		if len(poly) < 3 {
			return 0
		}
	}

	return polygonArea(poly)
}

// clipPlane keeps the part of the polygon where sign*(p[axis]-bound) >= 0
func clipPlane(in, out []mgl64.Vec3, axis int, bound, sign float64) []mgl64.Vec3 {
	out = out[:0]
	n := len(in)

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := in[j], in[i]
		da := sign * (a[axis] - bound)
		db := sign * (b[axis] - bound)

		if (da >= 0) != (db >= 0) {
			t := da / (da - db)
			p := a.Add(b.Sub(a).Mul(t))
			p[axis] = bound
			out = append(out, p)
		}
		if db >= 0 {
			out = append(out, b)
		}
	}

	return out
}

// polygonArea of a planar convex polygon
func polygonArea(poly []mgl64.Vec3) float64 {
	var sum mgl64.Vec3
	for i := 1; i+1 < len(poly); i++ {
		sum = sum.Add(poly[i].Sub(poly[0]).Cross(poly[i+1].Sub(poly[0])))
	}
	return 0.5 * sum.Len()
}
