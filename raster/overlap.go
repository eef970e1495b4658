package raster

import (
	"math"

	"github.com/akmonengine/occluder/geom"
	"github.com/go-gl/mathgl/mgl64"
)

var boxAxes = [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// triangleBoxOverlap is the separating axis test between a triangle and a
// closed box given by center and half extents. Touching counts as overlap.
// Axes: the 9 edge/box-axis cross products, the 3 box normals and the
// triangle normal.
func triangleBoxOverlap(tri geom.Triangle, center, half mgl64.Vec3) bool {
	v0 := tri[0].Sub(center)
	v1 := tri[1].Sub(center)
	v2 := tri[2].Sub(center)

	edges := [3]mgl64.Vec3{v1.Sub(v0), v2.Sub(v1), v0.Sub(v2)}

	for _, e := range edges {
		for _, u := range boxAxes {
			if separatedOnAxis(u.Cross(e), v0, v1, v2, half) {
				return false
			}
		}
	}

	for _, u := range boxAxes {
		if separatedOnAxis(u, v0, v1, v2, half) {
			return false
		}
	}

	return !separatedOnAxis(edges[0].Cross(edges[1]), v0, v1, v2, half)
}

// separatedOnAxis projects both shapes on axis and reports a strict gap.
// A null axis never separates.
func separatedOnAxis(axis, v0, v1, v2, half mgl64.Vec3) bool {
	p0 := axis.Dot(v0)
	p1 := axis.Dot(v1)
	p2 := axis.Dot(v2)

	r := half.X()*math.Abs(axis.X()) + half.Y()*math.Abs(axis.Y()) + half.Z()*math.Abs(axis.Z())

	return math.Min(p0, math.Min(p1, p2)) > r || math.Max(p0, math.Max(p1, p2)) < -r
}
