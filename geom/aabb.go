package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will overwrite
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// Extend grows the box to include the point
func (a AABB) Extend(p mgl64.Vec3) AABB {
	for i := 0; i < 3; i++ {
		a.Min[i] = math.Min(a.Min[i], p[i])
		a.Max[i] = math.Max(a.Max[i], p[i])
	}
	return a
}

// Size returns the extent of the box on each axis
func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// ContainsAABB checks if other lies entirely within a, faces included
func (a AABB) ContainsAABB(other AABB) bool {
	return a.ContainsPoint(other.Min) && a.ContainsPoint(other.Max)
}

// Scale shrinks or grows the box about its center
func (a AABB) Scale(factor float64) AABB {
	c := a.Center()
	half := a.Size().Mul(0.5 * factor)
	return AABB{Min: c.Sub(half), Max: c.Add(half)}
}

// Corners returns the 8 corners of the box, ordered as BoxCorners
func (a AABB) Corners() [8]mgl64.Vec3 {
	var corners [8]mgl64.Vec3
	for i, bits := range BoxCorners {
		for axis := 0; axis < 3; axis++ {
			if bits[axis] == 0 {
				corners[i][axis] = a.Min[axis]
			} else {
				corners[i][axis] = a.Max[axis]
			}
		}
	}
	return corners
}
