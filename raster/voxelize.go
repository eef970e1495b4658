// Package raster marks the voxels crossed by a triangle mesh surface.
//
// Each triangle is tested against the closed box of every candidate voxel
// with a separating axis test. Overlapping voxels accumulate the area of the
// triangle clipped to their box, in units of one voxel face. A touched voxel
// becomes Boundary once that coverage reaches the fill percentage.
//
// A triangle lying in a voxel plane belongs to the voxels on the side its
// normal points to, never to the voxels it bounds from the outside.
package raster

import (
	"math"

	"github.com/akmonengine/occluder/geom"
	"github.com/akmonengine/occluder/voxel"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// fillEpsilon absorbs the rounding of clipped areas, so a fully covered
// voxel passes a fill percentage of 1.
const fillEpsilon = 1e-6

// planeEpsilon, in voxels, pads every voxel box so a surface lying on a voxel
// plane survives the rounding of Origin + i*VoxelSize.
const planeEpsilon = 1e-6

type Stats struct {
	Triangles  int
	Degenerate int
	Touched    int
	Boundary   int
}

// Voxelize rasterizes mesh into g and marks Boundary voxels.
// Slabs of constant z are shared among workers; every voxel is owned by one
// slab and reads its triangles in index order, so the result does not depend
// on the worker count.
func Voxelize(g *voxel.Grid, mesh geom.Mesh, fill float64, workers int) Stats {
	workers = max(DEFAULT_WORKERS, workers)

	var stats Stats
	count := mesh.TriangleCount()
	triangles := make([]geom.Triangle, 0, count)
	spans := make([]span, 0, count)
	planes := make([]axisPlane, 0, count)
	bins := newSlabBins(g.Size.Z)

	for i := 0; i < count; i++ {
		tri := mesh.Triangle(i)
		if tri.Degenerate() {
			stats.Degenerate++
			continue
		}

		s := voxelSpan(g, tri.Bounds())
		bins.Insert(len(triangles), s)
		triangles = append(triangles, tri)
		spans = append(spans, s)
		planes = append(planes, alignedPlane(tri))
	}
	stats.Triangles = len(triangles)

	slabs := make([]int, g.Size.Z)
	for z := range slabs {
		slabs[z] = z
	}

	task(workers, slabs, func(z int) {
		clip := newClipper()
		for _, ti := range bins.slabs[z].triangleIndices {
			rasterizeSlab(g, triangles[ti], spans[ti], planes[ti], z, clip)
		}
	})

	threshold := fill - fillEpsilon
	for i := 0; i < g.Len(); i++ {
		if !g.Touched(i) {
			continue
		}
		stats.Touched++

		if g.Coverage(i) >= threshold {
			g.SetClass(i, voxel.Boundary)
			stats.Boundary++
		}
	}

	return stats
}

// rasterizeSlab touches the voxels of slab z overlapped by tri
func rasterizeSlab(g *voxel.Grid, tri geom.Triangle, s span, plane axisPlane, z int, clip *clipper) {
	faceArea := g.VoxelSize * g.VoxelSize
	eps := planeEpsilon * g.VoxelSize
	pad := mgl64.Vec3{eps, eps, eps}
	half := mgl64.Vec3{g.VoxelSize / 2, g.VoxelSize / 2, g.VoxelSize / 2}.Add(pad)

	for y := s.min.Y; y <= s.max.Y; y++ {
		for x := s.min.X; x <= s.max.X; x++ {
			c := voxel.Coord{X: x, Y: y, Z: z}
			box := g.VoxelBounds(c)

			if plane.behind(box, eps) {
				continue
			}
			if !triangleBoxOverlap(tri, box.Center(), half) {
				continue
			}

			box = geom.AABB{Min: box.Min.Sub(pad), Max: box.Max.Add(pad)}
			g.Touch(g.Index(c), clip.area(tri, box)/faceArea)
		}
	}
}

// axisPlane - Plan de voxel portant un triangle aligné sur les axes
type axisPlane struct {
	axis   int // -1 pour un triangle oblique
	offset float64
	normal float64
}

// alignedPlane finds the axis on which the three vertices of tri share one
// coordinate, along with the sign of the normal on that axis
func alignedPlane(tri geom.Triangle) axisPlane {
	n := tri.Normal()
	for axis := 0; axis < 3; axis++ {
		if tri[0][axis] == tri[1][axis] && tri[1][axis] == tri[2][axis] {
			return axisPlane{axis: axis, offset: tri[0][axis], normal: math.Copysign(1, n[axis])}
		}
	}
	return axisPlane{axis: -1}
}

// behind reports a box whose face on the plane is the one the normal leaves
// from: the box lies under the surface, not on it.
func (p axisPlane) behind(box geom.AABB, eps float64) bool {
	if p.axis < 0 {
		return false
	}
	if p.normal > 0 {
		return math.Abs(box.Max[p.axis]-p.offset) <= eps
	}
	return math.Abs(box.Min[p.axis]-p.offset) <= eps
}
