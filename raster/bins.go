package raster

import (
	"math"

	"github.com/akmonengine/occluder/geom"
	"github.com/akmonengine/occluder/voxel"
)

// ============================================================================
// Types
// ============================================================================

// span - Plage de voxels candidats d'un triangle
type span struct {
	min, max voxel.Coord
}

// slab - Indices des triangles pouvant toucher une tranche z
type slab struct {
	triangleIndices []int
}

// slabBins groups triangles by the z slabs of the grid they may touch.
// Indices are appended in triangle order so every slab stays sorted.
type slabBins struct {
	slabs []slab
}

// ============================================================================
// Constructeur
// ============================================================================

func newSlabBins(depth int) *slabBins {
	slabs := make([]slab, depth)
	for i := range slabs {
		slabs[i].triangleIndices = make([]int, 0, 8)
	}

	return &slabBins{slabs: slabs}
}

// Insert - Insère un triangle dans toutes les tranches qu'il occupe
func (sb *slabBins) Insert(triangleIndex int, s span) {
	for z := s.min.Z; z <= s.max.Z; z++ {
		sb.slabs[z].triangleIndices = append(sb.slabs[z].triangleIndices, triangleIndex)
	}
}

// voxelSpan returns the voxels whose closed boxes may touch bounds, clamped
// to the grid. The range is one voxel wider on each side: voxel boxes are
// built as Origin + i*VoxelSize, which may round away from the division used
// here when a coordinate lies on a voxel plane.
func voxelSpan(g *voxel.Grid, bounds geom.AABB) span {
	var lo, hi voxel.Coord
	size := [3]int{g.Size.X, g.Size.Y, g.Size.Z}

	for axis := 0; axis < 3; axis++ {
		minRel := (bounds.Min[axis] - g.Origin[axis]) / g.VoxelSize
		maxRel := (bounds.Max[axis] - g.Origin[axis]) / g.VoxelSize

		l := int(math.Floor(minRel)) - 1
		h := int(math.Floor(maxRel)) + 1

		lo = lo.SetAxis(axis, max(0, l))
		hi = hi.SetAxis(axis, min(size[axis]-1, h))
	}

	return span{min: lo, max: hi}
}
