// Package assemble turns extents, and optionally the voxel grid itself,
// into a 16-bit indexed box mesh.
package assemble

import (
	"github.com/akmonengine/occluder/extent"
	"github.com/akmonengine/occluder/geom"
	"github.com/akmonengine/occluder/voxel"
	"github.com/go-gl/mathgl/mgl32"
)

// Category tags one emit step. Steps always run in this order.
type Category uint8

const (
	CategoryInner Category = iota
	CategoryOuter
	CategoryDistance
	CategoryExtent
	CategorySliceMarker
	CategoryResult
)

func (c Category) String() string {
	switch c {
	case CategoryInner:
		return "inner"
	case CategoryOuter:
		return "outer"
	case CategoryDistance:
		return "distance"
	case CategoryExtent:
		return "extent"
	case CategorySliceMarker:
		return "slice"
	case CategoryResult:
		return "result"
	}
	return "unknown"
}

type Input struct {
	Grid    *voxel.Grid
	Extents []extent.Extent
	// Traced is the extent shown by ShowExtent, nil when none
	Traced       *extent.Extent
	MaxClearance int
	// MaxVertices lowers the vertex cap, 0 keeps geom.MaxVertices
	MaxVertices int
}

type Output struct {
	Mesh *geom.OccluderMesh
	// Truncated is set when a box was refused; Cut is the category that
	// was cut, later categories were dropped entirely
	Truncated bool
	Cut       Category
}

// Steps lists the categories emitted for dbg, in emission order
func Steps(dbg Debug) []Category {
	if !dbg.Inspecting() {
		return []Category{CategoryResult}
	}

	steps := make([]Category, 0, 6)
	for _, s := range []struct {
		flag     Flags
		category Category
	}{
		{ShowInner, CategoryInner},
		{ShowOuter, CategoryOuter},
		{ShowMinDistance, CategoryDistance},
		{ShowExtent, CategoryExtent},
		{ShowSliceSelection, CategorySliceMarker},
		{ShowResult, CategoryResult},
	} {
		if dbg.Flags&s.flag != 0 {
			steps = append(steps, s.category)
		}
	}
	return steps
}

// Assemble emits every step of dbg into a single mesh
func Assemble(in Input, dbg Debug) Output {
	b := newBuilder(in.MaxVertices)

	for _, category := range Steps(dbg) {
		if !emit(b, category, in, dbg) {
			return Output{Mesh: b.mesh, Truncated: true, Cut: category}
		}
	}

	return Output{Mesh: b.mesh}
}

// emit runs one step, false when the builder refused a box
func emit(b *builder, category Category, in Input, dbg Debug) bool {
	g := in.Grid

	switch category {
	case CategoryInner, CategoryOuter, CategoryDistance:
		want := voxel.Inside
		if category == CategoryOuter {
			want = voxel.Outside
		}
		scale := dbg.voxelScale()

		for i := 0; i < g.Len(); i++ {
			if g.Class(i) != want {
				continue
			}
			c := g.Coord(i)
			if !dbg.inSlice(c) {
				continue
			}

			color := innerColor
			switch category {
			case CategoryOuter:
				color = outerColor
			case CategoryDistance:
				color = DistanceColor(g.Clearance(i), in.MaxClearance)
			}
			if !b.addBox(g.VoxelBounds(c).Scale(scale), color) {
				return false
			}
		}

	case CategoryExtent:
		if in.Traced != nil {
			return b.addBox(g.RangeBounds(in.Traced.Min, in.Traced.Max), extentColor)
		}

	case CategorySliceMarker:
		for axis := 0; axis < 3; axis++ {
			s := dbg.Slice.Axis(axis)
			if s < 0 || s >= g.Size.Axis(axis) {
				continue
			}
			lo := voxel.Coord{}.SetAxis(axis, s)
			hi := voxel.Coord{X: g.Size.X - 1, Y: g.Size.Y - 1, Z: g.Size.Z - 1}.SetAxis(axis, s)
			if !b.addBox(g.RangeBounds(lo, hi), sliceColor) {
				return false
			}
		}
		if g.Contains(dbg.Voxel) {
			return b.addBox(g.VoxelBounds(dbg.Voxel).Scale(1.1), selectionColor)
		}

	case CategoryResult:
		for _, e := range in.Extents {
			if !b.addBox(g.RangeBounds(e.Min, e.Max), PolicyColor(e.Policy)) {
				return false
			}
		}
	}

	return true
}

var (
	innerColor     = mgl32.Vec4{0.2, 0.8, 0.2, 1}
	outerColor     = mgl32.Vec4{0.6, 0.6, 0.6, 1}
	extentColor    = mgl32.Vec4{1, 0.5, 0, 1}
	sliceColor     = mgl32.Vec4{0.3, 0.5, 1, 0.25}
	selectionColor = mgl32.Vec4{1, 1, 0, 0.5}
)

// DistanceColor ramps from blue at the surface to red at the deepest voxel
func DistanceColor(clearance, maxClearance int) mgl32.Vec4 {
	t := float32(1)
	if maxClearance > 1 {
		t = float32(clearance-1) / float32(maxClearance-1)
	}
	if t < 0.5 {
		u := 2 * t
		return mgl32.Vec4{0, u, 1 - u, 1}
	}
	u := 2 * (t - 0.5)
	return mgl32.Vec4{u, 1 - u, 0, 1}
}

func PolicyColor(p extent.Policy) mgl32.Vec4 {
	switch p {
	case extent.Diagonals:
		return mgl32.Vec4{0.9, 0.3, 0.9, 1}
	case extent.Top:
		return mgl32.Vec4{0.3, 0.9, 0.9, 1}
	case extent.Bottom:
		return mgl32.Vec4{0.9, 0.9, 0.3, 1}
	case extent.Sides:
		return mgl32.Vec4{0.3, 0.3, 0.9, 1}
	}
	return mgl32.Vec4{0.9, 0.3, 0.3, 1}
}
