package assemble

import "github.com/akmonengine/occluder/voxel"

// Flags selects the inspection categories to emit
type Flags uint8

const (
	ShowInner Flags = 1 << iota
	// ShowOuter emits the Outside voxels
	ShowOuter
	ShowMinDistance
	ShowExtent
	ShowSliceSelection
	ShowResult
)

// NoSelection disables a slice or voxel selector on every axis
var NoSelection = voxel.Coord{X: -1, Y: -1, Z: -1}

// Debug drives the inspection output. A negative Slice component keeps
// every voxel along that axis.
type Debug struct {
	Flags Flags
	Slice voxel.Coord
	// Voxel is highlighted when all its components are in the grid
	Voxel         voxel.Coord
	ExtentIndex   int
	ExtentMaxStep int
	// VoxelScale shrinks per voxel cubes so neighbours stay distinguishable
	VoxelScale float64
}

func DefaultDebug() Debug {
	return Debug{
		Slice:         NoSelection,
		Voxel:         NoSelection,
		ExtentIndex:   -1,
		ExtentMaxStep: -1,
		VoxelScale:    0.8,
	}
}

// Inspecting reports whether the output differs from the plain occluder
func (d Debug) Inspecting() bool {
	return d.Flags&^ShowResult != 0
}

func (d Debug) inSlice(c voxel.Coord) bool {
	for axis := 0; axis < 3; axis++ {
		if s := d.Slice.Axis(axis); s >= 0 && c.Axis(axis) != s {
			return false
		}
	}
	return true
}

func (d Debug) voxelScale() float64 {
	if d.VoxelScale <= 0 {
		return 1
	}
	return d.VoxelScale
}
