package voxel

import (
	"math"

	"github.com/akmonengine/occluder/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Class is the inside/outside classification of a voxel
type Class uint8

const (
	Outside Class = iota
	Boundary
	Inside
)

func (c Class) String() string {
	switch c {
	case Outside:
		return "outside"
	case Boundary:
		return "boundary"
	case Inside:
		return "inside"
	}
	return "unknown"
}

// Coord is an integer voxel coordinate
type Coord struct {
	X, Y, Z int
}

func (c Coord) Add(o Coord) Coord {
	return Coord{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Axis returns the component on axis 0 (X), 1 (Y) or 2 (Z)
func (c Coord) Axis(axis int) int {
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	}
	return c.Z
}

// SetAxis returns c with the given axis replaced by v
func (c Coord) SetAxis(axis, v int) Coord {
	switch axis {
	case 0:
		c.X = v
	case 1:
		c.Y = v
	default:
		c.Z = v
	}
	return c
}

// Neighbors6 are the face-adjacent offsets
var Neighbors6 = [6]Coord{
	{-1, 0, 0}, {1, 0, 0},
	{0, -1, 0}, {0, 1, 0},
	{0, 0, -1}, {0, 0, 1},
}

// Dimensions returns the grid size for the bounds: the voxel count covering
// each axis plus one padding voxel on each side. A flat axis still gets one
// interior voxel.
func Dimensions(bounds geom.AABB, voxelSize float64) [3]float64 {
	size := bounds.Size()
	var dims [3]float64
	for axis := 0; axis < 3; axis++ {
		dims[axis] = math.Max(1, math.Ceil(size[axis]/voxelSize)) + 2
	}
	return dims
}

// Grid is a dense voxel grid over a mesh's bounds.
// Every per voxel buffer is indexed by x + y*Size.X + z*Size.X*Size.Y.
type Grid struct {
	Size      Coord
	VoxelSize float64
	Origin    mgl64.Vec3

	classes   []Class
	clearance []int32
	coverage  []float32
	touched   []bool
}

// New allocates the grid covering bounds. Callers check Dimensions against
// their memory ceiling first.
func New(bounds geom.AABB, voxelSize float64) *Grid {
	dims := Dimensions(bounds, voxelSize)
	size := Coord{int(dims[0]), int(dims[1]), int(dims[2])}
	n := size.X * size.Y * size.Z

	return &Grid{
		Size:      size,
		VoxelSize: voxelSize,
		Origin:    bounds.Min.Sub(mgl64.Vec3{voxelSize, voxelSize, voxelSize}),
		classes:   make([]Class, n),
		clearance: make([]int32, n),
		coverage:  make([]float32, n),
		touched:   make([]bool, n),
	}
}

func (g *Grid) Len() int {
	return len(g.classes)
}

// Index maps a coordinate to its linear index
func (g *Grid) Index(c Coord) int {
	return c.X + c.Y*g.Size.X + c.Z*g.Size.X*g.Size.Y
}

// Coord maps a linear index back to its coordinate
func (g *Grid) Coord(i int) Coord {
	plane := g.Size.X * g.Size.Y
	z := i / plane
	i -= z * plane
	y := i / g.Size.X
	return Coord{i - y*g.Size.X, y, z}
}

func (g *Grid) Contains(c Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.Z >= 0 &&
		c.X < g.Size.X && c.Y < g.Size.Y && c.Z < g.Size.Z
}

// OnBorder reports voxels of the outer padding layer
func (g *Grid) OnBorder(c Coord) bool {
	return c.X == 0 || c.Y == 0 || c.Z == 0 ||
		c.X == g.Size.X-1 || c.Y == g.Size.Y-1 || c.Z == g.Size.Z-1
}

func (g *Grid) Class(i int) Class {
	return g.classes[i]
}

func (g *Grid) SetClass(i int, c Class) {
	g.classes[i] = c
}

func (g *Grid) ClassAt(c Coord) Class {
	return g.classes[g.Index(c)]
}

// Count returns the number of voxels of a class
func (g *Grid) Count(class Class) int {
	n := 0
	for _, c := range g.classes {
		if c == class {
			n++
		}
	}
	return n
}

func (g *Grid) Clearance(i int) int {
	return int(g.clearance[i])
}

func (g *Grid) SetClearance(i, d int) {
	g.clearance[i] = int32(d)
}

// Touch records that a triangle overlaps voxel i, covering the given
// fraction of a voxel face. Coverage saturates at 1.
func (g *Grid) Touch(i int, fraction float64) {
	g.touched[i] = true
	g.coverage[i] = float32(math.Min(1, float64(g.coverage[i])+fraction))
}

func (g *Grid) Touched(i int) bool {
	return g.touched[i]
}

func (g *Grid) Coverage(i int) float64 {
	return float64(g.coverage[i])
}

// WorldToVoxel returns the voxel containing the point, unclamped
func (g *Grid) WorldToVoxel(p mgl64.Vec3) Coord {
	rel := p.Sub(g.Origin).Mul(1 / g.VoxelSize)
	return Coord{
		X: int(math.Floor(rel.X())),
		Y: int(math.Floor(rel.Y())),
		Z: int(math.Floor(rel.Z())),
	}
}

// VoxelMin returns the world position of the voxel's minimum corner
func (g *Grid) VoxelMin(c Coord) mgl64.Vec3 {
	return g.Origin.Add(mgl64.Vec3{
		float64(c.X) * g.VoxelSize,
		float64(c.Y) * g.VoxelSize,
		float64(c.Z) * g.VoxelSize,
	})
}

// VoxelBounds returns the closed world box of one voxel
func (g *Grid) VoxelBounds(c Coord) geom.AABB {
	return g.RangeBounds(c, c)
}

// RangeBounds returns the world box spanning voxels min..max inclusive
func (g *Grid) RangeBounds(min, max Coord) geom.AABB {
	return geom.AABB{
		Min: g.VoxelMin(min),
		Max: g.VoxelMin(max.Add(Coord{1, 1, 1})),
	}
}
