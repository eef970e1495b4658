package extent

import (
	"testing"

	"github.com/akmonengine/occluder/classify"
	"github.com/akmonengine/occluder/geom"
	"github.com/akmonengine/occluder/raster"
	"github.com/akmonengine/occluder/voxel"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// classifiedGrid runs the stages preceding extent growth
func classifiedGrid(mesh geom.Mesh, voxelSize float64) *voxel.Grid {
	g := voxel.New(mesh.Bounds(), voxelSize)
	raster.Voxelize(g, mesh, 1, 1)
	classify.Classify(g)
	classify.Clearance(g)
	return g
}

// cubeGrid has a 2x2x2 interior at voxels 1..2
func cubeGrid() *voxel.Grid {
	return classifiedGrid(geom.BoxMesh(geom.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 2, 2}}), 1)
}

func tiltedGrid() *voxel.Grid {
	mesh := geom.BoxMesh(geom.AABB{Min: mgl64.Vec3{-1, -2, -1.5}, Max: mgl64.Vec3{1, 2, 1.5}})
	rot := mgl32.AnglesToQuat(0.5, 0.25, -0.4, mgl32.XYZ)
	for i, v := range mesh.Vertices {
		mesh.Vertices[i] = rot.Rotate(v)
	}
	return classifiedGrid(mesh, 0.25)
}

func TestPolicyNormalize(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   Policy
	}{
		{"none", 0, Regular},
		{"regular", Regular, Regular},
		{"regular clears others", Regular | Top | Sides, Regular},
		{"directional kept", Top | Bottom, Top | Bottom},
		{"unknown bits dropped", Diagonals | 0x80, Diagonals},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.Normalize(); got != tt.want {
				t.Errorf("Normalize(%v) = %v, want %v", tt.policy, got, tt.want)
			}
		})
	}
}

func TestParsePolicy(t *testing.T) {
	for _, p := range policyOrder {
		got, ok := ParsePolicy(p.String())
		if !ok || got != p {
			t.Errorf("ParsePolicy(%q) = %v, %v", p.String(), got, ok)
		}
	}
	if _, ok := ParsePolicy("spiral"); ok {
		t.Errorf("ParsePolicy(spiral) accepted")
	}
	if s := (Top | Sides).String(); s != "top|sides" {
		t.Errorf("String() = %q, want top|sides", s)
	}
}

func TestDiagonalDirections(t *testing.T) {
	dirs := Diagonals.directions()
	if len(dirs) != 14 {
		t.Fatalf("len = %d, want 14", len(dirs))
	}
	for i := 0; i < 8; i++ {
		d := dirs[i]
		if abs(d.X) != 1 || abs(d.Y) != 1 || abs(d.Z) != 1 {
			t.Errorf("corner direction %d = %v", i, d)
		}
	}
	for i := 8; i < 14; i++ {
		d := dirs[i]
		if abs(d.X)+abs(d.Y)+abs(d.Z) != 1 {
			t.Errorf("face direction %d = %v", i, d)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestGrowCube(t *testing.T) {
	g := cubeGrid()

	tests := []struct {
		name     string
		policies Policy
		count    int
		first    Extent
	}{
		{"regular", Regular, 1, Extent{voxel.Coord{X: 1, Y: 1, Z: 1}, voxel.Coord{X: 2, Y: 2, Z: 2}, Regular}},
		{"diagonals", Diagonals, 1, Extent{voxel.Coord{X: 1, Y: 1, Z: 1}, voxel.Coord{X: 2, Y: 2, Z: 2}, Diagonals}},
		{"top", Top, 4, Extent{voxel.Coord{X: 1, Y: 1, Z: 1}, voxel.Coord{X: 1, Y: 2, Z: 1}, Top}},
		{"bottom", Bottom, 8, Extent{voxel.Coord{X: 1, Y: 1, Z: 1}, voxel.Coord{X: 1, Y: 1, Z: 1}, Bottom}},
		{"sides", Sides, 2, Extent{voxel.Coord{X: 1, Y: 1, Z: 1}, voxel.Coord{X: 2, Y: 1, Z: 2}, Sides}},
		// Sides l'emporte sur Top et Bottom au premier germe
		{"combined", Top | Bottom | Sides, 2, Extent{voxel.Coord{X: 1, Y: 1, Z: 1}, voxel.Coord{X: 2, Y: 1, Z: 2}, Sides}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extents, saturated := Grow(g, tt.policies, 0)
			if saturated {
				t.Errorf("saturated = true")
			}
			if len(extents) != tt.count {
				t.Fatalf("len(extents) = %d, want %d: %v", len(extents), tt.count, extents)
			}
			if extents[0] != tt.first {
				t.Errorf("extents[0] = %v, want %v", extents[0], tt.first)
			}
		})
	}
}

func TestGrowConservativeAndDisjoint(t *testing.T) {
	g := tiltedGrid()
	inside := g.Count(voxel.Inside)
	if inside == 0 {
		t.Fatalf("tilted box has no inside voxel")
	}

	for _, policies := range []Policy{Regular, Diagonals, Top, Bottom, Sides, Diagonals | Top | Bottom | Sides} {
		extents, saturated := Grow(g, policies, 0)
		if saturated {
			t.Errorf("%v: saturated", policies)
		}

		owner := make([]int, g.Len())
		covered := 0
		for n, e := range extents {
			if e.Volume() < 1 {
				t.Errorf("%v: extent %d is empty", policies, n)
			}
			for z := e.Min.Z; z <= e.Max.Z; z++ {
				for y := e.Min.Y; y <= e.Max.Y; y++ {
					for x := e.Min.X; x <= e.Max.X; x++ {
						i := g.Index(voxel.Coord{X: x, Y: y, Z: z})
						if g.Class(i) != voxel.Inside {
							t.Fatalf("%v: extent %d covers %v voxel %v", policies, n, g.Class(i), g.Coord(i))
						}
						if owner[i] != 0 {
							t.Fatalf("%v: extents %d and %d overlap at %v", policies, owner[i]-1, n, g.Coord(i))
						}
						owner[i] = n + 1
						covered++
					}
				}
			}
		}

		if covered != inside {
			t.Errorf("%v: extents cover %d voxels, want %d", policies, covered, inside)
		}
	}
}

func TestGrowDeterministic(t *testing.T) {
	g := tiltedGrid()
	first, _ := Grow(g, Diagonals|Sides, 0)
	second, _ := Grow(g, Diagonals|Sides, 0)

	if len(first) != len(second) {
		t.Fatalf("runs produced %d and %d extents", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("extent %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestGrowSeedsDeepestFirst(t *testing.T) {
	g := tiltedGrid()
	extents, _ := Grow(g, Regular, 0)
	if len(extents) == 0 {
		t.Fatalf("Grow() returned no extent, %d inside voxels", g.Count(voxel.Inside))
	}

	deepest := 0
	for i := 0; i < g.Len(); i++ {
		deepest = max(deepest, g.Clearance(i))
	}

	c := extents[0]
	found := false
	for z := c.Min.Z; z <= c.Max.Z && !found; z++ {
		for y := c.Min.Y; y <= c.Max.Y && !found; y++ {
			for x := c.Min.X; x <= c.Max.X && !found; x++ {
				found = g.Clearance(g.Index(voxel.Coord{X: x, Y: y, Z: z})) == deepest
			}
		}
	}
	if !found {
		t.Errorf("first extent %v does not contain a voxel of clearance %d", c, deepest)
	}
}

func TestGrowMaxExtents(t *testing.T) {
	g := cubeGrid()

	extents, saturated := Grow(g, Bottom, 3)
	if len(extents) != 3 || !saturated {
		t.Errorf("Grow(maxExtents=3) = %d extents, saturated %v; want 3, true", len(extents), saturated)
	}

	extents, saturated = Grow(g, Bottom, 8)
	if len(extents) != 8 || saturated {
		t.Errorf("Grow(maxExtents=8) = %d extents, saturated %v; want 8, false", len(extents), saturated)
	}
}

func TestTrace(t *testing.T) {
	g := cubeGrid()
	gr := NewGrower(g, Regular, 0)

	tests := []struct {
		name     string
		index    int
		maxSteps int
		want     Extent
		ok       bool
	}{
		{"seed only", 0, 0, Extent{voxel.Coord{X: 1, Y: 1, Z: 1}, voxel.Coord{X: 1, Y: 1, Z: 1}, Regular}, true},
		// -x est bloqué, le premier pas réussi est +x
		{"one step", 0, 1, Extent{voxel.Coord{X: 1, Y: 1, Z: 1}, voxel.Coord{X: 2, Y: 1, Z: 1}, Regular}, true},
		{"two steps", 0, 2, Extent{voxel.Coord{X: 1, Y: 1, Z: 1}, voxel.Coord{X: 2, Y: 2, Z: 1}, Regular}, true},
		{"unbounded", 0, -1, Extent{voxel.Coord{X: 1, Y: 1, Z: 1}, voxel.Coord{X: 2, Y: 2, Z: 2}, Regular}, true},
		{"out of range", 1, -1, Extent{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := gr.Trace(tt.index, tt.maxSteps)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Trace(%d, %d) = %v, %v; want %v, %v", tt.index, tt.maxSteps, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestTraceMatchesGrow(t *testing.T) {
	g := tiltedGrid()
	gr := NewGrower(g, Top|Sides, 0)
	extents, _ := gr.Grow()
	if len(extents) < 2 {
		t.Fatalf("len(extents) = %d, want at least 2", len(extents))
	}

	for _, index := range []int{0, 1, len(extents) / 2, len(extents) - 1} {
		got, ok := gr.Trace(index, -1)
		if !ok || got != extents[index] {
			t.Errorf("Trace(%d) = %v, %v; want %v", index, got, ok, extents[index])
		}
	}
}

func TestExtentExpand(t *testing.T) {
	e := Extent{Min: voxel.Coord{X: 1, Y: 1, Z: 1}, Max: voxel.Coord{X: 2, Y: 2, Z: 2}}

	got := e.expand(voxel.Coord{X: -1, Y: 1, Z: 1})
	want := Extent{Min: voxel.Coord{X: 0, Y: 1, Z: 1}, Max: voxel.Coord{X: 2, Y: 3, Z: 3}}
	if got != want {
		t.Errorf("expand = %v, want %v", got, want)
	}
	if got.Volume() != 3*3*3 {
		t.Errorf("Volume() = %d, want 27", got.Volume())
	}
	if !got.Contains(voxel.Coord{X: 0, Y: 3, Z: 2}) || got.Contains(voxel.Coord{X: 3, Y: 1, Z: 1}) {
		t.Errorf("Contains mismatch for %v", got)
	}
}
