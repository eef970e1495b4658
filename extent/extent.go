// Package extent covers the Inside voxels of a classified grid with
// disjoint boxes, grown greedily from the deepest voxels outward.
package extent

import (
	"sort"

	"github.com/akmonengine/occluder/geom"
	"github.com/akmonengine/occluder/voxel"
)

// DefaultMaxExtents keeps a result of 8-vertex boxes within 16-bit indices
const DefaultMaxExtents = geom.MaxVertices / 8

// Extent is an inclusive box of voxels
type Extent struct {
	Min    voxel.Coord
	Max    voxel.Coord
	Policy Policy
}

func (e Extent) Size() voxel.Coord {
	return voxel.Coord{X: e.Max.X - e.Min.X + 1, Y: e.Max.Y - e.Min.Y + 1, Z: e.Max.Z - e.Min.Z + 1}
}

func (e Extent) Volume() int {
	s := e.Size()
	return s.X * s.Y * s.Z
}

func (e Extent) Contains(c voxel.Coord) bool {
	return c.X >= e.Min.X && c.X <= e.Max.X &&
		c.Y >= e.Min.Y && c.Y <= e.Max.Y &&
		c.Z >= e.Min.Z && c.Z <= e.Max.Z
}

// expand pushes each face whose axis component of d is non zero
func (e Extent) expand(d voxel.Coord) Extent {
	for axis := 0; axis < 3; axis++ {
		switch step := d.Axis(axis); {
		case step < 0:
			e.Min = e.Min.SetAxis(axis, e.Min.Axis(axis)-1)
		case step > 0:
			e.Max = e.Max.SetAxis(axis, e.Max.Axis(axis)+1)
		}
	}
	return e
}

// Grower claims Inside voxels extent after extent. A Grower is reset by
// every Grow or Trace call and is not safe for concurrent use.
type Grower struct {
	grid       *voxel.Grid
	policies   Policy
	maxExtents int
	claimed    []bool
}

func NewGrower(g *voxel.Grid, policies Policy, maxExtents int) *Grower {
	if maxExtents <= 0 {
		maxExtents = DefaultMaxExtents
	}

	return &Grower{
		grid:       g,
		policies:   policies.Normalize(),
		maxExtents: maxExtents,
		claimed:    make([]bool, g.Len()),
	}
}

// Grow covers the Inside voxels. saturated reports that the extent ceiling
// stopped the loop while unclaimed Inside voxels remained.
func (gr *Grower) Grow() (extents []Extent, saturated bool) {
	clear(gr.claimed)

	for _, seed := range gr.seeds() {
		if gr.claimed[seed] {
			continue
		}
		if len(extents) == gr.maxExtents {
			return extents, true
		}

		best := gr.best(gr.grid.Coord(seed), -1)
		gr.claim(best)
		extents = append(extents, best)
	}

	return extents, false
}

// Trace replays Grow up to extent index and regrows that extent with at
// most maxSteps successful steps (negative means unbounded). ok is false
// when fewer extents exist.
func (gr *Grower) Trace(index, maxSteps int) (e Extent, ok bool) {
	clear(gr.claimed)

	count := 0
	for _, seed := range gr.seeds() {
		if gr.claimed[seed] {
			continue
		}
		if count == gr.maxExtents {
			break
		}
		if count == index {
			return gr.best(gr.grid.Coord(seed), maxSteps), true
		}

		gr.claim(gr.best(gr.grid.Coord(seed), -1))
		count++
	}

	return Extent{}, false
}

// seeds returns the Inside voxels by decreasing clearance, then scan order
func (gr *Grower) seeds() []int {
	g := gr.grid
	seeds := make([]int, 0, g.Len()/8)
	for i := 0; i < g.Len(); i++ {
		if g.Class(i) == voxel.Inside {
			seeds = append(seeds, i)
		}
	}

	sort.SliceStable(seeds, func(a, b int) bool {
		return g.Clearance(seeds[a]) > g.Clearance(seeds[b])
	})

	return seeds
}

// best grows every enabled policy from seed and keeps the largest volume
func (gr *Grower) best(seed voxel.Coord, maxSteps int) Extent {
	var best Extent
	bestVolume := 0

	for _, p := range policyOrder {
		if gr.policies&p == 0 {
			continue
		}
		e := gr.grow(seed, p, maxSteps)
		if v := e.Volume(); v > bestVolume {
			best, bestVolume = e, v
		}
	}

	return best
}

// grow applies the policy directions in rounds. A direction whose next
// layer is blocked retires for good; growth ends when none is left.
func (gr *Grower) grow(seed voxel.Coord, p Policy, maxSteps int) Extent {
	e := Extent{Min: seed, Max: seed, Policy: p}
	dirs := p.directions()

	active := make([]bool, len(dirs))
	for k := range active {
		active[k] = true
	}
	remaining := len(dirs)
	steps := 0

	for remaining > 0 {
		for k, d := range dirs {
			if !active[k] {
				continue
			}
			if maxSteps >= 0 && steps >= maxSteps {
				return e
			}

			next := e.expand(d)
			if gr.free(e, next) {
				e = next
				steps++
			} else {
				active[k] = false
				remaining--
			}
		}
	}

	return e
}

// free reports whether every voxel of next outside e is Inside and unclaimed
func (gr *Grower) free(e, next Extent) bool {
	g := gr.grid
	if !g.Contains(next.Min) || !g.Contains(next.Max) {
		return false
	}

	for z := next.Min.Z; z <= next.Max.Z; z++ {
		for y := next.Min.Y; y <= next.Max.Y; y++ {
			inOld := z >= e.Min.Z && z <= e.Max.Z && y >= e.Min.Y && y <= e.Max.Y
			if !inOld {
				if !gr.rowFree(next.Min.X, next.Max.X, y, z) {
					return false
				}
				continue
			}
			if !gr.rowFree(next.Min.X, e.Min.X-1, y, z) || !gr.rowFree(e.Max.X+1, next.Max.X, y, z) {
				return false
			}
		}
	}

	return true
}

func (gr *Grower) rowFree(x0, x1, y, z int) bool {
	if x0 > x1 {
		return true
	}
	base := gr.grid.Index(voxel.Coord{X: x0, Y: y, Z: z})
	for i := base; i <= base+x1-x0; i++ {
		if gr.claimed[i] || gr.grid.Class(i) != voxel.Inside {
			return false
		}
	}
	return true
}

func (gr *Grower) claim(e Extent) {
	for z := e.Min.Z; z <= e.Max.Z; z++ {
		for y := e.Min.Y; y <= e.Max.Y; y++ {
			base := gr.grid.Index(voxel.Coord{X: e.Min.X, Y: y, Z: z})
			for i := base; i <= base+e.Max.X-e.Min.X; i++ {
				gr.claimed[i] = true
			}
		}
	}
}

// Grow is a shortcut for NewGrower(g, policies, maxExtents).Grow()
func Grow(g *voxel.Grid, policies Policy, maxExtents int) ([]Extent, bool) {
	return NewGrower(g, policies, maxExtents).Grow()
}
