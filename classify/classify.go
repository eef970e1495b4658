// Package classify separates the voxels enclosed by the surface from the
// ones reachable from outside, and measures how deep each enclosed voxel is.
package classify

import "github.com/akmonengine/occluder/voxel"

type Stats struct {
	Boundary int
	Outside  int
	Inside   int
}

// Classify flood fills from the grid's outer layer through the voxels no
// triangle touched, marking what it reaches Outside. Every touched voxel is a
// wall, whatever its coverage, so whether the surface is closed never depends
// on the fill percentage. Unreached untouched voxels become Inside. Touched
// voxels keep Boundary when Voxelize gave it and are Outside otherwise.
//
// Stats.Inside == 0 means the fill reached everything: the mesh is open or
// thinner than a voxel.
func Classify(g *voxel.Grid) Stats {
	reached := make([]bool, g.Len())
	queue := make([]int, 0, 2*(g.Size.X*g.Size.Y+g.Size.Y*g.Size.Z+g.Size.X*g.Size.Z))

	for i := 0; i < g.Len(); i++ {
		if !g.Touched(i) && g.OnBorder(g.Coord(i)) {
			reached[i] = true
			queue = append(queue, i)
		}
	}

	for head := 0; head < len(queue); head++ {
		c := g.Coord(queue[head])
		for _, d := range voxel.Neighbors6 {
			n := c.Add(d)
			if !g.Contains(n) {
				continue
			}
			ni := g.Index(n)
			if reached[ni] || g.Touched(ni) {
				continue
			}
			reached[ni] = true
			queue = append(queue, ni)
		}
	}

	var stats Stats
	for i := 0; i < g.Len(); i++ {
		switch {
		case g.Class(i) == voxel.Boundary:
			stats.Boundary++
		case !reached[i] && !g.Touched(i):
			g.SetClass(i, voxel.Inside)
			stats.Inside++
		default:
			g.SetClass(i, voxel.Outside)
			stats.Outside++
		}
	}

	return stats
}

// Clearance stores, for every Inside voxel, its 6-connected distance in
// voxels to the nearest non Inside voxel (1 when face adjacent to one).
// Other voxels get 0. It returns the largest clearance found.
func Clearance(g *voxel.Grid) int {
	queue := make([]int, 0, g.Len()/4)

	for i := 0; i < g.Len(); i++ {
		if g.Class(i) != voxel.Inside {
			g.SetClearance(i, 0)
			continue
		}
		g.SetClearance(i, -1)
		if touchesNonInside(g, g.Coord(i)) {
			g.SetClearance(i, 1)
			queue = append(queue, i)
		}
	}

	maxClearance := 0
	for head := 0; head < len(queue); head++ {
		i := queue[head]
		d := g.Clearance(i)
		maxClearance = max(maxClearance, d)

		c := g.Coord(i)
		for _, off := range voxel.Neighbors6 {
			n := c.Add(off)
			if !g.Contains(n) {
				continue
			}
			ni := g.Index(n)
			if g.Clearance(ni) != -1 {
				continue
			}
			g.SetClearance(ni, d+1)
			queue = append(queue, ni)
		}
	}

	return maxClearance
}

// touchesNonInside reports Inside voxels face adjacent to another class
func touchesNonInside(g *voxel.Grid, c voxel.Coord) bool {
	for _, d := range voxel.Neighbors6 {
		n := c.Add(d)
		if !g.Contains(n) || g.ClassAt(n) != voxel.Inside {
			return true
		}
	}
	return false
}
