package extent

import (
	"strings"

	"github.com/akmonengine/occluder/voxel"
)

// Policy selects the directions an extent may grow in. Policies combine as
// bit flags; Regular excludes all others.
type Policy uint8

const (
	Regular Policy = 1 << iota
	Diagonals
	Top
	Bottom
	Sides
)

const directional = Diagonals | Top | Bottom | Sides

// policyOrder is the evaluation order, and the tie break between policies
// producing the same volume
var policyOrder = [...]Policy{Regular, Diagonals, Top, Bottom, Sides}

// Normalize applies the exclusivity of Regular. No policy at all means
// Regular.
func (p Policy) Normalize() Policy {
	if p&Regular != 0 || p&directional == 0 {
		return Regular
	}
	return p & directional
}

func (p Policy) String() string {
	names := make([]string, 0, len(policyOrder))
	for _, single := range policyOrder {
		if p&single == 0 {
			continue
		}
		switch single {
		case Regular:
			names = append(names, "regular")
		case Diagonals:
			names = append(names, "diagonals")
		case Top:
			names = append(names, "top")
		case Bottom:
			names = append(names, "bottom")
		case Sides:
			names = append(names, "sides")
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParsePolicy reads one policy name as printed by String
func ParsePolicy(name string) (Policy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "regular":
		return Regular, true
	case "diagonals", "diagonal":
		return Diagonals, true
	case "top":
		return Top, true
	case "bottom":
		return Bottom, true
	case "sides", "side":
		return Sides, true
	}
	return 0, false
}

var faceDirections = []voxel.Coord{
	{X: -1}, {X: 1},
	{Y: -1}, {Y: 1},
	{Z: -1}, {Z: 1},
}

// Y is up
var (
	topDirections    = []voxel.Coord{{Y: 1}}
	bottomDirections = []voxel.Coord{{Y: -1}}
	sideDirections   = []voxel.Coord{{X: -1}, {X: 1}, {Z: -1}, {Z: 1}}
)

// diagonalDirections steps along the 8 corners first, then along the faces
var diagonalDirections = func() []voxel.Coord {
	dirs := make([]voxel.Coord, 0, 14)
	for i := 0; i < 8; i++ {
		dirs = append(dirs, voxel.Coord{X: 2*(i&1) - 1, Y: 2*(i>>1&1) - 1, Z: 2*(i>>2&1) - 1})
	}
	return append(dirs, faceDirections...)
}()

// directions returns the ordered step set of a single policy
func (p Policy) directions() []voxel.Coord {
	switch p {
	case Diagonals:
		return diagonalDirections
	case Top:
		return topDirections
	case Bottom:
		return bottomDirections
	case Sides:
		return sideDirections
	}
	return faceDirections
}
