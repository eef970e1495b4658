// Package models provides closed test meshes: an exact cube and solids
// tessellated from signed distance functions.
package models

import (
	"fmt"
	"math"
	"sort"

	"github.com/akmonengine/occluder/geom"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultCells is the marching cubes resolution along the longest axis
const DefaultCells = 64

// Cube returns the 12 triangle cube of the given edge, centered at the origin
func Cube(edge float64) geom.Mesh {
	h := edge / 2
	return geom.BoxMesh(geom.AABB{Min: mgl64.Vec3{-h, -h, -h}, Max: mgl64.Vec3{h, h, h}})
}

func Sphere(radius float64) (sdf.SDF3, error) {
	return sdf.Sphere3D(radius)
}

// Column is an upright cylinder: Y is up, so the Z aligned sdfx cylinder
// is turned onto the Y axis.
func Column(height, radius float64) (sdf.SDF3, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, err
	}
	return sdf.Transform3D(s, sdf.RotateX(math.Pi/2)), nil
}

// HollowBox is a closed box with a sealed inner cavity, walls of the given
// thickness
func HollowBox(edge, wall float64) (sdf.SDF3, error) {
	if wall <= 0 || 2*wall >= edge {
		return nil, fmt.Errorf("wall %v does not fit in a box of edge %v", wall, edge)
	}
	outer, err := sdf.Box3D(v3.Vec{X: edge, Y: edge, Z: edge}, 0)
	if err != nil {
		return nil, err
	}
	inner, err := sdf.Box3D(v3.Vec{X: edge - 2*wall, Y: edge - 2*wall, Z: edge - 2*wall}, 0)
	if err != nil {
		return nil, err
	}
	return sdf.Difference3D(outer, inner), nil
}

// Arch is a block with a half cylinder carved out of its base along X
func Arch(width, height, depth, radius float64) (sdf.SDF3, error) {
	block, err := sdf.Box3D(v3.Vec{X: width, Y: height, Z: depth}, 0)
	if err != nil {
		return nil, err
	}
	tunnel, err := sdf.Cylinder3D(width*2, radius, 0)
	if err != nil {
		return nil, err
	}
	tunnel = sdf.Transform3D(tunnel, sdf.RotateY(math.Pi/2).Mul(sdf.Translate3d(v3.Vec{Y: -height / 2})))
	return sdf.Difference3D(block, tunnel), nil
}

// FromSDF tessellates s with marching cubes into an unwelded triangle list
func FromSDF(s sdf.SDF3, cells int) geom.Mesh {
	if cells <= 0 {
		cells = DefaultCells
	}

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(s, renderer)

	m := geom.Mesh{
		Vertices: make([]mgl32.Vec3, 0, len(triangles)*3),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}
	for _, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			m.Indices = append(m.Indices, uint32(len(m.Vertices)))
			m.Vertices = append(m.Vertices, mgl32.Vec3{float32(v.X), float32(v.Y), float32(v.Z)})
		}
	}

	return m
}

// Inside reports whether p is inside the solid, with a tolerance for the
// tessellation error
func Inside(s sdf.SDF3, p mgl64.Vec3, tolerance float64) bool {
	return s.Evaluate(v3.Vec{X: p.X(), Y: p.Y(), Z: p.Z()}) <= tolerance
}

var builtins = map[string]func() (sdf.SDF3, error){
	"sphere": func() (sdf.SDF3, error) { return Sphere(1) },
	"column": func() (sdf.SDF3, error) { return Column(4, 0.5) },
	"hollow": func() (sdf.SDF3, error) { return HollowBox(2, 0.25) },
	"arch":   func() (sdf.SDF3, error) { return Arch(3, 2, 1, 0.6) },
}

// Names lists the built-in models, "cube" included
func Names() []string {
	names := []string{"cube"}
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names[1:])
	return names
}

// ByName returns a built-in model mesh, tessellated with cells cells
func ByName(name string, cells int) (geom.Mesh, error) {
	if name == "cube" {
		return Cube(2), nil
	}

	build, ok := builtins[name]
	if !ok {
		return geom.Mesh{}, fmt.Errorf("unknown model %q (known: %v)", name, Names())
	}
	s, err := build()
	if err != nil {
		return geom.Mesh{}, fmt.Errorf("building model %q: %w", name, err)
	}
	return FromSDF(s, cells), nil
}

// SDF returns the distance function of a tessellated built-in model
func SDF(name string) (sdf.SDF3, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("model %q has no distance function", name)
	}
	return build()
}
