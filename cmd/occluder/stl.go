package main

import (
	"github.com/akmonengine/occluder/geom"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func toTriangles(m *geom.OccluderMesh) []*sdf.Triangle3 {
	triangles := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		var tri sdf.Triangle3
		for j := 0; j < 3; j++ {
			tri[j] = v3.Vec{X: t[j].X(), Y: t[j].Y(), Z: t[j].Z()}
		}
		triangles = append(triangles, &tri)
	}
	return triangles
}

func saveSTL(path string, m *geom.OccluderMesh) error {
	return render.SaveSTL(path, toTriangles(m))
}
