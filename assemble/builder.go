package assemble

import (
	"github.com/akmonengine/occluder/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// builder appends boxes to a mesh until the vertex cap is reached
type builder struct {
	mesh        *geom.OccluderMesh
	maxVertices int
}

func newBuilder(maxVertices int) *builder {
	if maxVertices <= 0 || maxVertices > geom.MaxVertices {
		maxVertices = geom.MaxVertices
	}

	return &builder{
		mesh:        &geom.OccluderMesh{},
		maxVertices: maxVertices,
	}
}

// addBox emits 8 vertices and 12 triangles. It refuses, leaving the mesh
// untouched, when the box would exceed the cap.
func (b *builder) addBox(box geom.AABB, color mgl32.Vec4) bool {
	m := b.mesh
	if len(m.Vertices)+len(geom.BoxCorners) > b.maxVertices {
		return false
	}

	base := uint16(len(m.Vertices))
	for _, c := range box.Corners() {
		m.Vertices = append(m.Vertices, mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])})
		m.Colors = append(m.Colors, color)
	}
	for _, idx := range geom.BoxTriangles {
		m.Indices = append(m.Indices, base+idx)
	}

	return true
}
