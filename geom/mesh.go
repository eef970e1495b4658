package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// MaxVertices is the number of vertices addressable by 16-bit indices
const MaxVertices = 1 << 16

// degenerateAreaEpsilon bounds the squared length of twice the triangle area
const degenerateAreaEpsilon = 1e-18

// Mesh is an indexed triangle list, three indices per triangle.
// Pipeline stages never modify it.
type Mesh struct {
	Vertices []mgl32.Vec3
	Indices  []uint32
}

func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns triangle i promoted to double precision
func (m Mesh) Triangle(i int) Triangle {
	return Triangle{
		vec64(m.Vertices[m.Indices[3*i]]),
		vec64(m.Vertices[m.Indices[3*i+1]]),
		vec64(m.Vertices[m.Indices[3*i+2]]),
	}
}

// Bounds returns the box enclosing every referenced vertex
func (m Mesh) Bounds() AABB {
	bounds := EmptyAABB()
	for _, idx := range m.Indices {
		bounds = bounds.Extend(vec64(m.Vertices[idx]))
	}
	return bounds
}

// Validate checks the structural soundness of the mesh: non empty, whole
// triangles, indices in range and finite coordinates.
func (m Mesh) Validate() error {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("mesh is empty (%d vertices, %d indices)", len(m.Vertices), len(m.Indices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d at position %d out of range [0, %d)", idx, i, len(m.Vertices))
		}
	}
	for i, v := range m.Vertices {
		for axis := 0; axis < 3; axis++ {
			f := float64(v[axis])
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("vertex %d has non-finite coordinate %v", i, v)
			}
		}
	}
	return nil
}

func vec64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func vec32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Triangle is a triangle in double precision
type Triangle [3]mgl64.Vec3

// Normal returns the unnormalized face normal, its length is twice the area
func (t Triangle) Normal() mgl64.Vec3 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
}

func (t Triangle) Area() float64 {
	return 0.5 * t.Normal().Len()
}

// Degenerate reports triangles too thin to carry a meaningful surface
func (t Triangle) Degenerate() bool {
	n := t.Normal()
	return n.Dot(n) < degenerateAreaEpsilon
}

func (t Triangle) Bounds() AABB {
	return EmptyAABB().Extend(t[0]).Extend(t[1]).Extend(t[2])
}

// BoxCorners enumerates the corners of a box: bit 0 selects max X,
// bit 1 max Y, bit 2 max Z.
var BoxCorners = [8][3]uint8{
	{0, 0, 0},
	{1, 0, 0},
	{0, 1, 0},
	{1, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{0, 1, 1},
	{1, 1, 1},
}

// BoxTriangles indexes BoxCorners, two triangles per face, CCW seen from outside
var BoxTriangles = [36]uint16{
	0, 4, 6, 0, 6, 2, // -X
	1, 3, 7, 1, 7, 5, // +X
	0, 1, 5, 0, 5, 4, // -Y
	2, 6, 7, 2, 7, 3, // +Y
	0, 2, 3, 0, 3, 1, // -Z
	4, 5, 7, 4, 7, 6, // +Z
}

// BoxMesh returns a closed 8 vertices, 12 triangles mesh of the box
func BoxMesh(box AABB) Mesh {
	corners := box.Corners()
	m := Mesh{
		Vertices: make([]mgl32.Vec3, 0, len(corners)),
		Indices:  make([]uint32, 0, len(BoxTriangles)),
	}
	for _, c := range corners {
		m.Vertices = append(m.Vertices, vec32(c))
	}
	for _, idx := range BoxTriangles {
		m.Indices = append(m.Indices, uint32(idx))
	}
	return m
}

// OccluderMesh is the generated occluder geometry. Colors are only meaningful
// for inspection output.
type OccluderMesh struct {
	Vertices []mgl32.Vec3
	Colors   []mgl32.Vec4
	Indices  []uint16
}

func (m *OccluderMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns triangle i of the occluder in double precision
func (m *OccluderMesh) Triangle(i int) Triangle {
	return Triangle{
		vec64(m.Vertices[m.Indices[3*i]]),
		vec64(m.Vertices[m.Indices[3*i+1]]),
		vec64(m.Vertices[m.Indices[3*i+2]]),
	}
}
