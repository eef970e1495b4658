// Package objfile reads the geometry of Wavefront OBJ files: vertex
// positions and faces, fan triangulated. Everything else is ignored.
package objfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/akmonengine/occluder/geom"
	"github.com/go-gl/mathgl/mgl32"
)

type importer struct {
	mesh geom.Mesh
	line int
}

// Load reads the OBJ file at path
func Load(path string) (geom.Mesh, error) {
	file, err := os.Open(path)
	if err != nil {
		return geom.Mesh{}, err
	}
	defer file.Close()

	m, err := Read(file)
	if err != nil {
		return geom.Mesh{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Read parses OBJ data from r
func Read(r io.Reader) (geom.Mesh, error) {
	var imp importer

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		imp.line++
		if err := imp.readLine(strings.TrimSpace(scanner.Text())); err != nil {
			return geom.Mesh{}, fmt.Errorf("line %d: %w", imp.line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return geom.Mesh{}, err
	}

	return imp.mesh, nil
}

func (imp *importer) readLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "v":
		return imp.readVertex(fields[1:])
	case "f":
		return imp.readFace(fields[1:])
	}
	return nil
}

func (imp *importer) readVertex(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("invalid vertex, expected 3 coordinates, found %d", len(fields))
	}

	var v mgl32.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return fmt.Errorf("invalid vertex coordinate %q: %w", fields[i], err)
		}
		v[i] = float32(f)
	}
	imp.mesh.Vertices = append(imp.mesh.Vertices, v)
	return nil
}

// readFace fans polygons around their first vertex
func (imp *importer) readFace(fields []string) error {
	if len(fields) < 3 {
		return fmt.Errorf("invalid face, expected at least 3 vertices, found %d", len(fields))
	}

	indices := make([]uint32, len(fields))
	for i, field := range fields {
		idx, err := imp.faceVertex(field)
		if err != nil {
			return err
		}
		indices[i] = idx
	}

	for j := 1; j+1 < len(indices); j++ {
		imp.mesh.Indices = append(imp.mesh.Indices, indices[0], indices[j], indices[j+1])
	}
	return nil
}

// faceVertex resolves "v", "v/vt", "v//vn" or "v/vt/vn", with 1-based or
// negative relative position indices
func (imp *importer) faceVertex(field string) (uint32, error) {
	position, _, _ := strings.Cut(field, "/")
	i, err := strconv.Atoi(position)
	if err != nil {
		return 0, fmt.Errorf("invalid face vertex %q: %w", field, err)
	}

	count := len(imp.mesh.Vertices)
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, fmt.Errorf("face vertex %q: index 0 is not allowed", field)
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("face vertex %q refers to a missing vertex (%d defined)", field, count)
	}
	return uint32(i), nil
}
