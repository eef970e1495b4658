package preview

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/akmonengine/occluder/extent"
	"github.com/akmonengine/occluder/geom"
	"github.com/akmonengine/occluder/voxel"
	"github.com/ftrvxmtrx/tga"
	"github.com/go-gl/mathgl/mgl64"
)

// 5x5x5 grid: one inside voxel at the centre ringed by shell voxels in z = 2
func testGrid() *voxel.Grid {
	g := voxel.New(geom.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{3, 3, 3}}, 1)
	for x := 1; x <= 3; x++ {
		for y := 1; y <= 3; y++ {
			g.SetClass(g.Index(voxel.Coord{X: x, Y: y, Z: 2}), voxel.Boundary)
		}
	}
	centre := g.Index(voxel.Coord{X: 2, Y: 2, Z: 2})
	g.SetClass(centre, voxel.Inside)
	g.SetClearance(centre, 1)
	return g
}

func TestSlice(t *testing.T) {
	g := testGrid()
	img, err := Slice(g, nil, 2, 2, 1)
	if err != nil {
		t.Fatalf("Slice() error: %v", err)
	}

	if img.Bounds().Dx() != 5 || img.Bounds().Dy() != 5 {
		t.Fatalf("Bounds() = %v, want 5x5", img.Bounds())
	}

	tests := []struct {
		name string
		x, y int
		want color.NRGBA
	}{
		{"inside", 2, 2, color.NRGBA{R: 255, A: 255}},
		{"shell", 1, 2, boundaryColor},
		{"outside", 0, 4, color.NRGBA{}},
		// la ligne 1 de l'image est y = 3 dans la grille
		{"shell top row", 3, 1, boundaryColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.NRGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestSliceExtentTint(t *testing.T) {
	g := testGrid()
	centre := voxel.Coord{X: 2, Y: 2, Z: 2}
	extents := []extent.Extent{{Min: centre, Max: centre, Policy: extent.Regular}}

	plain, err := Slice(g, nil, 2, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	tinted, err := Slice(g, extents, 2, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	if plain.NRGBAAt(2, 2) == tinted.NRGBAAt(2, 2) {
		t.Errorf("extent voxel not tinted")
	}
	if plain.NRGBAAt(1, 2) != tinted.NRGBAAt(1, 2) {
		t.Errorf("tint leaked outside the extent")
	}

	// Slice z = 1 ne coupe pas l'extent
	other, err := Slice(g, extents, 2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if other.NRGBAAt(2, 2) != (color.NRGBA{}) {
		t.Errorf("extent drawn on a slice it does not cross")
	}
}

func TestSliceScale(t *testing.T) {
	g := testGrid()
	src, err := Slice(g, nil, 2, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	img, err := Slice(g, nil, 2, 2, 4)
	if err != nil {
		t.Fatal(err)
	}

	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 20 {
		t.Fatalf("Bounds() = %v, want 20x20", img.Bounds())
	}
	for _, p := range []image.Point{{0, 0}, {2, 2}, {1, 2}, {4, 3}} {
		got := img.NRGBAAt(4*p.X+1, 4*p.Y+2)
		if want := src.NRGBAAt(p.X, p.Y); got != want {
			t.Errorf("upscaled pixel of %v = %v, want %v", p, got, want)
		}
	}
}

func TestSliceAxes(t *testing.T) {
	g := voxel.New(geom.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{2, 4, 6}}, 1)

	tests := []struct {
		axis          int
		width, height int
	}{
		{0, 8, 6},
		{1, 4, 8},
		{2, 4, 6},
	}

	for _, tt := range tests {
		img, err := Slice(g, nil, tt.axis, 0, 1)
		if err != nil {
			t.Fatalf("axis %d: %v", tt.axis, err)
		}
		if img.Bounds().Dx() != tt.width || img.Bounds().Dy() != tt.height {
			t.Errorf("axis %d: Bounds() = %v, want %dx%d", tt.axis, img.Bounds(), tt.width, tt.height)
		}
	}
}

func TestSliceErrors(t *testing.T) {
	g := testGrid()

	tests := []struct {
		name                string
		axis, index, scale int
	}{
		{"axis", 3, 0, 1},
		{"negative index", 0, -1, 1},
		{"index past the grid", 1, 5, 1},
		{"scale", 2, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Slice(g, nil, tt.axis, tt.index, tt.scale); err == nil {
				t.Errorf("Slice() returned no error")
			}
		})
	}
}

func TestParseAxis(t *testing.T) {
	for name, want := range map[string]int{"x": 0, "Y": 1, " z ": 2} {
		if got, ok := ParseAxis(name); !ok || got != want {
			t.Errorf("ParseAxis(%q) = %d, %v", name, got, ok)
		}
	}
	if _, ok := ParseAxis("w"); ok {
		t.Errorf("ParseAxis(w) accepted")
	}
}

func TestSave(t *testing.T) {
	img, err := Slice(testGrid(), nil, 2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	t.Run("png", func(t *testing.T) {
		path := filepath.Join(dir, "slice.png")
		if err := Save(path, img); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()

		decoded, err := png.Decode(f)
		if err != nil {
			t.Fatal(err)
		}
		if got := color.NRGBAModel.Convert(decoded.At(4, 4)); got != img.NRGBAAt(4, 4) {
			t.Errorf("decoded centre = %v, want %v", got, img.NRGBAAt(4, 4))
		}
	})

	t.Run("tga", func(t *testing.T) {
		path := filepath.Join(dir, "slice.tga")
		if err := Save(path, img); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		defer f.Close()

		decoded, err := tga.Decode(f)
		if err != nil {
			t.Fatal(err)
		}
		if decoded.Bounds().Dx() != 10 || decoded.Bounds().Dy() != 10 {
			t.Errorf("decoded Bounds() = %v, want 10x10", decoded.Bounds())
		}
	})

	t.Run("webp", func(t *testing.T) {
		path := filepath.Join(dir, "slice.webp")
		if err := Save(path, img); err != nil {
			t.Fatalf("Save() error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) < 12 || !bytes.Equal(data[:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WEBP")) {
			t.Errorf("missing RIFF/WEBP header")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		err := Save(filepath.Join(dir, "slice.bmp"), img)
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("Save(bmp) error = %v, want ErrUnknownFormat", err)
		}
	})
}
