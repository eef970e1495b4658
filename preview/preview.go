// Package preview renders one slice of a classified voxel grid as an image:
// shell voxels in grey, interior voxels coloured by their clearance and the
// extents crossing the slice tinted by policy.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/akmonengine/occluder/assemble"
	"github.com/akmonengine/occluder/extent"
	"github.com/akmonengine/occluder/voxel"
	"github.com/ftrvxmtrx/tga"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
)

var ErrUnknownFormat = errors.New("preview: unknown image format")

// image axes (horizontal, vertical) for a slice across each grid axis
var planes = [3][2]int{
	{2, 1},
	{0, 2},
	{0, 1},
}

var boundaryColor = color.NRGBA{R: 153, G: 153, B: 153, A: 255}

// ParseAxis maps "x", "y" or "z" to a grid axis
func ParseAxis(name string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "x":
		return 0, true
	case "y":
		return 1, true
	case "z":
		return 2, true
	}
	return 0, false
}

// Slice draws the voxels whose coordinate on axis equals index, one pixel
// per voxel upscaled scale times. Rows grow upward.
func Slice(g *voxel.Grid, extents []extent.Extent, axis, index, scale int) (*image.NRGBA, error) {
	if axis < 0 || axis > 2 {
		return nil, fmt.Errorf("preview: axis %d out of range", axis)
	}
	if index < 0 || index >= g.Size.Axis(axis) {
		return nil, fmt.Errorf("preview: slice %d outside [0, %d)", index, g.Size.Axis(axis))
	}
	if scale < 1 {
		return nil, fmt.Errorf("preview: scale %d must be at least 1", scale)
	}

	u, v := planes[axis][0], planes[axis][1]
	width, height := g.Size.Axis(u), g.Size.Axis(v)
	maxClearance := maxClearance(g)

	src := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := voxel.Coord{}.SetAxis(axis, index).SetAxis(u, x).SetAxis(v, height-1-y)
			src.SetNRGBA(x, y, voxelColor(g, g.Index(c), maxClearance))
		}
	}

	for _, e := range extents {
		if index < e.Min.Axis(axis) || index > e.Max.Axis(axis) {
			continue
		}
		tint := toNRGBA(assemble.PolicyColor(e.Policy))
		for pv := e.Min.Axis(v); pv <= e.Max.Axis(v); pv++ {
			for pu := e.Min.Axis(u); pu <= e.Max.Axis(u); pu++ {
				x, y := pu, height-1-pv
				src.SetNRGBA(x, y, blend(src.NRGBAAt(x, y), tint))
			}
		}
	}

	if scale == 1 {
		return src, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, width*scale, height*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

func voxelColor(g *voxel.Grid, i, maxClearance int) color.NRGBA {
	switch g.Class(i) {
	case voxel.Boundary:
		return boundaryColor
	case voxel.Inside:
		return toNRGBA(assemble.DistanceColor(g.Clearance(i), maxClearance))
	}
	return color.NRGBA{}
}

func maxClearance(g *voxel.Grid) int {
	m := 0
	for i := 0; i < g.Len(); i++ {
		if d := g.Clearance(i); d > m {
			m = d
		}
	}
	return m
}

func toNRGBA(c mgl32.Vec4) color.NRGBA {
	return color.NRGBA{
		R: uint8(c[0]*255 + 0.5),
		G: uint8(c[1]*255 + 0.5),
		B: uint8(c[2]*255 + 0.5),
		A: uint8(c[3]*255 + 0.5),
	}
}

// blend mixes the tint half over c; a transparent c takes the tint
func blend(c, tint color.NRGBA) color.NRGBA {
	if c.A == 0 {
		return tint
	}
	return color.NRGBA{
		R: uint8((uint16(c.R) + uint16(tint.R)) / 2),
		G: uint8((uint16(c.G) + uint16(tint.G)) / 2),
		B: uint8((uint16(c.B) + uint16(tint.B)) / 2),
		A: 255,
	}
}

// Encode writes img in format: "webp", "tga" or "png"
func Encode(w io.Writer, format string, img image.Image) error {
	switch strings.ToLower(format) {
	case "webp":
		return nativewebp.Encode(w, img, nil)
	case "tga":
		return tga.Encode(w, img)
	case "png":
		return png.Encode(w, img)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Save encodes img to path, picking the format from the extension
func Save(path string, img image.Image) (err error) {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	switch strings.ToLower(format) {
	case "webp", "tga", "png":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := Encode(f, format, img); err != nil {
		return fmt.Errorf("%s encode: %w", format, err)
	}
	return nil
}
