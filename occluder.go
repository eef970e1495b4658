// Package occluder generates conservative occluders: a few axis aligned
// boxes lying entirely inside a closed triangle mesh, meant for occlusion
// culling.
//
// The pipeline voxelizes the mesh surface, flood fills the outside to find
// enclosed voxels, grows boxes greedily over them, and emits the boxes as a
// 16-bit indexed mesh.
package occluder

import (
	"fmt"
	"math"

	"github.com/akmonengine/occluder/assemble"
	"github.com/akmonengine/occluder/classify"
	"github.com/akmonengine/occluder/extent"
	"github.com/akmonengine/occluder/geom"
	"github.com/akmonengine/occluder/raster"
	"github.com/akmonengine/occluder/voxel"
)

const DEFAULT_WORKERS = raster.DEFAULT_WORKERS

// DefaultMaxVoxels bounds grid memory to roughly 640 MiB
const DefaultMaxVoxels = 1 << 26

// one interior voxel plus padding on each axis
const minGridVoxels = 3 * 3 * 3

type Parameters struct {
	// Edge length of a voxel, in mesh units
	VoxelSize float64
	// Fraction of a voxel face a surface must cover inside a voxel for it
	// to count as Boundary, in [0, 1]
	FillPercentage float64
	BoxTypes       extent.Policy
	// 0 means extent.DefaultMaxExtents
	MaxExtents int
	// 0 means DefaultMaxVoxels
	MaxVoxels int
	Debug     assemble.Debug
}

func DefaultParameters() Parameters {
	return Parameters{
		VoxelSize:      0.25,
		FillPercentage: 1,
		BoxTypes:       extent.Regular,
		Debug:          assemble.DefaultDebug(),
	}
}

// Validate checks the parameter ranges
func (p Parameters) Validate() error {
	if math.IsNaN(p.VoxelSize) || math.IsInf(p.VoxelSize, 0) || p.VoxelSize <= 0 {
		return inputError("voxel size %v must be positive", p.VoxelSize)
	}
	if math.IsNaN(p.FillPercentage) || p.FillPercentage < 0 || p.FillPercentage > 1 {
		return inputError("fill percentage %v outside [0, 1]", p.FillPercentage)
	}
	if p.MaxExtents < 0 {
		return inputError("max extents %d is negative", p.MaxExtents)
	}
	if p.MaxVoxels != 0 && p.MaxVoxels < minGridVoxels {
		return inputError("max voxels %d is below the smallest grid (%d)", p.MaxVoxels, minGridVoxels)
	}
	return nil
}

func (p Parameters) maxVoxels() int {
	if p.MaxVoxels == 0 {
		return DefaultMaxVoxels
	}
	return p.MaxVoxels
}

// Result exposes the intermediate products of a generation
type Result struct {
	Mesh    *geom.OccluderMesh
	Grid    *voxel.Grid
	Extents []extent.Extent

	Voxelization   raster.Stats
	Classification classify.Stats
	MaxClearance   int
	// Saturated is set when the extent ceiling left Inside voxels uncovered
	Saturated bool
	// Truncated is set when the vertex cap cut the mesh
	Truncated bool
}

// Generator runs the pipeline. The zero value is ready to use; a Generator
// must not run two generations at once.
type Generator struct {
	Workers int

	Events Events
}

// Generate builds the occluder mesh of mesh with a zero Generator
func Generate(mesh geom.Mesh, params Parameters) (*geom.OccluderMesh, error) {
	var gen Generator
	return gen.Generate(mesh, params)
}

func (gen *Generator) Generate(mesh geom.Mesh, params Parameters) (*geom.OccluderMesh, error) {
	result, err := gen.Build(mesh, params)
	if err != nil {
		return nil, err
	}
	return result.Mesh, nil
}

// Build runs every stage on a fresh grid. On error no result is returned.
func (gen *Generator) Build(mesh geom.Mesh, params Parameters) (*Result, error) {
	defer gen.Events.flush()

	if err := mesh.Validate(); err != nil {
		return nil, inputError("%v", err)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	bounds := mesh.Bounds()
	if err := checkCapacity(bounds, params.VoxelSize, params.maxVoxels()); err != nil {
		return nil, err
	}

	workers := max(DEFAULT_WORKERS, gen.Workers)
	grid := voxel.New(bounds, params.VoxelSize)
	res := &Result{Grid: grid}

	end := gen.Events.begin(StageVoxelize)
	res.Voxelization = raster.Voxelize(grid, mesh, params.FillPercentage, workers)
	end(res.Voxelization.Boundary)
	if res.Voxelization.Triangles == 0 {
		return nil, inputError("all %d triangles are degenerate", res.Voxelization.Degenerate)
	}

	end = gen.Events.begin(StageClassify)
	res.Classification = classify.Classify(grid)
	end(res.Classification.Inside)
	if res.Classification.Inside == 0 {
		return nil, fmt.Errorf("%w: no voxel is enclosed by the surface, the mesh is open or thinner than voxel size %v",
			ErrDegenerateTopology, params.VoxelSize)
	}

	end = gen.Events.begin(StageClearance)
	res.MaxClearance = classify.Clearance(grid)
	end(res.MaxClearance)

	end = gen.Events.begin(StageGrow)
	grower := extent.NewGrower(grid, params.BoxTypes, params.MaxExtents)
	res.Extents, res.Saturated = grower.Grow()
	for i, e := range res.Extents {
		gen.Events.emit(ExtentGrownEvent{Index: i, Extent: e})
	}
	end(len(res.Extents))

	in := assemble.Input{
		Grid:         grid,
		Extents:      res.Extents,
		MaxClearance: res.MaxClearance,
	}
	dbg := params.Debug
	if dbg.Flags&assemble.ShowExtent != 0 && dbg.ExtentIndex >= 0 {
		if traced, ok := grower.Trace(dbg.ExtentIndex, dbg.ExtentMaxStep); ok {
			in.Traced = &traced
		}
	}

	end = gen.Events.begin(StageAssemble)
	out := assemble.Assemble(in, dbg)
	end(len(out.Mesh.Vertices))
	if out.Truncated {
		gen.Events.emit(TruncatedEvent{Category: out.Cut, Vertices: len(out.Mesh.Vertices)})
	}

	res.Mesh = out.Mesh
	res.Truncated = out.Truncated
	return res, nil
}

// checkCapacity refuses grids above limit voxels before any allocation
func checkCapacity(bounds geom.AABB, voxelSize float64, limit int) error {
	dims := voxel.Dimensions(bounds, voxelSize)
	total := dims[0] * dims[1] * dims[2]
	if total <= float64(limit) {
		return nil
	}

	suggested := voxelSize * math.Cbrt(total/float64(limit))
	if math.IsInf(suggested, 0) || math.IsNaN(suggested) {
		size := bounds.Size()
		suggested = math.Max(size[0], math.Max(size[1], size[2])) / math.Cbrt(float64(limit))
	}
	for {
		d := voxel.Dimensions(bounds, suggested)
		if d[0]*d[1]*d[2] <= float64(limit) {
			break
		}
		suggested *= 1.05
	}

	return &CapacityError{
		Size:               dims,
		Voxels:             total,
		Limit:              limit,
		SuggestedVoxelSize: suggested,
	}
}
