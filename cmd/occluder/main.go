// Command occluder generates a conservative box occluder for a closed mesh
// and writes it as STL, optionally with a voxel slice preview.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/akmonengine/occluder"
	"github.com/akmonengine/occluder/extent"
	"github.com/akmonengine/occluder/geom"
	"github.com/akmonengine/occluder/models"
	"github.com/akmonengine/occluder/objfile"
	"github.com/akmonengine/occluder/paramscript"
	"github.com/akmonengine/occluder/preview"
)

type options struct {
	obj     string
	model   string
	cells   int
	params  string
	voxel   float64
	fill    float64
	box     string
	workers int
	out     string

	preview string
	axis    string
	slice   int
	scale   int

	// flags given on the command line, they override the script
	set map[string]bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("occluder: ")

	opts := parseFlags(os.Args[1:])
	if err := run(opts); err != nil {
		var capErr *occluder.CapacityError
		if errors.As(err, &capErr) {
			log.Printf("grid too large, try -voxel %.4g", capErr.SuggestedVoxelSize)
		}
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) options {
	var opts options
	fs := flag.NewFlagSet("occluder", flag.ExitOnError)
	fs.StringVar(&opts.obj, "obj", "", "Path to a Wavefront OBJ mesh")
	fs.StringVar(&opts.model, "model", "", "Built-in model: "+strings.Join(models.Names(), ", "))
	fs.IntVar(&opts.cells, "cells", models.DefaultCells, "Tessellation resolution of built-in models")
	fs.StringVar(&opts.params, "params", "", "Parameter script (zygomys)")
	fs.Float64Var(&opts.voxel, "voxel", 0, "Voxel edge length (default: 0.25)")
	fs.Float64Var(&opts.fill, "fill", 0, "Fill percentage in [0, 1] (default: 1)")
	fs.StringVar(&opts.box, "box", "", "Extent policies, comma separated: regular, diagonals, top, bottom, sides")
	fs.IntVar(&opts.workers, "workers", 0, "Number of voxelization goroutines (default: 1)")
	fs.StringVar(&opts.out, "out", "", "Output STL path")
	fs.StringVar(&opts.preview, "preview", "", "Slice preview image (.webp, .tga or .png)")
	fs.StringVar(&opts.axis, "axis", "y", "Preview slice axis: x, y or z")
	fs.IntVar(&opts.slice, "slice", -1, "Preview slice index (default: middle)")
	fs.IntVar(&opts.scale, "scale", 8, "Preview pixels per voxel")
	fs.Parse(args)

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	return opts
}

// parameters applies the script then the command line flags
func (opts options) parameters() (occluder.Parameters, error) {
	p := occluder.DefaultParameters()
	if opts.params != "" {
		var err error
		p, err = paramscript.Load(opts.params, p)
		if err != nil {
			return p, err
		}
	}

	if opts.set["voxel"] {
		p.VoxelSize = opts.voxel
	}
	if opts.set["fill"] {
		p.FillPercentage = opts.fill
	}
	if opts.set["box"] {
		var policy extent.Policy
		for _, name := range strings.Split(opts.box, ",") {
			bit, ok := extent.ParsePolicy(name)
			if !ok {
				return p, fmt.Errorf("unknown box type %q", name)
			}
			policy |= bit
		}
		p.BoxTypes = policy
	}
	return p, nil
}

func (opts options) mesh() (geom.Mesh, error) {
	switch {
	case opts.obj != "" && opts.model != "":
		return geom.Mesh{}, errors.New("-obj and -model are exclusive")
	case opts.obj != "":
		return objfile.Load(opts.obj)
	case opts.model != "":
		return models.ByName(opts.model, opts.cells)
	}
	return geom.Mesh{}, errors.New("no input mesh, use -obj or -model")
}

func run(opts options) error {
	mesh, err := opts.mesh()
	if err != nil {
		return err
	}
	params, err := opts.parameters()
	if err != nil {
		return err
	}
	log.Printf("mesh: %d vertices, %d triangles", len(mesh.Vertices), mesh.TriangleCount())

	gen := occluder.Generator{Workers: opts.workers, Events: occluder.NewEvents()}
	gen.Events.Subscribe(occluder.STAGE_END, func(event occluder.Event) {
		e := event.(occluder.StageEndEvent)
		log.Printf("%-9s %6d in %v", e.Stage, e.Count, e.Elapsed)
	})
	gen.Events.Subscribe(occluder.MESH_TRUNCATED, func(event occluder.Event) {
		e := event.(occluder.TruncatedEvent)
		log.Printf("warning: vertex cap reached in %v, output cut at %d vertices", e.Category, e.Vertices)
	})

	res, err := gen.Build(mesh, params)
	if err != nil {
		return err
	}

	size := res.Grid.Size
	log.Printf("grid %dx%dx%d, voxel %v", size.X, size.Y, size.Z, res.Grid.VoxelSize)
	log.Printf("boundary %d, outside %d, inside %d, max clearance %d",
		res.Classification.Boundary, res.Classification.Outside, res.Classification.Inside, res.MaxClearance)
	log.Printf("%d extents (%v), %d vertices, %d triangles",
		len(res.Extents), params.BoxTypes.Normalize(), len(res.Mesh.Vertices), res.Mesh.TriangleCount())
	if res.Saturated {
		log.Printf("warning: extent ceiling reached, some inside voxels are not covered")
	}

	if opts.out != "" {
		if err := saveSTL(opts.out, res.Mesh); err != nil {
			return fmt.Errorf("write %s: %w", opts.out, err)
		}
		log.Printf("wrote %s", opts.out)
	}

	if opts.preview != "" {
		if err := savePreview(opts, res); err != nil {
			return fmt.Errorf("preview %s: %w", opts.preview, err)
		}
		log.Printf("wrote %s", opts.preview)
	}
	return nil
}

func savePreview(opts options, res *occluder.Result) error {
	axis, ok := preview.ParseAxis(opts.axis)
	if !ok {
		return fmt.Errorf("unknown axis %q", opts.axis)
	}
	index := opts.slice
	if index < 0 {
		index = res.Grid.Size.Axis(axis) / 2
	}

	img, err := preview.Slice(res.Grid, res.Extents, axis, index, opts.scale)
	if err != nil {
		return err
	}
	return preview.Save(opts.preview, img)
}
