// Package paramscript reads generation parameters from small zygomys Lisp
// scripts. Each builtin overrides one field of a base Parameters value:
//
//	(voxel_size 0.1)
//	(fill_percentage 0.75)
//	(box_type "top" "sides")
//	(debug_show "inner" "extent")
//	(debug_extent 0 12)
//
// Scripts run in a sandboxed environment, one per call.
package paramscript

import (
	"fmt"
	"os"
	"strings"

	"github.com/akmonengine/occluder"
	"github.com/akmonengine/occluder/assemble"
	"github.com/akmonengine/occluder/extent"
	"github.com/akmonengine/occluder/voxel"
	zygo "github.com/glycerine/zygomys/zygo"
)

var debugFlags = map[string]assemble.Flags{
	"inner":    assemble.ShowInner,
	"outer":    assemble.ShowOuter,
	"distance": assemble.ShowMinDistance,
	"extent":   assemble.ShowExtent,
	"slice":    assemble.ShowSliceSelection,
	"result":   assemble.ShowResult,
}

// Load runs the script at path on top of base
func Load(path string, base occluder.Parameters) (occluder.Parameters, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}

	p, err := Parse(string(src), base)
	if err != nil {
		return base, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse runs src and returns base with the fields the script set. The
// result is not validated; Generate does that.
func Parse(src string, base occluder.Parameters) (occluder.Parameters, error) {
	p := base
	if strings.TrimSpace(src) == "" {
		return p, nil
	}

	env := zygo.NewZlispSandbox()
	defer env.Stop()
	register(env, &p)

	if err := env.LoadString(src); err != nil {
		return base, fmt.Errorf("paramscript: %w", err)
	}
	if _, err := env.Run(); err != nil {
		return base, fmt.Errorf("paramscript: %w", err)
	}
	return p, nil
}

type builtin func(args []zygo.Sexp) error

func register(env *zygo.Zlisp, p *occluder.Parameters) {
	builtins := map[string]builtin{
		"voxel_size": func(args []zygo.Sexp) error {
			v, err := oneFloat(args)
			p.VoxelSize = v
			return err
		},
		"fill_percentage": func(args []zygo.Sexp) error {
			v, err := oneFloat(args)
			p.FillPercentage = v
			return err
		},
		"max_extents": func(args []zygo.Sexp) error {
			v, err := oneInt(args)
			p.MaxExtents = v
			return err
		},
		"max_voxels": func(args []zygo.Sexp) error {
			v, err := oneInt(args)
			p.MaxVoxels = v
			return err
		},
		"voxel_scale": func(args []zygo.Sexp) error {
			v, err := oneFloat(args)
			p.Debug.VoxelScale = v
			return err
		},
		"box_type": func(args []zygo.Sexp) error {
			var policy extent.Policy
			for _, arg := range args {
				name, err := toString(arg)
				if err != nil {
					return err
				}
				bit, ok := extent.ParsePolicy(name)
				if !ok {
					return fmt.Errorf("unknown box type %q", name)
				}
				policy |= bit
			}
			p.BoxTypes = policy
			return nil
		},
		"debug_show": func(args []zygo.Sexp) error {
			var flags assemble.Flags
			for _, arg := range args {
				name, err := toString(arg)
				if err != nil {
					return err
				}
				flag, ok := debugFlags[strings.ToLower(name)]
				if !ok {
					return fmt.Errorf("unknown debug category %q", name)
				}
				flags |= flag
			}
			p.Debug.Flags = flags
			return nil
		},
		"debug_slice": func(args []zygo.Sexp) error {
			c, err := toCoord(args)
			p.Debug.Slice = c
			return err
		},
		"debug_voxel": func(args []zygo.Sexp) error {
			c, err := toCoord(args)
			p.Debug.Voxel = c
			return err
		},
		"debug_extent": func(args []zygo.Sexp) error {
			if len(args) != 2 {
				return fmt.Errorf("requires an index and a step count, got %d arguments", len(args))
			}
			index, err := toInt(args[0])
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}
			steps, err := toInt(args[1])
			if err != nil {
				return fmt.Errorf("steps: %w", err)
			}
			p.Debug.ExtentIndex, p.Debug.ExtentMaxStep = index, steps
			return nil
		},
	}

	for name, fn := range builtins {
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if err := fn(args); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return zygo.SexpNull, nil
		})
	}
}

func oneFloat(args []zygo.Sexp) (float64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("requires exactly 1 argument, got %d", len(args))
	}
	return toFloat64(args[0])
}

func oneInt(args []zygo.Sexp) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("requires exactly 1 argument, got %d", len(args))
	}
	return toInt(args[0])
}

// toCoord reads x y z; a negative component disables the selector on that axis
func toCoord(args []zygo.Sexp) (voxel.Coord, error) {
	if len(args) != 3 {
		return assemble.NoSelection, fmt.Errorf("requires exactly 3 arguments, got %d", len(args))
	}

	var c voxel.Coord
	for axis, arg := range args {
		v, err := toInt(arg)
		if err != nil {
			return assemble.NoSelection, fmt.Errorf("%c: %w", "xyz"[axis], err)
		}
		c = c.SetAxis(axis, v)
	}
	return c, nil
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}
