// objtool is a CLI utility for inspecting OBJ meshes and packing them into
// vertex/index buffers.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/internal/config"
	"github.com/Faultbox/objmesh/internal/logger"
	"github.com/Faultbox/objmesh/internal/model"
	"github.com/Faultbox/objmesh/pkg/obj"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	}

	config.ParseFlags(os.Args[2:])
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Sugar.Debugf("running %s: policy=%s encoding=%s mode=%s workers=%d",
		command, cfg.Parse.Policy, cfg.Parse.Encoding, cfg.Emit.Mode, cfg.Emit.Workers)

	args := config.Args()
	switch command {
	case "info":
		err = cmdInfo(cfg, args)
	case "dump":
		err = cmdDump(cfg, args)
	case "pack":
		err = cmdPack(cfg, args)
	case "validate", "check":
		err = cmdValidate(cfg, args)
	case "config":
		err = cmdConfig(os.Stdout, cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sync()
}

func printUsage() {
	fmt.Println(`objtool - OBJ mesh to vertex buffer utility

Usage:
  objtool <command> [options] <file.obj> [output]

Commands:
  info <file.obj>              Show geometry, face and group statistics
  dump <file.obj>              Print emitted buffers as YAML
  pack <file.obj> <out.bin>    Write emitted buffers as a binary blob
  validate <file.obj>          Parse and emit, reporting every problem
  config [save [path]]         Print the merged config, or save it

Examples:
  objtool info cube.obj
  objtool dump -mode expanded -barycentric -n 12 cube.obj
  objtool pack -material-attr cube.obj cube.bin
  objtool validate -policy lenient -encoding euc-kr prontera.obj
  objtool config save -mode expanded -workers 4

Options:`)
	config.PrintDefaults()
}

// load parses the mesh named by args[0] with the configured options.
func load(cfg *config.Config, args []string, usage string) (*obj.Mesh, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	opts := cfg.ParseOptions()
	opts.Logger = logger.Named("parse")

	m, err := obj.ParseFile(args[0], opts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", args[0], err)
	}
	return m, nil
}

func emit(cfg *config.Config, m *obj.Mesh) (*model.Buffers, error) {
	return model.EmitWithLogger(m, cfg.EmitOptions(), logger.Named("emit"))
}

func cmdInfo(cfg *config.Config, args []string) error {
	m, err := load(cfg, args, "objtool info <file.obj>")
	if err != nil {
		return err
	}

	tris, err := model.TriangulateMesh(m)
	if err != nil {
		return err
	}

	s := m.Store()
	quads := 0
	for _, f := range m.Faces() {
		if f.Arity() == 4 {
			quads++
		}
	}

	fmt.Printf("Mesh:       %s\n", args[0])
	fmt.Printf("Positions:  %d\n", s.NumPositions())
	fmt.Printf("Normals:    %d\n", s.NumNormals())
	fmt.Printf("TexCoords:  %d\n", s.NumTexCoords())
	fmt.Printf("Faces:      %d (%d quads)\n", len(m.Faces()), quads)
	fmt.Printf("Triangles:  %d (%d degenerate)\n", len(tris), model.CountDegenerate(s, tris))
	fmt.Printf("No normal:  %d of %d corners\n", model.CountUndefinedNormals(s, tris), 3*len(tris))
	if n := len(multierr.Errors(m.Skipped())); n > 0 {
		fmt.Printf("Skipped:    %d lines\n", n)
	}

	b, err := emit(cfg, m)
	if err != nil {
		// Capacity problems are reported, not fatal, for info.
		if !errors.Is(err, model.ErrCapacityExceeded) {
			return err
		}
		fmt.Printf("Buffers:    %v\n", err)
	} else {
		fmt.Printf("Buffers:    %s, %d vertices, %d indices, stride %d\n",
			b.Mode, len(b.Vertices), len(b.Indices), b.Layout.Stride)
		fmt.Printf("Bounds:     %v .. %v\n", b.Bounds.Min, b.Bounds.Max)
	}

	if len(m.Groups()) > 0 {
		fmt.Println()
		fmt.Println("Groups by face count:")

		groups := append([]obj.Group(nil), m.Groups()...)
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].FaceCount > groups[j].FaceCount
		})
		for _, g := range groups {
			name := g.Material
			if name == "" {
				name = "(default)"
			}
			fmt.Printf("  %-20s %d\n", name, g.FaceCount)
		}
	}
	return nil
}

func cmdDump(cfg *config.Config, args []string) error {
	m, err := load(cfg, args, "objtool dump [-n N] <file.obj>")
	if err != nil {
		return err
	}
	b, err := emit(cfg, m)
	if err != nil {
		return err
	}
	return writeDump(os.Stdout, args[0], b, config.Limit())
}

func cmdPack(cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: objtool pack <file.obj> <out.bin>")
	}
	m, err := load(cfg, args, "")
	if err != nil {
		return err
	}
	b, err := emit(cfg, m)
	if err != nil {
		return err
	}

	out, err := os.Create(args[1])
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	n, err := b.WriteTo(out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	fmt.Printf("Packed %s -> %s (%d bytes, %d triangles)\n", args[0], args[1], n, b.TriangleCount())
	return nil
}

func cmdValidate(cfg *config.Config, args []string) error {
	m, err := load(cfg, args, "objtool validate <file.obj>")
	if err != nil {
		return err
	}

	skipped := multierr.Errors(m.Skipped())
	for _, e := range skipped {
		fmt.Printf("skipped: %v\n", e)
	}

	if _, err := emit(cfg, m); err != nil {
		return err
	}

	if len(skipped) > 0 {
		return fmt.Errorf("%d lines skipped", len(skipped))
	}
	fmt.Printf("%s: OK (%d faces, %d triangles)\n", args[0], len(m.Faces()), m.TriangleCount())
	return nil
}

// cmdConfig prints the merged configuration, or with "save" writes it to
// path (default: the user's config directory).
func cmdConfig(w io.Writer, cfg *config.Config, args []string) error {
	if len(args) == 0 {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	if args[0] != "save" {
		return errors.New("usage: objtool config [save [path]]")
	}

	path := filepath.Join(config.ConfigDir(), "config.yaml")
	var err error
	if len(args) > 1 {
		path = args[1]
		err = cfg.SaveTo(path)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(w, "Saved config to %s\n", path)
	return nil
}
