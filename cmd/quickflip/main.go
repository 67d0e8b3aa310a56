// Package main provides the CLI entrypoint for quickflip.
//
// quickflip mirrors poses and objects of a YAML scene file:
//   - smart: bones in pose space, other objects in the configured space
//   - pose: bones only
//   - objects: non-armature objects only
//   - preview: print the plan of an operation without writing
//
// The scene is written back in place unless --out is given.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/pflag"

	"quickflip"
	"quickflip/geom"
	"quickflip/internal/config"
	"quickflip/scene"
	"quickflip/scene/memscene"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}

		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath      string
	axis            string
	space           string
	objectMode      string
	collection      string
	subcollections  bool
	children        bool
	selection       []string
	op              string
	out             string
	dump            bool
	metricsTextfile string
	parallelism     int
	verbose         bool
	printConfig     bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var f flags

	flagSet := pflag.NewFlagSet("quickflip", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&f.configPath, "config", "c", "", "settings file (.yaml, .json or .jsonc)")
	flagSet.StringVar(&f.axis, "axis", "", "mirror axis: X, Y or Z (overrides settings)")
	flagSet.StringVar(&f.space, "space", "", "object space: local or world (overrides settings)")
	flagSet.StringVar(&f.objectMode, "object-mode", "", "object mirroring: reflect or negate_scale (overrides settings)")
	flagSet.StringVar(&f.collection, "collection", "", "use this collection as scope instead of the selection")
	flagSet.BoolVar(&f.subcollections, "subcollections", false, "descend into nested collections")
	flagSet.BoolVar(&f.children, "children", false, "include parented children of collected objects")
	flagSet.StringSliceVar(&f.selection, "select", nil, "replace the scene selection (Object or Armature/Bone)")
	flagSet.StringVar(&f.op, "op", "smart", "operation planned by preview: smart, pose or objects")
	flagSet.StringVarP(&f.out, "out", "o", "", "write the scene here instead of in place")
	flagSet.BoolVar(&f.dump, "dump", false, "dump the result with all fields")
	flagSet.StringVar(&f.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	flagSet.IntVar(&f.parallelism, "parallelism", 0, "concurrent reads while planning (overrides settings)")
	flagSet.BoolVarP(&f.verbose, "verbose", "v", false, "log debug output")
	flagSet.BoolVar(&f.printConfig, "print-config", false, "print the effective settings file and exit")

	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "Usage: quickflip [flags] <smart|pose|objects|preview> <scene.yaml>\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	file := config.Default()

	if f.configPath != "" {
		var err error
		if file, err = config.LoadFile(f.configPath); err != nil {
			return err
		}
	}

	if err := applyOverrides(file, &f); err != nil {
		return err
	}

	if f.printConfig {
		data, err := config.Marshal(file)
		if err != nil {
			return err
		}

		_, err = stdout.Write(data)

		return err
	}

	if flagSet.NArg() != 2 {
		flagSet.Usage()
		return fmt.Errorf("expected a command and a scene file, got %d arguments", flagSet.NArg())
	}

	command, scenePath := flagSet.Arg(0), flagSet.Arg(1)

	settings, err := file.Settings()
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}

	s, err := memscene.LoadFile(scenePath)
	if err != nil {
		return err
	}

	if f.selection != nil {
		refs := make([]scene.Ref, 0, len(f.selection))
		for _, sel := range f.selection {
			refs = append(refs, scene.ParseRef(sel))
		}

		s.Select(refs...)
	}

	rec := quickflip.NewMetrics()
	opts := []quickflip.Option{
		quickflip.WithLogger(logger),
		quickflip.WithParallelism(file.Parallelism),
		quickflip.WithMetrics(rec),
	}

	err = execute(ctx, command, s, settings, opts, &f, stdout)

	if f.metricsTextfile != "" {
		if werr := rec.WriteTextfile(f.metricsTextfile); werr != nil {
			logger.Error("write metrics", "path", f.metricsTextfile, "error", werr)
		}
	}

	if err != nil || command == "preview" {
		return err
	}

	out := f.out
	if out == "" {
		out = scenePath
	}

	return s.WriteFile(out)
}

func execute(
	ctx context.Context,
	command string,
	s *memscene.Scene,
	settings quickflip.Settings,
	opts []quickflip.Option,
	f *flags,
	stdout io.Writer,
) error {
	if command == "preview" {
		op, err := parseOperation(f.op)
		if err != nil {
			return err
		}

		sum, entries, err := quickflip.Preview(ctx, s, op, settings, opts...)
		if err != nil {
			return err
		}

		if f.dump {
			spew.Fdump(stdout, entries)
		} else {
			for _, e := range entries {
				fmt.Fprintf(stdout, "%s -> %s (%s)\n", e.Source, e.Target, e.Relation)
			}
		}

		printSummary(stdout, sum)

		return nil
	}

	op, err := parseOperation(command)
	if err != nil {
		return err
	}

	var sum quickflip.Summary

	switch op {
	case quickflip.OpFlipPose:
		sum, err = quickflip.FlipPose(ctx, s, settings, opts...)
	case quickflip.OpFlipObjects:
		sum, err = quickflip.FlipObjects(ctx, s, settings, opts...)
	default:
		sum, err = quickflip.SmartFlip(ctx, s, settings, opts...)
	}

	if err != nil {
		return err
	}

	if f.dump {
		spew.Fdump(stdout, sum)
	}

	printSummary(stdout, sum)

	return nil
}

func parseOperation(s string) (quickflip.Operation, error) {
	switch strings.ToLower(s) {
	case "smart":
		return quickflip.OpSmartFlip, nil
	case "pose":
		return quickflip.OpFlipPose, nil
	case "objects":
		return quickflip.OpFlipObjects, nil
	default:
		return 0, fmt.Errorf("unknown command %q (want smart, pose, objects or preview)", s)
	}
}

func applyOverrides(file *config.File, f *flags) error {
	if f.axis != "" {
		a, err := geom.ParseAxis(f.axis)
		if err != nil {
			return err
		}

		file.Axis = config.Axis(a)
	}

	if f.space != "" {
		sp, err := geom.ParseSpace(f.space)
		if err != nil {
			return err
		}

		file.Space = config.Space(sp)
	}

	switch strings.ToLower(f.objectMode) {
	case "":
	case "reflect":
		file.ObjectMode = config.ObjectMode(quickflip.ObjectReflect)
	case "negate_scale":
		file.ObjectMode = config.ObjectMode(quickflip.ObjectNegateScale)
	default:
		return fmt.Errorf("unknown object mode %q", f.objectMode)
	}

	if f.collection != "" {
		file.Scope.Mode = config.ScopeMode(quickflip.ScopeCollection)
		file.Scope.Collection = f.collection
	}

	if f.subcollections {
		file.Scope.IncludeSubcollections = true
	}

	if f.children {
		file.Scope.IncludeChildren = true
	}

	if f.parallelism > 0 {
		file.Parallelism = f.parallelism
	}

	return nil
}

func printSummary(w io.Writer, sum quickflip.Summary) {
	fmt.Fprintf(w, "mirrored: %d, no counterpart: %d\n", sum.EntitiesMirrored, sum.EntitiesSkippedNoCounterpart)

	for _, warning := range sum.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
