package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/soypat/drywell/drywell"
	"github.com/soypat/drywell/scene"
	"github.com/soypat/drywell/solid"
	"github.com/soypat/drywell/viewer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the grid and write the system and scene documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the solids as a binary STL file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport()
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Render the solids to a PNG image",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSnapshot()
	},
}

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot a radius-elevation section of the grid",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlot()
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the grid dimensions",
	Long: `Prints the parameters and derived cell sizes of the grid.

Example:
  drywell info --at 3.2,-8`,
	RunE: runInfo,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate every output whenever the configuration file changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configPath == "" {
			return errors.New("watch needs a --config file")
		}
		return runWatch()
	},
}

// buildSystem returns the system read from --system, or generated
// from the configuration.
func buildSystem() (*drywell.System, error) {
	sys, err := drywell.New(cfg.System.Params(), drywell.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	if systemPath != "" {
		if err := sys.LoadFile(systemPath); err != nil {
			return nil, err
		}
		return sys, nil
	}
	sys.GenerateAll()
	return sys, nil
}

// buildSet returns the solids read from --scene, or exported from the system.
func buildSet() (*scene.Set, error) {
	set := scene.New(scene.WithLogger(logger))
	if scenePath != "" {
		if err := set.LoadFile(scenePath, solid.NewStandardRegistry()); err != nil {
			return nil, err
		}
		return set, nil
	}
	sys, err := buildSystem()
	if err != nil {
		return nil, err
	}
	sys.ExportTo(set)
	return set, nil
}

func outputPath(name string) (string, error) {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return cfg.Output.Path(name), nil
}

func runGenerate() error {
	sys, err := buildSystem()
	if err != nil {
		return err
	}
	path, err := outputPath(cfg.Output.System)
	if err != nil {
		return err
	}
	if err := sys.SaveFile(path); err != nil {
		return err
	}
	logger.Info("wrote system document", zap.String("path", path), zap.Int("cells", sys.TubeCount()))

	set := sys.ObjectSet(scene.WithLogger(logger))
	path = cfg.Output.Path(cfg.Output.Scene)
	if err := set.SaveFile(path); err != nil {
		return err
	}
	logger.Info("wrote scene document", zap.String("path", path), zap.Int("objects", set.Len()))
	return nil
}

func runExport() error {
	set, err := buildSet()
	if err != nil {
		return err
	}
	path, err := outputPath(cfg.Output.STL)
	if err != nil {
		return err
	}
	if err := set.ExportSTL(path, cfg.Render.Segments); err != nil {
		return err
	}
	logger.Info("wrote STL", zap.String("path", path), zap.Int("objects", set.Len()))
	return nil
}

func runSnapshot() error {
	set, err := buildSet()
	if err != nil {
		return err
	}
	bg, err := cfg.Render.BackgroundColor()
	if err != nil {
		return err
	}
	v := viewer.New(
		viewer.WithLogger(logger),
		viewer.WithSegments(cfg.Render.Segments),
		viewer.WithSupersample(cfg.Render.Supersample),
		viewer.WithBackground(bg),
	)
	v.SetObjectSet(set)
	if err := v.ShowObjects(); err != nil {
		return err
	}
	v.Orbit(cfg.Render.Azimuth, cfg.Render.Elevation)
	v.Zoom(cfg.Render.Zoom)
	path, err := outputPath(cfg.Output.Image)
	if err != nil {
		return err
	}
	if err := v.SaveImage(path, cfg.Render.Width, cfg.Render.Height); err != nil {
		return err
	}
	logger.Info("wrote snapshot", zap.String("path", path), zap.Int("displayed", v.Displayed()))
	return nil
}

func runPlot() error {
	sys, err := buildSystem()
	if err != nil {
		return err
	}
	path, err := outputPath(cfg.Output.Section)
	if err != nil {
		return err
	}
	w := vg.Length(cfg.Render.SectionWidth) * vg.Centimeter
	h := vg.Length(cfg.Render.SectionHeight) * vg.Centimeter
	if err := sys.PlotSection(w, h, path); err != nil {
		return err
	}
	logger.Info("wrote section plot", zap.String("path", path))
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	sys, err := buildSystem()
	if err != nil {
		return err
	}
	p := sys.Params()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "well radius           %8.3f m\n", p.WellRadius)
	fmt.Fprintf(out, "chamber depth         %8.3f m\n", p.ChamberDepth)
	fmt.Fprintf(out, "aggregate depth       %8.3f m\n", p.AggregateDepth)
	fmt.Fprintf(out, "domain radius         %8.3f m\n", p.DomainRadius)
	fmt.Fprintf(out, "depth to groundwater  %8.3f m\n", p.DepthToGroundwater)
	fmt.Fprintf(out, "radial cell size      %8.3f m (%d cells)\n", p.RadialCellSize(), p.RadialCells)
	fmt.Fprintf(out, "aggregate cell height %8.3f m (%d rows)\n", p.AggregateCellHeight(), p.VerticalCellsAggregate)
	fmt.Fprintf(out, "below-well cell height%8.3f m (%d rows)\n", p.BelowWellCellHeight(), p.VerticalCellsBelow)
	fmt.Fprintf(out, "cells                 %d\n", sys.TubeCount())

	at, err := cmd.Flags().GetFloat64Slice("at")
	if err != nil || len(at) == 0 {
		return err
	}
	if len(at) != 2 {
		return fmt.Errorf("--at needs radius,elevation, got %d values", len(at))
	}
	zone, i, j, ok := sys.CellAt(at[0], at[1])
	if !ok {
		fmt.Fprintf(out, "r=%g z=%g is outside the grid\n", at[0], at[1])
		return nil
	}
	tube := sys.Tube(i, j)
	if zone == drywell.BelowWell {
		tube = sys.BelowWellTube(i, j)
	}
	fmt.Fprintf(out, "r=%g z=%g is in %s (%s zone)\n", at[0], at[1], drywell.TubeName(zone, i, j), zone)
	if tube != nil {
		fmt.Fprintf(out, "  inner %.3f m, outer %.3f m, height %.3f m, center z %.3f m\n",
			tube.InnerRadius(), tube.OuterRadius(), tube.Height(), tube.Position().Z)
	}
	return nil
}

func runAll() error {
	for _, run := range []func() error{runGenerate, runExport, runSnapshot, runPlot} {
		if err := run(); err != nil {
			return err
		}
	}
	return nil
}

func runWatch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target := filepath.Clean(configPath)
	// Editors often replace files, so watch the directory.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", target, err)
	}
	if err := runAll(); err != nil {
		logger.Error("build failed", zap.Error(err))
	}
	logger.Info("watching configuration", zap.String("path", target))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	for {
		select {
		case <-sig:
			logger.Info("stopped watching")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("configuration changed", zap.String("op", event.Op.String()))
			c, err := loadConfig()
			if err != nil {
				logger.Error("invalid configuration, keeping previous", zap.Error(err))
				continue
			}
			cfg = c
			if err := runAll(); err != nil {
				logger.Error("build failed", zap.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", zap.Error(err))
		}
	}
}
