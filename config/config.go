// Package config holds the configuration of the drywell command.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/soypat/drywell/drywell"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the whole drywell configuration.
type Config struct {
	System SystemConfig `yaml:"system"`
	Output OutputConfig `yaml:"output"`
	Render RenderConfig `yaml:"render"`
	Log    LogConfig    `yaml:"log"`
}

// SystemConfig holds the drywell dimensions in metres and the grid resolution.
type SystemConfig struct {
	WellRadius             float64 `yaml:"well_radius"`
	ChamberDepth           float64 `yaml:"chamber_depth"`
	AggregateDepth         float64 `yaml:"aggregate_depth"`
	DomainRadius           float64 `yaml:"domain_radius"`
	DepthToGroundwater     float64 `yaml:"depth_to_groundwater"`
	RadialCells            int     `yaml:"radial_cells"`
	VerticalCellsAggregate int     `yaml:"vertical_cells_aggregate"`
	VerticalCellsBelow     int     `yaml:"vertical_cells_below"`
}

// OutputConfig names the files written by the command. Relative names
// are resolved against Dir.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Scene   string `yaml:"scene"`
	System  string `yaml:"system"`
	STL     string `yaml:"stl"`
	Image   string `yaml:"image"`
	Section string `yaml:"section"`
}

// RenderConfig configures snapshots and tessellation.
type RenderConfig struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Supersample int    `yaml:"supersample"`
	Segments    int    `yaml:"segments"`
	Background  string `yaml:"background"` // hex, e.g. #fff8e3
	// Camera adjustments applied after fitting the view, in degrees.
	Azimuth   float64 `yaml:"azimuth"`
	Elevation float64 `yaml:"elevation"`
	Zoom      float64 `yaml:"zoom"`
	// Section plot size in centimetres.
	SectionWidth  float64 `yaml:"section_width"`
	SectionHeight float64 `yaml:"section_height"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Default returns the configuration of the reference drywell.
func Default() *Config {
	return &Config{
		System: FromParams(drywell.DefaultParams()),
		Output: OutputConfig{
			Dir:     ".",
			Scene:   "scene.json",
			System:  "system.json",
			STL:     "drywell.stl",
			Image:   "drywell.png",
			Section: "section.png",
		},
		Render: RenderConfig{
			Width:         800,
			Height:        600,
			Supersample:   2,
			Segments:      48,
			Background:    "#fff8e3",
			Zoom:          1,
			SectionWidth:  12,
			SectionHeight: 24,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the configuration at path over the defaults.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.System.Params().Validate(); err != nil {
		return err
	}
	r := c.Render
	switch {
	case r.Width <= 0 || r.Height <= 0:
		return fmt.Errorf("invalid image size %dx%d", r.Width, r.Height)
	case r.Supersample < 1:
		return fmt.Errorf("invalid supersample factor %d", r.Supersample)
	case r.Segments < 3:
		return fmt.Errorf("need at least 3 segments, got %d", r.Segments)
	case !(r.Zoom > 0):
		return fmt.Errorf("invalid zoom %g", r.Zoom)
	case r.SectionWidth <= 0 || r.SectionHeight <= 0:
		return fmt.Errorf("invalid section size %gx%g", r.SectionWidth, r.SectionHeight)
	}
	if _, err := r.BackgroundColor(); err != nil {
		return err
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid log format %q (valid: json, console)", c.Log.Format)
	}
	return nil
}

// Params returns the drywell parameters of the configuration.
func (s SystemConfig) Params() drywell.Params {
	return drywell.Params{
		WellRadius:             s.WellRadius,
		ChamberDepth:           s.ChamberDepth,
		AggregateDepth:         s.AggregateDepth,
		DomainRadius:           s.DomainRadius,
		DepthToGroundwater:     s.DepthToGroundwater,
		RadialCells:            s.RadialCells,
		VerticalCellsAggregate: s.VerticalCellsAggregate,
		VerticalCellsBelow:     s.VerticalCellsBelow,
	}
}

// FromParams returns the system section describing p.
func FromParams(p drywell.Params) SystemConfig {
	return SystemConfig{
		WellRadius:             p.WellRadius,
		ChamberDepth:           p.ChamberDepth,
		AggregateDepth:         p.AggregateDepth,
		DomainRadius:           p.DomainRadius,
		DepthToGroundwater:     p.DepthToGroundwater,
		RadialCells:            p.RadialCells,
		VerticalCellsAggregate: p.VerticalCellsAggregate,
		VerticalCellsBelow:     p.VerticalCellsBelow,
	}
}

// BackgroundColor parses the background hex color.
func (r RenderConfig) BackgroundColor() (color.NRGBA, error) {
	c, err := colorful.Hex(r.Background)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid background color: %w", err)
	}
	red, g, b := c.RGB255()
	return color.NRGBA{R: red, G: g, B: b, A: 255}, nil
}

// Path resolves an output file name against the output directory.
func (o OutputConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.Dir, name)
}

// NewLogger builds a production logger from the configuration.
// verbose forces debug level.
func (l LogConfig) NewLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = l.Format
	if l.Format == "console" {
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)
	return config.Build()
}
