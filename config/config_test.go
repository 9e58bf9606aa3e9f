package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/soypat/drywell/drywell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, drywell.DefaultParams(), cfg.System.Params())
	bg, err := cfg.Render.BackgroundColor()
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0xf8, B: 0xe3, A: 0xff}, bg)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "drywell.yaml")
	cfg := Default()
	cfg.System.RadialCells = 6
	cfg.Output.Dir = "out"
	cfg.Render.Azimuth = 30
	cfg.Log.Level = "debug"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("loaded config differs (-want +got):\n%s", diff)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drywell.yaml")
	data := "system:\n  radial_cells: 4\nrender:\n  width: 320\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.System.RadialCells)
	assert.Equal(t, 320, cfg.Render.Width)
	assert.Equal(t, Default().Render.Height, cfg.Render.Height, "unset fields keep defaults")
	assert.Equal(t, Default().System.WellRadius, cfg.System.WellRadius)
}

func TestLoadMissingAndMalformed(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("system: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(c *Config){
		"bad params":     func(c *Config) { c.System.DomainRadius = 0.1 },
		"zero width":     func(c *Config) { c.Render.Width = 0 },
		"no supersample": func(c *Config) { c.Render.Supersample = 0 },
		"two segments":   func(c *Config) { c.Render.Segments = 2 },
		"zero zoom":      func(c *Config) { c.Render.Zoom = 0 },
		"no section":     func(c *Config) { c.Render.SectionHeight = 0 },
		"bad background": func(c *Config) { c.Render.Background = "beige" },
		"bad level":      func(c *Config) { c.Log.Level = "loud" },
		"bad format":     func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	cfg := Default()
	cfg.System.RadialCells = 0
	assert.ErrorIs(t, cfg.Validate(), drywell.ErrInvalidParams)
}

func TestOutputPath(t *testing.T) {
	o := OutputConfig{Dir: "out"}
	assert.Equal(t, filepath.Join("out", "scene.json"), o.Path("scene.json"))
	abs := filepath.Join(t.TempDir(), "x.stl")
	assert.Equal(t, abs, o.Path(abs))
}

func TestNewLogger(t *testing.T) {
	l := LogConfig{Level: "warn", Format: "console"}
	log, err := l.NewLogger(false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log, err = l.NewLogger(true)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	_, err = LogConfig{Level: "loud", Format: "json"}.NewLogger(false)
	assert.Error(t, err)
}
