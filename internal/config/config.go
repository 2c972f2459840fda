package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds all configurable reconstruction and render settings.
type Config struct {
	// Paths
	Manifest  string `json:"manifest"`
	OutputDir string `json:"output_dir"`

	// Reconstruction settings
	GridWidth    int     `json:"grid_width"`
	Mode         string  `json:"mode"` // planar | cylindrical
	Displacement float64 `json:"displacement"`
	PointCloud   bool    `json:"point_cloud"`

	// Render settings
	RenderSize  int `json:"render_size"`
	Supersample int `json:"supersample"`
	WebPQuality int `json:"webp_quality"`
	Workers     int `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Manifest     string
	OutputDir    string
	GridWidth    int
	Mode         string
	Displacement float64
	Workers      int
	Quality      int
}

// Resolve applies CLI overrides and fills remaining empty fields with
// defaults. CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.Manifest != "" {
		c.Manifest = flags.Manifest
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.GridWidth > 0 {
		c.GridWidth = flags.GridWidth
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Displacement > 0 {
		c.Displacement = flags.Displacement
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}

	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.GridWidth <= 0 {
		c.GridWidth = 300
	}
	if c.Mode == "" {
		c.Mode = "planar"
	}
	if c.Displacement <= 0 {
		c.Displacement = 1.0
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}
