package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Output formats.
const (
	FormatGLB  = "glb"
	FormatGLTF = "gltf"
)

// Config holds output paths, conversion and preview settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir"`
	OutputDir  string `json:"output_dir"`
	TextureDir string `json:"texture_dir"`

	// Conversion
	Format       string `json:"format"`
	LOD          int    `json:"lod"`
	PreferSource bool   `json:"prefer_source"`
	Workers      int    `json:"workers"`

	// Preview settings
	Preview     bool `json:"preview"`
	PreviewSize int  `json:"preview_size"`
	Supersample int  `json:"supersample"`
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

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.LOD > 0 {
		c.LOD = flags.LOD
	}
	if flags.PreferSource {
		c.PreferSource = true
	}
	if flags.Preview {
		c.Preview = true
	}
	if flags.PreviewSize > 0 {
		c.PreviewSize = flags.PreviewSize
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.BaseDir == "" {
		c.BaseDir, _ = os.Getwd()
	}

	// Resolve relative paths against base dir
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join(c.BaseDir, "converted")
	} else if !filepath.IsAbs(c.OutputDir) {
		c.OutputDir = filepath.Join(c.BaseDir, c.OutputDir)
	}
	if c.TextureDir != "" && !filepath.IsAbs(c.TextureDir) {
		c.TextureDir = filepath.Join(c.BaseDir, c.TextureDir)
	}

	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case "":
		c.Format = FormatGLB
	case FormatGLB, FormatGLTF:
	default:
		return fmt.Errorf("config: unknown output format %q", c.Format)
	}
	if c.LOD < 0 {
		return fmt.Errorf("config: negative LOD %d", c.LOD)
	}

	// Defaults for preview settings
	if c.PreviewSize <= 0 {
		c.PreviewSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir    string
	TextureDir   string
	Format       string
	LOD          int
	PreferSource bool
	Preview      bool
	PreviewSize  int
	Workers      int
}
