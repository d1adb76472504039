// Package config loads the optional sitebook.yaml run configuration.
// Every field has a compiled-in default, so the tool runs without any
// config file at all.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/alnah/go-sitebook/internal/fileutil"
	"github.com/alnah/go-sitebook/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidTimeout = errors.New("invalid duration")
)

// DefaultFileName is searched in the working directory when no --config
// flag is given.
const DefaultFileName = "sitebook.yaml"

// Config holds all configuration for a crawl run.
type Config struct {
	Site   SiteConfig   `yaml:"site"`
	Output OutputConfig `yaml:"output"`
	Render RenderConfig `yaml:"render"`
	Cover  CoverConfig  `yaml:"cover"`
}

// SiteConfig identifies the documentation site to crawl.
type SiteConfig struct {
	URL string `yaml:"url"` // base site URL; sitemap fetched at <url>/sitemap.xml
}

// OutputConfig defines the output tree root.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// RenderConfig defines browser rendering options.
type RenderConfig struct {
	Hide     []string       `yaml:"hide"`     // CSS selectors hidden before export
	Viewport ViewportConfig `yaml:"viewport"`
	Timeout  string         `yaml:"timeout"`  // per-page navigation timeout, e.g. "60s"
	Settle   string         `yaml:"settle"`   // network quiet window after load, e.g. "500ms"
}

// ViewportConfig defines the emulated browser window.
type ViewportConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// CoverConfig toggles the generated cover page.
type CoverConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the compiled-in configuration. The hide selectors are
// left nil so the library's per-site default table applies.
func Default() Config {
	return Config{
		Output: OutputConfig{Dir: "./pdfs"},
		Render: RenderConfig{
			Viewport: ViewportConfig{Width: 1280, Height: 800, Scale: 2},
			Timeout:  "60s",
			Settle:   "500ms",
		},
		Cover: CoverConfig{Enabled: true},
	}
}

// Load reads the config file at path and overlays it on the defaults.
// Unknown fields are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's --config flag
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	return cfg, nil
}

// LoadDefault loads DefaultFileName if present, or returns the defaults.
func LoadDefault() (Config, error) {
	if !fileutil.FileExists(DefaultFileName) {
		return Default(), nil
	}
	return Load(DefaultFileName)
}

// RenderTimeout parses the per-page timeout.
func (c Config) RenderTimeout() (time.Duration, error) {
	return parseDuration(c.Render.Timeout)
}

// SettleWindow parses the network quiet window.
func (c Config) SettleWindow() (time.Duration, error) {
	return parseDuration(c.Render.Settle)
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, s)
	}
	return d, nil
}
