// Package config loads grap's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/grap/config.toml (falling back to
// ~/.config/grap/config.toml). Every key is optional; command-line flags
// override file values.
//
//	[chart]
//	type = "bar"
//	theme = "dark"
//	series_color = "#36A2EBFF"
//
//	[render]
//	formats = ["png", "svg"]
//	font = "/usr/share/fonts/TTF/Inter.ttf"
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
//	write_timeout = "30s"
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/grap/pkg/cache"
	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/color"
)

const appName = "grap"

// Config is the complete configuration file.
type Config struct {
	Chart  ChartConfig  `toml:"chart"`
	Render RenderConfig `toml:"render"`
	Cache  cache.Config `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// ChartConfig holds default chart options as strings so aliases such as
// "16:9" are accepted.
type ChartConfig struct {
	Type        string `toml:"type"`
	Theme       string `toml:"theme"`
	TextSize    string `toml:"text_size"`
	AspectRatio string `toml:"aspect_ratio"`
	Title       string `toml:"title"`
	XAxisLabel  string `toml:"x_axis_label"`
	YAxisLabel  string `toml:"y_axis_label"`
	SeriesColor string `toml:"series_color"`
}

// RenderConfig holds output defaults.
type RenderConfig struct {
	Formats   []string `toml:"formats"`
	Font      string   `toml:"font"`
	OutputDir string   `toml:"output_dir"`
	Ratios    []string `toml:"export_ratios"`
}

// ServerConfig configures `grap serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	MaxUploadMB  int      `toml:"max_upload_mb"`
}

// Duration is a time.Duration written as a string ("30s") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	d := chart.DefaultOptions()
	return Config{
		Chart: ChartConfig{
			Type:        string(d.Type),
			Theme:       string(d.Theme),
			TextSize:    string(d.TextSize),
			AspectRatio: string(d.AspectRatio),
			SeriesColor: d.SeriesColor.Hex(),
		},
		Render: RenderConfig{
			Formats: []string{"png"},
		},
		Cache: cache.Config{
			Backend: cache.BackendFile,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
			MaxUploadMB:  10,
		},
	}
}

// Path returns the configuration file path.
func Path() (string, error) {
	dir, err := dirFor("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the file cache directory ($XDG_CACHE_HOME/grap).
func CacheDir() (string, error) {
	return dirFor("XDG_CACHE_HOME", ".cache")
}

func dirFor(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

// Load reads the file at path on top of Default. A missing file is not an
// error. Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the file at Path.
func LoadDefault() (Config, string, error) {
	path, err := Path()
	if err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Validate checks every enumerated value.
func (c Config) Validate() error {
	if _, err := c.Chart.Options(); err != nil {
		return err
	}
	for _, r := range c.Render.Ratios {
		if _, err := chart.ParseAspectRatio(r); err != nil {
			return err
		}
	}
	backends := []string{"", cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo}
	if !slices.Contains(backends, c.Cache.Backend) {
		return fmt.Errorf("invalid cache backend: %q (must be one of: none, file, redis, mongo)", c.Cache.Backend)
	}
	if c.Server.MaxUploadMB < 0 {
		return fmt.Errorf("invalid max_upload_mb: %d", c.Server.MaxUploadMB)
	}
	return nil
}

// Options converts the chart section to chart options. Empty values take
// the chart defaults.
func (c ChartConfig) Options() (chart.Options, error) {
	opts := chart.DefaultOptions()
	var err error
	if c.Type != "" {
		if opts.Type, err = chart.ParseType(c.Type); err != nil {
			return chart.Options{}, err
		}
	}
	if c.Theme != "" {
		if opts.Theme, err = chart.ParseTheme(c.Theme); err != nil {
			return chart.Options{}, err
		}
	}
	if c.TextSize != "" {
		if opts.TextSize, err = chart.ParseTextSize(c.TextSize); err != nil {
			return chart.Options{}, err
		}
	}
	if c.AspectRatio != "" {
		if opts.AspectRatio, err = chart.ParseAspectRatio(c.AspectRatio); err != nil {
			return chart.Options{}, err
		}
	}
	if c.SeriesColor != "" {
		if opts.SeriesColor, err = color.ParseHex(c.SeriesColor); err != nil {
			return chart.Options{}, err
		}
	}
	opts.Title = c.Title
	opts.XAxisLabel = c.XAxisLabel
	opts.YAxisLabel = c.YAxisLabel
	return opts, nil
}

// ExportRatios returns the configured export ratios. Unknown names are
// skipped; Validate reports them.
func (c Config) ExportRatios() []chart.AspectRatio {
	var ratios []chart.AspectRatio
	for _, r := range c.Render.Ratios {
		if a, err := chart.ParseAspectRatio(r); err == nil {
			ratios = append(ratios, a)
		}
	}
	return ratios
}

// CacheConfig returns the cache section with the default directory filled in
// for the file backend.
func (c Config) CacheConfig() cache.Config {
	cc := c.Cache
	if (cc.Backend == "" || cc.Backend == cache.BackendFile) && cc.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			cc.Dir = dir
		}
	}
	return cc
}

// Write encodes c as TOML.
func (c Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
