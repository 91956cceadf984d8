package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/grap/pkg/cache"
	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/color"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("missing file should give defaults (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[chart]
type = "Bar"
theme = "dark"
aspect_ratio = "1:1"
series_color = "#36a2eb"
title = "Revenue"

[render]
formats = ["svg"]
export_ratios = ["square", "16:9"]

[cache]
backend = "redis"
url = "redis://localhost:6379/0"
compress = true

[server]
addr = ":9000"
write_timeout = "2m"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	opts, err := cfg.Chart.Options()
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	want := chart.DefaultOptions().
		WithType(chart.TypeBar).
		WithTheme(chart.ThemeDark).
		WithAspectRatio(chart.AspectSquare).
		WithSeriesColor(color.MustParseHex("#36A2EBFF")).
		WithTitle("Revenue")
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("chart options mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"svg"}, cfg.Render.Formats); diff != "" {
		t.Errorf("formats mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]chart.AspectRatio{chart.AspectSquare, chart.AspectLandscape}, cfg.ExportRatios()); diff != "" {
		t.Errorf("ratios mismatch (-want +got):\n%s", diff)
	}
	if cfg.Cache.Backend != cache.BackendRedis || !cfg.Cache.Compress {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.WriteTimeout.Duration != 2*time.Minute {
		t.Errorf("server = %+v", cfg.Server)
	}
	// Unset keys keep their defaults.
	if cfg.Server.ReadTimeout != Default().Server.ReadTimeout {
		t.Errorf("read timeout = %v, want default", cfg.Server.ReadTimeout)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[chart\n", "read config"},
		{"unknown key", "[chart]\ncolour = \"red\"\n", "unknown keys: chart.colour"},
		{"bad type", "[chart]\ntype = \"scatter\"\n", "invalid chart type"},
		{"bad color", "[chart]\nseries_color = \"nope\"\n", "color"},
		{"bad ratio", "[render]\nexport_ratios = [\"4:3\"]\n", "aspect ratio"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "invalid cache backend"},
		{"bad duration", "[server]\nread_timeout = \"soon\"\n", "invalid duration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	path := writeConfig(t, buf.String())
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(Default(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")

	path, err := Path()
	if err != nil || path != "/tmp/cfg/grap/config.toml" {
		t.Errorf("Path() = %q, %v", path, err)
	}
	dir, err := CacheDir()
	if err != nil || dir != "/tmp/cache/grap" {
		t.Errorf("CacheDir() = %q, %v", dir, err)
	}
	if cc := Default().CacheConfig(); cc.Dir != "/tmp/cache/grap" {
		t.Errorf("CacheConfig().Dir = %q", cc.Dir)
	}
}

func TestPathsFallBackToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".config", "grap", "config.toml"); path != want {
		t.Errorf("Path() = %q, want %q", path, want)
	}
}
