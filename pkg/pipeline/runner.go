package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/grap/pkg/cache"
	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/export"
	"github.com/matzehuels/grap/pkg/render"
	"github.com/matzehuels/grap/pkg/table"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, exporter, and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger
	Exporter *export.Exporter
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		Exporter: export.NewExporter(logger),
	}
}

// Execute runs the complete ingest → build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Ingest
	ingestStart := time.Now()
	tbl, ingestHit, err := r.IngestWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Table = tbl
	result.Stats.IngestTime = time.Since(ingestStart)
	result.Stats.Rows = tbl.Len()
	result.CacheInfo.IngestHit = ingestHit

	r.Logger.Info("ingested csv",
		"rows", tbl.Len(),
		"columns", len(tbl.Columns),
		"duration", result.Stats.IngestTime)

	// Stage 2: Build
	buildStart := time.Now()
	result.Spec = Build(ctx, tbl, opts)
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Series = len(result.Spec.Series)
	result.SpecHash, _ = SpecHash(result.Spec)

	r.Logger.Debug("built chart",
		"type", result.Spec.Type,
		"series", result.Stats.Series,
		"labels", len(result.Spec.Labels))

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Spec, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// IngestWithCacheInfo reads and parses the CSV with caching and returns cache hit info.
func (r *Runner) IngestWithCacheInfo(ctx context.Context, opts Options) (*table.Table, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForIngest(); err != nil {
		return nil, false, err
	}

	data, err := ReadSource(opts)
	if err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.TableKey(cache.Hash(data))

	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var tbl table.Table
			if err := json.Unmarshal(cached, &tbl); err == nil {
				return &tbl, true, nil
			}
		}
	}

	tbl, err := Ingest(ctx, data, opts)
	if err != nil {
		return nil, false, err
	}

	if encoded, err := json.Marshal(tbl); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, encoded, cache.TTLTable); err != nil {
			r.Logger.Warn("cache write failed", "key", cache.KeyType(cacheKey), "error", err)
		}
	}
	return tbl, false, nil
}

// Ingest is a convenience wrapper that calls IngestWithCacheInfo and discards the cache hit info.
func (r *Runner) Ingest(ctx context.Context, opts Options) (*table.Table, error) {
	tbl, _, err := r.IngestWithCacheInfo(ctx, opts)
	return tbl, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, spec chart.Spec, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	specHash, err := SpecHash(spec)
	if err != nil {
		return nil, false, fmt.Errorf("hash spec for cache key: %w", err)
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	allCached := true
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(specHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			allCached = false
			break
		}
		artifacts[format] = data
	}
	if allCached && len(artifacts) > 0 {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, spec, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(specHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", cache.KeyType(key), "error", err)
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, spec chart.Spec, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, spec, opts)
	return artifacts, err
}

// ExportWithCacheInfo returns the export PNG of spec at ratio with caching.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, spec chart.Spec, ratio chart.AspectRatio, live render.Frame) ([]byte, bool, error) {
	specHash, err := SpecHash(spec)
	if err != nil {
		return nil, false, fmt.Errorf("hash spec for cache key: %w", err)
	}
	w, _ := r.Exporter.OutputSize(ratio)
	key := r.Keyer.ExportKey(specHash, cache.ExportKeyOpts{
		Ratio:      string(ratio),
		BaseWidth:  w,
		LiveWidth:  live.Width,
		LiveHeight: live.Height,
	})

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		return data, true, nil
	}

	data, err := r.Exporter.Render(spec, ratio, live)
	if err != nil {
		return nil, false, err
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLExport); err != nil {
		r.Logger.Warn("cache write failed", "key", cache.KeyType(key), "error", err)
	}
	return data, false, nil
}

// SpecHash is the content hash of spec used in cache keys and API responses.
func SpecHash(spec chart.Spec) (string, error) {
	return cache.HashJSON(spec)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
