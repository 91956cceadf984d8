// Package cache stores intermediate and final pipeline results.
//
// The pipeline caches parsed tables, rendered artifacts, and export images
// under content-addressed keys produced by a [Keyer]. Backends:
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP service
//   - [MongoCache]: shared cache with a server-side TTL index
//   - [NullCache]: caching disabled
//
// [Compressed] wraps any backend with zstd compression and [Instrumented]
// reports hits and misses to the registered observability hooks.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (hit == false) with a nil error.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per entry kind.
const (
	TTLTable    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
	TTLExport   = 7 * 24 * time.Hour
)

// Keyer produces cache keys.
type Keyer interface {
	// TableKey is the key of a parsed table, by hash of the raw CSV bytes.
	TableKey(dataHash string) string

	// ArtifactKey is the key of a rendered output, by hash of the chart spec.
	ArtifactKey(specHash string, opts ArtifactKeyOpts) string

	// ExportKey is the key of an export image, by hash of the chart spec.
	ExportKey(specHash string, opts ExportKeyOpts) string
}

// ArtifactKeyOpts are the render parameters that change an artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FontScale float64 `json:"font_scale"`
	Font      string  `json:"font,omitempty"`
}

// ExportKeyOpts are the export parameters that change an export image.
type ExportKeyOpts struct {
	Ratio      string `json:"ratio"`
	BaseWidth  int    `json:"base_width"`
	LiveWidth  int    `json:"live_width"`
	LiveHeight int    `json:"live_height"`
	Font       string `json:"font,omitempty"`
}

// DefaultKeyer generates keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) TableKey(dataHash string) string {
	return hashKey("table", dataHash)
}

func (DefaultKeyer) ArtifactKey(specHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", specHash, opts)
}

func (DefaultKeyer) ExportKey(specHash string, opts ExportKeyOpts) string {
	return hashKey("export", specHash, opts)
}

var _ Keyer = DefaultKeyer{}
