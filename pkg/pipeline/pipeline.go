// Package pipeline provides the chart pipeline shared by the CLI, the control
// panel, and the HTTP service.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Ingest: Parse CSV bytes into a table
//  2. Build: Derive a chart spec from the table and chart options
//  3. Render: Draw the spec in one or more formats (PNG, SVG, PDF, JSON)
//  4. Export: Composite a fixed-size PNG of the spec for download
//
// Each stage can be run independently or as part of the complete pipeline.
// Ingest, render, and export results are cached by content hash.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "sales.csv",
//	    Chart:   chart.DefaultOptions().WithType(chart.TypeBar),
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
//
// Run individual stages:
//
//	tbl, err := runner.Ingest(ctx, opts)
//	spec := pipeline.Build(ctx, tbl, opts)
//	artifacts, err := runner.Render(ctx, spec, opts)
package pipeline

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang/freetype/truetype"

	"github.com/matzehuels/grap/pkg/cache"
	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/errors"
	"github.com/matzehuels/grap/pkg/render"
	"github.com/matzehuels/grap/pkg/table"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Panel
// =============================================================================

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = FormatPNG

// StdinSource is the Source value that reads CSV from Options.Stdin.
const StdinSource = "-"

// Format constants for output formats.
const (
	FormatSVG  = string(render.FormatSVG)
	FormatPNG  = string(render.FormatPNG)
	FormatPDF  = string(render.FormatPDF)
	FormatJSON = string(render.FormatJSON)
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the chart pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Ingest options
	Source  string `json:"source,omitempty"` // CSV path, or "-" for Stdin
	Data    []byte `json:"-"`                // Raw CSV; takes precedence over Source
	Refresh bool   `json:"refresh,omitempty"`

	// Chart options
	Chart chart.Options `json:"chart"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Width     int      `json:"width,omitempty"`  // 0 = largest frame of the aspect ratio
	Height    int      `json:"height,omitempty"` // 0 = largest frame of the aspect ratio
	FontScale float64  `json:"font_scale,omitempty"`
	FontPath  string   `json:"font_path,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger    `json:"-"`
	Font   *truetype.Font `json:"-"`
	Stdin  io.Reader      `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Table is the ingested CSV.
	Table *table.Table

	// Spec is the chart built from Table.
	Spec chart.Spec

	// SpecHash is the content hash of Spec.
	SpecHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows       int
	Series     int
	IngestTime time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	IngestHit bool // Whether the table came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSize checks an explicit output size.
func ValidateSize(width, height int) error {
	if width < 0 || height < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "invalid size: %dx%d (must not be negative)", width, height)
	}
	if width > render.MaxWidth*4 || height > render.MaxHeight*4 {
		return errors.New(errors.ErrCodeInvalidOption, "invalid size: %dx%d (max %dx%d)", width, height, render.MaxWidth*4, render.MaxHeight*4)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForIngest(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForIngest checks required fields for ingesting CSV.
func (o *Options) ValidateForIngest() error {
	if o.Data == nil && o.Source == "" {
		return errors.New(errors.ErrCodeInvalidInput, "source or data is required")
	}
	if o.Source == StdinSource && o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetChartDefaults replaces unset or unknown chart options with defaults.
func (o *Options) SetChartDefaults() {
	o.Chart = o.Chart.Normalize()
}

// ValidateForBuild validates chart options after applying defaults.
func (o *Options) ValidateForBuild() error {
	o.SetChartDefaults()
	return o.Chart.Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	o.SetChartDefaults()
	formats := make([]string, 0, len(o.Formats))
	for _, f := range o.Formats {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		formats = []string{DefaultFormat}
	}
	o.Formats = formats
	if o.FontScale <= 0 {
		o.FontScale = 1
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := o.Chart.Validate(); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateSize(o.Width, o.Height)
}

// RenderOptions converts the options to renderer options.
func (o Options) RenderOptions() []render.Option {
	opts := []render.Option{render.WithFontScale(o.FontScale)}
	if o.Width > 0 && o.Height > 0 {
		opts = append(opts, render.WithSize(o.Width, o.Height))
	}
	if o.Font != nil {
		opts = append(opts, render.WithFont(o.Font))
	}
	return opts
}

// ArtifactKeyOpts returns the cache key options for one rendered format.
func (o Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Width:     o.Width,
		Height:    o.Height,
		FontScale: o.FontScale,
		Font:      o.FontPath,
	}
}
