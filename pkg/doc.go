// Package pkg provides the core libraries for grap, a tool that turns CSV
// files into charts.
//
// # Overview
//
// grap reads a CSV table, builds a declarative chart spec from it and draws
// the spec as PNG, SVG, PDF or JSON. The pkg directory is organized into
// these areas:
//
//  1. [table] - CSV ingestion into a labeled numeric table
//  2. [chart] - Chart options, themes and the spec builder
//  3. [render] - Drawing specs onto surfaces and into byte formats
//  4. [export] - Fixed-size PNG export and clipboard delivery
//  5. [pipeline] - Orchestration (ingest → build → render) with caching
//  6. [cache] - Content-addressed caches (file, memory, Redis, MongoDB)
//
// # Architecture
//
// The typical data flow through grap:
//
//	CSV file / upload / stdin
//	         ↓
//	    [table] package (parse + coerce numbers)
//	         ↓
//	    [chart] package (options → spec)
//	         ↓
//	    [render] package (spec → PNG/SVG/PDF/JSON, or a live surface)
//	         ↓
//	    [export] package (fixed-width PNGs, clipboard)
//
// # Quick Start
//
// Render a CSV file as a bar chart:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/grap/pkg/cache"
//	    "github.com/matzehuels/grap/pkg/chart"
//	    "github.com/matzehuels/grap/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    Source:  "sales.csv",
//	    Chart:   chart.DefaultOptions().WithType(chart.TypeBar),
//	    Formats: []string{"png"},
//	})
//	png := result.Artifacts["png"]
//
// # Supporting Packages
//
//   - [color] - RGBA colors with strict hex parsing
//   - [fonts] - TrueType font loading for the renderers
//   - [errors] - Coded errors and user-facing messages
//   - [observability] - Hook interfaces for logging and metrics
//   - [buildinfo] - Version information set at link time
//
// [table]: https://pkg.go.dev/github.com/matzehuels/grap/pkg/table
// [chart]: https://pkg.go.dev/github.com/matzehuels/grap/pkg/chart
// [render]: https://pkg.go.dev/github.com/matzehuels/grap/pkg/render
// [export]: https://pkg.go.dev/github.com/matzehuels/grap/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/grap/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/grap/pkg/cache
// [color]: https://pkg.go.dev/github.com/matzehuels/grap/pkg/color
// [fonts]: https://pkg.go.dev/github.com/matzehuels/grap/pkg/fonts
// [errors]: https://pkg.go.dev/github.com/matzehuels/grap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/grap/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/grap/pkg/buildinfo
package pkg
