package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/observability"
	"github.com/matzehuels/grap/pkg/render"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, spec chart.Spec, opts Options) (map[string][]byte, error) {
	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts, err := renderFormats(spec, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderFormats(spec chart.Spec, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	ropts := opts.RenderOptions()

	for _, format := range opts.Formats {
		if _, ok := artifacts[format]; ok {
			continue
		}
		data, err := render.Render(spec, render.Format(format), ropts...)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
