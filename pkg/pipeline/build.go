package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/observability"
	"github.com/matzehuels/grap/pkg/table"
)

// Build derives the chart spec for tbl. Building never fails; invalid chart
// options are replaced by their defaults.
func Build(ctx context.Context, tbl *table.Table, opts Options) chart.Spec {
	start := time.Now()
	spec := chart.Build(tbl, opts.Chart)
	observability.Pipeline().OnBuild(ctx, string(spec.Type), len(spec.Series), time.Since(start))
	return spec
}
