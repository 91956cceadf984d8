package pipeline

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/matzehuels/grap/pkg/errors"
	"github.com/matzehuels/grap/pkg/observability"
	"github.com/matzehuels/grap/pkg/table"
)

// ReadSource returns the raw CSV bytes for opts: Data when set, otherwise the
// file at Source or Stdin for "-".
func ReadSource(opts Options) ([]byte, error) {
	if opts.Data != nil {
		return opts.Data, nil
	}
	if opts.Source == StdinSource {
		data, err := io.ReadAll(opts.Stdin)
		if err != nil {
			return nil, errors.Parse(err)
		}
		return data, nil
	}
	data, err := os.ReadFile(opts.Source)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", opts.Source)
	}
	if err != nil {
		return nil, errors.Parse(err)
	}
	return data, nil
}

// Ingest parses CSV bytes into a table.
func Ingest(ctx context.Context, data []byte, opts Options) (*table.Table, error) {
	start := time.Now()
	observability.Pipeline().OnIngestStart(ctx, sourceName(opts))

	tbl, err := table.ParseBytes(ctx, data)
	observability.Pipeline().OnIngestComplete(ctx, sourceName(opts), tbl.Len(), time.Since(start), err)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Debug("csv rejected", "source", sourceName(opts), "error", err)
		}
		return nil, err
	}
	return tbl, nil
}

func sourceName(opts Options) string {
	switch {
	case opts.Source == StdinSource:
		return "stdin"
	case opts.Source != "":
		return opts.Source
	default:
		return "upload"
	}
}
