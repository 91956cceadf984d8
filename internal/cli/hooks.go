package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports pipeline, export, cache and HTTP events as debug logs.
// serve registers it with the observability package.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnIngestStart(ctx context.Context, source string) {}

func (h logHooks) OnIngestComplete(ctx context.Context, source string, rows int, dur time.Duration, err error) {
	if err != nil {
		h.logger.Debug("ingest failed", "source", source, "error", err)
		return
	}
	h.logger.Debug("ingest", "source", source, "rows", rows, "duration", dur.Round(time.Microsecond))
}

func (h logHooks) OnBuild(ctx context.Context, chartType string, series int, dur time.Duration) {
	h.logger.Debug("build", "type", chartType, "series", series)
}

func (h logHooks) OnRenderStart(ctx context.Context, formats []string) {}

func (h logHooks) OnRenderComplete(ctx context.Context, formats []string, dur time.Duration, err error) {
	if err != nil {
		h.logger.Warn("render failed", "formats", formats, "error", err)
		return
	}
	h.logger.Debug("render", "formats", formats, "duration", dur.Round(time.Millisecond))
}

func (h logHooks) OnExport(ctx context.Context, target, ratio string, size int, dur time.Duration, err error) {
	if err != nil {
		h.logger.Warn("export failed", "target", target, "ratio", ratio, "error", err)
		return
	}
	h.logger.Debug("export", "target", target, "ratio", ratio, "bytes", size, "duration", dur.Round(time.Millisecond))
}

func (h logHooks) OnExportSkipped(ctx context.Context, target, reason string) {
	h.logger.Debug("export skipped", "target", target, "reason", reason)
}

func (h logHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(ctx context.Context, method, path string) {}

func (h logHooks) OnResponse(ctx context.Context, method, path string, status int, dur time.Duration) {
	if status >= 500 {
		h.logger.Warn("request failed", "method", method, "path", path, "status", status)
	}
}
