package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/grap/pkg/observability"
)

var (
	_ observability.PipelineHooks = logHooks{}
	_ observability.ExportHooks   = logHooks{}
	_ observability.CacheHooks    = logHooks{}
	_ observability.HTTPHooks     = logHooks{}
)

func TestLogHooks(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		level log.Level
		fire  func(logHooks)
		want  string
	}{
		{"cache hit", log.DebugLevel, func(h logHooks) { h.OnCacheHit(ctx, "artifact") }, "cache hit"},
		{"ingest", log.DebugLevel, func(h logHooks) { h.OnIngestComplete(ctx, "upload", 3, time.Millisecond, nil) }, "rows=3"},
		{"export skipped", log.DebugLevel, func(h logHooks) { h.OnExportSkipped(ctx, "clipboard", "no tool") }, "export skipped"},
		{"render failure warns", log.InfoLevel, func(h logHooks) { h.OnRenderComplete(ctx, []string{"pdf"}, 0, errors.New("boom")) }, "render failed"},
		{"server error warns", log.InfoLevel, func(h logHooks) { h.OnResponse(ctx, "POST", "/api/render", 500, 0) }, "status=500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.fire(logHooks{logger: newLogger(&buf, tt.level)})
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log = %q, want it to contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{logger: newLogger(&buf, log.InfoLevel)}
	h.OnCacheMiss(context.Background(), "table")
	h.OnResponse(context.Background(), "GET", "/healthz", 200, 0)
	if buf.Len() != 0 {
		t.Errorf("routine events logged at info level: %q", buf.String())
	}
}
