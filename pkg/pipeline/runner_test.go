package pipeline

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/grap/pkg/cache"
	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/errors"
	"github.com/matzehuels/grap/pkg/render"
)

const salesCSV = "month,sales,costs\nJan,10,4\nFeb,20,8\nMar,15,9\n"

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestExecute(t *testing.T) {
	r := newTestRunner(t)
	opts := Options{
		Data:    []byte(salesCSV),
		Chart:   chart.DefaultOptions().WithType(chart.TypeBar),
		Formats: []string{"png", "json"},
		Width:   320,
		Height:  180,
	}

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Stats.Rows != 3 || res.Stats.Series != 2 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.SpecHash == "" {
		t.Error("SpecHash empty")
	}
	img, err := png.Decode(bytes.NewReader(res.Artifacts["png"]))
	if err != nil {
		t.Fatalf("png artifact: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 180 {
		t.Errorf("png is %dx%d, want 320x180", b.Dx(), b.Dy())
	}
	if !bytes.Contains(res.Artifacts["json"], []byte(`"type": "bar"`)) {
		t.Errorf("json artifact = %s", res.Artifacts["json"])
	}
	if res.CacheInfo.IngestHit || res.CacheInfo.RenderHit {
		t.Errorf("first run hit cache: %+v", res.CacheInfo)
	}

	again, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !again.CacheInfo.IngestHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run missed cache: %+v", again.CacheInfo)
	}
	if !bytes.Equal(again.Artifacts["png"], res.Artifacts["png"]) {
		t.Error("cached png differs")
	}
}

func TestExecuteRefreshSkipsTableCache(t *testing.T) {
	r := newTestRunner(t)
	opts := Options{Data: []byte(salesCSV), Formats: []string{"json"}}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	opts.Refresh = true
	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.IngestHit {
		t.Error("refresh should bypass the table cache")
	}
}

func TestExecuteParseError(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Execute(context.Background(), Options{Data: []byte("a,\"b\n1,2")})
	if !errors.Is(err, errors.ErrCodeParse) {
		t.Fatalf("error = %v, want PARSE_ERROR", err)
	}
	if errors.UserMessage(err) != errors.ParseMessage {
		t.Errorf("UserMessage = %q", errors.UserMessage(err))
	}
}

func TestExecuteInvalidFormat(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Execute(context.Background(), Options{Data: []byte(salesCSV), Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestIngestSources(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(salesCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"file", Options{Source: path}, ""},
		{"stdin", Options{Source: StdinSource, Stdin: strings.NewReader(salesCSV)}, ""},
		{"data", Options{Data: []byte(salesCSV), Source: "ignored.csv"}, ""},
		{"missing file", Options{Source: filepath.Join(t.TempDir(), "nope.csv")}, errors.ErrCodeFileNotFound},
		{"empty stdin", Options{Source: StdinSource, Stdin: strings.NewReader("")}, errors.ErrCodeParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := NewRunner(nil, nil, nil).Ingest(context.Background(), tt.opts)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Errorf("error = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Ingest: %v", err)
			}
			if tbl.Len() != 3 {
				t.Errorf("rows = %d, want 3", tbl.Len())
			}
		})
	}
}

func TestRenderDeduplicatesFormats(t *testing.T) {
	spec := chart.Build(nil, chart.DefaultOptions())
	opts := Options{Formats: []string{"json", "json"}}
	opts.SetRenderDefaults()
	artifacts, err := Render(context.Background(), spec, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(artifacts) != 1 {
		t.Errorf("got %d artifacts, want 1", len(artifacts))
	}
}

func TestExportWithCacheInfo(t *testing.T) {
	r := newTestRunner(t)
	tbl, err := r.Ingest(context.Background(), Options{Data: []byte(salesCSV)})
	if err != nil {
		t.Fatal(err)
	}
	spec := Build(context.Background(), tbl, Options{Chart: chart.DefaultOptions()})
	live := render.Frame{Width: 800, Height: 450}

	first, hit, err := r.ExportWithCacheInfo(context.Background(), spec, chart.AspectSquare, live)
	if err != nil || hit {
		t.Fatalf("first export: hit %v, err %v", hit, err)
	}
	second, hit, err := r.ExportWithCacheInfo(context.Background(), spec, chart.AspectSquare, live)
	if err != nil || !hit {
		t.Fatalf("second export: hit %v, err %v", hit, err)
	}
	if !bytes.Equal(first, second) {
		t.Error("cached export differs")
	}
}
