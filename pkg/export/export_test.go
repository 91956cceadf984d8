package export

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/render"
	"github.com/matzehuels/grap/pkg/table"
)

func testSpec(t *testing.T, typ chart.Type) chart.Spec {
	t.Helper()
	tbl, err := table.ParseBytes(context.Background(), []byte("month,sales,costs\nJan,10,4\nFeb,20,8\nMar,15,9\n"))
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	return chart.Build(tbl, chart.DefaultOptions().WithType(typ).WithTitle("Sales"))
}

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return img
}

func TestOutputSize(t *testing.T) {
	e := NewExporter(nil)
	tests := []struct {
		ratio chart.AspectRatio
		w, h  int
	}{
		{chart.AspectLandscape, 1600, 900},
		{chart.AspectPortrait, 1600, 2844},
		{chart.AspectSquare, 1600, 1600},
		{chart.AspectUltraWide, 1600, 686},
	}
	for _, tt := range tests {
		t.Run(string(tt.ratio), func(t *testing.T) {
			w, h := e.OutputSize(tt.ratio)
			if w != tt.w || h != tt.h {
				t.Errorf("OutputSize(%s) = %dx%d, want %dx%d", tt.ratio, w, h, tt.w, tt.h)
			}
		})
	}
}

func TestRenderMatchesRatio(t *testing.T) {
	e := NewExporter(nil, WithBaseWidth(480))
	spec := testSpec(t, chart.TypeBar)

	for _, ratio := range chart.AspectRatios {
		t.Run(string(ratio), func(t *testing.T) {
			data, err := e.Render(spec, ratio, render.Frame{})
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			b := decode(t, data).Bounds()
			if b.Dx() != 480 {
				t.Errorf("width = %d, want 480", b.Dx())
			}
			got := float64(b.Dx()) / float64(b.Dy())
			want := ratio.Ratio()
			if math.Abs(float64(b.Dy())-480/want) > 1 {
				t.Errorf("ratio = %.4f, want %.4f within 1px", got, want)
			}
		})
	}
}

func TestRenderRoundedCorners(t *testing.T) {
	e := NewExporter(nil, WithBaseWidth(400))
	for _, theme := range chart.Themes {
		t.Run(string(theme), func(t *testing.T) {
			spec := testSpec(t, chart.TypeLine)
			spec.Theme = theme
			spec.Palette = chart.PaletteFor(theme, spec.SeriesColor)

			img := decode(t, mustRender(t, e, spec, chart.AspectSquare))
			b := img.Bounds()
			for _, p := range []image.Point{
				{0, 0}, {b.Dx() - 1, 0}, {0, b.Dy() - 1}, {b.Dx() - 1, b.Dy() - 1},
			} {
				if _, _, _, a := img.At(p.X, p.Y).RGBA(); a != 0 {
					t.Errorf("corner %v alpha = %d, want 0", p, a)
				}
			}
			if _, _, _, a := img.At(b.Dx()/2, 2).RGBA(); a != 0xffff {
				t.Errorf("top edge alpha = %d, want opaque", a)
			}
		})
	}
}

func TestRenderSquareIsSquare(t *testing.T) {
	e := NewExporter(nil, WithBaseWidth(320))
	img := decode(t, mustRender(t, e, testSpec(t, chart.TypePie), chart.AspectSquare))
	if b := img.Bounds(); b.Dx() != b.Dy() {
		t.Errorf("square export is %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderLeavesSpecUntouched(t *testing.T) {
	e := NewExporter(nil, WithBaseWidth(320))
	spec := testSpec(t, chart.TypeLine)
	before := spec.Clone()

	mustRender(t, e, spec, chart.AspectPortrait)

	if spec.AspectRatio != before.AspectRatio || spec.Fonts != before.Fonts {
		t.Errorf("spec modified: %+v", spec)
	}
}

func TestExportPNG(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	e := NewExporter(nil, WithBaseWidth(320))

	path, err := e.ExportPNG(context.Background(), dir, testSpec(t, chart.TypeFunnel), chart.AspectSquare)
	if err != nil {
		t.Fatalf("ExportPNG: %v", err)
	}
	if filepath.Base(path) != "chart-square.png" {
		t.Errorf("path = %s, want chart-square.png", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if b := decode(t, data).Bounds(); b.Dx() != 320 || b.Dy() != 320 {
		t.Errorf("export is %dx%d, want 320x320", b.Dx(), b.Dy())
	}
}

func TestExportPNGInvalidDir(t *testing.T) {
	e := NewExporter(nil, WithBaseWidth(320))
	if _, err := e.ExportPNG(context.Background(), "bad\x00dir", testSpec(t, chart.TypeBar), chart.AspectSquare); err == nil {
		t.Error("expected error for invalid output dir")
	}
}

func TestExportAll(t *testing.T) {
	dir := t.TempDir()
	e := NewExporter(nil, WithBaseWidth(240))

	paths, err := e.ExportAll(context.Background(), dir, testSpec(t, chart.TypeBar), chart.AspectRatios)
	if err != nil {
		t.Fatalf("ExportAll: %v", err)
	}
	if len(paths) != len(chart.AspectRatios) {
		t.Fatalf("got %d paths, want %d", len(paths), len(chart.AspectRatios))
	}
	for i, ratio := range chart.AspectRatios {
		if filepath.Base(paths[i]) != Filename(ratio) {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], Filename(ratio))
		}
	}
}

func TestFontScaleFollowsLiveFrame(t *testing.T) {
	spec := testSpec(t, chart.TypeLine)

	small := NewExporter(nil, WithBaseWidth(400))
	a := mustRenderLive(t, small, spec, render.Frame{Width: 400, Height: 400})
	b := mustRenderLive(t, small, spec, render.Frame{Width: 200, Height: 200})
	if bytes.Equal(a, b) {
		t.Error("live frame size does not affect the export")
	}
}

func mustRender(t *testing.T, e *Exporter, spec chart.Spec, ratio chart.AspectRatio) []byte {
	t.Helper()
	data, err := e.Render(spec, ratio, render.Frame{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return data
}

func mustRenderLive(t *testing.T, e *Exporter, spec chart.Spec, live render.Frame) []byte {
	t.Helper()
	data, err := e.Render(spec, chart.AspectSquare, live)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return data
}
