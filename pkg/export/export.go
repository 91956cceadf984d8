package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/errors"
	"github.com/matzehuels/grap/pkg/observability"
	"github.com/matzehuels/grap/pkg/render"
)

const (
	// BaseWidth is the pixel width of every exported image.
	BaseWidth = 1600

	// CornerRadius is the radius of the exported card's corners.
	CornerRadius = 8
)

// Exporter renders export images. An Exporter is safe for concurrent use.
type Exporter struct {
	Logger *log.Logger

	font      *truetype.Font
	baseWidth int
	clipboard Clipboard
	liveFrame func() render.Frame
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithFont renders exports with f instead of the default font.
func WithFont(f *truetype.Font) Option { return func(e *Exporter) { e.font = f } }

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option { return func(e *Exporter) { e.clipboard = c } }

// WithBaseWidth overrides BaseWidth.
func WithBaseWidth(w int) Option {
	return func(e *Exporter) {
		if w > 0 {
			e.baseWidth = w
		}
	}
}

// WithLiveFrame supplies the frame of the on-screen chart used to scale
// fonts in ExportPNG and Copy.
func WithLiveFrame(fn func() render.Frame) Option { return func(e *Exporter) { e.liveFrame = fn } }

// NewExporter creates an exporter. A nil logger discards output.
func NewExporter(logger *log.Logger, opts ...Option) *Exporter {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	e := &Exporter{
		Logger:    logger,
		baseWidth: BaseWidth,
		clipboard: NewSystemClipboard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OutputSize returns the export size for ratio: the base width by
// round(base width / ratio).
func (e *Exporter) OutputSize(ratio chart.AspectRatio) (int, int) {
	w := e.baseWidth
	return w, int(math.Round(float64(w) / ratio.Ratio()))
}

// Render returns the export PNG of spec at ratio. live is the frame of the
// on-screen chart; an empty frame means the default frame for ratio.
// spec is not modified.
func (e *Exporter) Render(spec chart.Spec, ratio chart.AspectRatio, live render.Frame) ([]byte, error) {
	snapshot := spec.Clone()
	snapshot.AspectRatio = ratio

	w, h := e.OutputSize(ratio)
	if live.Empty() {
		live = render.FitFrame(0, 0, ratio.Ratio())
	}
	scale := min(float64(w)/float64(live.Width), float64(h)/float64(live.Height))

	opts := []render.Option{render.WithSize(w, h), render.WithFontScale(scale)}
	if e.font != nil {
		opts = append(opts, render.WithFont(e.font))
	}
	img, err := render.Image(snapshot, opts...)
	if err != nil {
		return nil, fmt.Errorf("render snapshot: %w", err)
	}

	dc := gg.NewContext(w, h)
	dc.DrawRoundedRectangle(0, 0, float64(w), float64(h), CornerRadius)
	dc.Clip()
	dc.SetColor(snapshot.Palette.Background.NRGBA())
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()

	img = fit(img, w, h)
	b := img.Bounds()
	dc.DrawImage(img, (w-b.Dx())/2, (h-b.Dy())/2)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// fit scales img to fit w×h preserving its aspect ratio.
func fit(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return imaging.Fit(img, w, h, imaging.Lanczos)
}

// Filename returns the export file name for ratio.
func Filename(ratio chart.AspectRatio) string {
	return fmt.Sprintf("chart-%s.png", ratio)
}

// ExportPNG writes the export image of spec to dir/chart-<ratio>.png and
// returns the path. An empty dir means the current directory.
func (e *Exporter) ExportPNG(ctx context.Context, dir string, spec chart.Spec, ratio chart.AspectRatio) (path string, err error) {
	start := time.Now()
	size := 0
	defer func() {
		observability.Export().OnExport(ctx, "file", string(ratio), size, time.Since(start), err)
	}()

	if err := errors.ValidateOutputDir(dir); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := e.Render(spec, ratio, e.live())
	if err != nil {
		return "", err
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
	}
	path = filepath.Join(dir, Filename(ratio))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	size = len(data)

	e.Logger.Debug("exported chart", "path", path, "bytes", size, "duration", time.Since(start))
	return path, nil
}

// ExportAll exports spec at every ratio concurrently and returns the paths in
// the order of ratios.
func (e *Exporter) ExportAll(ctx context.Context, dir string, spec chart.Spec, ratios []chart.AspectRatio) ([]string, error) {
	paths := make([]string, len(ratios))
	g, ctx := errgroup.WithContext(ctx)
	for i, ratio := range ratios {
		g.Go(func() error {
			p, err := e.ExportPNG(ctx, dir, spec, ratio)
			if err != nil {
				return fmt.Errorf("export %s: %w", ratio, err)
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Copy writes the export image of spec to the clipboard and reports whether it
// was delivered. When no clipboard is available Copy logs at debug level and
// returns false with a nil error.
func (e *Exporter) Copy(ctx context.Context, spec chart.Spec, ratio chart.AspectRatio) (bool, error) {
	start := time.Now()
	data, err := e.Render(spec, ratio, e.live())
	if err != nil {
		return false, err
	}

	if err := e.clipboard.WriteImage(ctx, data); err != nil {
		if errors.Is(err, errors.ErrCodeExportUnavailable) {
			e.Logger.Debug("clipboard unavailable, skipping copy", "reason", err)
			observability.Export().OnExportSkipped(ctx, "clipboard", err.Error())
			return false, nil
		}
		observability.Export().OnExport(ctx, "clipboard", string(ratio), 0, time.Since(start), err)
		return false, err
	}

	observability.Export().OnExport(ctx, "clipboard", string(ratio), len(data), time.Since(start), nil)
	e.Logger.Debug("copied chart to clipboard", "bytes", len(data))
	return true, nil
}

func (e *Exporter) live() render.Frame {
	if e.liveFrame == nil {
		return render.Frame{}
	}
	return e.liveFrame()
}
