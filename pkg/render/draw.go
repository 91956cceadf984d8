package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/color"
	"github.com/matzehuels/grap/pkg/fonts"
)

// DPI makes go-chart font sizes equal to pixel sizes.
const DPI = 72

// MinSide is the smallest width or height Draw renders at.
const MinSide = 64

// Format is a drawing output format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatSVG  Format = "svg"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[Format]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Option configures drawing.
type Option func(*config)

type config struct {
	width     int
	height    int
	fontScale float64
	font      *truetype.Font
	format    Format
}

// WithSize sets the output size in pixels. The default is the largest frame
// of the spec's aspect ratio that fits MaxWidth×MaxHeight.
func WithSize(width, height int) Option {
	return func(c *config) { c.width, c.height = width, height }
}

// WithFontScale multiplies every font size of the spec.
func WithFontScale(s float64) Option {
	return func(c *config) {
		if s > 0 {
			c.fontScale = s
		}
	}
}

// WithFont draws text with f instead of the default font.
func WithFont(f *truetype.Font) Option { return func(c *config) { c.font = f } }

func withFormat(f Format) Option { return func(c *config) { c.format = f } }

func newConfig(spec chart.Spec, opts []Option) config {
	c := config{fontScale: 1, format: FormatPNG}
	for _, opt := range opts {
		opt(&c)
	}
	if c.width <= 0 || c.height <= 0 {
		f := FitFrame(MaxWidth, MaxHeight, spec.Ratio())
		c.width, c.height = f.Width, f.Height
	}
	c.width, c.height = max(c.width, MinSide), max(c.height, MinSide)
	return c
}

func (c config) provider() gochart.RendererProvider {
	if c.format == FormatSVG {
		return gochart.SVG
	}
	return gochart.PNG
}

// Draw writes spec as a PNG (or SVG with the SVG sink) to w.
// Draw never panics: failures inside the drawing library are returned as errors.
func Draw(w io.Writer, spec chart.Spec, opts ...Option) (err error) {
	cfg := newConfig(spec, opts)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("draw %s chart: %v", spec.Type, r)
		}
	}()

	font := cfg.font
	if font == nil {
		if font, err = fonts.Default(); err != nil {
			return err
		}
	}

	d := drawer{
		spec:   sanitize(spec),
		width:  cfg.width,
		height: cfg.height,
		fonts:  spec.Fonts.Scale(cfg.fontScale),
		font:   font,
	}
	rp := cfg.provider()

	switch {
	case d.blank():
		return d.drawBlank(rp, w)
	case spec.Type == chart.TypePie:
		return d.drawPie(rp, w)
	default:
		return d.drawCartesian(rp, w)
	}
}

// Image draws spec and decodes the result.
func Image(spec chart.Spec, opts ...Option) (image.Image, error) {
	var buf bytes.Buffer
	if err := Draw(&buf, spec, opts...); err != nil {
		return nil, err
	}
	return png.Decode(&buf)
}

type drawer struct {
	spec   chart.Spec
	width  int
	height int
	fonts  chart.Fonts
	font   *truetype.Font
}

func (d drawer) blank() bool {
	if d.spec.Empty() {
		return true
	}
	if d.spec.Type == chart.TypePie {
		return len(d.pieValues()) == 0
	}
	return false
}

// top returns the y offset where the plot area starts: below the title and legend.
func (d drawer) top() int {
	pad := d.spec.Padding
	top := pad
	if d.spec.Title != "" {
		top += d.fonts.Title*1.25 + pad
	}
	if d.spec.Type != chart.TypePie {
		top += d.fonts.Label*1.25 + pad
	}
	return int(top)
}

func (d drawer) titleStyle() gochart.Style {
	return gochart.Style{
		FontSize:  d.fonts.Title,
		FontColor: toDrawing(d.spec.Palette.Text),
		Padding:   gochart.Box{Top: int(d.spec.Padding)},
	}
}

func (d drawer) background() gochart.Style {
	pad := int(d.spec.Padding)
	return gochart.Style{
		FillColor:   toDrawing(d.spec.Palette.Background),
		StrokeColor: toDrawing(d.spec.Palette.Background),
		Padding:     gochart.Box{Top: d.top(), Left: pad, Right: pad, Bottom: pad},
	}
}

func (d drawer) drawCartesian(rp gochart.RendererProvider, w io.Writer) error {
	spec := d.spec
	bar := spec.Type.IsBarLike()

	xlo, xhi, xticks := categoryTicks(spec.Labels, bar, d.width/int(max(d.fonts.Tick*5, 1)))
	ylo, yhi, ystep := niceScale(d.valueBounds(bar))

	text := toDrawing(spec.Palette.Text)
	grid := toDrawing(spec.Palette.Grid)
	tickStyle := gochart.Style{FontSize: d.fonts.Tick, FontColor: text, StrokeColor: grid, StrokeWidth: 1}
	nameStyle := gochart.Style{FontSize: d.fonts.Label, FontColor: text}
	gridStyle := gochart.Style{StrokeColor: grid, StrokeWidth: 1}

	c := gochart.Chart{
		Title:      spec.Title,
		TitleStyle: d.titleStyle(),
		Width:      d.width,
		Height:     d.height,
		DPI:        DPI,
		Font:       d.font,
		Background: d.background(),
		Canvas:     gochart.Style{FillColor: toDrawing(spec.Palette.Background)},
		XAxis: gochart.XAxis{
			Name:           spec.XAxisLabel,
			NameStyle:      nameStyle,
			Style:          tickStyle,
			Range:          &gochart.ContinuousRange{Min: xlo, Max: xhi},
			Ticks:          xticks,
			GridMajorStyle: gridStyle,
		},
		YAxis: gochart.YAxis{
			Name:           spec.YAxisLabel,
			NameStyle:      nameStyle,
			Style:          tickStyle,
			Range:          &gochart.ContinuousRange{Min: ylo, Max: yhi},
			Ticks:          valueTicks(ylo, yhi, ystep),
			GridMajorStyle: gridStyle,
		},
		Series: d.series(),
	}
	c.Elements = []gochart.Renderable{d.legend()}
	return c.Render(rp, w)
}

// valueBounds returns the data range plus the number of y ticks that fit.
// Bar charts always include zero.
func (d drawer) valueBounds(bar bool) (lo, hi float64, ticks int) {
	first := true
	for _, s := range d.spec.Series {
		for _, v := range s.Values {
			if first {
				lo, hi, first = v, v, false
				continue
			}
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	if bar {
		lo, hi = min(lo, 0), max(hi, 0)
	}
	plot := d.height - d.top() - int(d.spec.Padding)
	return lo, hi, min(11, max(2, plot/int(max(d.fonts.Tick*4, 1))))
}

func (d drawer) series() []gochart.Series {
	c := toDrawing(d.spec.Palette.Series)
	out := make([]gochart.Series, len(d.spec.Series))
	for i, s := range d.spec.Series {
		if d.spec.Type.IsBarLike() {
			out[i] = barSeries{name: s.Name, values: s.Values, index: i, count: len(d.spec.Series), style: d.spec.Bar, color: c}
		} else {
			out[i] = lineSeries{name: s.Name, values: s.Values, style: d.spec.Line, color: c}
		}
	}
	return out
}

// legend draws one swatch and name per series, centered under the title.
func (d drawer) legend() gochart.Renderable {
	return func(r gochart.Renderer, _ gochart.Box, _ gochart.Style) {
		size := d.fonts.Label
		r.SetFont(d.font)
		r.SetFontSize(size)
		r.SetFontColor(toDrawing(d.spec.Palette.Text))

		swatch, gap := int(size*3), int(size/2)
		widths := make([]int, len(d.spec.Series))
		total := 0
		for i, s := range d.spec.Series {
			widths[i] = swatch + gap + r.MeasureText(s.Name).Width()
			total += widths[i]
		}
		total += gap * 2 * (len(widths) - 1)

		y := int(d.spec.Padding)
		if d.spec.Title != "" {
			y += int(d.fonts.Title*1.25 + d.spec.Padding)
		}
		x := (d.width - total) / 2
		h := int(size)
		c := toDrawing(d.spec.Palette.Series)

		for i, s := range d.spec.Series {
			r.SetFillColor(c)
			r.SetStrokeColor(c)
			r.SetStrokeWidth(1)
			r.MoveTo(x, y)
			r.LineTo(x+swatch, y)
			r.LineTo(x+swatch, y+h)
			r.LineTo(x, y+h)
			r.Close()
			r.FillStroke()

			r.SetFontColor(toDrawing(d.spec.Palette.Text))
			r.Text(s.Name, x+swatch+gap, y+h)
			x += widths[i] + gap*2
		}
	}
}

// pieValues returns the positive slices of the first series.
func (d drawer) pieValues() []gochart.Value {
	if len(d.spec.Series) == 0 {
		return nil
	}
	style := gochart.Style{
		FillColor:   toDrawing(d.spec.Palette.Series),
		StrokeColor: toDrawing(d.spec.Palette.Background),
		StrokeWidth: 2,
		FontColor:   toDrawing(d.spec.Palette.Text),
		FontSize:    d.fonts.Tick,
	}
	var values []gochart.Value
	for i, v := range d.spec.Series[0].Values {
		if v > 0 && i < len(d.spec.Labels) {
			values = append(values, gochart.Value{Label: d.spec.Labels[i], Value: v, Style: style})
		}
	}
	return values
}

func (d drawer) drawPie(rp gochart.RendererProvider, w io.Writer) error {
	values := d.pieValues()
	pc := gochart.PieChart{
		Title:      d.spec.Title,
		TitleStyle: d.titleStyle(),
		Width:      d.width,
		Height:     d.height,
		DPI:        DPI,
		Font:       d.font,
		Background: d.background(),
		Canvas:     gochart.Style{FillColor: toDrawing(d.spec.Palette.Background)},
		SliceStyle: values[0].Style,
		Values:     values,
	}
	return pc.Render(rp, w)
}

// drawBlank paints the themed background and the title only.
func (d drawer) drawBlank(rp gochart.RendererProvider, w io.Writer) error {
	r, err := rp(d.width, d.height)
	if err != nil {
		return err
	}
	r.SetDPI(DPI)

	bg := toDrawing(d.spec.Palette.Background)
	r.SetFillColor(bg)
	r.SetStrokeColor(bg)
	r.MoveTo(0, 0)
	r.LineTo(d.width, 0)
	r.LineTo(d.width, d.height)
	r.LineTo(0, d.height)
	r.Close()
	r.FillStroke()

	if d.spec.Title != "" {
		r.SetFont(d.font)
		r.SetFontSize(d.fonts.Title)
		r.SetFontColor(toDrawing(d.spec.Palette.Text))
		box := r.MeasureText(d.spec.Title)
		r.Text(d.spec.Title, (d.width-box.Width())/2, int(d.spec.Padding)+box.Height())
	}
	return r.Save(w)
}

// sanitize returns a copy of spec whose series have exactly one finite value
// per label.
func sanitize(spec chart.Spec) chart.Spec {
	s := spec.Clone()
	for i := range s.Series {
		values := make([]float64, len(s.Labels))
		for j := range values {
			if j < len(s.Series[i].Values) {
				if v := s.Series[i].Values[j]; !math.IsNaN(v) && !math.IsInf(v, 0) {
					values[j] = v
				}
			}
		}
		s.Series[i].Values = values
	}
	return s
}

func toDrawing(c color.Color) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
