package chart

import (
	"github.com/matzehuels/grap/pkg/color"
	"github.com/matzehuels/grap/pkg/table"
)

// Layout and styling constants shared by every spec.
const (
	Padding            = 12.0
	CornerRadius       = 8.0
	BarPercentage      = 0.8
	CategoryPercentage = 0.9
	LineWidth          = 2.0
	LineTension        = 0.4
	PointRadius        = 0.0
	PointHoverRadius   = 4.0
)

var fontTiers = map[TextSize]Fonts{
	TextSizeDefault: {Title: 16, Label: 12, Tick: 10},
	TextSizeLarge:   {Title: 20, Label: 14, Tick: 12},
	TextSizeXLarge:  {Title: 24, Label: 16, Tick: 14},
}

// Theme backgrounds. Dark mirrors the CSS shorthand #333.
var (
	DarkBackground  = color.MustParseHex("#333333FF")
	LightBackground = color.White
)

// FontsFor returns the font sizes for a text tier; unknown tiers use the default.
func FontsFor(size TextSize) Fonts {
	if f, ok := fontTiers[size]; ok {
		return f
	}
	return fontTiers[TextSizeDefault]
}

// PaletteFor returns the palette for a theme; unknown themes use light.
func PaletteFor(theme Theme, series color.Color) Palette {
	if theme == ThemeDark {
		return Palette{
			Text:       color.White,
			Grid:       color.RGBA(255, 255, 255, 0.1),
			Background: DarkBackground,
			Series:     series,
		}
	}
	return Palette{
		Text:       color.Black,
		Grid:       color.RGBA(0, 0, 0, 0.1),
		Background: LightBackground,
		Series:     series,
	}
}

// Build derives a Spec from a table and options. Build never fails: a nil
// table yields an empty spec and unknown options fall back to defaults.
func Build(t *table.Table, opts Options) Spec {
	opts = opts.Normalize()

	labels := t.Labels()
	if labels == nil {
		labels = []string{}
	}
	names := t.SeriesNames()

	series := make([]Series, len(names))
	for i, name := range names {
		values, _ := t.Series(name)
		series[i] = Series{Name: name, Values: fit(values, len(labels))}
	}
	if opts.Type == TypeFunnel {
		for i := range series {
			series[i].Values = taper(series[i].Values)
		}
	}

	return Spec{
		Type:        opts.Type,
		Labels:      labels,
		Series:      series,
		Theme:       opts.Theme,
		TextSize:    opts.TextSize,
		AspectRatio: opts.AspectRatio,
		Title:       opts.Title,
		XAxisLabel:  opts.XAxisLabel,
		YAxisLabel:  opts.YAxisLabel,
		SeriesColor: opts.SeriesColor,
		Fonts:       FontsFor(opts.TextSize),
		Palette:     PaletteFor(opts.Theme, opts.SeriesColor),
		Bar: BarStyle{
			CornerRadius:       CornerRadius,
			BarPercentage:      BarPercentage,
			CategoryPercentage: CategoryPercentage,
		},
		Line: LineStyle{
			Width:            LineWidth,
			Tension:          LineTension,
			PointRadius:      PointRadius,
			PointHoverRadius: PointHoverRadius,
		},
		Padding: Padding,
	}
}

// fit returns a fresh slice of exactly n values, zero-padded or truncated.
func fit(values []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, values)
	return out
}

// taper rescales values[i] by (n-i)/n in place.
func taper(values []float64) []float64 {
	n := float64(len(values))
	for i := range values {
		values[i] = values[i] * (n - float64(i)) / n
	}
	return values
}
