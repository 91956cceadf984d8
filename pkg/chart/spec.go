package chart

import (
	"github.com/matzehuels/grap/pkg/color"
)

// Series is one named sequence of values aligned with Spec.Labels.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Fonts are pixel font sizes for the three text roles.
type Fonts struct {
	Title float64 `json:"title"` // chart title
	Label float64 `json:"label"` // legend labels and axis titles
	Tick  float64 `json:"tick"`  // axis tick labels
}

// Scale returns the fonts multiplied by s.
func (f Fonts) Scale(s float64) Fonts {
	return Fonts{Title: f.Title * s, Label: f.Label * s, Tick: f.Tick * s}
}

// Palette holds the theme colors plus the series color.
type Palette struct {
	Text       color.Color `json:"text"`
	Grid       color.Color `json:"grid"`
	Background color.Color `json:"background"`
	Series     color.Color `json:"series"`
}

// BarStyle configures bar and funnel rendering. The percentages follow the
// usual category/bar split: each category gets CategoryPercentage of its slot
// and the bars inside it share BarPercentage of that.
type BarStyle struct {
	CornerRadius       float64 `json:"corner_radius"`
	BarPercentage      float64 `json:"bar_percentage"`
	CategoryPercentage float64 `json:"category_percentage"`
}

// LineStyle configures line rendering.
type LineStyle struct {
	Width            float64 `json:"width"`
	Tension          float64 `json:"tension"`
	PointRadius      float64 `json:"point_radius"`
	PointHoverRadius float64 `json:"point_hover_radius"`
}

// Spec is a fully resolved declarative chart description.
//
// Invariant: len(Series[i].Values) == len(Labels) for every series.
type Spec struct {
	Type        Type        `json:"type"`
	Labels      []string    `json:"labels"`
	Series      []Series    `json:"series"`
	Theme       Theme       `json:"theme"`
	TextSize    TextSize    `json:"text_size"`
	AspectRatio AspectRatio `json:"aspect_ratio"`
	Title       string      `json:"title,omitempty"`
	XAxisLabel  string      `json:"x_axis_label,omitempty"`
	YAxisLabel  string      `json:"y_axis_label,omitempty"`
	SeriesColor color.Color `json:"series_color"`

	Fonts   Fonts     `json:"fonts"`
	Palette Palette   `json:"palette"`
	Bar     BarStyle  `json:"bar"`
	Line    LineStyle `json:"line"`
	Padding float64   `json:"padding"`
}

// Clone returns a deep copy of s. Mutating the copy never affects s.
func (s Spec) Clone() Spec {
	c := s
	c.Labels = append([]string(nil), s.Labels...)
	c.Series = make([]Series, len(s.Series))
	for i, ser := range s.Series {
		c.Series[i] = Series{Name: ser.Name, Values: append([]float64(nil), ser.Values...)}
	}
	return c
}

// Options returns the user options the spec was built from.
func (s Spec) Options() Options {
	return Options{
		Type:        s.Type,
		Theme:       s.Theme,
		TextSize:    s.TextSize,
		AspectRatio: s.AspectRatio,
		Title:       s.Title,
		XAxisLabel:  s.XAxisLabel,
		YAxisLabel:  s.YAxisLabel,
		SeriesColor: s.SeriesColor,
	}
}

// Ratio returns the width/height ratio of the spec's target frame.
func (s Spec) Ratio() float64 { return s.AspectRatio.Ratio() }

// Empty reports whether the spec has no data points to draw.
func (s Spec) Empty() bool {
	return len(s.Labels) == 0 || len(s.Series) == 0
}
