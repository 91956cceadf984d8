package chart

import (
	"fmt"
	"strings"

	"github.com/matzehuels/grap/pkg/color"
	"github.com/matzehuels/grap/pkg/errors"
)

// Type is the chart type.
type Type string

const (
	TypeLine   Type = "line"
	TypeBar    Type = "bar"
	TypePie    Type = "pie"
	TypeFunnel Type = "funnel"
)

// Theme selects the text, grid and background palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// TextSize is the font size tier.
type TextSize string

const (
	TextSizeDefault TextSize = "default"
	TextSizeLarge   TextSize = "large"
	TextSizeXLarge  TextSize = "xlarge"
)

// AspectRatio names one of the fixed width:height frames.
type AspectRatio string

const (
	AspectLandscape AspectRatio = "landscape"
	AspectPortrait  AspectRatio = "portrait"
	AspectSquare    AspectRatio = "square"
	AspectUltraWide AspectRatio = "ultra-wide"
)

// Ordered value lists, used for validation messages and for cycling through
// values in interactive front ends.
var (
	Types        = []Type{TypeLine, TypeBar, TypePie, TypeFunnel}
	Themes       = []Theme{ThemeLight, ThemeDark}
	TextSizes    = []TextSize{TextSizeDefault, TextSizeLarge, TextSizeXLarge}
	AspectRatios = []AspectRatio{AspectLandscape, AspectPortrait, AspectSquare, AspectUltraWide}
)

// Default option values.
const (
	DefaultType        = TypeLine
	DefaultTheme       = ThemeLight
	DefaultTextSize    = TextSizeDefault
	DefaultAspectRatio = AspectLandscape
	DefaultSeriesColor = "#FF6384FF"
)

// aspectAliases maps accepted spellings to canonical ratio names.
var aspectAliases = map[string]AspectRatio{
	"16:9":      AspectLandscape,
	"9:16":      AspectPortrait,
	"1:1":       AspectSquare,
	"21:9":      AspectUltraWide,
	"ultrawide": AspectUltraWide,
}

// Ratio returns width divided by height. Unknown names return the landscape ratio.
func (a AspectRatio) Ratio() float64 {
	switch a {
	case AspectPortrait:
		return 9.0 / 16.0
	case AspectSquare:
		return 1
	case AspectUltraWide:
		return 21.0 / 9.0
	default:
		return 16.0 / 9.0
	}
}

// IsBarLike reports whether the type is drawn with bars.
func (t Type) IsBarLike() bool {
	return t == TypeBar || t == TypeFunnel
}

// =============================================================================
// Options
// =============================================================================

// Options are the user-selected chart options. The zero value is not useful;
// start from DefaultOptions. Options is a value type: setters return a copy.
type Options struct {
	Type        Type        `json:"type"`
	Theme       Theme       `json:"theme"`
	TextSize    TextSize    `json:"text_size"`
	AspectRatio AspectRatio `json:"aspect_ratio"`
	Title       string      `json:"title,omitempty"`
	XAxisLabel  string      `json:"x_axis_label,omitempty"`
	YAxisLabel  string      `json:"y_axis_label,omitempty"`
	SeriesColor color.Color `json:"series_color"`
}

// DefaultOptions returns a line chart, light theme, default text size,
// landscape frame and the default series color.
func DefaultOptions() Options {
	return Options{
		Type:        DefaultType,
		Theme:       DefaultTheme,
		TextSize:    DefaultTextSize,
		AspectRatio: DefaultAspectRatio,
		SeriesColor: color.MustParseHex(DefaultSeriesColor),
	}
}

func (o Options) WithType(t Type) Options               { o.Type = t; return o }
func (o Options) WithTheme(t Theme) Options             { o.Theme = t; return o }
func (o Options) WithTextSize(s TextSize) Options       { o.TextSize = s; return o }
func (o Options) WithAspectRatio(a AspectRatio) Options { o.AspectRatio = a; return o }
func (o Options) WithTitle(s string) Options            { o.Title = s; return o }
func (o Options) WithXAxisLabel(s string) Options       { o.XAxisLabel = s; return o }
func (o Options) WithYAxisLabel(s string) Options       { o.YAxisLabel = s; return o }
func (o Options) WithSeriesColor(c color.Color) Options { o.SeriesColor = c; return o }

// Validate reports the first unknown enumeration value as an INVALID_OPTION error.
func (o Options) Validate() error {
	if !contains(Types, o.Type) {
		return invalid("chart type", o.Type, Types)
	}
	if !contains(Themes, o.Theme) {
		return invalid("theme", o.Theme, Themes)
	}
	if !contains(TextSizes, o.TextSize) {
		return invalid("text size", o.TextSize, TextSizes)
	}
	if !contains(AspectRatios, o.AspectRatio) {
		return invalid("aspect ratio", o.AspectRatio, AspectRatios)
	}
	return nil
}

// Normalize replaces unknown enumeration values and a zero series color with
// their defaults. Free-text fields are kept as they are.
func (o Options) Normalize() Options {
	d := DefaultOptions()
	if !contains(Types, o.Type) {
		o.Type = d.Type
	}
	if !contains(Themes, o.Theme) {
		o.Theme = d.Theme
	}
	if !contains(TextSizes, o.TextSize) {
		o.TextSize = d.TextSize
	}
	if !contains(AspectRatios, o.AspectRatio) {
		o.AspectRatio = d.AspectRatio
	}
	if o.SeriesColor == (color.Color{}) {
		o.SeriesColor = d.SeriesColor
	}
	return o
}

// =============================================================================
// Parsing
// =============================================================================

// ParseType parses a chart type name, case-insensitively.
func ParseType(s string) (Type, error) { return parseEnum("chart type", s, Types) }

// ParseTheme parses a theme name, case-insensitively.
func ParseTheme(s string) (Theme, error) { return parseEnum("theme", s, Themes) }

// ParseTextSize parses a text size tier, case-insensitively.
func ParseTextSize(s string) (TextSize, error) { return parseEnum("text size", s, TextSizes) }

// ParseAspectRatio parses an aspect ratio name. Besides the canonical names it
// accepts "16:9", "9:16", "1:1", "21:9" and "ultrawide".
func ParseAspectRatio(s string) (AspectRatio, error) {
	if a, ok := aspectAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return a, nil
	}
	return parseEnum("aspect ratio", s, AspectRatios)
}

func parseEnum[T ~string](kind, s string, valid []T) (T, error) {
	v := T(strings.ToLower(strings.TrimSpace(s)))
	if !contains(valid, v) {
		return "", invalid(kind, v, valid)
	}
	return v, nil
}

func invalid[T ~string](kind string, v T, valid []T) error {
	names := make([]string, len(valid))
	for i, x := range valid {
		names[i] = string(x)
	}
	return errors.New(errors.ErrCodeInvalidOption, "invalid %s: %q (must be one of: %s)", kind, string(v), strings.Join(names, ", "))
}

func contains[T comparable](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// Cycle returns the value delta steps after cur in list, wrapping around.
// A cur not in list is treated as the first element.
func Cycle[T comparable](list []T, cur T, delta int) T {
	if len(list) == 0 {
		return cur
	}
	idx := 0
	for i, x := range list {
		if x == cur {
			idx = i
			break
		}
	}
	n := len(list)
	return list[((idx+delta)%n+n)%n]
}

// String renders the options compactly for logs.
func (o Options) String() string {
	return fmt.Sprintf("type=%s theme=%s text=%s ratio=%s color=%s", o.Type, o.Theme, o.TextSize, o.AspectRatio, o.SeriesColor)
}
