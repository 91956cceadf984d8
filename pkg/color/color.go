// Package color models the series color as an 8-bit RGBA value with
// conversions to and from "#RRGGBBAA" hex strings and HSVA components.
//
// Hex strings are what options, config files and the HTTP API carry; HSVA is
// what an interactive picker edits (hue/saturation/value plus opacity).
// HSV math is delegated to go-colorful.
package color

import (
	"fmt"
	stdcolor "image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/grap/pkg/errors"
)

// Color is a non-premultiplied 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// HSVA holds hue in degrees [0, 360) and saturation, value and alpha in [0, 1].
type HSVA struct {
	H, S, V, A float64
}

var (
	White = Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black = Color{A: 0xFF}
)

// ParseHex parses "#RRGGBB" or "#RRGGBBAA" (the leading '#' is optional,
// digits are case-insensitive). A missing or zero alpha byte yields an opaque
// color, so a series color can never be made fully invisible.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return Color{}, errors.New(errors.ErrCodeInvalidOption, "invalid color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, errors.New(errors.ErrCodeInvalidOption, "invalid color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	if len(h) == 6 {
		v = v<<8 | 0xFF
	}
	c := Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	if c.A == 0 {
		c.A = 0xFF
	}
	return c, nil
}

// MustParseHex is ParseHex for package-level constants; it panics on error.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// RGBA returns a color with the given alpha in [0, 1].
func RGBA(r, g, b uint8, alpha float64) Color {
	return Color{R: r, G: g, B: b, A: unit8(alpha)}
}

// Hex formats c as "#RRGGBBAA" with uppercase digits.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// NRGBA converts c to the standard library color type.
func (c Color) NRGBA() stdcolor.NRGBA {
	return stdcolor.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Alpha returns the opacity in [0, 1].
func (c Color) Alpha() float64 { return float64(c.A) / 255 }

// Opacity returns the opacity as a whole percentage.
func (c Color) Opacity() int { return int(math.Round(c.Alpha() * 100)) }

// WithOpacity returns c with its opacity set to pct percent, clamped to [1, 100].
func (c Color) WithOpacity(pct int) Color {
	pct = max(1, min(100, pct))
	c.A = unit8(float64(pct) / 100)
	return c
}

// HSVA converts c to hue/saturation/value/alpha.
func (c Color) HSVA() HSVA {
	h, s, v := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hsv()
	return HSVA{H: h, S: s, V: v, A: c.Alpha()}
}

// FromHSVA converts hue/saturation/value/alpha to a Color. Components outside
// their ranges are clamped and hue wraps around.
func FromHSVA(in HSVA) Color {
	h := math.Mod(in.H, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsv(h, clamp01(in.S), clamp01(in.V)).RGB255()
	return Color{R: r, G: g, B: b, A: unit8(in.A)}
}

func unit8(f float64) uint8 {
	return uint8(math.Round(clamp01(f) * 255))
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return max(0, min(1, f))
}

// MarshalText encodes c as "#RRGGBBAA".
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText decodes a hex color; see ParseHex.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
