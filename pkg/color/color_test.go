package color

import (
	"math"
	"testing"

	"github.com/matzehuels/grap/pkg/errors"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#FF6384FF", Color{0xFF, 0x63, 0x84, 0xFF}},
		{"#ff6384", Color{0xFF, 0x63, 0x84, 0xFF}},
		{"ff638480", Color{0xFF, 0x63, 0x84, 0x80}},
		{" #000000 ", Color{0, 0, 0, 0xFF}},
		{"#33333300", Color{0x33, 0x33, 0x33, 0xFF}},
	}

	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Errorf("ParseHex(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#", "#FFF", "#GG0000", "#FF638", "#FF6384FF00", "red"} {
		_, err := ParseHex(in)
		if !errors.Is(err, errors.ErrCodeInvalidOption) {
			t.Errorf("ParseHex(%q) error = %v, want INVALID_OPTION", in, err)
		}
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, in := range []string{"#FF6384FF", "#36A2EB80", "#000000FF", "#FFFFFFFF", "#4BC0C0CC"} {
		c := MustParseHex(in)
		if got := c.Hex(); got != in {
			t.Errorf("Hex() = %s, want %s", got, in)
		}
		if got := FromHSVA(c.HSVA()).Hex(); got != in {
			t.Errorf("FromHSVA(HSVA(%s)) = %s", in, got)
		}
	}
}

func TestHSVA(t *testing.T) {
	tests := []struct {
		hex  string
		want HSVA
	}{
		{"#FF0000FF", HSVA{H: 0, S: 1, V: 1, A: 1}},
		{"#00FF00FF", HSVA{H: 120, S: 1, V: 1, A: 1}},
		{"#0000FFFF", HSVA{H: 240, S: 1, V: 1, A: 1}},
		{"#808080FF", HSVA{H: 0, S: 0, V: 128.0 / 255, A: 1}},
		{"#000000FF", HSVA{H: 0, S: 0, V: 0, A: 1}},
	}

	for _, tt := range tests {
		got := MustParseHex(tt.hex).HSVA()
		if !near(got.H, tt.want.H) || !near(got.S, tt.want.S) || !near(got.V, tt.want.V) || !near(got.A, tt.want.A) {
			t.Errorf("HSVA(%s) = %+v, want %+v", tt.hex, got, tt.want)
		}
	}
}

func TestFromHSVAClamps(t *testing.T) {
	if got := FromHSVA(HSVA{H: 480, S: 1, V: 1, A: 1}); got != (Color{0, 0xFF, 0, 0xFF}) {
		t.Errorf("hue 480 = %v, want green", got)
	}
	if got := FromHSVA(HSVA{H: -120, S: 2, V: 1, A: 5}); got != (Color{0, 0, 0xFF, 0xFF}) {
		t.Errorf("hue -120 = %v, want blue", got)
	}
}

func TestOpacity(t *testing.T) {
	c := MustParseHex("#FF6384FF")
	if got := c.Opacity(); got != 100 {
		t.Errorf("Opacity() = %d, want 100", got)
	}
	half := c.WithOpacity(50)
	if half.A != 128 || half.Opacity() != 50 {
		t.Errorf("WithOpacity(50) = %v (opacity %d)", half, half.Opacity())
	}
	if got := c.WithOpacity(0).A; got != 3 {
		t.Errorf("WithOpacity(0) alpha = %d, want clamped to 1%%", got)
	}
	if got := c.WithOpacity(250).A; got != 0xFF {
		t.Errorf("WithOpacity(250) alpha = %d, want 255", got)
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTextMarshaling(t *testing.T) {
	c := MustParseHex("#36A2EBFF")
	b, err := c.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "#36A2EBFF" {
		t.Errorf("MarshalText() = %s", b)
	}

	var got Color
	if err := got.UnmarshalText([]byte("#ff6384")); err != nil {
		t.Fatal(err)
	}
	if got.Hex() != "#FF6384FF" {
		t.Errorf("UnmarshalText() = %s", got.Hex())
	}
	if err := got.UnmarshalText([]byte("nope")); err == nil {
		t.Error("UnmarshalText(nope) should fail")
	}
}
