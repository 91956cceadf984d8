package pipeline

import (
	"testing"

	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/errors"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		w, h    int
		wantErr bool
	}{
		{0, 0, false},
		{800, 600, false},
		{-1, 600, true},
		{100000, 10, true},
	}
	for _, tt := range tests {
		if err := ValidateSize(tt.w, tt.h); (err != nil) != tt.wantErr {
			t.Errorf("ValidateSize(%d, %d) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateForIngest(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"empty", Options{}, true},
		{"source", Options{Source: "data.csv"}, false},
		{"data", Options{Data: []byte("a,b\n")}, false},
		{"empty data", Options{Data: []byte{}}, false},
		{"stdin", Options{Source: StdinSource}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForIngest()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateForIngest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %s, want INVALID_INPUT", errors.GetCode(err))
			}
		})
	}
}

func TestStdinDefault(t *testing.T) {
	opts := Options{Source: StdinSource}
	if err := opts.ValidateForIngest(); err != nil {
		t.Fatal(err)
	}
	if opts.Stdin == nil {
		t.Error("Stdin should default to os.Stdin")
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.FontScale != 1 {
		t.Errorf("FontScale = %v, want 1", opts.FontScale)
	}
	if opts.Chart != chart.DefaultOptions() {
		t.Errorf("Chart = %v, want defaults", opts.Chart)
	}
}

func TestSetRenderDefaultsNormalizesFormats(t *testing.T) {
	formats := []string{" SVG", "png", ""}
	opts := Options{Formats: formats}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 2 || opts.Formats[0] != "svg" || opts.Formats[1] != "png" {
		t.Errorf("Formats = %v, want [svg png]", opts.Formats)
	}
	if formats[0] != " SVG" {
		t.Error("caller's slice was modified")
	}
}

func TestValidateForRender(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"defaults", Options{}, false},
		{"bad format", Options{Formats: []string{"gif"}}, true},
		{"bad size", Options{Width: -5}, true},
		{"unknown ratio", Options{Chart: chart.Options{AspectRatio: "16:9"}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateForRender(); (err != nil) != tt.wantErr {
				t.Errorf("ValidateForRender() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Source: "data.csv"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("first call: %v", err)
	}
	first := opts.Formats

	// Second call is a no-op
	opts.Formats = nil
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if opts.Formats != nil {
		t.Error("second call should not re-apply defaults")
	}
	if len(first) != 1 {
		t.Errorf("first call Formats = %v", first)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := Options{Width: 800, Height: 600, FontScale: 2, FontPath: "/fonts/a.ttf"}
	k := opts.ArtifactKeyOpts("svg")
	if k.Format != "svg" || k.Width != 800 || k.Height != 600 || k.FontScale != 2 || k.Font != "/fonts/a.ttf" {
		t.Errorf("ArtifactKeyOpts = %+v", k)
	}
}
