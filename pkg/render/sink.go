package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/errors"
)

// RenderPNG draws spec as PNG.
func RenderPNG(spec chart.Spec, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Draw(&buf, spec, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderSVG draws spec as SVG using go-chart's vector renderer.
func RenderSVG(spec chart.Spec, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Draw(&buf, spec, append(opts, withFormat(FormatSVG))...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPDF draws spec as SVG and converts it with rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(spec chart.Spec, opts ...Option) ([]byte, error) {
	svg, err := RenderSVG(spec, opts...)
	if err != nil {
		return nil, err
	}
	return ToPDF(svg)
}

// RenderJSON exports the resolved spec as pretty-printed JSON. It is the
// interchange format for external renderers and never fails for specs built
// by [chart.Build].
func RenderJSON(spec chart.Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// Render dispatches to the sink for format.
func Render(spec chart.Spec, format Format, opts ...Option) ([]byte, error) {
	switch format {
	case FormatPNG:
		return RenderPNG(spec, opts...)
	case FormatSVG:
		return RenderSVG(spec, opts...)
	case FormatPDF:
		return RenderPDF(spec, opts...)
	case FormatJSON:
		return RenderJSON(spec)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, pdf, json)", format)
	}
}

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if !ValidFormats[f] {
		return "", errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, pdf, json)", s)
	}
	return f, nil
}

// ContentType returns the MIME type for format.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatSVG:
		return "image/svg+xml"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	}
	return "application/octet-stream"
}

// Ext returns the file extension for format, including the dot.
func (f Format) Ext() string { return fmt.Sprintf(".%s", f) }
