package render

import (
	"bytes"
	"os/exec"
	"strings"

	"github.com/matzehuels/grap/pkg/errors"
)

var rsvgBinary = "rsvg-convert"

// PDFAvailable reports whether the PDF converter is on PATH.
func PDFAvailable() bool {
	_, err := exec.LookPath(rsvgBinary)
	return err == nil
}

// ToPDF converts an SVG document to PDF by piping it through rsvg-convert
// (librsvg). Without the converter it returns an UNSUPPORTED error.
func ToPDF(svg []byte) ([]byte, error) {
	bin, err := exec.LookPath(rsvgBinary)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"pdf output requires rsvg-convert (brew install librsvg, apt install librsvg2-bin)")
	}

	var stderr bytes.Buffer
	cmd := exec.Command(bin, "--format", "pdf")
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "rsvg-convert: %s", strings.TrimSpace(stderr.String()))
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		return nil, errors.New(errors.ErrCodeInternal, "rsvg-convert wrote no PDF")
	}
	return out, nil
}
