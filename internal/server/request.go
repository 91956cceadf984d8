package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/color"
	grerrors "github.com/matzehuels/grap/pkg/errors"
)

// Form and query field names for chart options.
const (
	fieldFile        = "file"
	fieldChartType   = "chartType"
	fieldTheme       = "theme"
	fieldTextSize    = "textSize"
	fieldAspectRatio = "aspectRatio"
	fieldTitle       = "chartTitle"
	fieldXAxisLabel  = "xAxisLabel"
	fieldYAxisLabel  = "yAxisLabel"
	fieldSeriesColor = "seriesColor"
	fieldHue         = "hue"
	fieldOpacity     = "opacity"
)

// multipartMemory is the in-memory part of a parsed multipart form.
const multipartMemory = 8 << 20

// readCSV returns the uploaded CSV bytes and the client's file name.
func (s *Server) readCSV(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	// Leave room for multipart framing and option fields.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+1<<20)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, "", requestError(err, "invalid multipart form")
		}
		file, header, err := r.FormFile(fieldFile)
		if err != nil {
			return nil, "", grerrors.New(grerrors.ErrCodeInvalidInput, "missing form field %q", fieldFile)
		}
		defer file.Close()
		if err := grerrors.ValidateUploadFilename(header.Filename); err != nil {
			return nil, "", err
		}
		if err := s.validateSize(header.Size); err != nil {
			return nil, "", err
		}
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", requestError(err, "read upload")
		}
		return data, header.Filename, nil

	case "text/csv", "text/plain", "application/csv", "":
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, "", requestError(err, "read body")
		}
		if err := s.validateSize(int64(len(data))); err != nil {
			return nil, "", err
		}
		return data, "", nil

	default:
		return nil, "", grerrors.New(grerrors.ErrCodeInvalidInput, "unsupported content type %q", mediaType)
	}
}

func (s *Server) validateSize(n int64) error {
	if err := grerrors.ValidateUploadSize(n); err != nil {
		return err
	}
	if n > s.maxUpload {
		return grerrors.New(grerrors.ErrCodeTooLarge, "file too large (max %d bytes)", s.maxUpload)
	}
	return nil
}

func requestError(err error, msg string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return grerrors.Wrap(grerrors.ErrCodeTooLarge, err, "request too large")
	}
	return grerrors.Wrap(grerrors.ErrCodeInvalidInput, err, "%s", msg)
}

// chartOptions applies the request's option fields on top of the server
// defaults. Unknown values are rejected with INVALID_OPTION.
func (s *Server) chartOptions(r *http.Request) (chart.Options, error) {
	opts := s.defaults
	var err error

	if v := r.FormValue(fieldChartType); v != "" {
		if opts.Type, err = chart.ParseType(v); err != nil {
			return opts, err
		}
	}
	if v := r.FormValue(fieldTheme); v != "" {
		if opts.Theme, err = chart.ParseTheme(v); err != nil {
			return opts, err
		}
	}
	if v := r.FormValue(fieldTextSize); v != "" {
		if opts.TextSize, err = chart.ParseTextSize(v); err != nil {
			return opts, err
		}
	}
	if v := r.FormValue(fieldAspectRatio); v != "" {
		if opts.AspectRatio, err = chart.ParseAspectRatio(v); err != nil {
			return opts, err
		}
	}
	if v := r.FormValue(fieldSeriesColor); v != "" {
		if opts.SeriesColor, err = color.ParseHex(v); err != nil {
			return opts, err
		}
	}
	if v := strings.TrimSpace(r.FormValue(fieldHue)); v != "" {
		h, err := strconv.ParseFloat(v, 64)
		if err != nil || h < 0 || h >= 360 {
			return opts, grerrors.New(grerrors.ErrCodeInvalidOption, "invalid %s: %q (must be in [0, 360))", fieldHue, v)
		}
		hsva := opts.SeriesColor.HSVA()
		hsva.H = h
		opts.SeriesColor = color.FromHSVA(hsva)
	}
	if v := strings.TrimSpace(r.FormValue(fieldOpacity)); v != "" {
		pct, err := strconv.Atoi(v)
		if err != nil || pct < 1 || pct > 100 {
			return opts, grerrors.New(grerrors.ErrCodeInvalidOption, "invalid %s: %q (must be 1-100)", fieldOpacity, v)
		}
		opts.SeriesColor = opts.SeriesColor.WithOpacity(pct)
	}
	if r.Form.Has(fieldTitle) {
		opts.Title = r.FormValue(fieldTitle)
	}
	if r.Form.Has(fieldXAxisLabel) {
		opts.XAxisLabel = r.FormValue(fieldXAxisLabel)
	}
	if r.Form.Has(fieldYAxisLabel) {
		opts.YAxisLabel = r.FormValue(fieldYAxisLabel)
	}
	return opts, nil
}

// intParam parses an optional non-negative integer query parameter.
func intParam(r *http.Request, name string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, grerrors.New(grerrors.ErrCodeInvalidOption, "invalid %s: %q", name, v)
	}
	return n, nil
}
