package table

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/shapestone/shape-csv/pkg/csv"

	"github.com/matzehuels/grap/pkg/errors"
)

// utf8BOM is stripped from the start of input.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// delimiterCandidates are tried in order by DetectDelimiter.
var delimiterCandidates = []rune{',', '\t', '|', ';', '\x1e', '\x1f'}

// DetectDelimiter inspects at most detectPreviewRows records taken from the
// first detectPreviewBytes of input.
const (
	detectPreviewRows  = 10
	detectPreviewBytes = 64 << 10
)

// errNoHeader is the cause reported for input without any non-empty record.
var errNoHeader = fmt.Errorf("no header row")

// Parse reads all of r and ingests it as CSV.
func Parse(ctx context.Context, r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Parse(fmt.Errorf("read input: %w", err))
	}
	return ParseBytes(ctx, data)
}

// ParseFile opens path and ingests it as CSV.
func ParseFile(ctx context.Context, path string) (*Table, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "file not found: %s", path)
	}
	if err != nil {
		return nil, errors.Parse(err)
	}
	defer f.Close()
	return Parse(ctx, f)
}

// ParseBytes ingests data as CSV. See the package documentation for the
// typing policy. The returned table is never partially filled: on any error
// the result is nil.
func ParseBytes(ctx context.Context, data []byte) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	records, err := readRecords(data, DetectDelimiter(data), false)
	if err != nil {
		return nil, errors.Parse(err)
	}

	var t *Table
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isBlank(rec) {
			continue
		}
		if t == nil {
			t = &Table{Columns: header(rec)}
			continue
		}
		t.Rows = append(t.Rows, newRow(rec, len(t.Columns)))
	}

	if t == nil {
		return nil, errors.Parse(errNoHeader)
	}
	return t, nil
}

// readRecords splits data into records with shape-csv. Ragged records are
// allowed; quoting is strict unless lazy is set.
func readRecords(data []byte, comma rune, lazy bool) ([][]string, error) {
	opts := csv.DefaultReaderOptions()
	opts.Comma = comma
	opts.FieldsPerRecord = -1
	opts.LazyQuotes = lazy
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	node, err := csv.ParseWithOptions(string(data), opts)
	if err != nil {
		return nil, err
	}
	return csv.NodeToRecords(node), nil
}

// DetectDelimiter guesses the field delimiter of data. Among candidates that
// split the first records into more than one field on average, it picks the
// one with the least variation in field count, breaking ties by the higher
// average. It falls back to ',' when no candidate qualifies.
func DetectDelimiter(data []byte) rune {
	sample := previewSample(data)

	best := ','
	bestDelta := math.MaxInt
	bestAvg := 0.0

	for _, d := range delimiterCandidates {
		records, err := readRecords(sample, d, true)
		if err != nil && len(sample) < len(data) {
			// The cut may have split a quoted field.
			records, err = readRecords(data, d, true)
		}
		if err != nil {
			continue
		}

		var (
			delta, total, rows int
			prev               = -1
		)
		for _, rec := range records {
			if rows == detectPreviewRows {
				break
			}
			if isBlank(rec) {
				continue
			}
			rows++
			total += len(rec)
			if prev >= 0 {
				delta += abs(len(rec) - prev)
			}
			prev = len(rec)
		}
		if rows == 0 {
			continue
		}

		avg := float64(total) / float64(rows)
		if avg > 1.99 && (delta < bestDelta || (delta == bestDelta && avg > bestAvg)) {
			best, bestDelta, bestAvg = d, delta, avg
		}
	}
	return best
}

// previewSample returns the leading lines of data that DetectDelimiter
// inspects, cut at a line break.
func previewSample(data []byte) []byte {
	if len(data) <= detectPreviewBytes {
		return data
	}
	sample := data[:detectPreviewBytes]
	if i := bytes.LastIndexByte(sample, '\n'); i > 0 {
		sample = sample[:i+1]
	}
	return sample
}

// Coerce converts a cell to a number. Cells that are empty or do not parse as
// a finite float64 yield 0.
func Coerce(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func header(rec []string) []string {
	cols := make([]string, len(rec))
	for i, c := range rec {
		cols[i] = strings.TrimSpace(c)
	}
	return cols
}

func newRow(rec []string, width int) Row {
	r := Row{Label: rec[0]}
	if width > 1 {
		r.Values = make([]float64, width-1)
	}
	for i := 1; i < width && i < len(rec); i++ {
		r.Values[i-1] = Coerce(rec[i])
	}
	return r
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
