// Package table turns raw CSV bytes into a typed label/series table.
//
// # Ingestion Policy
//
// The first non-empty record is the header. The first column of every data row
// is the label (category) and is always kept as a string, even when it looks
// numeric: dates such as "2024-01" and years such as "2024" are categories, not
// values. Every remaining column is a numeric series; each cell is coerced to a
// float64 and anything that does not parse (empty, text, NaN, ±Inf, missing
// trailing cells) becomes 0.
//
// Empty lines and records whose fields are all blank are skipped. The field
// delimiter is detected from the first lines of input (see [DetectDelimiter]).
//
// # Errors
//
// Any error reported by the CSV reader, and input without a header row, is
// returned as a PARSE_ERROR from [github.com/matzehuels/grap/pkg/errors]. Its
// user message is the single string shown to users; the reader's detail is
// available through Unwrap for logs.
//
// # Usage
//
//	t, err := table.ParseFile(ctx, "sales.csv")
//	if err != nil {
//	    fmt.Println(errors.UserMessage(err))
//	    return
//	}
//	fmt.Println(t.Labels(), t.SeriesNames())
package table
