package table

// Row is one data record: the label cell plus one value per series column.
// Values is aligned with Table.SeriesNames().
type Row struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// Table is the result of ingesting one CSV file.
// Column and row order are both significant: they drive label and series order.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// LabelColumn returns the name of the label column, or "" for an empty table.
func (t *Table) LabelColumn() string {
	if t == nil || len(t.Columns) == 0 {
		return ""
	}
	return t.Columns[0]
}

// SeriesNames returns the names of the numeric columns in header order.
func (t *Table) SeriesNames() []string {
	if t == nil || len(t.Columns) < 2 {
		return nil
	}
	return append([]string(nil), t.Columns[1:]...)
}

// Labels returns the label of every row in row order.
func (t *Table) Labels() []string {
	if t == nil {
		return nil
	}
	labels := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		labels[i] = r.Label
	}
	return labels
}

// Series returns the values of the named numeric column in row order.
// The second result is false when no such series column exists.
func (t *Table) Series(name string) ([]float64, bool) {
	idx := t.seriesIndex(name)
	if idx < 0 {
		return nil, false
	}
	values := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		if idx < len(r.Values) {
			values[i] = r.Values[idx]
		}
	}
	return values, true
}

// Record returns row i as a column-name mapping: the label column maps to a
// string and every series column to a float64. It returns nil when i is out of
// range. Duplicate header names keep the right-most value.
func (t *Table) Record(i int) map[string]any {
	if t == nil || i < 0 || i >= len(t.Rows) {
		return nil
	}
	r := t.Rows[i]
	rec := make(map[string]any, len(t.Columns))
	rec[t.Columns[0]] = r.Label
	for j, name := range t.Columns[1:] {
		v := 0.0
		if j < len(r.Values) {
			v = r.Values[j]
		}
		rec[name] = v
	}
	return rec
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func (t *Table) seriesIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if i > 0 && c == name {
			return i - 1
		}
	}
	return -1
}
