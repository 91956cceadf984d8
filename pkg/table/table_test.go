package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleTable() *Table {
	return &Table{
		Columns: []string{"month", "sales", "cost"},
		Rows: []Row{
			{Label: "jan", Values: []float64{10, 4}},
			{Label: "feb", Values: []float64{20, 6}},
		},
	}
}

func TestTableAccessors(t *testing.T) {
	tbl := sampleTable()

	if got := tbl.LabelColumn(); got != "month" {
		t.Errorf("LabelColumn() = %q, want month", got)
	}
	if diff := cmp.Diff([]string{"sales", "cost"}, tbl.SeriesNames()); diff != "" {
		t.Errorf("SeriesNames() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"jan", "feb"}, tbl.Labels()); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}

	cost, ok := tbl.Series("cost")
	if !ok {
		t.Fatal("Series(cost) not found")
	}
	if diff := cmp.Diff([]float64{4, 6}, cost); diff != "" {
		t.Errorf("Series(cost) mismatch (-want +got):\n%s", diff)
	}
	if _, ok := tbl.Series("month"); ok {
		t.Error("label column should not be a series")
	}
}

func TestTableRecord(t *testing.T) {
	tbl := sampleTable()

	want := map[string]any{"month": "feb", "sales": 20.0, "cost": 6.0}
	if diff := cmp.Diff(want, tbl.Record(1)); diff != "" {
		t.Errorf("Record(1) mismatch (-want +got):\n%s", diff)
	}
	if tbl.Record(2) != nil {
		t.Error("Record out of range should be nil")
	}
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	if tbl.Len() != 0 || tbl.Labels() != nil || tbl.SeriesNames() != nil || tbl.LabelColumn() != "" {
		t.Error("nil table accessors should return zero values")
	}
}
