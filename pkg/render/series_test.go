package render

import (
	"math"
	"testing"

	"github.com/matzehuels/grap/pkg/chart"
)

func TestBarSpan(t *testing.T) {
	style := chart.BarStyle{BarPercentage: 0.8, CategoryPercentage: 0.9}

	single := barSeries{index: 0, count: 1, style: style}
	l, r := single.span(2)
	if !approx(l, 2.14) || !approx(r, 2.86) {
		t.Errorf("single span(2) = [%v, %v], want [2.14, 2.86]", l, r)
	}

	first := barSeries{index: 0, count: 2, style: style}
	second := barSeries{index: 1, count: 2, style: style}
	l0, r0 := first.span(0)
	l1, r1 := second.span(0)
	if !approx(l0, 0.095) || !approx(r0, 0.455) || !approx(l1, 0.545) || !approx(r1, 0.905) {
		t.Errorf("grouped spans = [%v, %v] [%v, %v]", l0, r0, l1, r1)
	}
	if r0 > l1 {
		t.Error("grouped bars overlap")
	}
}

func TestSmooth(t *testing.T) {
	pts := []point{{0, 10}, {10, 0}, {20, 10}, {30, 0}}

	if got := smooth(pts, 0, 8); len(got) != len(pts) {
		t.Errorf("tension 0 should return the input points, got %d points", len(got))
	}

	got := smooth(pts, 0.4, 8)
	if len(got) != (len(pts)-1)*8+1 {
		t.Fatalf("len = %d, want %d", len(got), (len(pts)-1)*8+1)
	}
	for i, p := range pts {
		if q := got[i*8]; !approx(q.X, p.X) || !approx(q.Y, p.Y) {
			t.Errorf("curve misses point %d: got %+v, want %+v", i, q, p)
		}
	}
}

func TestSmoothCollinear(t *testing.T) {
	pts := []point{{0, 5}, {10, 5}, {20, 5}, {30, 5}}
	for _, p := range smooth(pts, 0.4, 4) {
		if !approx(p.Y, 5) {
			t.Fatalf("flat line bent to y=%v", p.Y)
		}
	}
}

func TestControlPointsEndpoints(t *testing.T) {
	p := point{5, 5}
	in, out := controlPoints(p, p, point{10, 0}, 0.4)
	if in != p || out != p {
		t.Errorf("first point control points = %+v %+v, want the point itself", in, out)
	}
}

func TestSanitize(t *testing.T) {
	spec := chart.Spec{
		Labels: []string{"a", "b", "c"},
		Series: []chart.Series{{Name: "s", Values: []float64{math.NaN(), math.Inf(1)}}},
	}
	got := sanitize(spec)
	want := []float64{0, 0, 0}
	for i, v := range got.Series[0].Values {
		if v != want[i] {
			t.Errorf("value %d = %v, want 0", i, v)
		}
	}
	if len(spec.Series[0].Values) != 2 {
		t.Error("sanitize mutated its input")
	}
}
