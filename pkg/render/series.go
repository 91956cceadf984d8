package render

import (
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/matzehuels/grap/pkg/chart"
)

// splineSteps is the number of line segments per smoothed curve segment.
const splineSteps = 16

// barSeries draws one series of a grouped bar chart. Category i occupies the
// x interval [i, i+1]; the series is bar number index of count within it.
type barSeries struct {
	name   string
	values []float64
	index  int
	count  int
	style  chart.BarStyle
	color  drawing.Color
}

func (s barSeries) GetName() string             { return s.name }
func (s barSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (s barSeries) Validate() error             { return nil }
func (s barSeries) GetStyle() gochart.Style {
	return gochart.Style{FillColor: s.color, StrokeColor: s.color, StrokeWidth: 1}
}

// span returns the x interval of bar i in category units.
func (s barSeries) span(i int) (left, right float64) {
	cat := s.style.CategoryPercentage
	slot := cat / float64(max(s.count, 1))
	left = float64(i) + (1-cat)/2 + float64(s.index)*slot + slot*(1-s.style.BarPercentage)/2
	return left, left + slot*s.style.BarPercentage
}

func (s barSeries) Render(r gochart.Renderer, box gochart.Box, xr, yr gochart.Range, _ gochart.Style) {
	base := box.Bottom - yr.Translate(clamp(0, yr.GetMin(), yr.GetMax()))
	r.SetFillColor(s.color)
	r.SetStrokeWidth(0)
	for i, v := range s.values {
		l, rt := s.span(i)
		left := box.Left + xr.Translate(l)
		right := box.Left + xr.Translate(rt)
		end := box.Bottom - yr.Translate(clamp(v, yr.GetMin(), yr.GetMax()))
		roundedBar(r, left, right, base, end, s.style.CornerRadius)
	}
}

// roundedBar fills a bar from base to end, rounding the two corners at end.
func roundedBar(r gochart.Renderer, left, right, base, end int, radius float64) {
	w, h := right-left, end-base
	if w <= 0 || h == 0 {
		return
	}
	dir := 1
	if h < 0 {
		dir, h = -1, -h
	}
	rad := int(math.Min(radius, math.Min(float64(w)/2, float64(h))))

	r.MoveTo(left, base)
	r.LineTo(left, end-dir*rad)
	r.QuadCurveTo(left, end, left+rad, end)
	r.LineTo(right-rad, end)
	r.QuadCurveTo(right, end, right, end-dir*rad)
	r.LineTo(right, base)
	r.Close()
	r.Fill()
}

// lineSeries draws one series as a smoothed polyline through the category
// positions 0..n-1.
type lineSeries struct {
	name   string
	values []float64
	style  chart.LineStyle
	color  drawing.Color
}

func (s lineSeries) GetName() string             { return s.name }
func (s lineSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (s lineSeries) Validate() error             { return nil }
func (s lineSeries) GetStyle() gochart.Style {
	return gochart.Style{StrokeColor: s.color, StrokeWidth: s.style.Width, FillColor: s.color}
}

func (s lineSeries) Render(r gochart.Renderer, box gochart.Box, xr, yr gochart.Range, _ gochart.Style) {
	pts := make([]point, len(s.values))
	for i, v := range s.values {
		pts[i] = point{
			X: float64(box.Left + xr.Translate(float64(i))),
			Y: float64(box.Bottom - yr.Translate(v)),
		}
	}

	if len(pts) > 1 {
		r.SetStrokeColor(s.color)
		r.SetStrokeWidth(s.style.Width)
		r.MoveTo(pts[0].px())
		for _, p := range smooth(pts, s.style.Tension, splineSteps)[1:] {
			r.LineTo(p.px())
		}
		r.Stroke()
	}

	if s.style.PointRadius > 0 {
		r.SetFillColor(s.color)
		for _, p := range pts {
			x, y := p.px()
			r.Circle(s.style.PointRadius, x, y)
			r.Fill()
		}
	}
}

type point struct{ X, Y float64 }

func (p point) px() (int, int) { return int(math.Round(p.X)), int(math.Round(p.Y)) }

// controlPoints returns the incoming and outgoing bezier control points of
// cur for a cardinal spline with the given tension. The control arm lengths
// are proportional to the distances to the neighbors.
func controlPoints(prev, cur, next point, tension float64) (in, out point) {
	d01 := math.Hypot(cur.X-prev.X, cur.Y-prev.Y)
	d12 := math.Hypot(next.X-cur.X, next.Y-cur.Y)

	s01, s12 := 0.0, 0.0
	if sum := d01 + d12; sum > 0 {
		s01, s12 = d01/sum, d12/sum
	}
	fa, fb := tension*s01, tension*s12
	dx, dy := next.X-prev.X, next.Y-prev.Y

	in = point{X: cur.X - fa*dx, Y: cur.Y - fa*dy}
	out = point{X: cur.X + fb*dx, Y: cur.Y + fb*dy}
	return in, out
}

// smooth samples a spline through pts. With tension 0 it returns pts.
func smooth(pts []point, tension float64, steps int) []point {
	if tension <= 0 || len(pts) < 3 {
		return pts
	}

	ins := make([]point, len(pts))
	outs := make([]point, len(pts))
	for i, cur := range pts {
		prev, next := cur, cur
		if i > 0 {
			prev = pts[i-1]
		}
		if i < len(pts)-1 {
			next = pts[i+1]
		}
		ins[i], outs[i] = controlPoints(prev, cur, next, tension)
	}

	out := make([]point, 0, (len(pts)-1)*steps+1)
	out = append(out, pts[0])
	for i := 0; i < len(pts)-1; i++ {
		p0, c1, c2, p1 := pts[i], outs[i], ins[i+1], pts[i+1]
		for k := 1; k <= steps; k++ {
			out = append(out, bezier(p0, c1, c2, p1, float64(k)/float64(steps)))
		}
	}
	return out
}

func bezier(p0, c1, c2, p1 point, t float64) point {
	u := 1 - t
	a, b, c, d := u*u*u, 3*u*u*t, 3*u*t*t, t*t*t
	return point{
		X: a*p0.X + b*c1.X + c*c2.X + d*p1.X,
		Y: a*p0.Y + b*c1.Y + c*c2.Y + d*p1.Y,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
