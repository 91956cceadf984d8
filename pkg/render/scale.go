package render

import (
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// axisLimit bounds the value axis so that its rounded span stays finite.
// Values beyond it are drawn clipped.
const axisLimit = math.MaxFloat64 / 4

// niceScale expands [lo, hi] to round tick boundaries with roughly maxTicks
// ticks, using the classic 1-2-5 "nice number" steps.
func niceScale(lo, hi float64, maxTicks int) (lower, upper, step float64) {
	if lo > hi {
		lo, hi = hi, lo
	}
	lo = max(-axisLimit, min(axisLimit, lo))
	hi = max(-axisLimit, min(axisLimit, hi))
	if lo == hi {
		if lo == 0 {
			hi = 1
		} else {
			pad := math.Abs(lo) * 0.1
			lo, hi = lo-pad, hi+pad
		}
	}
	maxTicks = max(maxTicks, 2)

	span := niceNum(hi-lo, false)
	step = niceNum(span/float64(maxTicks-1), true)
	return math.Floor(lo/step) * step, math.Ceil(hi/step) * step, step
}

// niceNum returns a 1, 2, 5 or 10 multiple of a power of ten close to x.
func niceNum(x float64, round bool) float64 {
	exp := math.Floor(math.Log10(x))
	f := x / math.Pow(10, exp)

	var nf float64
	switch {
	case round && f < 1.5, !round && f <= 1:
		nf = 1
	case round && f < 3, !round && f <= 2:
		nf = 2
	case round && f < 7, !round && f <= 5:
		nf = 5
	default:
		nf = 10
	}
	return nf * math.Pow(10, exp)
}

// valueTicks returns ticks from lower to upper inclusive in step increments.
func valueTicks(lower, upper, step float64) []gochart.Tick {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil
	}
	n := int(math.Round(upper/step - lower/step))
	decimals := 0
	for ; decimals < 10; decimals++ {
		scaled := step * math.Pow(10, float64(decimals))
		if math.Abs(scaled-math.Round(scaled)) < 1e-9 {
			break
		}
	}

	ticks := make([]gochart.Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		v := lower + float64(i)*step
		if math.Abs(v) < step*1e-9 {
			v = 0
		}
		ticks = append(ticks, gochart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', decimals, 64)})
	}
	return ticks
}

// categoryTicks places one tick per label. Bar charts center labels in their
// slot ([i, i+1]); line charts put them on integer positions. Labels are
// thinned to every k-th so that at most maxLabels are drawn. Unlabeled
// boundary ticks pin the axis range.
func categoryTicks(labels []string, centered bool, maxLabels int) (lo, hi float64, ticks []gochart.Tick) {
	n := len(labels)
	every := 1
	if maxLabels > 0 && n > maxLabels {
		every = int(math.Ceil(float64(n) / float64(maxLabels)))
	}

	offset := 0.0
	lo, hi = 0, float64(n-1)
	switch {
	case centered:
		offset, hi = 0.5, float64(n)
	case n <= 1:
		lo, hi = -0.5, 0.5
	}

	ticks = make([]gochart.Tick, 0, n+2)
	for i, label := range labels {
		if i%every != 0 {
			label = ""
		}
		ticks = append(ticks, gochart.Tick{Value: float64(i) + offset, Label: label})
	}
	if len(ticks) == 0 || ticks[0].Value != lo {
		ticks = append([]gochart.Tick{{Value: lo}}, ticks...)
	}
	if ticks[len(ticks)-1].Value != hi {
		ticks = append(ticks, gochart.Tick{Value: hi})
	}
	return lo, hi, ticks
}
