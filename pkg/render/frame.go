package render

import (
	"math"
)

// Hard limits for the live chart frame.
const (
	MaxWidth  = 1600
	MaxHeight = 1200
)

const eps = 1e-9

// Frame is a rectangle inside a container, in pixels.
type Frame struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether the frame has no area.
func (f Frame) Empty() bool { return f.Width <= 0 || f.Height <= 0 }

// FitFrame returns the largest rectangle with the given width/height ratio
// that fits inside the container, centered, and never larger than
// MaxWidth×MaxHeight. A container without area is treated as
// MaxWidth×MaxHeight; a ratio that is not positive and finite is treated as 16:9.
func FitFrame(containerW, containerH int, ratio float64) Frame {
	if containerW <= 0 || containerH <= 0 {
		containerW, containerH = MaxWidth, MaxHeight
	}
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 16.0 / 9.0
	}

	w := math.Min(float64(containerW), MaxWidth)
	h := math.Min(float64(containerH), MaxHeight)

	var fw, fh int
	if w/ratio <= h+eps {
		fw = int(math.Floor(w + eps))
		fh = int(math.Round(float64(fw) / ratio))
	} else {
		fh = int(math.Floor(h + eps))
		fw = int(math.Round(float64(fh) * ratio))
	}
	fw, fh = max(fw, 1), max(fh, 1)

	return Frame{
		X:      (containerW - fw) / 2,
		Y:      (containerH - fh) / 2,
		Width:  fw,
		Height: fh,
	}
}
