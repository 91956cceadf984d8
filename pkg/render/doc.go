// Package render draws chart specs and keeps a live chart in sync with a
// drawing surface.
//
// # Overview
//
// This package turns a [chart.Spec] into pixels. It provides:
//
//   - [Draw]: one-shot rasterization (PNG or SVG) with go-chart
//   - Sinks: [RenderPNG], [RenderSVG], [RenderPDF], [RenderJSON]
//   - [Chart]: a live chart handle bound to a [Surface]
//   - [FitFrame]: the on-screen sizing policy
//
// # Drawing
//
// Bar, funnel and line charts use go-chart's cartesian chart with custom
// series: bars are grouped per category with rounded value-end corners, lines
// are smoothed with a cardinal spline whose tension comes from the spec. Pie
// charts use go-chart's pie chart over the first series. A spec without data
// draws only the themed background and title.
//
// Font sizes are pixel sizes (the renderer runs at 72 DPI) and can be scaled
// for export with [WithFontScale].
//
// # Live Charts
//
// A [Chart] follows a strict lifecycle:
//
//	c, err := render.Mount(surface, spec)   // Unmounted -> Mounted(S0)
//	err = c.Update(next)                     // destroy S0, draw S1
//	c.Unmount()                              // tear down, idempotent
//
// Every update is total: the previous drawing instance is destroyed before
// the next is constructed. No goroutines or timers outlive Unmount.
//
// # Format Conversion
//
// PDF output draws SVG first and pipes it through the external rsvg-convert
// tool (from librsvg) with [ToPDF].
//
//	svg, err := render.RenderSVG(spec)
//	pdf, err := render.ToPDF(svg)
package render
