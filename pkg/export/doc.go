// Package export produces standalone PNG images of a chart for download and
// for the system clipboard.
//
// An export never reuses the live chart. It renders an independent snapshot of
// the [chart.Spec] at a fixed output size, composites it onto a rounded,
// theme-colored card, and encodes the result as PNG:
//
//	ex := export.NewExporter(logger)
//	path, err := ex.ExportPNG(ctx, "out", spec, chart.AspectSquare)
//
// The output width is always [BaseWidth] pixels; the height follows the
// requested aspect ratio. Fonts of the snapshot are scaled by the ratio of the
// output size to the live frame so text keeps its on-screen proportions.
//
// [Exporter.Copy] writes the same PNG to the clipboard. When no clipboard tool
// is available the copy silently does nothing.
package export
