// Package chart maps a parsed [table.Table] and a set of user options to a
// fully resolved, declarative chart [Spec].
//
// # Overview
//
// [Build] is pure: the same table and options always yield a structurally
// identical Spec, and nothing in the Spec aliases the input table. Every
// option change produces a new Spec; renderers never patch one in place.
//
// # Options
//
// [Options] is one immutable value with one setter per field:
//
//	opts := chart.DefaultOptions().
//	    WithType(chart.TypeBar).
//	    WithTheme(chart.ThemeDark).
//	    WithTitle("Monthly sales")
//	spec := chart.Build(tbl, opts)
//
// Unknown enumeration values never fail a build: [Options.Normalize] replaces
// them with defaults. Front ends that want to reject bad input up front call
// [Options.Validate] or the ParseX helpers.
//
// # Presentation
//
// The Spec carries everything a renderer needs: font sizes per text tier,
// theme palette, bar and line styling and layout padding. Empty title or axis
// labels mean "do not draw that element".
//
// # Funnel
//
// A funnel chart is a bar chart whose values are rescaled by (n-i)/n, where i
// is the category index and n the category count, giving a linear taper.
package chart
