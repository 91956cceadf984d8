package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/grap/internal/config"
	"github.com/matzehuels/grap/pkg/chart"
)

// chartFlags are the chart option flags shared by render, export, spec and
// panel. Flags override the [chart] section of the config file.
type chartFlags struct {
	chartType   string
	theme       string
	textSize    string
	aspectRatio string
	title       string
	xAxisLabel  string
	yAxisLabel  string
	seriesColor string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.chartType, "type", "t", "", "chart type: "+joinNames(chart.Types))
	fs.StringVar(&f.theme, "theme", "", "theme: "+joinNames(chart.Themes))
	fs.StringVar(&f.textSize, "text-size", "", "text size: "+joinNames(chart.TextSizes))
	fs.StringVarP(&f.aspectRatio, "aspect-ratio", "a", "", "aspect ratio: "+joinNames(chart.AspectRatios)+" (or 16:9, 9:16, 1:1, 21:9)")
	fs.StringVar(&f.title, "title", "", "chart title (empty hides it)")
	fs.StringVar(&f.xAxisLabel, "x-label", "", "x axis label")
	fs.StringVar(&f.yAxisLabel, "y-label", "", "y axis label")
	fs.StringVar(&f.seriesColor, "color", "", "series color: #RRGGBB or #RRGGBBAA")

	_ = cmd.RegisterFlagCompletionFunc("type", enumCompletion(chart.Types))
	_ = cmd.RegisterFlagCompletionFunc("theme", enumCompletion(chart.Themes))
	_ = cmd.RegisterFlagCompletionFunc("text-size", enumCompletion(chart.TextSizes))
	_ = cmd.RegisterFlagCompletionFunc("aspect-ratio", enumCompletion(chart.AspectRatios))
}

// options applies the flags given on the command line on top of base.
// Invalid values are INVALID_OPTION errors.
func (f *chartFlags) options(cmd *cobra.Command, base config.ChartConfig) (chart.Options, error) {
	cc := base
	set := cmd.Flags().Changed
	if set("type") {
		cc.Type = f.chartType
	}
	if set("theme") {
		cc.Theme = f.theme
	}
	if set("text-size") {
		cc.TextSize = f.textSize
	}
	if set("aspect-ratio") {
		cc.AspectRatio = f.aspectRatio
	}
	if set("title") {
		cc.Title = f.title
	}
	if set("x-label") {
		cc.XAxisLabel = f.xAxisLabel
	}
	if set("y-label") {
		cc.YAxisLabel = f.yAxisLabel
	}
	if set("color") {
		cc.SeriesColor = f.seriesColor
	}
	return cc.Options()
}

func names[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

func joinNames[T ~string](values []T) string {
	return strings.Join(names(values), ", ")
}

func enumCompletion[T ~string](values []T) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return names(values), cobra.ShellCompDirectiveNoFileComp
	}
}

// csvCompletion completes CSV-like file names for the input argument.
func csvCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"csv", "tsv", "txt"}, cobra.ShellCompDirectiveFilterFileExt
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
