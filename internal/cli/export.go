package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/grap/pkg/chart"
	"github.com/matzehuels/grap/pkg/export"
	"github.com/matzehuels/grap/pkg/pipeline"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags   chartFlags
		ratios  string
		dir     string
		copyTo  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export <file.csv|->",
		Short: "Export fixed-size PNG images of a chart",
		Long: fmt.Sprintf(`Export fixed-size PNG images of a chart.

Each image is %d pixels wide with a height that matches its aspect ratio,
rounded corners and the theme's background. Images are written as
chart-<ratio>.png. Several ratios are exported concurrently.

With --copy the first ratio is also placed on the clipboard (wl-copy, xclip,
osascript or the native clipboard). Without a clipboard the copy is skipped
silently.`, export.BaseWidth),
		Example: `  grap export sales.csv
  grap export sales.csv --ratio landscape,portrait,square -d exports
  grap export sales.csv -t pie --copy`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: csvCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := c.open(ctx, noCache)
			if err != nil {
				return err
			}
			defer e.Close()

			opts, err := e.pipelineOptions(args[0], &flags, cmd)
			if err != nil {
				return err
			}

			list, err := exportRatios(ratios, e.cfg.ExportRatios(), opts.Chart.AspectRatio)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("dir") && e.cfg.Render.OutputDir != "" {
				dir = e.cfg.Render.OutputDir
			}

			prog := newProgress(loggerFromContext(ctx))
			tbl, cached, err := e.runner.IngestWithCacheInfo(ctx, opts)
			if err != nil {
				return userError(err)
			}
			spec := pipeline.Build(ctx, tbl, opts)

			spinner := newSpinner(ctx, fmt.Sprintf("Exporting %d image(s)...", len(list)))
			spinner.Start()
			paths, err := e.runner.Exporter.ExportAll(ctx, dir, spec, list)
			if err != nil {
				spinner.StopWithError("Export failed")
				return err
			}
			spinner.Stop()
			prog.done(fmt.Sprintf("Exported %d image(s)", len(paths)))

			printSuccess("Exported %s chart", spec.Type)
			for _, p := range paths {
				printFile(p)
			}
			printStats(tbl.Len(), len(spec.Series), cached)

			if copyTo {
				copied, err := e.runner.Exporter.Copy(ctx, spec, list[0])
				if err != nil {
					return err
				}
				if copied {
					printInfo("Sent %s image to the clipboard", list[0])
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&ratios, "ratio", "r", "", "aspect ratio(s) to export, comma-separated (default: config export_ratios, else the chart's ratio)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "output directory (default: config output_dir, else current directory)")
	cmd.Flags().BoolVar(&copyTo, "copy", false, "copy the first exported image to the clipboard")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	_ = cmd.RegisterFlagCompletionFunc("ratio", enumCompletion(chart.AspectRatios))
	_ = cmd.MarkFlagDirname("dir")

	return cmd
}

// exportRatios resolves the ratios to export: the flag value, else the
// configured list, else the chart's own ratio. Duplicates are dropped.
func exportRatios(flag string, configured []chart.AspectRatio, fallback chart.AspectRatio) ([]chart.AspectRatio, error) {
	var list []chart.AspectRatio
	switch {
	case flag != "":
		for _, s := range splitList(flag) {
			r, err := chart.ParseAspectRatio(s)
			if err != nil {
				return nil, err
			}
			list = append(list, r)
		}
	case len(configured) > 0:
		list = configured
	default:
		list = []chart.AspectRatio{fallback}
	}

	seen := make(map[chart.AspectRatio]bool, len(list))
	out := list[:0:0]
	for _, r := range list {
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out, nil
}
