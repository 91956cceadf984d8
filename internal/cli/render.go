package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/grap/pkg/errors"
	"github.com/matzehuels/grap/pkg/pipeline"
)

// renderOpts holds the render command's output flags.
type renderOpts struct {
	formats   string
	output    string
	width     int
	height    int
	fontScale float64
	noCache   bool
	refresh   bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts  renderOpts
		flags chartFlags
	)

	cmd := &cobra.Command{
		Use:   "render <file.csv|->",
		Short: "Render a CSV file as a chart",
		Long: `Render a CSV file as a chart.

The chart is written in one or more formats (png, svg, pdf, json). With a
single format, -o names the output file ("-" writes to stdout). With several
formats, -o is a base path and each format gets its own extension.

Renders are cached; use --no-cache to bypass the cache or --refresh to
re-read the CSV even when its content hash is cached.`,
		Example: `  grap render sales.csv
  grap render sales.csv -t bar --theme dark --title "Q3 Sales" -o q3.png
  cat sales.csv | grap render - -f svg,pdf -o out/sales`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: csvCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], &flags, opts)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png, svg, pdf, json (comma-separated; default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file (single format, "-" for stdout) or base path (multiple)`)
	cmd.Flags().IntVar(&opts.width, "width", 0, "image width in pixels (default: fit the aspect ratio)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "image height in pixels (default: fit the aspect ratio)")
	cmd.Flags().Float64Var(&opts.fontScale, "font-scale", 1, "multiply all font sizes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached parse results")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{pipeline.FormatPNG, pipeline.FormatSVG, pipeline.FormatPDF, pipeline.FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, flags *chartFlags, ro renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	e, err := c.open(ctx, ro.noCache)
	if err != nil {
		return err
	}
	defer e.Close()

	opts, err := e.pipelineOptions(input, flags, cmd)
	if err != nil {
		return err
	}
	opts.Formats = e.cfg.Render.Formats
	if ro.formats != "" {
		opts.Formats = splitList(ro.formats)
	}
	opts.Width, opts.Height = ro.width, ro.height
	opts.FontScale = ro.fontScale
	opts.Refresh = ro.refresh
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", displayName(input)))
	spinner.Start()
	result, err := e.runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return userError(err)
	}
	spinner.Stop()

	if ro.output == "-" {
		if len(opts.Formats) != 1 {
			return errors.New(errors.ErrCodeInvalidInput, "-o - needs exactly one format")
		}
		_, err := cmd.OutOrStdout().Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    ro.output,
	})
	if err != nil {
		return err
	}
	logger.Debug("render complete", "spec", result.SpecHash, "ingest", result.Stats.IngestTime, "render", result.Stats.RenderTime)

	printSuccess("Rendered %s chart", result.Spec.Type)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Rows, result.Stats.Series, result.CacheInfo.RenderHit)
	return nil
}

// artifactWriteParams describes rendered artifacts to write to disk.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes one file per format and returns the paths written.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	base := basePath(p.output, p.input)
	var paths []string
	for _, format := range p.formats {
		path := base + "." + format
		if len(p.formats) == 1 && p.output != "" {
			path = p.output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, p.artifacts[format], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the output path without extension. An empty output uses
// the input name; stdin input becomes "chart". Known format extensions on
// output are stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == pipeline.StdinSource {
			return "chart"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func displayName(input string) string {
	if input == pipeline.StdinSource {
		return "stdin"
	}
	return filepath.Base(input)
}

// userError replaces a parse failure with its single user-facing message.
func userError(err error) error {
	if errors.Is(err, errors.ErrCodeParse) {
		return fmt.Errorf("%s", errors.UserMessage(err))
	}
	return err
}
