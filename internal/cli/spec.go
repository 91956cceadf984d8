package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/grap/pkg/pipeline"
	"github.com/matzehuels/grap/pkg/render"
)

// specCommand creates the spec command, which prints the resolved chart spec.
func (c *CLI) specCommand() *cobra.Command {
	var (
		flags  chartFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "spec <file.csv|->",
		Short: "Print the chart spec derived from a CSV file",
		Long: `Print the chart spec derived from a CSV file as JSON.

The spec holds the labels, series and every resolved style value. It is the
same document "render -f json" writes and POST /api/spec returns.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: csvCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			e, err := c.open(ctx, true)
			if err != nil {
				return err
			}
			defer e.Close()

			opts, err := e.pipelineOptions(args[0], &flags, cmd)
			if err != nil {
				return err
			}
			tbl, err := e.runner.Ingest(ctx, opts)
			if err != nil {
				return userError(err)
			}
			data, err := render.RenderJSON(pipeline.Build(ctx, tbl, opts))
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Wrote spec")
			printFile(output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
