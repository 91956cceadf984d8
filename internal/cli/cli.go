package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/golang/freetype/truetype"
	"github.com/spf13/cobra"

	"github.com/matzehuels/grap/internal/config"
	"github.com/matzehuels/grap/pkg/buildinfo"
	"github.com/matzehuels/grap/pkg/cache"
	"github.com/matzehuels/grap/pkg/export"
	"github.com/matzehuels/grap/pkg/fonts"
	"github.com/matzehuels/grap/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "grap"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Grap turns CSV files into charts",
		Long: `Grap turns CSV files into line, bar, pie and funnel charts.

The first CSV column holds the labels, every other column is a series.
Charts are rendered to PNG, SVG, PDF or JSON, exported as fixed-size
PNG images, tuned interactively in a terminal panel, or served over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/grap/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.specCommand())
	root.AddCommand(c.panelCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads --config, or the default config file when the flag is unset.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		if _, err := os.Stat(c.configPath); err != nil {
			return config.Config{}, fmt.Errorf("config: %w", err)
		}
		return config.Load(c.configPath)
	}
	cfg, path, err := config.LoadDefault()
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// env is what a pipeline command needs: config, runner and the render font.
type env struct {
	cfg    config.Config
	runner *pipeline.Runner
	font   *truetype.Font
}

func (e *env) Close() error { return e.runner.Close() }

// open loads the config and creates a runner on the configured cache.
func (c *CLI) open(ctx context.Context, noCache bool) (*env, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	font, err := fonts.Load(cfg.Render.Font)
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner.Exporter = export.NewExporter(c.Logger, export.WithFont(font))
	return &env{cfg: cfg, runner: runner, font: font}, nil
}

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped to
// the running version so an upgrade never serves stale renders.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) (*pipeline.Runner, error) {
	cc := cfg.CacheConfig()
	if noCache {
		cc.Backend = cache.BackendNone
	}
	store, err := cache.Open(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), appName+"@"+buildinfo.Version+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// pipelineOptions are the options shared by every command that reads a CSV.
func (e *env) pipelineOptions(source string, flags *chartFlags, cmd *cobra.Command) (pipeline.Options, error) {
	chartOpts, err := flags.options(cmd, e.cfg.Chart)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Source:   source,
		Chart:    chartOpts,
		FontPath: e.cfg.Render.Font,
		Font:     e.font,
		Stdin:    cmd.InOrStdin(),
	}, nil
}
