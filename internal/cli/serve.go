package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/grap/internal/server"
	"github.com/matzehuels/grap/pkg/observability"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload page and chart API over HTTP",
		Long: `Serve the upload page and chart API over HTTP.

Endpoints:
  GET  /              upload page
  GET  /healthz       liveness and version
  POST /api/render    CSV to chart (?format=png|svg|pdf|json)
  POST /api/export    CSV to export PNG (?ratio=)
  POST /api/spec      CSV to chart spec JSON

Chart defaults come from the [chart] config section; request fields
override them. The cache backend is taken from the [cache] section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			e, err := c.open(ctx, noCache)
			if err != nil {
				return err
			}
			defer e.Close()

			defaults, err := e.cfg.Chart.Options()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = e.cfg.Server.Addr
			}

			hooks := logHooks{logger: logger}
			observability.SetPipelineHooks(hooks)
			observability.SetExportHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			srv := server.New(e.runner, server.Config{
				Defaults:       defaults,
				MaxUploadBytes: int64(e.cfg.Server.MaxUploadMB) << 20,
				Logger:         logger,
			})

			printInfo("Serving on %s", StyleLink.Render(serverURL(addr)))
			printDetail("cache: %s", cacheLabel(e.cfg.CacheConfig().Backend, noCache))
			return srv.ListenAndServe(ctx, addr, e.cfg.Server.ReadTimeout.Duration, e.cfg.Server.WriteTimeout.Duration)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// serverURL turns a listen address into a URL for display.
func serverURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return fmt.Sprintf("http://%s/", addr)
}

func cacheLabel(backend string, disabled bool) string {
	if disabled || backend == "" {
		return "none"
	}
	return backend
}
