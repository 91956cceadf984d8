// Package server implements the grap HTTP API.
//
// Endpoints:
//
//	GET  /              upload page
//	GET  /healthz       liveness and version
//	POST /api/render    CSV → chart in ?format=png|svg|pdf|json
//	POST /api/export    CSV → export PNG at ?ratio=
//	POST /api/spec      CSV → resolved chart spec as JSON
//
// CSV is sent as the multipart field "file" or as a text/csv request body.
// Chart options are form or query fields named after the panel rows
// (chartType, theme, textSize, aspectRatio, chartTitle, xAxisLabel,
// yAxisLabel, seriesColor).
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/grap/pkg/chart"
	grerrors "github.com/matzehuels/grap/pkg/errors"
	"github.com/matzehuels/grap/pkg/pipeline"
)

// Config configures a Server.
type Config struct {
	// Defaults are the chart options applied before request fields.
	Defaults chart.Options

	// MaxUploadBytes bounds the CSV size. Zero means errors.MaxUploadBytes.
	MaxUploadBytes int64

	Logger *log.Logger
}

// Server serves the HTTP API on top of a pipeline runner.
type Server struct {
	runner    *pipeline.Runner
	logger    *log.Logger
	defaults  chart.Options
	maxUpload int64
	flight    singleflight.Group
	router    chi.Router
}

// New creates a server. The runner's cache is shared by all requests.
func New(runner *pipeline.Runner, cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = runner.Logger
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = grerrors.MaxUploadBytes
	}
	s := &Server{
		runner:    runner,
		logger:    cfg.Logger,
		defaults:  cfg.Defaults.Normalize(),
		maxUpload: cfg.MaxUploadBytes,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/render", s.handleRender)
		r.Post("/export", s.handleExport)
		r.Post("/spec", s.handleSpec)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, grerrors.New(grerrors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
