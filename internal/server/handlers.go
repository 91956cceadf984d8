package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/matzehuels/grap/pkg/buildinfo"
	"github.com/matzehuels/grap/pkg/cache"
	"github.com/matzehuels/grap/pkg/chart"
	grerrors "github.com/matzehuels/grap/pkg/errors"
	"github.com/matzehuels/grap/pkg/export"
	"github.com/matzehuels/grap/pkg/pipeline"
	"github.com/matzehuels/grap/pkg/render"
)

// Response headers describing the served chart.
const (
	SpecHashHeader = "X-Spec-Hash"
	CacheHeader    = "X-Cache"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

// request is the parsed input shared by all API handlers.
type request struct {
	data   []byte
	source string
	opts   chart.Options
}

func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (request, error) {
	data, name, err := s.readCSV(w, r)
	if err != nil {
		return request{}, err
	}
	opts, err := s.chartOptions(r)
	if err != nil {
		return request{}, err
	}
	return request{data: data, source: name, opts: opts}, nil
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	name := r.URL.Query().Get("format")
	if name == "" {
		name = pipeline.DefaultFormat
	}
	format, err := render.ParseFormat(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	width, err := intParam(r, "width")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	height, err := intParam(r, "height")
	if err != nil {
		s.fail(w, r, err)
		return
	}

	opts := pipeline.Options{
		Source:  req.source,
		Data:    req.data,
		Chart:   req.opts,
		Formats: []string{string(format)},
		Width:   width,
		Height:  height,
	}
	key := flightKey("render", req.data, req.opts, format, width, height)
	v, err := s.shared(r.Context(), key, func(ctx context.Context) (any, error) {
		return s.runner.Execute(ctx, opts)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res := v.(*pipeline.Result)

	w.Header().Set(SpecHashHeader, res.SpecHash)
	w.Header().Set(CacheHeader, cacheStatus(res.CacheInfo.RenderHit))
	writeBytes(w, format.ContentType(), res.Artifacts[string(format)])
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	ratio := req.opts.AspectRatio
	if q := r.URL.Query().Get("ratio"); q != "" {
		if ratio, err = chart.ParseAspectRatio(q); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	spec, err := s.buildSpec(r, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	key := flightKey("export", req.data, req.opts, ratio)
	v, err := s.shared(r.Context(), key, func(ctx context.Context) (any, error) {
		data, hit, err := s.runner.ExportWithCacheInfo(ctx, spec, ratio, render.Frame{})
		return exportResult{data, hit}, err
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res := v.(exportResult)

	w.Header().Set(CacheHeader, cacheStatus(res.hit))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(ratio)))
	writeBytes(w, render.FormatPNG.ContentType(), res.data)
}

type exportResult struct {
	data []byte
	hit  bool
}

func (s *Server) handleSpec(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	spec, err := s.buildSpec(r, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if hash, err := pipeline.SpecHash(spec); err == nil {
		w.Header().Set(SpecHashHeader, hash)
	}
	writeJSON(w, http.StatusOK, spec)
}

func (s *Server) buildSpec(r *http.Request, req request) (chart.Spec, error) {
	opts := pipeline.Options{Source: req.source, Data: req.data, Chart: req.opts}
	tbl, err := s.runner.Ingest(r.Context(), opts)
	if err != nil {
		return chart.Spec{}, err
	}
	return pipeline.Build(r.Context(), tbl, opts), nil
}

// fail logs unexpected errors and writes the JSON error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		s.logger.Debug("client gone", "id", RequestIDFrom(r.Context()), "error", err)
		return
	}
	if grerrors.IsUserError(err) {
		s.logger.Debug("rejected request", "id", RequestIDFrom(r.Context()), "error", err)
	} else {
		s.logger.Error("request failed", "id", RequestIDFrom(r.Context()), "path", r.URL.Path, "error", err)
	}
	writeError(w, r, err)
}

// shared runs fn once for all concurrent callers with the same key. fn gets a
// context that keeps ctx's values but not its cancellation, so one client
// going away does not fail the others; each caller stops waiting when its own
// ctx is done.
func (s *Server) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	work := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (any, error) {
		return fn(work)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// flightKey identifies identical concurrent requests.
func flightKey(kind string, data []byte, opts chart.Options, extra ...any) string {
	var b strings.Builder
	b.WriteString(kind)
	b.WriteByte('|')
	b.WriteString(cache.Hash(data))
	optsHash, _ := cache.HashJSON(opts)
	fmt.Fprintf(&b, "|%s", optsHash)
	for _, e := range extra {
		fmt.Fprintf(&b, "|%v", e)
	}
	return b.String()
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
