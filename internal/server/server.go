// Package server exposes the filter pipeline over HTTP: a rendered dashboard
// page, a JSON projection API, and operational endpoints.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/filmfilter/filmfilter/internal/cache"
	"github.com/filmfilter/filmfilter/internal/charts"
	"github.com/filmfilter/filmfilter/internal/observability"
	"github.com/filmfilter/filmfilter/internal/pipeline"
	"github.com/filmfilter/filmfilter/internal/plotpage"
)

// HTTP server timeouts.
const (
	readHeaderTimeout = 30 * time.Second
	readTimeout       = 60 * time.Second
	writeTimeout      = 120 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Config carries the server's collaborators and settings.
type Config struct {
	Addr           string
	Pipeline       *pipeline.Pipeline
	Cache          *cache.ProjectionCache
	Defaults       pipeline.Selection
	Theme          plotpage.Theme
	DashboardTitle string
	Logger         *slog.Logger
	Tracer         trace.Tracer
	Metrics        *observability.QueryMetrics
	MetricsHandler http.Handler
}

// Server serves dashboard pages and projection JSON for filter queries.
type Server struct {
	cfg     Config
	builder *charts.Builder
	httpSrv *http.Server
}

// New creates a Server. The pipeline and cache are required; the metrics
// handler and query metrics are optional.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	srv := &Server{
		cfg:     cfg,
		builder: charts.NewBuilder(cfg.Theme),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", srv.handleDashboard)
	mux.HandleFunc("/api/projections", srv.handleProjections)
	mux.HandleFunc("/api/cache", srv.handleCacheStats)
	mux.HandleFunc("/healthz", srv.handleHealthz)

	if cfg.MetricsHandler != nil {
		mux.Handle("/metrics", cfg.MetricsHandler)
	}

	var handler http.Handler = mux
	if cfg.Tracer != nil {
		handler = observability.HTTPMiddleware(cfg.Tracer, mux)
	}

	srv.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	return srv
}

// Handler returns the root HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.cfg.Logger.Info("http server listening", "addr", s.cfg.Addr)

		err := s.httpSrv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err

			return
		}

		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpSrv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	return <-errCh
}

// query runs the pipeline for a selection, serving repeated selections from
// the cache. Results are shared; callers must not mutate them.
func (s *Server) query(ctx context.Context, sel pipeline.Selection) (*pipeline.Projections, error) {
	const op = "query"

	if s.cfg.Metrics != nil {
		done := s.cfg.Metrics.TrackInflight(ctx, op)
		defer done()
	}

	key := sel.Key()
	if proj := s.cfg.Cache.Get(key); proj != nil {
		return proj, nil
	}

	start := time.Now()

	proj, err := s.cfg.Pipeline.Run(sel)

	if s.cfg.Metrics != nil {
		status := observability.StatusOK
		if err != nil {
			status = "error"
		}

		s.cfg.Metrics.RecordQuery(ctx, op, status, time.Since(start))
	}

	if err != nil {
		return nil, err
	}

	s.cfg.Cache.Put(key, proj)

	return proj, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)

		return
	}

	sel, err := parseSelection(r, s.cfg.Defaults)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)

		return
	}

	ctx := observability.WithSelection(r.Context(), sel.Key())

	proj, err := s.query(ctx, sel)
	if err != nil {
		s.writeQueryError(ctx, w, err)

		return
	}

	page := s.builder.DashboardPage(
		s.cfg.DashboardTitle,
		charts.DescribeSelection(sel),
		proj,
		charts.SummaryStats(sel, proj),
	)

	var buf bytes.Buffer

	err = page.Render(&buf)
	if err != nil {
		s.cfg.Logger.ErrorContext(ctx, "render dashboard", "error", err)
		s.writeError(w, http.StatusInternalServerError, errors.New("render failed"))

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// projectionsResponse is the JSON shape of /api/projections.
type projectionsResponse struct {
	Selection   selectionJSON         `json:"selection"`
	Projections *pipeline.Projections `json:"projections"`
	GeneratedAt time.Time             `json:"generated_at"`
}

type selectionJSON struct {
	Genres              []string `json:"genres"`
	YearMin             int      `json:"year_min"`
	YearMax             int      `json:"year_max"`
	ScoreMin            float64  `json:"score_min"`
	ScoreMax            float64  `json:"score_max"`
	IncludeUnknownYears bool     `json:"include_unknown_years"`
}

func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r, s.cfg.Defaults)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)

		return
	}

	ctx := observability.WithSelection(r.Context(), sel.Key())

	proj, err := s.query(ctx, sel)
	if err != nil {
		s.writeQueryError(ctx, w, err)

		return
	}

	s.writeJSON(w, http.StatusOK, projectionsResponse{
		Selection: selectionJSON{
			Genres:              sel.Genres,
			YearMin:             sel.YearMin,
			YearMax:             sel.YearMax,
			ScoreMin:            sel.ScoreMin,
			ScoreMax:            sel.ScoreMax,
			IncludeUnknownYears: sel.IncludeUnknownYears,
		},
		Projections: proj,
		GeneratedAt: time.Now().UTC(),
	})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, _ *http.Request) {
	stats := s.cfg.Cache.Stats()

	s.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     stats.Hits,
		"misses":   stats.Misses,
		"entries":  stats.Entries,
		"hit_rate": stats.HitRate(),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeQueryError(ctx context.Context, w http.ResponseWriter, err error) {
	if errors.Is(err, pipeline.ErrInvalidRange) {
		s.writeError(w, http.StatusBadRequest, err)

		return
	}

	s.cfg.Logger.ErrorContext(ctx, "pipeline query", "error", err)
	s.writeError(w, http.StatusInternalServerError, errors.New("query failed"))
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		s.cfg.Logger.Error("encode response", "error", err)
	}
}

// parseSelection builds a selection from query parameters, falling back to
// the configured defaults for absent parameters. Genres may be given as
// repeated genre= parameters or comma-separated.
func parseSelection(r *http.Request, defaults pipeline.Selection) (pipeline.Selection, error) {
	q := r.URL.Query()
	sel := defaults

	if vals, ok := q["genre"]; ok {
		var genres []string

		for _, v := range vals {
			for _, g := range strings.Split(v, ",") {
				g = strings.TrimSpace(g)
				if g != "" {
					genres = append(genres, g)
				}
			}
		}

		sel.Genres = genres
	}

	var err error

	sel.YearMin, err = intParam(q.Get("year_min"), sel.YearMin)
	if err != nil {
		return pipeline.Selection{}, fmt.Errorf("year_min: %w", err)
	}

	sel.YearMax, err = intParam(q.Get("year_max"), sel.YearMax)
	if err != nil {
		return pipeline.Selection{}, fmt.Errorf("year_max: %w", err)
	}

	sel.ScoreMin, err = floatParam(q.Get("score_min"), sel.ScoreMin)
	if err != nil {
		return pipeline.Selection{}, fmt.Errorf("score_min: %w", err)
	}

	sel.ScoreMax, err = floatParam(q.Get("score_max"), sel.ScoreMax)
	if err != nil {
		return pipeline.Selection{}, fmt.Errorf("score_max: %w", err)
	}

	sel.IncludeUnknownYears, err = boolParam(q.Get("unknown_years"), sel.IncludeUnknownYears)
	if err != nil {
		return pipeline.Selection{}, fmt.Errorf("unknown_years: %w", err)
	}

	return sel, nil
}

func intParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", raw)
	}

	return v, nil
}

func floatParam(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", raw)
	}

	return v, nil
}

func boolParam(raw string, fallback bool) (bool, error) {
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", raw)
	}

	return v, nil
}

