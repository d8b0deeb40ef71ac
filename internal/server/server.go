// Package server exposes report generation over HTTP: an upload page, the
// form endpoints it posts to, a versioned API route and operational
// endpoints for health and metrics.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/lvillar/reportes"
	"github.com/lvillar/reportes/internal/config"
)

//go:embed web/index.html
var web embed.FS

// Server serves report generation over HTTP.
type Server struct {
	cfg     *config.Config
	gen     *reportes.Generator
	log     *slog.Logger
	metrics *metrics
	router  chi.Router
}

// New creates a Server rendering with gen.
func New(cfg *config.Config, gen *reportes.Generator, log *slog.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		gen:     gen,
		log:     log.With(slog.String("component", "server")),
		metrics: newMetrics(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestContext)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.handler())

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimit.Enabled {
			r.Use(newRateLimiter(s.cfg.RateLimit.RPS, s.cfg.RateLimit.Burst, s.log).Handler)
		}
		r.Post("/generar_bonos", s.handleGenerate(reportes.Bonos))
		r.Post("/generar_aniversarios", s.handleGenerate(reportes.Aniversarios))
		r.Post("/api/v1/reports/{kind}", s.handleGenerateKind)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.Render(w, r, newAPIError(http.StatusNotFound, "Recurso no encontrado"))
	})
	return r
}

// Run serves on the configured port until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.InfoContext(ctx, "server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		s.log.Info("server shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := web.ReadFile("web/index.html")
	if err != nil {
		render.Render(w, r, errRender)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	kinds := make([]string, 0, len(reportes.Kinds()))
	for _, k := range reportes.Kinds() {
		kinds = append(kinds, string(k))
	}
	render.JSON(w, r, map[string]any{"status": "ok", "kinds": kinds})
}

func (s *Server) handleGenerateKind(w http.ResponseWriter, r *http.Request) {
	kind, err := reportes.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		render.Render(w, r, toAPIError(err))
		return
	}
	s.handleGenerate(kind)(w, r)
}

func (s *Server) writePDF(w http.ResponseWriter, res *reportes.Result) {
	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	h.Set("Content-Length", strconv.Itoa(len(res.PDF)))
	h.Set("X-Render-ID", res.RenderID)
	h.Set("X-Degraded-Values", strconv.Itoa(res.Degraded))
	h.Set("X-Rejected-Rows", strconv.Itoa(res.Rejected))
	w.WriteHeader(http.StatusOK)
	w.Write(res.PDF)
}
