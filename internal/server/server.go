// Package server exposes the spectrogram transform over HTTP.
//
// Stateless endpoints under /v1 map annotations to polygons and back. The
// /v1/recordings endpoints render and edit stored recordings through a
// [pipeline.Runner] and a [store.Store].
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/spectromap/pkg/buildinfo"
	"github.com/matzehuels/spectromap/pkg/httputil"
	"github.com/matzehuels/spectromap/pkg/pipeline"
	"github.com/matzehuels/spectromap/pkg/store"
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	render pipeline.Options // style and scale defaults
}

// Options configures [New].
type Options struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger
	// Render provides the default Style and Scale for overlay requests.
	Render pipeline.Options
}

// New creates a server. Runner and Store are required.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Server{runner: opts.Runner, store: opts.Store, logger: opts.Logger, render: opts.Render}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/polygon", s.handlePolygon)
		r.Post("/invert", s.handleInvert)
		r.Post("/normalize", s.handleNormalize)
		r.Post("/center", s.handleCenter)
		r.Post("/overlay", s.handleOverlay)

		r.Route("/recordings", func(r chi.Router) {
			r.Get("/", s.handleListRecordings)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetRecording)
				r.Get("/overlay", s.handleRecordingOverlay)
				r.Put("/pulses/{pid}", s.handleEditPulse)
				r.Put("/sequences/{sid}", s.handleEditSequence)
			})
		})
	})
	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "version", buildinfo.Version)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", httputil.RequestIDFrom(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}
