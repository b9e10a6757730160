// Package server exposes the treeprint pipeline over HTTP.
//
// # Endpoints
//
//	GET  /healthz                 liveness probe
//	GET  /version                 build information
//	POST /v1/layout               records → layout JSON
//	POST /v1/render?format=svg    records → one rendered artifact
//	POST /v1/visualize?format=png layout JSON → one rendered artifact
//
// Layout and render requests carry pipeline options with inline records:
//
//	{
//	  "records": {"persons": [...], "relationships": [...]},
//	  "viz_type": "tree",
//	  "layout": {"box_width": 40},
//	  "style": "simple",
//	  "pan_zoom": true
//	}
//
// Errors are JSON objects carrying the code from pkg/errors. Invalid requests
// answer 400 and malformed family data 422; oversized bodies get 413.
// Every response carries an X-Request-ID header and reports whether it was
// served from the cache in X-Cache.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/treeprint/pkg/cache"
	"github.com/matzehuels/treeprint/pkg/config"
	"github.com/matzehuels/treeprint/pkg/pipeline"
)

// KeyPrefix scopes cache entries written by the server.
const KeyPrefix = "api:"

const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// MaxBodyBytes caps request bodies. Zero selects config.DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Logger receives request logs. Nil discards them.
	Logger *log.Logger
}

// Server serves the HTTP API. It is safe for concurrent use; every request
// builds its own tree.
type Server struct {
	runner *pipeline.Runner
	opts   Options
	logger *log.Logger
	router chi.Router
}

// New creates a server around c. The cache is shared with other clients
// through a scoped keyer.
func New(c cache.Cache, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = config.DefaultServerAddr
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = config.DefaultMaxBodyBytes
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), KeyPrefix)
	s := &Server{
		runner: pipeline.NewRunner(c, keyer, logger),
		opts:   opts,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

// Runner returns the pipeline runner serving requests.
func (s *Server) Runner() *pipeline.Runner { return s.runner }

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/visualize", s.handleVisualize)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, notFound(r))
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Close releases the runner's cache.
func (s *Server) Close() error {
	return s.runner.Close()
}
