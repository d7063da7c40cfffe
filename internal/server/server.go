// Package server implements the arcisi HTTP API.
//
// Routes:
//
//	POST   /v1/bakes                          bake a TOML recipe (request body)
//	GET    /v1/bakes                          list recent bakes
//	GET    /v1/bakes/{id}                     fetch a bake with its plan
//	DELETE /v1/bakes/{id}                     forget a bake
//	GET    /v1/bakes/{id}/artifacts/{format}  render a stored plan
//	GET    /v1/genres                         list the built-in genres
//	GET    /healthz                           liveness and build info
//
// Errors are JSON objects carrying the error code and a user-facing message.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/arcisi/internal/config"
	"github.com/matzehuels/arcisi/pkg/genre"
	"github.com/matzehuels/arcisi/pkg/pipeline"
	"github.com/matzehuels/arcisi/pkg/store"
)

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	registry *genre.Registry
	cfg      config.ServerConfig
	logger   *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegistry sets the genre registry listed by /v1/genres.
func WithRegistry(r *genre.Registry) Option {
	return func(s *Server) {
		if r != nil {
			s.registry = r
		}
	}
}

// New returns a server baking with runner and keeping records in st.
// Zero values in cfg fall back to [config.Default].
func New(runner *pipeline.Runner, st store.Store, cfg config.ServerConfig, opts ...Option) *Server {
	def := config.Default().Server
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.MaxRecipeBytes <= 0 {
		cfg.MaxRecipeBytes = def.MaxRecipeBytes
	}

	s := &Server{
		runner:   runner,
		store:    st,
		registry: genre.Default(),
		cfg:      cfg,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the API's router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusNotFound, "NOT_FOUND", "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/genres", s.handleGenres)

		r.Route("/bakes", func(r chi.Router) {
			r.Post("/", s.handleCreateBake)
			r.Get("/", s.handleListBakes)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetBake)
				r.Delete("/", s.handleDeleteBake)
				r.Get("/artifacts/{format}", s.handleArtifact)
			})
		})
	})

	return r
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
