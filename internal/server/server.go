// Package server exposes the ingest → layout → render pipeline over HTTP.
//
// Each ingested payload gets a workspace of its own, addressed by an opaque
// id. Later uploads to the same id push the previous graph onto the
// workspace history, where POST /graphs/{id}/undo can restore it.
//
// Routes:
//
//	GET    /healthz
//	GET    /formats
//	GET    /graphs
//	POST   /graphs?format=&directed=&delimiter=&filename=
//	GET    /graphs/{id}
//	PUT    /graphs/{id}?format=&directed=&delimiter=&filename=
//	DELETE /graphs/{id}
//	POST   /graphs/{id}/undo
//	GET    /graphs/{id}/layout?style=&width=&height=
//	GET    /graphs/{id}/render?format=&style=&width=&height=
//	GET    /graphs/{id}/nodes?label=&attr=&op=&value=
//	GET    /graphs/{id}/edges?min=&max=&attr=&value=
//
// Errors are JSON bodies produced by [httputil.WriteError].
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

	"github.com/matzehuels/graphloom/pkg/pipeline"
	"github.com/matzehuels/graphloom/pkg/storage"
	"github.com/matzehuels/graphloom/pkg/workspace"
)

// DefaultMaxBodyBytes caps uploaded payloads.
const DefaultMaxBodyBytes = 32 << 20

// Config holds the collaborators of a Server.
type Config struct {
	// Runner executes the pipeline. Required.
	Runner *pipeline.Runner

	// Store persists every ingested graph when set.
	Store storage.Store

	// Defaults seed the pipeline options of every request. Query parameters
	// override them.
	Defaults pipeline.Options

	// MaxBodyBytes caps uploads; zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	Logger *log.Logger
}

// Server serves the graph API.
type Server struct {
	runner   *pipeline.Runner
	store    storage.Store
	spaces   *workspace.Store
	defaults pipeline.Options
	maxBody  int64
	logger   *log.Logger
}

// New creates a server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	defaults := cfg.Defaults
	defaults.Logger = logger
	return &Server{
		runner:   cfg.Runner,
		store:    cfg.Store,
		spaces:   workspace.NewStore(),
		defaults: defaults,
		maxBody:  maxBody,
		logger:   logger,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/formats", s.handleFormats)

	r.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.handleListGraphs)
		r.Post("/", s.handleCreateGraph)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGraph)
			r.Put("/", s.handleReplaceGraph)
			r.Delete("/", s.handleDeleteGraph)
			r.Post("/undo", s.handleUndo)
			r.Get("/layout", s.handleLayout)
			r.Get("/render", s.handleRender)
			r.Get("/nodes", s.handleNodes)
			r.Get("/edges", s.handleEdges)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
