// Package server provides the HTTP API for kotoba.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/kotoba/internal/config"
	"github.com/hyperjump/kotoba/internal/search"
	"github.com/hyperjump/kotoba/internal/storage"
)

// WatchService manages the directories the dictionary is imported from.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, trigger bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the kotoba API.
type Server struct {
	interpreter *search.Interpreter
	dictionary  storage.Dictionary
	cache       *search.CachedFinder
	config      *config.Config
	logger      *zap.Logger
	server      *http.Server

	watch      WatchService
	configPath string
	configMu   sync.Mutex
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithCache exposes lookup cache statistics on the status endpoint.
func WithCache(c *search.CachedFinder) ServerOption {
	return func(s *Server) { s.cache = c }
}

// WithWatch enables the import directory endpoints. When configPath is set, directory
// changes are persisted to the config file.
func WithWatch(w WatchService, configPath string) ServerOption {
	return func(s *Server) {
		s.watch = w
		s.configPath = configPath
	}
}

// NewServer creates a server with the given dependencies.
func NewServer(
	interpreter *search.Interpreter,
	dictionary storage.Dictionary,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...ServerOption,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		interpreter: interpreter,
		dictionary:  dictionary,
		config:      cfg,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router returns the API routes.
func (s *Server) Router() http.Handler {
	timeout := time.Duration(s.config.Server.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/search/interpret", s.handleInterpret)
		r.Get("/search/suggest", s.handleSuggest)
		r.Get("/search/query", s.handleQuery)

		r.Get("/dictionary/{scope}/keywords", s.handleListKeywords)
		r.Post("/dictionary/{scope}/keywords", s.handleAddKeywords)
		r.Delete("/dictionary/{scope}/keywords", s.handleDeleteKeywords)

		r.Get("/import/directories", s.handleImportDirectoriesList)
		r.Post("/import/directories", s.handleImportDirectoriesAdd)
		r.Delete("/import/directories", s.handleImportDirectoriesRemove)

		r.Get("/status", s.handleStatus)
	})
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr), zap.String("strategy", string(s.interpreter.Strategy())))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
