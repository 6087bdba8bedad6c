// Package server exposes the curriculum pipeline as a REST API.
//
// Datasets are loaded into uuid-keyed in-memory sessions; edits, derived
// views, renders, and suggestion calls all address a session id. Named
// snapshots persist sessions through the store.
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/minhlq/curmap/pkg/store"
	"github.com/minhlq/curmap/pkg/suggest"
)

// Config assembles a Server. Store and Suggest are optional: a nil store
// falls back to the in-memory store, a nil suggest client serves fallback
// answers only.
type Config struct {
	Store   store.Store
	Suggest *suggest.Client
	Logger  *log.Logger
}

// Server is the HTTP API.
type Server struct {
	router   chi.Router
	sessions *Sessions
	store    store.Store
	suggest  *suggest.Client
	logger   *log.Logger
}

// New creates a server and mounts its routes.
func New(cfg Config) *Server {
	s := &Server{
		sessions: NewSessions(),
		store:    cfg.Store,
		suggest:  cfg.Suggest,
		logger:   cfg.Logger,
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.suggest == nil {
		s.suggest = suggest.NewClient(suggest.Config{Logger: cfg.Logger})
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Post("/datasets", s.handleCreateDataset)
		r.Route("/datasets/{id}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteDataset)
			r.Get("/graph", s.handleGraph)
			r.Get("/views", s.handleViews)
			r.Get("/centrality", s.handleCentrality)
			r.Get("/flow", s.handleFlow)
			r.Get("/connections", s.handleExportConnections)
			r.Post("/connections", s.handleImportConnections)
			r.Get("/table", s.handleExportTable)
			r.Post("/relations", s.handleAddRelation)
			r.Patch("/relations", s.handleUpdateRelation)
			r.Delete("/relations", s.handleDeleteRelation)
			r.Post("/undo", s.handleUndo)
			r.Post("/details", s.handleAddDetail)
			r.Post("/links", s.handleAddLink)
			r.Delete("/links", s.handleDeleteLink)
			r.Post("/plan", s.handlePlan)
			r.Post("/snapshots", s.handleSaveSnapshot)
		})
		r.Get("/snapshots", s.handleListSnapshots)
		r.Get("/snapshots/{id}", s.handleGetSnapshot)
		r.Delete("/snapshots/{id}", s.handleDeleteSnapshot)
		r.Post("/snapshots/{id}/datasets", s.handleRestoreSnapshot)
		r.Post("/suggest", s.handleSuggest)
		r.Post("/evaluate", s.handleEvaluate)
	})
	s.router = r
	return s
}

// Router returns the mounted handler.
func (s *Server) Router() http.Handler { return s.router }

// ListenAndServe blocks serving the API on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("serving API", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}
