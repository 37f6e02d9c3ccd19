// Package server provides the HTTP API consumed by the presentation layer.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"chatlist/internal/config"
	"chatlist/internal/services"
)

// Server is the HTTP server for the ChatList API.
type Server struct {
	services *services.Services
	config   *config.ServerConfig
	logger   *zap.Logger
	server   *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(svc *services.Services, cfg *config.ServerConfig, logger *zap.Logger) *Server {
	return &Server{
		services: svc,
		config:   cfg,
		logger:   logger,
	}
}

// Router builds the HTTP routing tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	// No request timeout middleware on dispatch routes: per-model call
	// deadlines come from the settings table.

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/dispatch", s.handleDispatch)
		r.Post("/improve", s.handleImprove)

		r.Get("/prompts", s.handleListPrompts)
		r.Get("/prompts/{id}", s.handleGetPrompt)
		r.Put("/prompts/{id}/tags", s.handleUpdatePromptTags)
		r.Delete("/prompts/{id}", s.handleDeletePrompt)
		r.Get("/prompts/{id}/results", s.handleResultsByPrompt)
		r.Get("/prompts/{id}/export", s.handleExportPrompt)

		r.Get("/models", s.handleListModels)
		r.Post("/models", s.handleUpsertModel)
		r.Get("/models/{id}", s.handleGetModel)
		r.Delete("/models/{id}", s.handleDeleteModel)
		r.Post("/models/{id}/active", s.handleSetModelActive)
		r.Get("/models/{id}/results", s.handleResultsByModel)

		r.Get("/results", s.handleSearchResults)
		r.Delete("/results/{id}", s.handleDeleteResult)

		r.Get("/settings", s.handleAllSettings)
		r.Get("/settings/{key}", s.handleGetSetting)
		r.Put("/settings/{key}", s.handlePutSetting)
		r.Delete("/settings/{key}", s.handleDeleteSetting)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
