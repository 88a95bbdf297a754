// Package server hosts the ragdocs HTTP API: document ingestion and
// question answering, plus a health check.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dcamposl/ragdocs/internal/config"
	"github.com/dcamposl/ragdocs/internal/db"
	"github.com/dcamposl/ragdocs/internal/ingest"
	"github.com/dcamposl/ragdocs/internal/query"
)

// Server is the ragdocs API server.
type Server struct {
	cfg        *config.Config
	db         *db.DB
	ingestor   *ingest.Manager
	engine     *query.Engine
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies. ingestor and engine may
// be nil in tests that only exercise the base router.
func New(cfg *config.Config, database *db.DB, ingestor *ingest.Manager, engine *query.Engine) *Server {
	s := &Server{
		cfg:      cfg,
		db:       database,
		ingestor: ingestor,
		engine:   engine,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAllOrigins {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	if s.ingestor != nil {
		ingest.RegisterRoutes(r, s.ingestor)
	}
	if s.engine != nil {
		query.RegisterRoutes(r, s.engine)
	}

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Database returns the database connection.
func (s *Server) Database() *db.DB { return s.db }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("ragdocs server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server. In-flight ingestion jobs
// keep running until their records reach a terminal state.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
