package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/consultora/consulting-tracker/internal/api/handlers"
	mw "github.com/consultora/consulting-tracker/internal/api/middleware"
	"github.com/consultora/consulting-tracker/internal/service"
	"github.com/consultora/consulting-tracker/pkg/config"
	"github.com/consultora/consulting-tracker/pkg/logger"
)

// Server represents the HTTP API server
type Server struct {
	router      chi.Router
	logger      logger.Logger
	config      *config.Config
	baseHandler handlers.BaseHandler
	services    *Services
	httpServer  *http.Server
}

// Services holds the services the handlers depend on
type Services struct {
	ProjectService *service.ProjectService
	VisitService   *service.VisitService
}

// NewServer creates a new API server instance
func NewServer(config *config.Config, logger logger.Logger, services *Services) *Server {
	server := &Server{
		router:      chi.NewRouter(),
		logger:      logger,
		config:      config,
		baseHandler: handlers.NewBaseHandler(logger),
		services:    services,
	}

	server.setupRoutes()

	return server
}

// setupRoutes wires the middleware and routes
func (s *Server) setupRoutes() {
	projectHandler := handlers.NewProjectHandler(s.baseHandler, s.services.ProjectService)
	visitHandler := handlers.NewVisitHandler(s.baseHandler, s.services.VisitService)

	loggingMiddleware := mw.NewLoggingMiddleware(s.logger)

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(loggingMiddleware.LogRequest)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Liveness probe, no side effects
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK"}`))
	})

	s.router.Route("/projects", func(r chi.Router) {
		r.Get("/", projectHandler.ListProjects)
		r.Post("/", projectHandler.CreateProject)
		r.Get("/{id}", projectHandler.GetProject)
		r.Put("/{id}", projectHandler.UpdateProject)
		r.Post("/{id}/archive", projectHandler.ArchiveProject)
	})

	s.router.Route("/visits", func(r chi.Router) {
		r.Get("/", visitHandler.ListVisits)
		r.Post("/", visitHandler.CreateVisit)
		r.Delete("/{id}", visitHandler.DeleteVisit)
	})
}

// ServeHTTP implements the http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start runs the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting API server", map[string]interface{}{
		"port": s.config.HTTP.Port,
	})

	s.httpServer = &http.Server{
		Addr:         ":" + s.config.HTTP.Port,
		Handler:      s.router,
		ReadTimeout:  s.config.HTTP.ReadTimeout,
		WriteTimeout: s.config.HTTP.WriteTimeout,
	}

	return s.httpServer.ListenAndServe()
}

// Shutdown stops the HTTP server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
