package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gocause/internal/logging"
	"gocause/ports"
)

// Server exposes the analysis engine over HTTP.
type Server struct {
	router  *chi.Mux
	service ports.AnalysisPort
	runs    ports.RunRepository
	logger  *logging.Logger
}

// NewServer creates the HTTP server. The run repository may be nil, in which
// case the run-history endpoint reports an empty list.
func NewServer(service ports.AnalysisPort, runs ports.RunRepository, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		runs:    runs,
		logger:  logger,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analysis/attribution", s.handleAttribution)
		r.Post("/analysis/root-cause", s.handleRootCause)
		r.Get("/runs", s.handleRuns)
	})
}

// Handler returns the underlying router for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server on the given port.
func (s *Server) Start(port string) error {
	addr := ":" + port
	s.logger.Info("starting analysis API server on %s", addr)
	return http.ListenAndServe(addr, s.router)
}
