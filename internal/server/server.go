// Package server provides the HTTP server: router, middleware chain, and
// route table.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/lexel/strdb/internal/config"
	apperrors "github.com/lexel/strdb/internal/errors"
	"github.com/lexel/strdb/internal/handler"
	"github.com/lexel/strdb/internal/health"
	"github.com/lexel/strdb/internal/metrics"
	"github.com/lexel/strdb/internal/middleware"
	"github.com/lexel/strdb/internal/store"
	"github.com/lexel/strdb/internal/validation"
)

// Server represents the HTTP server.
type Server struct {
	router       *mux.Router
	httpServer   *http.Server
	handlers     *handler.Handlers
	healthCheck  *health.HealthCheck
	errorHandler *apperrors.Handler
	metrics      *metrics.Metrics
	logger       *zap.Logger
	cfg          *config.Config
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Config, st store.RecordStore, m *metrics.Metrics, logger *zap.Logger) *Server {
	router := mux.NewRouter()
	errorHandler := apperrors.NewHandler(logger)
	validator := validation.NewValidatorWithLimits(cfg.Limits.MaxStringLength)
	handlers := handler.NewHandlers(st, validator, errorHandler, m, logger)
	healthCheck := health.NewHealthCheck(st, logger)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		router:       router,
		httpServer:   httpServer,
		handlers:     handlers,
		healthCheck:  healthCheck,
		errorHandler: errorHandler,
		metrics:      m,
		logger:       logger,
		cfg:          cfg,
	}
}

// SetupRoutes configures all HTTP routes.
func (s *Server) SetupRoutes() {
	middlewareChain := []func(http.Handler) http.Handler{
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logging(s.logger),
		middleware.CORS([]string{"*"}),
		middleware.SecurityHeaders,
	}

	if s.cfg.Metrics.Enabled {
		middlewareChain = append(middlewareChain, metrics.MetricsMiddleware(s.metrics))
	}

	if s.cfg.RateLimiter.Enabled {
		rateLimiter := middleware.NewRateLimiter(
			s.cfg.RateLimiter.RequestsPerSecond,
			s.cfg.RateLimiter.BurstSize,
			s.logger,
		)
		middlewareChain = append(middlewareChain, rateLimiter.Limit)
	}

	chain := middleware.Chain(middlewareChain...)
	s.router.Use(func(next http.Handler) http.Handler {
		return chain(next)
	})

	// Health check endpoints
	s.router.HandleFunc("/health", s.healthCheck.LivenessHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/ready", s.healthCheck.ReadinessHandler).Methods(http.MethodGet)

	// API v1 routes
	v1 := s.router.PathPrefix("/v1").Subrouter()

	// String records
	v1.HandleFunc("/strings", s.handlers.CreateString).Methods(http.MethodPost)
	v1.HandleFunc("/strings", s.handlers.ListStrings).Methods(http.MethodGet)
	v1.HandleFunc("/strings", s.handlers.DeleteStringByValue).Methods(http.MethodDelete)
	v1.HandleFunc("/strings/{id}", s.handlers.GetString).Methods(http.MethodGet)
	v1.HandleFunc("/strings/{id}", s.handlers.DeleteString).Methods(http.MethodDelete)

	// Natural-language query
	v1.HandleFunc("/query", s.handlers.QueryStrings).Methods(http.MethodPost)

	// Not found handler
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		s.errorHandler.WriteErrorResponse(w, http.StatusNotFound, apperrors.CodeInvalidInput, "endpoint not found", requestID)
	})

	// Method not allowed handler. mux resolves this per router, so the
	// subrouter needs its own copy for the /v1 routes to reach it.
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		s.errorHandler.WriteErrorResponse(w, http.StatusMethodNotAllowed, apperrors.CodeInvalidInput, "method not allowed", requestID)
	})
	s.router.MethodNotAllowedHandler = methodNotAllowed
	v1.MethodNotAllowedHandler = methodNotAllowed
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		zap.Int("port", s.cfg.Server.Port),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server and stops the health probe.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	s.healthCheck.Stop()
	return s.httpServer.Shutdown(ctx)
}

// GetHandler returns the http.Handler for the server, for tests.
func (s *Server) GetHandler() http.Handler {
	return s.router
}
