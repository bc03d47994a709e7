package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Server wraps the HTTP listener for the workday API.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New creates a Server routing the workday API under basePath.
func New(listen, basePath string, handlers *Handlers, logger *zap.Logger) *Server {
	router := NewRouter(basePath, handlers, logger)

	co := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedOrigins: []string{"*"},
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              listen,
			Handler:           co.Handler(router),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// NewRouter builds the route table. Fixed routes are registered before the
// {date} variable route so "today" and "tomorrow" never parse as dates.
func NewRouter(basePath string, handlers *Handlers, logger *zap.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLogger(logger))

	sub := router.PathPrefix(basePath).Subrouter()
	sub.HandleFunc("", handlers.Index).Methods(http.MethodGet)
	sub.HandleFunc("/check", handlers.CheckDefault).Methods(http.MethodGet)
	sub.HandleFunc("/check/today", handlers.CheckToday).Methods(http.MethodGet)
	sub.HandleFunc("/check/tomorrow", handlers.CheckTomorrow).Methods(http.MethodGet)
	sub.HandleFunc("/check/{date}", handlers.CheckDate).Methods(http.MethodGet)

	return router
}

// Start blocks serving requests until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
