package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mammothos/mamoart-backend/internal/api/middleware"
	"github.com/mammothos/mamoart-backend/internal/api/rest"
	"github.com/mammothos/mamoart-backend/internal/logger"
	"github.com/mammothos/mamoart-backend/internal/ws"
)

// Config holds the server configuration
type Config struct {
	Debug          bool
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

// Server wraps the HTTP server
type Server struct {
	config     Config
	handler    rest.Handler
	hub        *ws.Hub
	httpServer *http.Server
}

// New creates a new API server
func New(cfg Config, handler rest.Handler, hub *ws.Hub) *Server {
	return &Server{
		config:  cfg,
		handler: handler,
		hub:     hub,
	}
}

// Handler builds the root HTTP handler.
// WebSocket upgrades on any path go to the hub and never reach the REST middleware.
func (s *Server) Handler() http.Handler {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Setup middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(s.config.AllowedOrigins))

	// Setup REST routes
	rest.SetupRoutes(router, s.handler)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ws.IsUpgrade(r) {
			s.hub.ServeWS(w, r)
			return
		}
		router.ServeHTTP(w, r)
	})
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
	)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown stops accepting requests, then closes every real-time connection
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	var errs []error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown server: %w", err))
		}
	}

	// Hijacked connections are not tracked by http.Server
	if err := s.hub.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shutdown hub: %w", err))
	}

	return errors.Join(errs...)
}
