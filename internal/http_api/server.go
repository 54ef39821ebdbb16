package http_api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/frkn-dev/trialgate/internal/models"
	"github.com/frkn-dev/trialgate/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout = 10 * time.Second
)

// HTTPServer serves the single /trial endpoint.
type HTTPServer struct {
	logger *logger.Logger

	router *gin.Engine
	addr   string

	server *http.Server

	trials models.TrialService
}

// corsMiddleware allows the public trial form to call the endpoint
// from any origin.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// NewHTTPServer creates a new HTTP server instance listening on addr.
func NewHTTPServer(trials models.TrialService, addr string, logger *logger.Logger) models.APIServer {
	router := gin.Default()
	router.Use(corsMiddleware())

	server := &HTTPServer{
		router: router,
		addr:   addr,
		trials: trials,
		logger: logger,
	}

	server.routes()

	return server
}

// Start starts the HTTP server
func (s *HTTPServer) Start() {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	s.logger.Info("Starting HTTP server", "address", s.addr)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Fatal("Failed to start the HTTP server: ", err)
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *HTTPServer) Shutdown() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}

	s.logger.Info("HTTP server shut down successfully")
	return nil
}
