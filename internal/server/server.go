package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/config"
)

// Server wraps the HTTP server around a configured gin engine.
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New creates a new server instance for the given engine.
func New(cfg *config.Config, router *gin.Engine) *Server {
	return &Server{
		router: router,
		http: &http.Server{
			Addr:         cfg.ServerHost + ":" + cfg.ServerPort,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start begins serving requests. It blocks until the listener fails or
// Shutdown is called.
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, waiting for in-flight
// requests up to a short deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.http.Shutdown(ctx)
}

// Router exposes the underlying engine, primarily for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
