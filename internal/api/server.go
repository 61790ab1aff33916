// Package api exposes the section output over HTTP as JSON. The surface is
// read-only: listing, adapted sections, and deferred related-resource
// resolution. Action execution stays in the terminal client.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ksight-io/ksight/internal/adapters"
	"github.com/ksight-io/ksight/internal/k8s"
	"github.com/ksight-io/ksight/internal/logging"
)

// Server serves the JSON API over one registry and one cluster client.
type Server struct {
	registry *adapters.Registry
	lister   k8s.Lister
	getter   k8s.Getter
	addr     string
}

// NewServer wires the API over the given registry and cluster access. The
// lister and getter are typically the same *k8s.Client.
func NewServer(registry *adapters.Registry, lister k8s.Lister, getter k8s.Getter, addr string) *Server {
	return &Server{
		registry: registry,
		lister:   lister,
		getter:   getter,
		addr:     addr,
	}
}

// Router builds the gin engine with middleware and routes. Exposed so tests
// can drive it through httptest without binding a port.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	r.Use(cors.New(corsConfig))

	r.GET("/api/kinds", s.handleKinds)
	r.GET("/api/resources/:kind", s.handleList)
	r.GET("/api/resources/:kind/:name/sections", s.handleSections)
	r.GET("/api/resources/:kind/:name/related/:section", s.handleRelated)

	return r
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	errC := make(chan error, 1)
	go func() {
		logging.Info("API server listening", "addr", s.addr)
		errC <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// requestLogger emits one structured line per request through the shared
// logger instead of gin's default writer.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client", c.ClientIP())
	}
}
