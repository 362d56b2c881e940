// Package server exposes the todo list over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/felixge/httpsnoop"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/idilsaglam/todo/internal/coord"
)

type Options struct {
	CORSOrigins []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type Server struct {
	guard  *coord.Guard
	logger *log.Logger
	opts   Options
	router *gin.Engine
}

func New(guard *coord.Guard, logger *log.Logger, opts Options) *Server {
	s := &Server{guard: guard, logger: logger, opts: opts}
	s.router = newRouter(opts, NewTodoHandler(guard, logger))
	return s
}

// Handler returns the router wrapped with request logging.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(s.router, w, r)
		s.logger.Info("handled",
			"method", r.Method,
			"url", r.URL.String(),
			"status", m.Code,
			"duration", m.Duration,
			"bytes", m.Written,
		)
	})
}

// Run serves on addr until ctx is done, then shuts down and flushes the list.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	timeout := s.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := s.guard.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func newRouter(opts Options, h *TodoHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	registerRoutes(r, h)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func registerRoutes(r *gin.Engine, h *TodoHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/list", h.List)
	r.GET("/add", h.Add)
	r.POST("/add", h.Add)
	r.GET("/remove", h.Remove)
}
