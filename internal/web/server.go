// Package web serves chart layouts as JSON for browser renderers.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/gantt/internal/column"
	"github.com/alexanderramin/gantt/internal/service"
)

// Deps are the collaborators of the server.
type Deps struct {
	Layout  service.LayoutService
	Tasks   service.TaskService
	Columns []column.Column

	// Defaults for layout requests that leave them out.
	EndYear         int
	WeekColumnWidth float64

	Logger *slog.Logger
}

// Server is the JSON API server.
type Server struct {
	deps   Deps
	logger *slog.Logger
	router *gin.Engine
}

func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(deps.Columns) == 0 {
		deps.Columns = column.Defaults()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{deps: deps, logger: logger, router: router}

	api := router.Group("/api")
	{
		api.GET("/layout", s.handleLayout)
		api.GET("/columns", s.handleColumns)

		api.GET("/tasks", s.handleListTasks)
		api.GET("/tasks/:id", s.handleGetTask)
		api.POST("/tasks", s.handleCreateTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)

		api.POST("/expanded/toggle", s.handleToggle)
		api.POST("/expanded/expand-all", s.handleExpandAll)
		api.POST("/expanded/collapse-all", s.handleCollapseAll)
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("serving chart api", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		level := slog.LevelDebug
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "http_request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
