// Package uptime serves the liveness endpoints polled by hosting providers
// and uptime monitors.
package uptime

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Health is the JSON body of GET /health.
type Health struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	StartedAt string `json:"started_at"`
}

// Server answers GET / and GET /health.
type Server struct {
	name    string
	addr    string
	started time.Time
	logger  *zap.Logger
	engine  *gin.Engine
}

// NewServer creates a server for the bot called name listening on addr.
func NewServer(name, addr string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		name:    name,
		addr:    addr,
		started: time.Now(),
		logger:  logger.Named("uptime"),
		engine:  gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/health", s.handleHealth)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "%s is running", s.name)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, Health{
		Status:    "ok",
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		StartedAt: s.started.UTC().Format(time.RFC3339),
	})
}

// Run listens on the configured address until ctx is cancelled, then shuts
// the server down gracefully. It returns nil after a clean shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("uptime server listening", zap.String("addr", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down uptime server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
