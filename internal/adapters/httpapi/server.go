// Package httpapi exposes the schedule over a JSON HTTP API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/bnema/class-schedule-cli/internal/application"
	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// ScheduleService is the part of application.Service the API drives.
type ScheduleService interface {
	AddSession(ctx context.Context, fields domain.SessionFields) (domain.SessionID, error)
	UpdateSession(ctx context.Context, id domain.SessionID, fields domain.SessionFields) error
	DeleteSession(ctx context.Context, id domain.SessionID) error
	GetSession(ctx context.Context, id domain.SessionID) (domain.ClassSession, error)
	ListSessions(ctx context.Context, query application.ListQuery) ([]domain.ClassSession, error)
	Grid(ctx context.Context) (domain.Grid, error)
}

// Server serializes every request onto one ScheduleService, which is not
// safe for concurrent use.
type Server struct {
	service ScheduleService
	logger  *zap.Logger
	mu      sync.Mutex
}

func NewServer(service ScheduleService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{service: service, logger: logger}
}

// Handler builds the gin engine with every route mounted.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.setupRoutes(r)
	return r
}

func (s *Server) setupRoutes(r *gin.Engine) {
	r.GET("/healthz", s.handleHealthCheck)

	sessions := r.Group("/sessions")
	sessions.POST("", s.handleAddSession)
	sessions.GET("", s.handleListSessions)
	sessions.GET("/:id", s.handleGetSession)
	sessions.PUT("/:id", s.handleUpdateSession)
	sessions.DELETE("/:id", s.handleDeleteSession)

	r.GET("/grid", s.handleGrid)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(started)),
		)
	}
}
