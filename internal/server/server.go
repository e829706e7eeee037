package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zackiles/bluebird-queue/internal/config"
)

const shutdownTimeout = 10 * time.Second

// RegisterRoutes attaches the API handlers to the /api/v1 group.
type RegisterRoutes func(*gin.RouterGroup)

type Server struct {
	cfg    *config.Configuration
	engine *gin.Engine
}

func New(cfg *config.Configuration, register RegisterRoutes) *Server {
	if cfg.Server.ServerMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := zap.L().Named("http")
	engine := gin.New()
	engine.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	engine.Use(ginzap.RecoveryWithZap(logger, true))

	api := engine.Group("/api/v1")
	if cfg.Auth.Enabled {
		api.Use(JWTAuth(cfg.Auth.JWTSecret))
	}
	register(api)

	return &Server{
		cfg:    cfg,
		engine: engine,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Named("server").Infow("server listening", "addr", srv.Addr, "mode", s.cfg.Server.ServerMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
