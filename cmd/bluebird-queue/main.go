package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zackiles/bluebird-queue/internal/config"
	"github.com/zackiles/bluebird-queue/internal/handlers"
	"github.com/zackiles/bluebird-queue/internal/models"
	"github.com/zackiles/bluebird-queue/internal/server"
	"github.com/zackiles/bluebird-queue/internal/services"
	"github.com/zackiles/bluebird-queue/internal/store"
	"github.com/zackiles/bluebird-queue/internal/store/migrations"
	"github.com/zackiles/bluebird-queue/pkg/batch"
)

var version = "v0.0.0"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "bluebird-queue",
		Short:        "Bounded-concurrency batch queue service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return run(cmd.Context(), cfg)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the configuration file")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Configuration) error {
	logger, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	color.New(color.FgCyan, color.Bold).Printf("bluebird-queue %s\n", version)

	dbPath := ":memory:"
	if cfg.DataFolder != "" {
		dbPath = filepath.Join(cfg.DataFolder, "runs.db")
	}
	db, err := store.NewDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	st := store.NewStore(db)
	defer st.Close()

	runSrv := services.NewRunService(models.UnimplementedJobBuilder{}, st, batch.Options{
		Concurrency: cfg.Queue.Concurrency,
		Delay:       cfg.Queue.Delay,
		Interval:    cfg.Queue.Interval,
	})
	reportSrv := services.NewReportService(st)
	h := handlers.New(runSrv, reportSrv)

	srv := server.New(cfg, func(api *gin.RouterGroup) {
		api.POST("/runs", h.StartRun)
		api.GET("/runs", h.GetRuns)
		api.GET("/runs/export", h.ExportRuns)
		api.GET("/runs/:id", h.GetRun)
		api.PATCH("/runs/:id", h.AddJobs)
		api.POST("/runs/:id/drain", h.DrainRun)
	})

	return srv.Run(ctx)
}

func initLogger(cfg *config.Configuration) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	var zapCfg zap.Config
	if cfg.LogFormat == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
