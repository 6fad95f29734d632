package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/shenikar/osint_pipeline/docs"
	"github.com/shenikar/osint_pipeline/internal/config"
	v1 "github.com/shenikar/osint_pipeline/internal/handler/http/v1"
	"github.com/shenikar/osint_pipeline/internal/metrics"
	"github.com/shenikar/osint_pipeline/internal/scheduler"
	"github.com/shenikar/osint_pipeline/internal/webhook"
	"github.com/shenikar/osint_pipeline/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the scheduler and the alert worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Загрузка конфигурации
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			log := logger.New(cfg.LogLevel)

			// Контекст для graceful shutdown
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if err := runMigrations(cfg, log); err != nil {
				return err
			}

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			// Воркер доставки алертов
			alertWorker := webhook.NewAlertWorker(a.redis, log, cfg)
			alertWorker.Start(ctx)

			sched, err := scheduler.New(a.pipeline, scheduler.NewRedisLocker(a.redis), log, scheduler.Options{
				IngestSchedule: cfg.IngestSchedule,
				EnrichSchedule: cfg.EnrichSchedule,
				BatchLimit:     cfg.GeocodeBatchLimit,
			})
			if err != nil {
				return err
			}
			sched.Start()

			handler := v1.NewHandler(a.incidents, a.analytics, a.pipeline, log, cfg)

			// Настройка Gin роутера
			router := gin.Default()
			api := router.Group("/api/v1")
			handler.RegisterRoutes(api)

			router.GET("/metrics", gin.WrapH(metrics.Handler(a.registry)))
			router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()
			log.Infof("HTTP server started on port %s", cfg.HTTPPort)

			// Graceful shutdown
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-quit:
				log.Info("Received shutdown signal, shutting down server...")
			case err := <-serverErr:
				log.WithError(err).Error("HTTP server failed")
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.WithError(err).Error("Server forced to shutdown")
			}
			if err := sched.Stop(shutdownCtx); err != nil {
				log.WithError(err).Warn("Scheduler did not stop in time")
			}

			cancel()
			select {
			case <-alertWorker.Done():
			case <-shutdownCtx.Done():
				log.Warn("Alert worker did not stop in time")
			}

			log.Info("Server gracefully stopped")
			return nil
		},
	}
}
