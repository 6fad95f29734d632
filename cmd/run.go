package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shenikar/osint_pipeline/internal/config"
	"github.com/shenikar/osint_pipeline/pkg/logger"
)

// oneShot готовит окружение одноразовой команды: логи уходят в stderr, результат в stdout
func oneShot(cmd *cobra.Command, migrate bool, run func(ctx context.Context, a *app) (any, error)) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.NewWithOutput(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if migrate {
		if err := runMigrations(cfg, log); err != nil {
			return err
		}
	}

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := run(ctx, a)
	if err != nil {
		log.WithError(err).Error("Command failed")
		return err
	}
	return printJSON(result, log)
}

func printJSON(v any, log *logrus.Logger) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode result")
		return err
	}
	return nil
}

func ingestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Run one ingestion cycle over all configured sources and print the summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return oneShot(cmd, true, func(ctx context.Context, a *app) (any, error) {
				return a.pipeline.RunIngestion(ctx)
			})
		},
	}
}

func enrichCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Geocode one batch of incidents without coordinates and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			return oneShot(cmd, false, func(ctx context.Context, a *app) (any, error) {
				return a.pipeline.RunEnrichment(ctx, limit)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "batch size, defaults to GEOCODE_BATCH_LIMIT and is capped at 100")
	return cmd
}
