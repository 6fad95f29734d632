package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/osint_pipeline/internal/classifier"
	"github.com/shenikar/osint_pipeline/internal/config"
	"github.com/shenikar/osint_pipeline/internal/geocoding"
	"github.com/shenikar/osint_pipeline/internal/metrics"
	"github.com/shenikar/osint_pipeline/internal/normalizer"
	"github.com/shenikar/osint_pipeline/internal/repository"
	"github.com/shenikar/osint_pipeline/internal/service"
	"github.com/shenikar/osint_pipeline/internal/source"
	"github.com/shenikar/osint_pipeline/internal/webhook"
	"github.com/shenikar/osint_pipeline/pkg/postgres"
	redisclient "github.com/shenikar/osint_pipeline/pkg/redis"
)

// app - собранные зависимости процесса
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	db       *pgxpool.Pool
	redis    *redis.Client
	registry *prometheus.Registry

	incidents service.IncidentService
	analytics service.AnalyticsService
	pipeline  service.PipelineService
}

func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	dbpool, err := postgres.NewPostgresDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Info("Successfully connected to PostgreSQL")

	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		dbpool.Close()
		return nil, err
	}
	log.Info("Successfully connected to Redis")

	registry := metrics.NewRegistry()
	pipelineMetrics, err := metrics.NewPipelineMetrics(registry)
	if err != nil {
		dbpool.Close()
		_ = redisClient.Close()
		return nil, err
	}

	// Репозитории
	incidentRepo := repository.NewIncidentRepository(dbpool, redisClient)
	feedbackRepo := repository.NewFeedbackRepository(dbpool)

	geocoder := geocoding.NewNominatim(geocoding.Options{
		BaseURL:     cfg.GeocoderURL,
		UserAgent:   cfg.GeocoderUserAgent,
		Email:       cfg.GeocoderEmail,
		MinInterval: cfg.GeocodeMinInterval,
		Timeout:     cfg.ProviderTimeout,
	})

	pipeline := service.NewPipelineService(service.PipelineDeps{
		Config: cfg,
		Sources: source.NewFactory(source.Options{
			Timeout:       cfg.ProviderTimeout,
			MinTextLength: cfg.MinTextLength,
			UserAgent:     cfg.GeocoderUserAgent,
		}),
		RawEvents:  repository.NewRawEventRepository(dbpool),
		Incidents:  incidentRepo,
		Cursors:    repository.NewCursorRepository(dbpool),
		Geocoder:   geocoder,
		Classifier: classifier.New(classifier.DefaultRules...),
		Normalizer: normalizer.New(cfg.BotAnalyst),
		Alerts:     webhook.NewRedisAlertPublisher(redisClient),
		Metrics:    pipelineMetrics,
		Logger:     log,
	})

	return &app{
		cfg:       cfg,
		log:       log,
		db:        dbpool,
		redis:     redisClient,
		registry:  registry,
		incidents: service.NewIncidentService(incidentRepo, feedbackRepo, log),
		analytics: service.NewAnalyticsService(incidentRepo, feedbackRepo, log),
		pipeline:  pipeline,
	}, nil
}

func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close Redis client")
	}
	a.db.Close()
}
