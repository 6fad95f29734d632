// Package scheduler запускает прием и обогащение по расписанию cron
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shenikar/osint_pipeline/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	ingestLockKey = "osint:lock:ingest"
	enrichLockKey = "osint:lock:enrich"

	defaultLockTTL = 30 * time.Minute
)

type Options struct {
	IngestSchedule string
	EnrichSchedule string
	BatchLimit     int
	// LockTTL должен превышать самый долгий прогон
	LockTTL time.Duration
}

type Scheduler struct {
	cron     *cron.Cron
	pipeline service.PipelineService
	locker   Locker
	logger   *logrus.Logger
	opts     Options

	ctx    context.Context
	cancel context.CancelFunc
}

// New регистрирует задания. Пустое расписание отключает соответствующее задание.
// Без locker задания выполняются без межпроцессной блокировки.
func New(pipeline service.PipelineService, locker Locker, logger *logrus.Logger, opts Options) (*Scheduler, error) {
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaultLockTTL
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.PrintfLogger(logger)),
			cron.SkipIfStillRunning(cron.PrintfLogger(logger)),
		)),
		pipeline: pipeline,
		locker:   locker,
		logger:   logger,
		opts:     opts,
		ctx:      ctx,
		cancel:   cancel,
	}

	if opts.IngestSchedule != "" {
		if _, err := s.cron.AddFunc(opts.IngestSchedule, func() { s.runIngestion(s.ctx) }); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid ingest schedule %q: %w", opts.IngestSchedule, err)
		}
	}
	if opts.EnrichSchedule != "" {
		if _, err := s.cron.AddFunc(opts.EnrichSchedule, func() { s.runEnrichment(s.ctx) }); err != nil {
			cancel()
			return nil, fmt.Errorf("invalid enrich schedule %q: %w", opts.EnrichSchedule, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.WithFields(logrus.Fields{
		"ingest": s.opts.IngestSchedule,
		"enrich": s.opts.EnrichSchedule,
	}).Info("Scheduler started")
}

// Stop прерывает текущие прогоны и ждет их завершения не дольше ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	stopCtx := s.cron.Stop()
	s.cancel()

	select {
	case <-stopCtx.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) runIngestion(ctx context.Context) {
	log := s.logger.WithFields(logrus.Fields{"job": "ingest"})
	s.withLock(ctx, ingestLockKey, log, func() {
		summary, err := s.pipeline.RunIngestion(ctx)
		if err != nil {
			log.WithError(err).Error("Ingestion run failed")
			return
		}
		log.WithFields(logrus.Fields{
			"processed":  summary.Processed,
			"succeeded":  summary.Succeeded,
			"duplicates": summary.Duplicates,
			"failed":     summary.Failed,
		}).Info("Ingestion run completed")
	})
}

func (s *Scheduler) runEnrichment(ctx context.Context) {
	log := s.logger.WithFields(logrus.Fields{"job": "enrich"})
	s.withLock(ctx, enrichLockKey, log, func() {
		result, err := s.pipeline.RunEnrichment(ctx, s.opts.BatchLimit)
		if err != nil {
			log.WithError(err).Error("Enrichment run failed")
			return
		}
		log.WithFields(logrus.Fields{
			"processed": result.Processed,
			"geocoded":  result.Geocoded,
			"failed":    result.Failed,
		}).Info("Enrichment run completed")
	})
}

func (s *Scheduler) withLock(ctx context.Context, key string, log *logrus.Entry, run func()) {
	if s.locker == nil {
		run()
		return
	}

	acquired, err := s.locker.TryLock(ctx, key, s.opts.LockTTL)
	if err != nil {
		log.WithError(err).Error("Failed to acquire job lock")
		return
	}
	if !acquired {
		log.Debug("Job is running on another instance, skipping")
		return
	}
	defer func() {
		// Контекст задания может быть уже отменен при остановке
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.locker.Unlock(unlockCtx, key); err != nil {
			log.WithError(err).Warn("Failed to release job lock")
		}
	}()

	run()
}
