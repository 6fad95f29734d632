package service

//go:generate mockgen -source=pipeline.go -destination=mocks/mock_pipeline.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/osint_pipeline/internal/classifier"
	"github.com/shenikar/osint_pipeline/internal/config"
	"github.com/shenikar/osint_pipeline/internal/hashing"
	"github.com/shenikar/osint_pipeline/internal/metrics"
	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/shenikar/osint_pipeline/internal/normalizer"
	"github.com/shenikar/osint_pipeline/internal/source"
	"github.com/shenikar/osint_pipeline/internal/webhook"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// pendingRetryLimit - сколько зависших в статусе raw событий добирается за один запуск
const pendingRetryLimit = 100

// RawEventRepository - промежуточное хранилище сырых событий
type RawEventRepository interface {
	ExistsByHash(ctx context.Context, hash string) (bool, error)
	// Create возвращает models.ErrDuplicateContent при нарушении уникальности хэша
	Create(ctx context.Context, event *models.RawEvent) error
	MarkRejected(ctx context.Context, id uuid.UUID, reason string) error
	ListPending(ctx context.Context, limit int) ([]*models.RawEvent, error)
}

// CursorRepository хранит курсоры источников между запусками
type CursorRepository interface {
	Get(ctx context.Context, sourceKey string) (string, error)
	Save(ctx context.Context, sourceKey, cursor string) error
}

// Geocoder - провайдер геокодирования. nil без ошибки - пустой результат
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*models.Coordinates, error)
}

// PipelineService - пакетные задачи приема и обогащения
type PipelineService interface {
	RunIngestion(ctx context.Context) (*RunSummary, error)
	RunEnrichment(ctx context.Context, batchLimit int) (*EnrichResult, error)
}

// SourceSummary - итог обработки одного источника
type SourceSummary struct {
	Source     string `json:"source"`
	Fetched    int    `json:"fetched"`
	Skipped    int    `json:"skipped"`
	Duplicates int    `json:"duplicates"`
	Normalized int    `json:"normalized"`
	Rejected   int    `json:"rejected"`
	Failed     int    `json:"failed"`
	Cursor     string `json:"cursor,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RunSummary - структурированный итог запуска приема
type RunSummary struct {
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Processed  int             `json:"processed"`
	Succeeded  int             `json:"succeeded"`
	Duplicates int             `json:"duplicates"`
	Skipped    int             `json:"skipped"`
	Rejected   int             `json:"rejected"`
	Failed     int             `json:"failed"`
	Retried    int             `json:"retried"`
	Sources    []SourceSummary `json:"sources"`
	Errors     []string        `json:"errors"`
}

// EnrichResult - итог пакета геокодирования
type EnrichResult struct {
	Processed int `json:"processed"`
	Geocoded  int `json:"geocoded"`
	Failed    int `json:"failed"`
}

type outcome int

const (
	outcomeNormalized outcome = iota
	outcomeDuplicate
	outcomeRejected
	// outcomeFailed - событие сохранено как raw, но инцидент не создан
	outcomeFailed
	// outcomeNotStaged - событие не попало в хранилище, курсор двигать нельзя
	outcomeNotStaged
)

type pipelineService struct {
	cfg        *config.Config
	newSource  source.Factory
	rawEvents  RawEventRepository
	incidents  IncidentRepository
	cursors    CursorRepository
	geocoder   Geocoder
	classifier *classifier.Classifier
	normalizer *normalizer.Normalizer
	alerts     webhook.AlertPublisher
	metrics    *metrics.PipelineMetrics
	logger     *logrus.Logger
	now        func() time.Time
}

// PipelineDeps - зависимости конвейера. Alerts, Metrics и Geocoder могут быть nil
type PipelineDeps struct {
	Config     *config.Config
	Sources    source.Factory
	RawEvents  RawEventRepository
	Incidents  IncidentRepository
	Cursors    CursorRepository
	Geocoder   Geocoder
	Classifier *classifier.Classifier
	Normalizer *normalizer.Normalizer
	Alerts     webhook.AlertPublisher
	Metrics    *metrics.PipelineMetrics
	Logger     *logrus.Logger
}

func NewPipelineService(d PipelineDeps) PipelineService {
	if d.Classifier == nil {
		d.Classifier = classifier.New(classifier.DefaultRules...)
	}
	if d.Normalizer == nil {
		d.Normalizer = normalizer.New(d.Config.BotAnalyst)
	}
	return &pipelineService{
		cfg:        d.Config,
		newSource:  d.Sources,
		rawEvents:  d.RawEvents,
		incidents:  d.Incidents,
		cursors:    d.Cursors,
		geocoder:   d.Geocoder,
		classifier: d.Classifier,
		normalizer: d.Normalizer,
		alerts:     d.Alerts,
		metrics:    d.Metrics,
		logger:     d.Logger,
		now:        time.Now,
	}
}

// RunIngestion выполняет один цикл приема по всем источникам.
// Ошибка возвращается только при неверной конфигурации, до обработки первого элемента;
// сбои отдельных источников и элементов попадают в RunSummary.Errors.
func (s *pipelineService) RunIngestion(ctx context.Context) (*RunSummary, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "pipeline",
		"method":  "RunIngestion",
	})

	sources, err := s.buildSources()
	if err != nil {
		log.WithError(err).Error("Ingestion aborted: invalid source configuration")
		return nil, fmt.Errorf("service: invalid source configuration: %w", err)
	}

	summary := &RunSummary{
		StartedAt: s.now().UTC(),
		Sources:   make([]SourceSummary, len(sources)),
		Errors:    []string{},
	}
	log.WithField("sources", len(sources)).Info("Ingestion run started")

	s.retryPending(ctx, summary)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(s.cfg.IngestConcurrency)
	for i, src := range sources {
		g.Go(func() error {
			res, errs := s.ingestSource(ctx, src)
			mu.Lock()
			summary.Sources[i] = res
			summary.Errors = append(summary.Errors, errs...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	for _, src := range summary.Sources {
		summary.Processed += src.Fetched
		summary.Succeeded += src.Normalized
		summary.Duplicates += src.Duplicates
		summary.Skipped += src.Skipped
		summary.Rejected += src.Rejected
		summary.Failed += src.Failed
	}
	summary.FinishedAt = s.now().UTC()
	s.metrics.ObserveRun(summary.FinishedAt.Sub(summary.StartedAt))

	log.WithFields(logrus.Fields{
		"processed":  summary.Processed,
		"succeeded":  summary.Succeeded,
		"duplicates": summary.Duplicates,
		"rejected":   summary.Rejected,
		"failed":     summary.Failed,
		"errors":     len(summary.Errors),
	}).Info("Ingestion run finished")
	return summary, nil
}

func (s *pipelineService) buildSources() ([]source.Source, error) {
	var errs []error
	sources := make([]source.Source, 0, len(s.cfg.Sources))
	for _, sc := range s.cfg.Sources {
		src, err := s.newSource(sc)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sc.Key(), err))
			continue
		}
		sources = append(sources, src)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return sources, nil
}

// retryPending добирает события, оставшиеся в raw после сбоя записи инцидента
func (s *pipelineService) retryPending(ctx context.Context, summary *RunSummary) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "pipeline",
		"method":  "retryPending",
	})

	pending, err := s.rawEvents.ListPending(ctx, pendingRetryLimit)
	if err != nil {
		log.WithError(err).Error("Failed to list pending raw events")
		summary.Errors = append(summary.Errors, fmt.Sprintf("pending: %v", err))
		return
	}
	for _, raw := range pending {
		res, err := s.normalizeRaw(ctx, raw)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("pending %s: %v", raw.ID, err))
		}
		if res == outcomeNormalized || res == outcomeRejected {
			summary.Retried++
		}
	}
	if len(pending) > 0 {
		log.WithFields(logrus.Fields{
			"pending": len(pending),
			"retried": summary.Retried,
		}).Info("Pending raw events reprocessed")
	}
}

// ingestSource опрашивает один источник. Курсор сохраняется только после
// успешного Ack, а Ack выполняется, только если все элементы записаны в хранилище.
func (s *pipelineService) ingestSource(ctx context.Context, src source.Source) (SourceSummary, []string) {
	sc := src.Config()
	key := sc.Key()
	res := SourceSummary{Source: key}
	var errs []string
	fail := func(err error) {
		errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		s.metrics.SourceError(key)
	}

	log := s.logger.WithFields(logrus.Fields{
		"service": "pipeline",
		"method":  "ingestSource",
		"source":  key,
	})

	cursor, err := s.cursors.Get(ctx, key)
	if err != nil {
		log.WithError(err).Error("Failed to load source cursor")
		fail(err)
		res.Error = err.Error()
		return res, errs
	}
	res.Cursor = cursor

	batch, err := src.Fetch(ctx, cursor)
	if err != nil {
		var perr *source.ProviderError
		if errors.As(err, &perr) && perr.Soft() {
			log.WithError(err).Warn("Source unavailable, skipping")
		} else {
			log.WithError(err).Warn("Failed to fetch source")
		}
		fail(err)
		res.Error = err.Error()
		return res, errs
	}

	res.Fetched = len(batch.Items)
	res.Skipped = batch.Skipped
	for i := 0; i < batch.Skipped; i++ {
		s.metrics.ItemProcessed(key, metrics.OutcomeSkipped)
	}

	staged := true
	for _, item := range batch.Items {
		out, err := s.processItem(ctx, sc, item)
		if err != nil {
			fail(err)
		}
		switch out {
		case outcomeNormalized:
			res.Normalized++
			s.metrics.ItemProcessed(key, metrics.OutcomeNormalized)
		case outcomeDuplicate:
			res.Duplicates++
			s.metrics.ItemProcessed(key, metrics.OutcomeDuplicate)
		case outcomeRejected:
			res.Rejected++
			s.metrics.ItemProcessed(key, metrics.OutcomeRejected)
		case outcomeFailed:
			res.Failed++
			s.metrics.ItemProcessed(key, metrics.OutcomeFailed)
		case outcomeNotStaged:
			res.Failed++
			staged = false
			s.metrics.ItemProcessed(key, metrics.OutcomeFailed)
		}
	}

	switch {
	case !staged:
		log.Warn("Not all items were staged, cursor is not advanced")
	case batch.NextCursor != "" && batch.NextCursor != cursor:
		if err := src.Ack(ctx, batch.NextCursor); err != nil {
			log.WithError(err).Warn("Failed to acknowledge consumed items")
			fail(fmt.Errorf("ack: %w", err))
			break
		}
		if err := s.cursors.Save(ctx, key, batch.NextCursor); err != nil {
			log.WithError(err).Error("Failed to save source cursor")
			fail(err)
			break
		}
		res.Cursor = batch.NextCursor
	}

	log.WithFields(logrus.Fields{
		"fetched":    res.Fetched,
		"normalized": res.Normalized,
		"duplicates": res.Duplicates,
		"rejected":   res.Rejected,
		"failed":     res.Failed,
	}).Info("Source processed")
	if len(errs) > 0 {
		res.Error = errs[0]
	}
	return res, errs
}

// processItem проходит дедупликацию, запись сырого события и нормализацию
func (s *pipelineService) processItem(ctx context.Context, sc config.SourceConfig, item source.Item) (outcome, error) {
	hash := hashing.ContentHash(sc.Key(), item.ID, item.Text)

	exists, err := s.rawEvents.ExistsByHash(ctx, hash)
	if err != nil {
		return outcomeNotStaged, fmt.Errorf("dedup check for item %s: %w", item.ID, err)
	}
	if exists {
		return outcomeDuplicate, nil
	}

	payload, err := json.Marshal(models.RawPayload{
		ItemID:      item.ID,
		Text:        item.Text,
		Published:   item.Published,
		Region:      sc.Region,
		Country:     sc.Country,
		Subdivision: sc.Subdivision,
		Location:    sc.Location,
		Extra:       item.Extra,
	})
	if err != nil {
		return outcomeNotStaged, fmt.Errorf("encode item %s: %w", item.ID, err)
	}

	label := item.Label
	if label == "" {
		label = sc.Label
	}
	raw := &models.RawEvent{
		SourceType:  sc.Type,
		SourceLabel: label,
		SourceURL:   item.URL,
		RawPayload:  payload,
		ContentHash: hash,
		Status:      models.RawEventStatusRaw,
	}
	if err := s.rawEvents.Create(ctx, raw); err != nil {
		if errors.Is(err, models.ErrDuplicateContent) {
			// параллельный запуск успел записать тот же хэш
			return outcomeDuplicate, nil
		}
		return outcomeNotStaged, fmt.Errorf("stage item %s: %w", item.ID, err)
	}

	return s.normalizeRaw(ctx, raw)
}

// normalizeRaw классифицирует и нормализует записанное сырое событие
func (s *pipelineService) normalizeRaw(ctx context.Context, raw *models.RawEvent) (outcome, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "pipeline",
		"method":       "normalizeRaw",
		"raw_event_id": raw.ID,
	})

	payload, err := normalizer.DecodePayload(raw)
	if err != nil {
		return s.reject(ctx, raw, err)
	}
	incident, err := s.normalizer.Normalize(raw, s.classifier.Classify(payload.Text))
	if err != nil {
		return s.reject(ctx, raw, err)
	}

	normalizedAt, err := s.incidents.CreateFromRawEvent(ctx, incident, raw.ID)
	if err != nil {
		if errors.Is(err, models.ErrAlreadyProcessed) {
			return outcomeDuplicate, nil
		}
		log.WithError(err).Error("Failed to persist incident, raw event stays raw")
		return outcomeFailed, fmt.Errorf("persist incident for raw event %s: %w", raw.ID, err)
	}
	raw.Status = models.RawEventStatusNormalized
	raw.IncidentID = &incident.ID
	raw.NormalizedAt = &normalizedAt

	log.WithFields(logrus.Fields{
		"incident_id": incident.ID,
		"category":    incident.Category,
		"severity":    incident.Severity,
	}).Debug("Raw event normalized")

	if s.alerts != nil && incident.Severity >= s.cfg.AlertMinSeverity {
		if err := s.alerts.Publish(ctx, webhook.NewAlertEvent(incident)); err != nil {
			log.WithError(err).Warn("Failed to publish incident alert")
		}
	}
	return outcomeNormalized, nil
}

func (s *pipelineService) reject(ctx context.Context, raw *models.RawEvent, cause error) (outcome, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":      "pipeline",
		"method":       "reject",
		"raw_event_id": raw.ID,
	})
	log.WithError(cause).Warn("Raw event rejected")

	if err := s.rawEvents.MarkRejected(ctx, raw.ID, cause.Error()); err != nil {
		log.WithError(err).Error("Failed to mark raw event rejected")
		return outcomeFailed, fmt.Errorf("reject raw event %s: %w", raw.ID, err)
	}
	raw.Status = models.RawEventStatusRejected
	return outcomeRejected, nil
}

// RunEnrichment геокодирует инциденты без координат. Пауза между запросами
// обеспечивается самим Geocoder; сбой на одном инциденте не прерывает пакет.
func (s *pipelineService) RunEnrichment(ctx context.Context, batchLimit int) (*EnrichResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "pipeline",
		"method":  "RunEnrichment",
	})
	if s.geocoder == nil {
		return nil, errors.New("service: geocoder is not configured")
	}

	if batchLimit <= 0 {
		batchLimit = s.cfg.GeocodeBatchLimit
	}
	batchLimit = config.ClampBatchLimit(batchLimit)

	incidents, err := s.incidents.ListMissingCoordinates(ctx, batchLimit)
	if err != nil {
		log.WithError(err).Error("Failed to select incidents without coordinates")
		return nil, fmt.Errorf("service: could not list incidents for enrichment: %w", err)
	}

	res := &EnrichResult{}
	for _, inc := range incidents {
		if ctx.Err() != nil {
			log.Warn("Enrichment interrupted")
			break
		}
		res.Processed++
		ilog := log.WithField("incident_id", inc.ID)

		query := GeocodeQuery(inc)
		if query == "" {
			res.Failed++
			s.metrics.GeocodeRequest(metrics.GeocodeNotFound)
			ilog.Debug("Incident has no location fields")
			s.markAttempt(ctx, ilog, inc.ID)
			continue
		}

		coords, err := s.geocoder.Geocode(ctx, query)
		if err != nil {
			res.Failed++
			s.metrics.GeocodeRequest(metrics.GeocodeError)
			ilog.WithError(err).Warn("Geocoding failed")
			s.markAttempt(ctx, ilog, inc.ID)
			continue
		}
		if coords == nil {
			res.Failed++
			s.metrics.GeocodeRequest(metrics.GeocodeNotFound)
			ilog.WithField("query", query).Debug("No geocoding result")
			s.markAttempt(ctx, ilog, inc.ID)
			continue
		}
		s.metrics.GeocodeRequest(metrics.GeocodeFound)

		if err := s.incidents.UpdateCoordinates(ctx, inc.ID, *coords); err != nil {
			res.Failed++
			ilog.WithError(err).Error("Failed to write coordinates")
			continue
		}
		if err := s.incidents.InvalidateIncidentCache(ctx, inc.ID); err != nil {
			ilog.WithError(err).Warn("Failed to invalidate incident cache")
		}
		res.Geocoded++
	}

	log.WithFields(logrus.Fields{
		"processed": res.Processed,
		"geocoded":  res.Geocoded,
		"failed":    res.Failed,
	}).Info("Enrichment batch finished")
	return res, nil
}

// GeocodeQuery собирает запрос из location, subdivision и country, пропуская пустые поля
func GeocodeQuery(inc *models.Incident) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{inc.Location, inc.Subdivision, inc.Country} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

func (s *pipelineService) markAttempt(ctx context.Context, log *logrus.Entry, id uuid.UUID) {
	if err := s.incidents.MarkGeocodeAttempt(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to record geocoding attempt")
	}
}
