package service

//go:generate mockgen -source=incident.go -destination=mocks/mock_incident.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// ReviewedConfidence - уверенность после проверки аналитиком, если он не указал свою
	ReviewedConfidence = 90

	defaultPageSize = 20
	maxPageSize     = 100
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	// CreateFromRawEvent в одной транзакции создает инцидент и переводит сырое событие в normalized
	CreateFromRawEvent(ctx context.Context, incident *models.Incident, rawEventID uuid.UUID) (time.Time, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	// ListMissingCoordinates отдает инциденты без координат, сначала еще не геокодированные
	ListMissingCoordinates(ctx context.Context, limit int) ([]*models.Incident, error)
	UpdateCoordinates(ctx context.Context, id uuid.UUID, coords models.Coordinates) error
	MarkGeocodeAttempt(ctx context.Context, id uuid.UUID) error
	// ApplyReview в одной транзакции сохраняет отзыв и обновленный инцидент
	ApplyReview(ctx context.Context, incident *models.Incident, feedback *models.ClassificationFeedback) error

	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// FeedbackRepository - чтение записей проверки классификации
type FeedbackRepository interface {
	List(ctx context.Context, since time.Time) ([]*models.ClassificationFeedback, error)
	ListByIncident(ctx context.Context, incidentID uuid.UUID) ([]*models.ClassificationFeedback, error)
}

// Review - решение аналитика по инциденту
type Review struct {
	AnalystID           string
	FeedbackType        models.FeedbackType
	CorrectedCategory   *string
	CorrectedSeverity   *int
	CorrectedConfidence *int
	Notes               *string
}

// IncidentService определяет контракт бизнес-логики чтения и проверки инцидентов
type IncidentService interface {
	GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	ListIncidents(ctx context.Context, filter models.IncidentFilter, page, pageSize int) ([]*models.Incident, error)
	ReviewIncident(ctx context.Context, id uuid.UUID, review Review) (*models.ClassificationFeedback, error)
	ListFeedback(ctx context.Context, id uuid.UUID) ([]*models.ClassificationFeedback, error)
}

// ErrInvalidReview - отзыв не прошел проверку
var ErrInvalidReview = errors.New("invalid review")

type incidentService struct {
	repo     IncidentRepository
	feedback FeedbackRepository
	logger   *logrus.Logger
}

func NewIncidentService(repo IncidentRepository, feedback FeedbackRepository, logger *logrus.Logger) IncidentService {
	return &incidentService{
		repo:     repo,
		feedback: feedback,
		logger:   logger,
	}
}

// GetIncident получает инцидент по ID, сначала из кеша
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Debug("Fetching incident by ID")

	cached, err := s.repo.GetIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident cache")
	}
	if cached != nil {
		log.Debug("Incident served from cache")
		return cached, nil
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Info("Incident not found")
		} else {
			log.WithError(err).Error("Failed to get incident in repository")
		}
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// ListIncidents возвращает список инцидентов с фильтрами и пагинацией
func (s *incidentService) ListIncidents(ctx context.Context, filter models.IncidentFilter, page, pageSize int) ([]*models.Incident, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ListIncidents",
		"page":      page,
		"page_size": pageSize,
	})

	incidents, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}

	log.WithField("count", len(incidents)).Debug("Incidents listed successfully")
	return incidents, nil
}

// ReviewIncident фиксирует проверку аналитика: исходные значения классификации
// сохраняются в отзыве, исправления применяются к инциденту
func (s *incidentService) ReviewIncident(ctx context.Context, id uuid.UUID, review Review) (*models.ClassificationFeedback, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "ReviewIncident",
		"incident_id": id,
		"analyst_id":  review.AnalystID,
	})

	if err := validateReview(review); err != nil {
		log.WithError(err).Warn("Rejected invalid review")
		return nil, fmt.Errorf("service: %w", err)
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to review a non-existent incident")
		return nil, fmt.Errorf("service: could not get incident for review: %w", err)
	}

	fb := &models.ClassificationFeedback{
		IncidentID:          incident.ID,
		AnalystID:           review.AnalystID,
		FeedbackType:        review.FeedbackType,
		OriginalCategory:    incident.Category,
		OriginalSeverity:    incident.Severity,
		OriginalConfidence:  incident.Confidence,
		CorrectedCategory:   review.CorrectedCategory,
		CorrectedSeverity:   review.CorrectedSeverity,
		CorrectedConfidence: review.CorrectedConfidence,
		Notes:               review.Notes,
	}

	incident.Status = models.IncidentStatusReviewed
	if review.FeedbackType == models.FeedbackConfirmedCorrect {
		incident.Status = models.IncidentStatusConfirmed
	} else {
		if review.CorrectedCategory != nil {
			incident.Category = *review.CorrectedCategory
		}
		if review.CorrectedSeverity != nil {
			incident.Severity = *review.CorrectedSeverity
		}
	}
	incident.Confidence = ReviewedConfidence
	if review.CorrectedConfidence != nil {
		incident.Confidence = *review.CorrectedConfidence
	}
	incident.Analyst = review.AnalystID

	if err := s.repo.ApplyReview(ctx, incident, fb); err != nil {
		log.WithError(err).Error("Failed to persist review")
		return nil, fmt.Errorf("service: could not apply review: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, incident.ID); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.WithFields(logrus.Fields{
		"feedback_type": fb.FeedbackType,
		"status":        incident.Status,
	}).Info("Incident reviewed")
	return fb, nil
}

// ListFeedback возвращает историю проверок инцидента
func (s *incidentService) ListFeedback(ctx context.Context, id uuid.UUID) ([]*models.ClassificationFeedback, error) {
	records, err := s.feedback.ListByIncident(ctx, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":     "incident",
			"method":      "ListFeedback",
			"incident_id": id,
		}).WithError(err).Error("Failed to list feedback")
		return nil, fmt.Errorf("service: could not list feedback: %w", err)
	}
	return records, nil
}

func validateReview(r Review) error {
	if r.AnalystID == "" {
		return fmt.Errorf("%w: analyst id is required", ErrInvalidReview)
	}
	switch r.FeedbackType {
	case models.FeedbackConfirmedCorrect:
		if r.CorrectedCategory != nil || r.CorrectedSeverity != nil {
			return fmt.Errorf("%w: confirmed review cannot carry corrections", ErrInvalidReview)
		}
	case models.FeedbackCorrected:
		if r.CorrectedCategory == nil && r.CorrectedSeverity == nil && r.CorrectedConfidence == nil {
			return fmt.Errorf("%w: correction without corrected values", ErrInvalidReview)
		}
	default:
		return fmt.Errorf("%w: unknown feedback type %q", ErrInvalidReview, r.FeedbackType)
	}
	if r.CorrectedSeverity != nil && (*r.CorrectedSeverity < 1 || *r.CorrectedSeverity > 5) {
		return fmt.Errorf("%w: severity must be between 1 and 5", ErrInvalidReview)
	}
	if r.CorrectedConfidence != nil && (*r.CorrectedConfidence < 0 || *r.CorrectedConfidence > 100) {
		return fmt.Errorf("%w: confidence must be between 0 and 100", ErrInvalidReview)
	}
	if r.CorrectedCategory != nil && *r.CorrectedCategory == "" {
		return fmt.Errorf("%w: empty corrected category", ErrInvalidReview)
	}
	return nil
}
