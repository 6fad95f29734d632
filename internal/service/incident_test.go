package service_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/shenikar/osint_pipeline/internal/service"
	"github.com/shenikar/osint_pipeline/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах
	return logger
}

// newTestIncidentService - вспомогательная функция для создания сервиса с моками
func newTestIncidentService(t *testing.T) (service.IncidentService, *mocks.MockIncidentRepository, *mocks.MockFeedbackRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	feedbackMock := mocks.NewMockFeedbackRepository(ctrl)

	return service.NewIncidentService(repoMock, feedbackMock, testLogger()), repoMock, feedbackMock
}

func aiIncident(id uuid.UUID) *models.Incident {
	return &models.Incident{
		ID:         id,
		Title:      "Armed group attacks checkpoint near border town",
		Category:   "terrorism",
		Severity:   5,
		Confidence: 30,
		Status:     models.IncidentStatusAI,
		Analyst:    "osint-bot",
		Sources:    []string{"https://t.me/borderwatch/42"},
		Datetime:   time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestGetIncident_Success_FromCache(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expectedIncident := aiIncident(incidentID)

	// Ожидания
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(expectedIncident, nil).
		Times(1)

	// Действие
	incident, err := svc.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_Success_FromDB(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expectedIncident := aiIncident(incidentID)

	// Ожидания
	// 1. Промах кеша
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(nil, nil).
		Times(1)

	// 2. Попадание в БД
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(expectedIncident, nil).
		Times(1)

	// 3. Запись в кеш
	repoMock.EXPECT().
		SetIncidentCache(ctx, expectedIncident).
		Return(nil).
		Times(1)

	// Действие
	incident, err := svc.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_CacheErrorFallsBackToDB(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expectedIncident := aiIncident(incidentID)

	// Ожидания
	repoMock.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(nil, errors.New("redis down"))
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(expectedIncident, nil)
	repoMock.EXPECT().SetIncidentCache(ctx, expectedIncident).Return(errors.New("redis down"))

	// Действие
	incident, err := svc.GetIncident(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_NotFound(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(nil, nil).
		Times(1)
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(nil, fmt.Errorf("incident with id %s: %w", incidentID, models.ErrNotFound)).
		Times(1)

	// Действие
	incident, err := svc.GetIncident(ctx, incidentID)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorContains(t, err, "could not get incident")
}

func TestListIncidents_Pagination(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	expected := []*models.Incident{aiIncident(uuid.New())}

	// Ожидания: страница 2 по 10 => смещение 10, фильтр передается как есть
	repoMock.EXPECT().
		List(ctx, models.IncidentFilter{Category: "terrorism", Limit: 10, Offset: 10}).
		Return(expected, nil).
		Times(1)

	// Действие
	incidents, err := svc.ListIncidents(ctx, models.IncidentFilter{Category: "terrorism"}, 2, 10)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, incidents)
}

func TestListIncidents_DefaultsAndErrors(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()

	// Ожидания: некорректные page/pageSize заменяются значениями по умолчанию
	repoMock.EXPECT().
		List(ctx, models.IncidentFilter{Limit: 20, Offset: 0}).
		Return(nil, errors.New("db down")).
		Times(1)

	// Действие
	incidents, err := svc.ListIncidents(ctx, models.IncidentFilter{}, 0, 500)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incidents)
	assert.ErrorContains(t, err, "could not list incidents")
}

func TestReviewIncident_Confirmed(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	notes := "matches local reporting"

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(aiIncident(incidentID), nil)
	repoMock.EXPECT().
		ApplyReview(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident, fb *models.ClassificationFeedback) error {
			assert.Equal(t, models.IncidentStatusConfirmed, inc.Status)
			assert.Equal(t, service.ReviewedConfidence, inc.Confidence)
			assert.Equal(t, "terrorism", inc.Category)
			assert.Equal(t, 5, inc.Severity)
			assert.Equal(t, "analyst-7", inc.Analyst)

			assert.Equal(t, incidentID, fb.IncidentID)
			assert.Equal(t, "terrorism", fb.OriginalCategory)
			assert.Equal(t, 5, fb.OriginalSeverity)
			assert.Equal(t, 30, fb.OriginalConfidence)
			fb.ID = uuid.New()
			return nil
		})
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incidentID).Return(nil)

	// Действие
	fb, err := svc.ReviewIncident(ctx, incidentID, service.Review{
		AnalystID:    "analyst-7",
		FeedbackType: models.FeedbackConfirmedCorrect,
		Notes:        &notes,
	})

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackConfirmedCorrect, fb.FeedbackType)
	assert.NotEqual(t, uuid.Nil, fb.ID)
	assert.Equal(t, &notes, fb.Notes)
}

func TestReviewIncident_Corrected(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	category := "armed_conflict"
	severity := 3
	confidence := 75

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(aiIncident(incidentID), nil)
	repoMock.EXPECT().
		ApplyReview(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, inc *models.Incident, fb *models.ClassificationFeedback) error {
			assert.Equal(t, models.IncidentStatusReviewed, inc.Status)
			assert.Equal(t, category, inc.Category)
			assert.Equal(t, severity, inc.Severity)
			assert.Equal(t, confidence, inc.Confidence)

			// исходные значения сохраняются в отзыве
			assert.Equal(t, "terrorism", fb.OriginalCategory)
			assert.Equal(t, 5, fb.OriginalSeverity)
			assert.Equal(t, &severity, fb.CorrectedSeverity)
			return nil
		})
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incidentID).Return(nil)

	// Действие
	_, err := svc.ReviewIncident(ctx, incidentID, service.Review{
		AnalystID:           "analyst-7",
		FeedbackType:        models.FeedbackCorrected,
		CorrectedCategory:   &category,
		CorrectedSeverity:   &severity,
		CorrectedConfidence: &confidence,
	})

	// Проверки
	require.NoError(t, err)
}

func TestReviewIncident_Invalid(t *testing.T) {
	severity := 9
	category := "terrorism"
	tests := []struct {
		name   string
		review service.Review
	}{
		{"no analyst", service.Review{FeedbackType: models.FeedbackConfirmedCorrect}},
		{"unknown type", service.Review{AnalystID: "a", FeedbackType: "maybe"}},
		{"correction without values", service.Review{AnalystID: "a", FeedbackType: models.FeedbackCorrected}},
		{"severity out of range", service.Review{AnalystID: "a", FeedbackType: models.FeedbackCorrected, CorrectedSeverity: &severity}},
		{"confirmed with corrections", service.Review{AnalystID: "a", FeedbackType: models.FeedbackConfirmedCorrect, CorrectedCategory: &category}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Репозиторий не вызывается: моки без ожиданий упадут на любом вызове
			svc, _, _ := newTestIncidentService(t)

			fb, err := svc.ReviewIncident(context.Background(), uuid.New(), tt.review)

			require.Error(t, err)
			assert.Nil(t, fb)
			assert.ErrorIs(t, err, service.ErrInvalidReview)
		})
	}
}

func TestReviewIncident_NotFound(t *testing.T) {
	// Подготовка
	svc, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(nil, models.ErrNotFound)

	// Действие
	_, err := svc.ReviewIncident(ctx, incidentID, service.Review{AnalystID: "a", FeedbackType: models.FeedbackConfirmedCorrect})

	// Проверки
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListFeedback(t *testing.T) {
	// Подготовка
	svc, _, feedbackMock := newTestIncidentService(t)
	ctx := context.Background()
	incidentID := uuid.New()
	expected := []*models.ClassificationFeedback{{ID: uuid.New(), IncidentID: incidentID}}

	// Ожидания
	feedbackMock.EXPECT().ListByIncident(ctx, incidentID).Return(expected, nil)

	// Действие
	records, err := svc.ListFeedback(ctx, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expected, records)
}
