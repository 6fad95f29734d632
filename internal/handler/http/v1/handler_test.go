package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/osint_pipeline/internal/analytics"
	"github.com/shenikar/osint_pipeline/internal/config"
	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/shenikar/osint_pipeline/internal/service"
	"github.com/shenikar/osint_pipeline/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var authHeader = map[string]string{"X-API-Key": "test-api-key"}

type testServices struct {
	incidents *mocks.MockIncidentService
	analytics *mocks.MockAnalyticsService
	pipeline  *mocks.MockPipelineService
}

// newTestHandler создает роутер с мокированными сервисами
func newTestHandler(t *testing.T) (*testServices, *gin.Engine) {
	ctrl := gomock.NewController(t)
	svc := &testServices{
		incidents: mocks.NewMockIncidentService(ctrl),
		analytics: mocks.NewMockAnalyticsService(ctrl),
		pipeline:  mocks.NewMockPipelineService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys:           []string{"test-api-key"},
		GeocodeBatchLimit: 25,
	}

	handler := NewHandler(svc.incidents, svc.analytics, svc.pipeline, logger, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return svc, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func testIncident(id uuid.UUID) *models.Incident {
	lat, lng := 48.7389, 37.5848
	return &models.Incident{
		ID:         id,
		Title:      "Drone strike reported near Kramatorsk",
		Summary:    "Drone strike reported near Kramatorsk railway station",
		Category:   "military",
		Severity:   4,
		Confidence: 45,
		Region:     "Eastern Europe",
		Country:    "Ukraine",
		Latitude:   &lat,
		Longitude:  &lng,
		Status:     models.IncidentStatusAI,
		Sources:    []string{"https://t.me/osint_feed/101"},
		Analyst:    "osint-bot",
		Datetime:   time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
		CreatedAt:  time.Date(2026, 10, 1, 12, 5, 0, 0, time.UTC),
	}
}

func TestListIncidents_Success(t *testing.T) {
	svc, router := newTestHandler(t)
	id := uuid.New()

	svc.incidents.EXPECT().
		ListIncidents(gomock.Any(), models.IncidentFilter{Category: "military", Status: models.IncidentStatusAI}, 2, 10).
		Return([]*models.Incident{testIncident(id)}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents?category=military&status=ai&page=2&pageSize=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, id, resp[0].ID)
	assert.Equal(t, "ai", resp[0].Status)
	require.NotNil(t, resp[0].Latitude)
	assert.InDelta(t, 48.7389, *resp[0].Latitude, 1e-9)
}

func TestListIncidents_InvalidStatus(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents?status=archived", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListIncidents_InvalidPage(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents?page=first", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid query parameters")
}

func TestListIncidents_ServiceError(t *testing.T) {
	svc, router := newTestHandler(t)
	svc.incidents.EXPECT().ListIncidents(gomock.Any(), gomock.Any(), 0, 0).Return(nil, errors.New("db down"))

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestGetIncident_Success(t *testing.T) {
	svc, router := newTestHandler(t)
	id := uuid.New()
	svc.incidents.EXPECT().GetIncident(gomock.Any(), id).Return(testIncident(id), nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/"+id.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "military", resp.Category)
	assert.Equal(t, []string{"https://t.me/osint_feed/101"}, resp.Sources)
}

func TestGetIncident_InvalidID(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid incident ID")
}

func TestGetIncident_NotFound(t *testing.T) {
	svc, router := newTestHandler(t)
	id := uuid.New()
	svc.incidents.EXPECT().GetIncident(gomock.Any(), id).
		Return(nil, fmt.Errorf("service: could not get incident: %w", models.ErrNotFound))

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetIncident_ServiceError(t *testing.T) {
	svc, router := newTestHandler(t)
	id := uuid.New()
	svc.incidents.EXPECT().GetIncident(gomock.Any(), id).Return(nil, errors.New("connection reset"))

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/"+id.String(), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListFeedback_Success(t *testing.T) {
	svc, router := newTestHandler(t)
	id := uuid.New()
	svc.incidents.EXPECT().ListFeedback(gomock.Any(), id).Return([]*models.ClassificationFeedback{{
		ID:               uuid.New(),
		IncidentID:       id,
		AnalystID:        "analyst-7",
		FeedbackType:     models.FeedbackConfirmedCorrect,
		OriginalCategory: "military",
		OriginalSeverity: 4,
	}}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/"+id.String()+"/feedback", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []FeedbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "confirmed_correct", resp[0].FeedbackType)
}

func TestReviewIncident_Success(t *testing.T) {
	// Подготовка
	svc, router := newTestHandler(t)
	id := uuid.New()
	severity := 5
	req := ReviewRequest{
		AnalystID:         "analyst-7",
		FeedbackType:      "corrected",
		CorrectedSeverity: &severity,
	}

	// Ожидания
	svc.incidents.EXPECT().
		ReviewIncident(gomock.Any(), id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, review service.Review) (*models.ClassificationFeedback, error) {
			assert.Equal(t, models.FeedbackCorrected, review.FeedbackType)
			require.NotNil(t, review.CorrectedSeverity)
			assert.Equal(t, 5, *review.CorrectedSeverity)
			return &models.ClassificationFeedback{
				ID:                uuid.New(),
				IncidentID:        id,
				AnalystID:         review.AnalystID,
				FeedbackType:      review.FeedbackType,
				OriginalCategory:  "military",
				OriginalSeverity:  4,
				CorrectedSeverity: review.CorrectedSeverity,
			}, nil
		})

	// Действие
	w := makeRequest(router, http.MethodPost, "/api/v1/incidents/"+id.String()+"/review", jsonBody(t, req), authHeader)

	// Проверки
	assert.Equal(t, http.StatusCreated, w.Code)
	var resp FeedbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.OriginalSeverity)
	require.NotNil(t, resp.CorrectedSeverity)
	assert.Equal(t, 5, *resp.CorrectedSeverity)
}

func TestReviewIncident_RequiresAPIKey(t *testing.T) {
	_, router := newTestHandler(t)
	req := ReviewRequest{AnalystID: "analyst-7", FeedbackType: "confirmed_correct"}

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents/"+uuid.NewString()+"/review", jsonBody(t, req))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReviewIncident_ValidationError(t *testing.T) {
	_, router := newTestHandler(t)
	severity := 9
	req := ReviewRequest{AnalystID: "analyst-7", FeedbackType: "corrected", CorrectedSeverity: &severity}

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents/"+uuid.NewString()+"/review", jsonBody(t, req), authHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "CorrectedSeverity")
}

func TestReviewIncident_InvalidJSON(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents/"+uuid.NewString()+"/review",
		bytes.NewBufferString(`{"analyst_id": "a"`), authHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestReviewIncident_RejectedByService(t *testing.T) {
	svc, router := newTestHandler(t)
	id := uuid.New()
	category := "cyber"
	req := ReviewRequest{AnalystID: "analyst-7", FeedbackType: "confirmed_correct", CorrectedCategory: &category}

	svc.incidents.EXPECT().ReviewIncident(gomock.Any(), id, gomock.Any()).
		Return(nil, fmt.Errorf("service: %w: confirmed review cannot carry corrections", service.ErrInvalidReview))

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents/"+id.String()+"/review", jsonBody(t, req), authHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "confirmed review cannot carry corrections")
}

func TestReviewIncident_NotFound(t *testing.T) {
	svc, router := newTestHandler(t)
	id := uuid.New()
	req := ReviewRequest{AnalystID: "analyst-7", FeedbackType: "confirmed_correct"}

	svc.incidents.EXPECT().ReviewIncident(gomock.Any(), id, gomock.Any()).Return(nil, models.ErrNotFound)

	w := makeRequest(router, http.MethodPost, "/api/v1/incidents/"+id.String()+"/review", jsonBody(t, req), authHeader)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPointExposure_Success(t *testing.T) {
	svc, router := newTestHandler(t)

	svc.analytics.EXPECT().
		PointExposure(gomock.Any(), service.ExposureQuery{
			Point:    analytics.GeoPoint{Lat: 50.45, Lng: 30.52},
			RadiusKm: 25,
		}).
		Return(&analytics.ExposureResult{Score: 20, Level: analytics.ExposureLow, NearbyCount: 1, DominantCategory: "terrorism"}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/exposure/point",
		bytes.NewBufferString(`{"lat": 50.45, "lng": 30.52, "radius_km": 25}`))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp analytics.ExposureResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 20, resp.Score)
	assert.Equal(t, analytics.ExposureLow, resp.Level)
}

func TestPointExposure_EquatorIsValid(t *testing.T) {
	svc, router := newTestHandler(t)

	svc.analytics.EXPECT().
		PointExposure(gomock.Any(), service.ExposureQuery{Point: analytics.GeoPoint{Lat: 0, Lng: 0}}).
		Return(&analytics.ExposureResult{Level: analytics.ExposureMinimal}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/exposure/point", bytes.NewBufferString(`{"lat": 0, "lng": 0}`))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPointExposure_ValidationError(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodPost, "/api/v1/exposure/point", bytes.NewBufferString(`{"lat": 95, "lng": 30}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPointExposure_MissingCoordinates(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodPost, "/api/v1/exposure/point", bytes.NewBufferString(`{"radius_km": 10}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouteExposure_Success(t *testing.T) {
	svc, router := newTestHandler(t)

	svc.analytics.EXPECT().
		RouteExposure(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q service.RouteExposureQuery) (*analytics.RouteExposure, error) {
			require.Len(t, q.Waypoints, 2)
			assert.Equal(t, analytics.GeoPoint{Lat: 48.0, Lng: 37.8}, q.Waypoints[1])
			return &analytics.RouteExposure{ExposureResult: analytics.ExposureResult{Score: 17, Level: analytics.ExposureMinimal}}, nil
		})

	w := makeRequest(router, http.MethodPost, "/api/v1/exposure/route",
		bytes.NewBufferString(`{"waypoints": [{"lat": 48.7, "lng": 37.5}, {"lat": 48.0, "lng": 37.8}]}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"score":17`)
}

func TestRouteExposure_EmptyRoute(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodPost, "/api/v1/exposure/route", bytes.NewBufferString(`{"waypoints": []}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouteExposure_InvalidWaypoint(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodPost, "/api/v1/exposure/route",
		bytes.NewBufferString(`{"waypoints": [{"lat": 48.7, "lng": 37.5}, {"lat": 48.0, "lng": 237.8}]}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrend_Success(t *testing.T) {
	svc, router := newTestHandler(t)

	svc.analytics.EXPECT().
		Trend(gomock.Any(), service.TrendQuery{PeriodDays: 7, Scope: service.ScopeCategory, Value: "terrorism"}).
		Return(&analytics.TrendResult{Direction: analytics.TrendRising, Recent: 13, Prior: 10, Ratio: 1.3, PeriodDays: 7}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/analytics/trend?period=7&scope=category&value=terrorism", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"direction":"rising"`)
}

func TestTrend_UnknownScope(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/analytics/trend?scope=planet", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrend_MissingScopeValue(t *testing.T) {
	svc, router := newTestHandler(t)

	svc.analytics.EXPECT().Trend(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: region scope requires a value", service.ErrInvalidQuery))

	w := makeRequest(router, http.MethodGet, "/api/v1/analytics/trend?scope=region", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "region scope requires a value")
}

func TestForecast_Success(t *testing.T) {
	svc, router := newTestHandler(t)

	svc.analytics.EXPECT().
		Forecast(gomock.Any(), service.ForecastQuery{
			Scope:        service.ScopeRegion,
			Value:        "Eastern Europe",
			Metric:       analytics.MetricSeverity,
			LookbackDays: 30,
			Horizon:      7,
		}).
		Return(&analytics.AutoForecast{Method: analytics.MethodLinear, Horizon: 7}, nil)

	w := makeRequest(router, http.MethodGet,
		"/api/v1/analytics/forecast?scope=region&value=Eastern+Europe&metric=severity&lookback=30&horizon=7", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"horizon":7`)
}

func TestForecast_HorizonTooLong(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/analytics/forecast?horizon=365", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccuracy_Success(t *testing.T) {
	svc, router := newTestHandler(t)
	svc.analytics.EXPECT().Accuracy(gomock.Any()).
		Return(&analytics.AccuracyMetrics{TotalReviewed: 10, ConfirmedCorrect: 7, Corrected: 3, AccuracyRate: 70}, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/analytics/accuracy", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"accuracyRate":70`)
}

func TestAccuracy_ServiceError(t *testing.T) {
	svc, router := newTestHandler(t)
	svc.analytics.EXPECT().Accuracy(gomock.Any()).Return(nil, errors.New("db down"))

	w := makeRequest(router, http.MethodGet, "/api/v1/analytics/accuracy", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAdminIngest_Success(t *testing.T) {
	svc, router := newTestHandler(t)
	svc.pipeline.EXPECT().RunIngestion(gomock.Any()).
		Return(&service.RunSummary{Processed: 3, Succeeded: 2, Duplicates: 1}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/admin/ingest", nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp service.RunSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 1, resp.Duplicates)
}

func TestAdminIngest_Unauthorized(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodPost, "/api/v1/admin/ingest", nil, map[string]string{"X-API-Key": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminIngest_ConfigurationError(t *testing.T) {
	svc, router := newTestHandler(t)
	svc.pipeline.EXPECT().RunIngestion(gomock.Any()).Return(nil, models.ErrMissingCredentials)

	w := makeRequest(router, http.MethodPost, "/api/v1/admin/ingest", nil, authHeader)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ingestion run failed")
}

func TestAdminEnrich_PassesLimit(t *testing.T) {
	svc, router := newTestHandler(t)
	svc.pipeline.EXPECT().RunEnrichment(gomock.Any(), 50).
		Return(&service.EnrichResult{Processed: 4, Geocoded: 1, Failed: 3}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/admin/enrich?limit=50", nil,
		map[string]string{"Authorization": "Bearer test-api-key"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"geocoded":1`)
}

func TestAdminEnrich_DefaultLimit(t *testing.T) {
	svc, router := newTestHandler(t)
	svc.pipeline.EXPECT().RunEnrichment(gomock.Any(), 0).Return(&service.EnrichResult{}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/admin/enrich", nil, authHeader)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminEnrich_InvalidLimit(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodPost, "/api/v1/admin/enrich?limit=-3", nil, authHeader)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck_Success(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func newAuthRouter(keys ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	router.Use(APIKeyAuthMiddleware(&config.Config{APIKeys: keys}, logger))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAPIKeyAuthMiddleware_Success(t *testing.T) {
	router := newAuthRouter("valid-key")

	w := makeRequest(router, http.MethodGet, "/test", nil, map[string]string{"X-API-Key": "valid-key"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuthMiddleware_Bearer(t *testing.T) {
	router := newAuthRouter("valid-key")

	w := makeRequest(router, http.MethodGet, "/test", nil, map[string]string{"Authorization": "Bearer valid-key"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuthMiddleware_MissingKey(t *testing.T) {
	router := newAuthRouter("valid-key")

	w := makeRequest(router, http.MethodGet, "/test", nil) // Нет API ключа
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")
}

func TestAPIKeyAuthMiddleware_InvalidKey(t *testing.T) {
	router := newAuthRouter("valid-key")

	w := makeRequest(router, http.MethodGet, "/test", nil, map[string]string{"X-API-Key": "invalid-key"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}

func TestAPIKeyAuthMiddleware_NoConfiguredKeys(t *testing.T) {
	router := newAuthRouter()

	w := makeRequest(router, http.MethodGet, "/test", nil, map[string]string{"X-API-Key": ""})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
