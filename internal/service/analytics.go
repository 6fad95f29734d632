package service

//go:generate mockgen -source=analytics.go -destination=mocks/mock_analytics.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shenikar/osint_pipeline/internal/analytics"
	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/sirupsen/logrus"
)

// corpusLimit ограничивает снимок корпуса для одного аналитического запроса
const corpusLimit = 50000

// severityCarryDays - запас истории до окна, чтобы было что переносить в ряд средней тяжести
const severityCarryDays = 30

var ErrInvalidQuery = errors.New("invalid analytics query")

type Scope string

const (
	ScopeGlobal   Scope = "global"
	ScopeCategory Scope = "category"
	ScopeRegion   Scope = "region"
)

type ExposureQuery struct {
	Point      analytics.GeoPoint
	RadiusKm   float64
	MaxAgeDays float64
}

type RouteExposureQuery struct {
	Waypoints  []analytics.GeoPoint
	RadiusKm   float64
	MaxAgeDays float64
}

type TrendQuery struct {
	PeriodDays int
	Scope      Scope
	Value      string
}

type ForecastQuery struct {
	Scope        Scope
	Value        string
	Metric       analytics.Metric
	LookbackDays int
	Horizon      int
}

// AnalyticsService - аналитика по снимку корпуса, пересчитывается на каждый запрос
type AnalyticsService interface {
	PointExposure(ctx context.Context, q ExposureQuery) (*analytics.ExposureResult, error)
	RouteExposure(ctx context.Context, q RouteExposureQuery) (*analytics.RouteExposure, error)
	Trend(ctx context.Context, q TrendQuery) (*analytics.TrendResult, error)
	Forecast(ctx context.Context, q ForecastQuery) (*analytics.AutoForecast, error)
	Accuracy(ctx context.Context) (*analytics.AccuracyMetrics, error)
}

type analyticsService struct {
	incidents IncidentRepository
	feedback  FeedbackRepository
	logger    *logrus.Logger
	now       func() time.Time
}

func NewAnalyticsService(incidents IncidentRepository, feedback FeedbackRepository, logger *logrus.Logger) AnalyticsService {
	return &analyticsService{
		incidents: incidents,
		feedback:  feedback,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *analyticsService) exposureOptions(radiusKm, maxAgeDays float64) analytics.ExposureOptions {
	return analytics.ExposureOptions{RadiusKm: radiusKm, MaxAgeDays: maxAgeDays, Now: s.now()}
}

func (s *analyticsService) geocodedSince(ctx context.Context, maxAgeDays float64) ([]*models.Incident, error) {
	if maxAgeDays <= 0 {
		maxAgeDays = analytics.DefaultMaxAgeDays
	}
	since := s.now().Add(-time.Duration(maxAgeDays * float64(24*time.Hour)))
	return s.incidents.List(ctx, models.IncidentFilter{Since: since, OnlyGeocoded: true, Limit: corpusLimit})
}

// PointExposure оценивает подверженность риску в одной точке
func (s *analyticsService) PointExposure(ctx context.Context, q ExposureQuery) (*analytics.ExposureResult, error) {
	if err := validatePoint(q.Point); err != nil {
		return nil, err
	}
	incidents, err := s.geocodedSince(ctx, q.MaxAgeDays)
	if err != nil {
		s.logError("PointExposure", err)
		return nil, fmt.Errorf("service: could not load incidents: %w", err)
	}
	res := analytics.ScoreExposure(q.Point, incidents, s.exposureOptions(q.RadiusKm, q.MaxAgeDays))
	return &res, nil
}

// RouteExposure оценивает маршрут по точкам
func (s *analyticsService) RouteExposure(ctx context.Context, q RouteExposureQuery) (*analytics.RouteExposure, error) {
	if len(q.Waypoints) == 0 {
		return nil, fmt.Errorf("%w: route has no waypoints", ErrInvalidQuery)
	}
	for _, wp := range q.Waypoints {
		if err := validatePoint(wp); err != nil {
			return nil, err
		}
	}
	incidents, err := s.geocodedSince(ctx, q.MaxAgeDays)
	if err != nil {
		s.logError("RouteExposure", err)
		return nil, fmt.Errorf("service: could not load incidents: %w", err)
	}
	res := analytics.ScoreRoute(q.Waypoints, incidents, s.exposureOptions(q.RadiusKm, q.MaxAgeDays))
	return &res, nil
}

// Trend сравнивает последний период с предыдущим
func (s *analyticsService) Trend(ctx context.Context, q TrendQuery) (*analytics.TrendResult, error) {
	filter, err := scopeFilter(q.Scope, q.Value)
	if err != nil {
		return nil, err
	}
	if q.PeriodDays <= 0 {
		q.PeriodDays = analytics.DefaultTrendPeriodDays
	}
	now := s.now()
	since := now.AddDate(0, 0, -2*q.PeriodDays)
	incidents, err := s.incidents.List(ctx, models.IncidentFilter{Since: since, Limit: corpusLimit})
	if err != nil {
		s.logError("Trend", err)
		return nil, fmt.Errorf("service: could not load incidents: %w", err)
	}
	res := analytics.Trend(incidents, q.PeriodDays, now, filter)
	return &res, nil
}

// Forecast строит прогноз по глобальному ряду, категории или региону
func (s *analyticsService) Forecast(ctx context.Context, q ForecastQuery) (*analytics.AutoForecast, error) {
	filter, err := scopeFilter(q.Scope, q.Value)
	if err != nil {
		return nil, err
	}
	switch q.Metric {
	case "":
		q.Metric = analytics.MetricCount
	case analytics.MetricCount, analytics.MetricSeverity:
	default:
		return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidQuery, q.Metric)
	}
	if q.LookbackDays <= 0 {
		q.LookbackDays = analytics.DefaultLookbackDays
	}
	if q.LookbackDays > analytics.MaxLookbackDays {
		q.LookbackDays = analytics.MaxLookbackDays
	}

	now := s.now()
	since := now.AddDate(0, 0, -(q.LookbackDays + severityCarryDays))
	incidents, err := s.incidents.List(ctx, models.IncidentFilter{Since: since, Limit: corpusLimit})
	if err != nil {
		s.logError("Forecast", err)
		return nil, fmt.Errorf("service: could not load incidents: %w", err)
	}

	res := analytics.ForecastIncidents(incidents, analytics.ForecastRequest{
		Metric:       q.Metric,
		Filter:       filter,
		LookbackDays: q.LookbackDays,
		Horizon:      q.Horizon,
		End:          now,
	})
	return &res, nil
}

// Accuracy агрегирует всю историю проверок аналитиков
func (s *analyticsService) Accuracy(ctx context.Context) (*analytics.AccuracyMetrics, error) {
	records, err := s.feedback.List(ctx, time.Time{})
	if err != nil {
		s.logError("Accuracy", err)
		return nil, fmt.Errorf("service: could not load feedback: %w", err)
	}
	res := analytics.Aggregate(records, s.now())
	return &res, nil
}

func (s *analyticsService) logError(method string, err error) {
	s.logger.WithFields(logrus.Fields{
		"service": "analytics",
		"method":  method,
	}).WithError(err).Error("Failed to load analytics corpus")
}

func scopeFilter(scope Scope, value string) (analytics.IncidentFilter, error) {
	switch scope {
	case "", ScopeGlobal:
		return nil, nil
	case ScopeCategory:
		if value == "" {
			return nil, fmt.Errorf("%w: category scope requires a value", ErrInvalidQuery)
		}
		return analytics.ByCategory(value), nil
	case ScopeRegion:
		if value == "" {
			return nil, fmt.Errorf("%w: region scope requires a value", ErrInvalidQuery)
		}
		return analytics.ByRegion(value), nil
	}
	return nil, fmt.Errorf("%w: unknown scope %q", ErrInvalidQuery, scope)
}

func validatePoint(p analytics.GeoPoint) error {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: coordinates out of range", ErrInvalidQuery)
	}
	return nil
}
