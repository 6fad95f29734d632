package v1

import (
	"time"

	"github.com/google/uuid"
)

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Category    string    `json:"category"`
	Severity    int       `json:"severity"`
	Confidence  int       `json:"confidence"`
	Region      string    `json:"region,omitempty"`
	Country     string    `json:"country,omitempty"`
	Subdivision string    `json:"subdivision,omitempty"`
	Location    string    `json:"location,omitempty"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	Status      string    `json:"status"`
	Sources     []string  `json:"sources"`
	Analyst     string    `json:"analyst"`
	Datetime    time.Time `json:"datetime"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListIncidentsQuery параметры выборки инцидентов
type ListIncidentsQuery struct {
	Category string `form:"category" validate:"omitempty,max=64"`
	Region   string `form:"region" validate:"omitempty,max=128"`
	Country  string `form:"country" validate:"omitempty,max=128"`
	Status   string `form:"status" validate:"omitempty,oneof=ai reviewed confirmed"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ReviewRequest DTO для проверки инцидента аналитиком
// @Description DTO для проверки инцидента аналитиком
type ReviewRequest struct {
	AnalystID           string  `json:"analyst_id" validate:"required,max=255"`
	FeedbackType        string  `json:"feedback_type" validate:"required,oneof=confirmed_correct corrected"`
	CorrectedCategory   *string `json:"corrected_category,omitempty" validate:"omitempty,min=1,max=64"`
	CorrectedSeverity   *int    `json:"corrected_severity,omitempty" validate:"omitempty,min=1,max=5"`
	CorrectedConfidence *int    `json:"corrected_confidence,omitempty" validate:"omitempty,min=0,max=100"`
	Notes               *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// FeedbackResponse DTO записи проверки классификации
// @Description DTO записи проверки классификации
type FeedbackResponse struct {
	ID                  uuid.UUID `json:"id"`
	IncidentID          uuid.UUID `json:"incident_id"`
	AnalystID           string    `json:"analyst_id"`
	FeedbackType        string    `json:"feedback_type"`
	OriginalCategory    string    `json:"original_category"`
	OriginalSeverity    int       `json:"original_severity"`
	OriginalConfidence  int       `json:"original_confidence"`
	CorrectedCategory   *string   `json:"corrected_category,omitempty"`
	CorrectedSeverity   *int      `json:"corrected_severity,omitempty"`
	CorrectedConfidence *int      `json:"corrected_confidence,omitempty"`
	Notes               *string   `json:"notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// GeoPointRequest координаты точки
type GeoPointRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

// PointExposureRequest DTO для оценки риска в точке
// @Description DTO для оценки риска в точке
type PointExposureRequest struct {
	GeoPointRequest
	RadiusKm   float64 `json:"radius_km,omitempty" validate:"omitempty,gt=0,lte=1000"`
	MaxAgeDays float64 `json:"max_age_days,omitempty" validate:"omitempty,gt=0,lte=365"`
}

// RouteExposureRequest DTO для оценки риска на маршруте
// @Description DTO для оценки риска на маршруте
type RouteExposureRequest struct {
	Waypoints  []GeoPointRequest `json:"waypoints" validate:"required,min=1,max=500,dive"`
	RadiusKm   float64           `json:"radius_km,omitempty" validate:"omitempty,gt=0,lte=1000"`
	MaxAgeDays float64           `json:"max_age_days,omitempty" validate:"omitempty,gt=0,lte=365"`
}

// TrendQuery параметры сравнения периодов
type TrendQuery struct {
	PeriodDays int    `form:"period" validate:"omitempty,min=1,max=180"`
	Scope      string `form:"scope" validate:"omitempty,oneof=global category region"`
	Value      string `form:"value" validate:"omitempty,max=128"`
}

// ForecastQuery параметры прогноза
type ForecastQuery struct {
	Scope        string `form:"scope" validate:"omitempty,oneof=global category region"`
	Value        string `form:"value" validate:"omitempty,max=128"`
	Metric       string `form:"metric" validate:"omitempty,oneof=count severity"`
	LookbackDays int    `form:"lookback" validate:"omitempty,min=1,max=365"`
	Horizon      int    `form:"horizon" validate:"omitempty,min=1,max=90"`
}
