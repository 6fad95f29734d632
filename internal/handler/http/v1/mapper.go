package v1

import (
	"github.com/shenikar/osint_pipeline/internal/analytics"
	"github.com/shenikar/osint_pipeline/internal/models"
	"github.com/shenikar/osint_pipeline/internal/service"
)

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	sources := model.Sources
	if sources == nil {
		sources = []string{}
	}
	return &IncidentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Summary:     model.Summary,
		Category:    model.Category,
		Severity:    model.Severity,
		Confidence:  model.Confidence,
		Region:      model.Region,
		Country:     model.Country,
		Subdivision: model.Subdivision,
		Location:    model.Location,
		Latitude:    model.Latitude,
		Longitude:   model.Longitude,
		Status:      string(model.Status),
		Sources:     sources,
		Analyst:     model.Analyst,
		Datetime:    model.Datetime,
		CreatedAt:   model.CreatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

func ModelToFeedbackResponse(fb *models.ClassificationFeedback) *FeedbackResponse {
	return &FeedbackResponse{
		ID:                  fb.ID,
		IncidentID:          fb.IncidentID,
		AnalystID:           fb.AnalystID,
		FeedbackType:        string(fb.FeedbackType),
		OriginalCategory:    fb.OriginalCategory,
		OriginalSeverity:    fb.OriginalSeverity,
		OriginalConfidence:  fb.OriginalConfidence,
		CorrectedCategory:   fb.CorrectedCategory,
		CorrectedSeverity:   fb.CorrectedSeverity,
		CorrectedConfidence: fb.CorrectedConfidence,
		Notes:               fb.Notes,
		CreatedAt:           fb.CreatedAt,
	}
}

func ModelsToFeedbackResponses(records []*models.ClassificationFeedback) []*FeedbackResponse {
	responses := make([]*FeedbackResponse, len(records))
	for i, fb := range records {
		responses[i] = ModelToFeedbackResponse(fb)
	}
	return responses
}

func (q ListIncidentsQuery) toFilter() models.IncidentFilter {
	return models.IncidentFilter{
		Category: q.Category,
		Region:   q.Region,
		Country:  q.Country,
		Status:   models.IncidentStatus(q.Status),
	}
}

func (r ReviewRequest) toReview() service.Review {
	return service.Review{
		AnalystID:           r.AnalystID,
		FeedbackType:        models.FeedbackType(r.FeedbackType),
		CorrectedCategory:   r.CorrectedCategory,
		CorrectedSeverity:   r.CorrectedSeverity,
		CorrectedConfidence: r.CorrectedConfidence,
		Notes:               r.Notes,
	}
}

// toGeoPoint вызывается только после валидации, указатели заполнены
func (p GeoPointRequest) toGeoPoint() analytics.GeoPoint {
	return analytics.GeoPoint{Lat: *p.Lat, Lng: *p.Lng}
}

func (r PointExposureRequest) toQuery() service.ExposureQuery {
	return service.ExposureQuery{
		Point:      r.toGeoPoint(),
		RadiusKm:   r.RadiusKm,
		MaxAgeDays: r.MaxAgeDays,
	}
}

func (r RouteExposureRequest) toQuery() service.RouteExposureQuery {
	waypoints := make([]analytics.GeoPoint, len(r.Waypoints))
	for i, wp := range r.Waypoints {
		waypoints[i] = wp.toGeoPoint()
	}
	return service.RouteExposureQuery{
		Waypoints:  waypoints,
		RadiusKm:   r.RadiusKm,
		MaxAgeDays: r.MaxAgeDays,
	}
}

func (q TrendQuery) toQuery() service.TrendQuery {
	return service.TrendQuery{
		PeriodDays: q.PeriodDays,
		Scope:      service.Scope(q.Scope),
		Value:      q.Value,
	}
}

func (q ForecastQuery) toQuery() service.ForecastQuery {
	return service.ForecastQuery{
		Scope:        service.Scope(q.Scope),
		Value:        q.Value,
		Metric:       analytics.Metric(q.Metric),
		LookbackDays: q.LookbackDays,
		Horizon:      q.Horizon,
	}
}
