package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := APIKeyAuthMiddleware(h.cfg, h.logger)

	// Чтение и проверка инцидентов
	incidents := api.Group("/incidents")
	{
		incidents.GET("", h.listIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.GET("/:id/feedback", h.listFeedback)
		incidents.POST("/:id/review", auth, h.reviewIncident)
	}

	exposure := api.Group("/exposure")
	{
		exposure.POST("/point", h.pointExposure)
		exposure.POST("/route", h.routeExposure)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/trend", h.trend)
		analytics.GET("/forecast", h.forecast)
		analytics.GET("/accuracy", h.accuracy)
	}

	// Ручной запуск конвейера
	admin := api.Group("/admin", auth)
	{
		admin.POST("/ingest", h.runIngestion)
		admin.POST("/enrich", h.runEnrichment)
	}

	api.GET("/system/health", h.healthCheck)
}
