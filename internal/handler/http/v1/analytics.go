package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Exposure score at a point
// @Description Score nearby recent incidents around a point on a 0-100 scale.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param request body PointExposureRequest true "Point and scoring window"
// @Success 200 {object} analytics.ExposureResult
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /exposure/point [post]
func (h *Handler) pointExposure(c *gin.Context) {
	log := h.logger.WithField("method", "pointExposure")

	var input PointExposureRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.analyticsService.PointExposure(c.Request.Context(), input.toQuery())
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Exposure score along a route
// @Description Score every waypoint and combine them into a route score.
// @Tags Analytics
// @Accept json
// @Produce json
// @Param request body RouteExposureRequest true "Waypoints and scoring window"
// @Success 200 {object} analytics.RouteExposure
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /exposure/route [post]
func (h *Handler) routeExposure(c *gin.Context) {
	log := h.logger.WithField("method", "routeExposure")

	var input RouteExposureRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.analyticsService.RouteExposure(c.Request.Context(), input.toQuery())
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Incident trend
// @Description Compare the latest period with the one before it.
// @Tags Analytics
// @Produce json
// @Param period query int false "Period length in days" default(7)
// @Param scope query string false "Scope" Enums(global, category, region)
// @Param value query string false "Category or region for a scoped trend"
// @Success 200 {object} analytics.TrendResult
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/trend [get]
func (h *Handler) trend(c *gin.Context) {
	log := h.logger.WithField("method", "trend")

	var query TrendQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.WithError(err).Warn("Failed to bind query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	if err := h.validate.Struct(query); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.analyticsService.Trend(c.Request.Context(), query.toQuery())
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Incident forecast
// @Description Forecast the daily incident count or average severity.
// @Tags Analytics
// @Produce json
// @Param scope query string false "Scope" Enums(global, category, region)
// @Param value query string false "Category or region for a scoped forecast"
// @Param metric query string false "Metric" Enums(count, severity)
// @Param lookback query int false "History window in days" default(90)
// @Param horizon query int false "Forecast horizon in days" default(14)
// @Success 200 {object} analytics.AutoForecast
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/forecast [get]
func (h *Handler) forecast(c *gin.Context) {
	log := h.logger.WithField("method", "forecast")

	var query ForecastQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		log.WithError(err).Warn("Failed to bind query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return
	}
	if err := h.validate.Struct(query); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.analyticsService.Forecast(c.Request.Context(), query.toQuery())
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary Classification accuracy
// @Description Aggregate analyst reviews into accuracy and severity drift metrics.
// @Tags Analytics
// @Produce json
// @Success 200 {object} analytics.AccuracyMetrics
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /analytics/accuracy [get]
func (h *Handler) accuracy(c *gin.Context) {
	log := h.logger.WithField("method", "accuracy")

	res, err := h.analyticsService.Accuracy(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
