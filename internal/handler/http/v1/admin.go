package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// @Summary Run one ingestion cycle
// @Description Poll every configured source once and return the run summary. Requires API key.
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} service.RunSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Invalid source configuration or internal error"
// @Router /admin/ingest [post]
func (h *Handler) runIngestion(c *gin.Context) {
	log := h.logger.WithField("method", "runIngestion")

	summary, err := h.pipelineService.RunIngestion(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("Ingestion run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "ingestion run failed"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Run one geocoding batch
// @Description Geocode incidents without coordinates. Requires API key.
// @Tags Admin
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Batch size, capped at 100"
// @Success 200 {object} service.EnrichResult
// @Failure 400 {object} map[string]string "Invalid limit"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /admin/enrich [post]
func (h *Handler) runEnrichment(c *gin.Context) {
	log := h.logger.WithField("method", "runEnrichment")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	result, err := h.pipelineService.RunEnrichment(c.Request.Context(), limit)
	if err != nil {
		log.WithError(err).Error("Enrichment run failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enrichment run failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}
