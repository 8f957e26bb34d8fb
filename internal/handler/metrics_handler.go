package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/campushub-api/internal/service"
	"github.com/campushub/campushub-api/pkg/response"
)

// MetricsHandler exposes the Prometheus scrape endpoint and a JSON
// snapshot of runtime counters.
type MetricsHandler struct {
	metrics *service.MetricsService
}

// NewMetricsHandler constructs MetricsHandler.
func NewMetricsHandler(metrics *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Prometheus serves the Prometheus exposition format.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Snapshot godoc
// @Summary Runtime metrics snapshot
// @Tags Metrics
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /metrics/snapshot [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.metrics.Snapshot(), nil)
}
