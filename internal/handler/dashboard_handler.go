package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, bool, error)
}

// DashboardHandler exposes the aggregated dashboard summary.
type DashboardHandler struct {
	dashboard dashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard dashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Summary godoc
// @Summary Aggregated counts for the dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, cacheHit, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil, map[string]interface{}{"cache_hit": cacheHit})
}
