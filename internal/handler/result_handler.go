package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/service"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/response"
)

// ResultHandler exposes graded-result endpoints and the performance
// recompute trigger.
type ResultHandler struct {
	results     *service.ResultService
	performance *service.PerformanceService
}

// NewResultHandler constructs ResultHandler.
func NewResultHandler(results *service.ResultService, performance *service.PerformanceService) *ResultHandler {
	return &ResultHandler{results: results, performance: performance}
}

// List godoc
// @Summary List graded results
// @Tags Results
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param moduleId query string false "Filter by module"
// @Param academicYear query string false "Filter by academic year"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /results [get]
func (h *ResultHandler) List(c *gin.Context) {
	var filter models.ResultFilter
	filter.StudentID = c.Query("studentId")
	filter.ModuleID = c.Query("moduleId")
	filter.AcademicYear = c.Query("academicYear")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	results, pagination, err := h.results.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, pagination)
}

// Upsert godoc
// @Summary Record or replace a grade
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.UpsertResultRequest true "Result payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /results [put]
func (h *ResultHandler) Upsert(c *gin.Context) {
	var req dto.UpsertResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.results.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a grade
// @Tags Results
// @Produce json
// @Param id path string true "Result ID"
// @Success 204
// @Security BearerAuth
// @Router /results/{id} [delete]
func (h *ResultHandler) Delete(c *gin.Context) {
	if err := h.results.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RecomputeAll godoc
// @Summary Recompute academic performance for every student
// @Tags Results
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /results/recompute-performance [post]
func (h *ResultHandler) RecomputeAll(c *gin.Context) {
	result, err := h.performance.RecomputeAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
