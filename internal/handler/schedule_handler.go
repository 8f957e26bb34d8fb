package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/service"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
	Save(ctx context.Context, req dto.SaveScheduleRequest) error
	List(ctx context.Context, intakeCourseID string) ([]models.ClassScheduleDetail, error)
}

// ScheduleHandler exposes the class schedule generator.
type ScheduleHandler struct {
	schedules scheduleGenerator
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleGeneratorService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// Generate godoc
// @Summary Generate a class schedule proposal for an intake-course
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generation parameters"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.schedules.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Save godoc
// @Summary Persist a generated schedule
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.SaveScheduleRequest true "Schedule entries"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules [post]
func (h *ScheduleHandler) Save(c *gin.Context) {
	var req dto.SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.schedules.Save(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"intake_course_id": req.IntakeCourseID, "saved": len(req.Entries)})
}

// List godoc
// @Summary List the saved schedule for an intake-course
// @Tags Schedules
// @Produce json
// @Param intakeCourseId path string true "Intake-course ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schedules/{intakeCourseId} [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	entries, err := h.schedules.List(c.Request.Context(), c.Param("intakeCourseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
