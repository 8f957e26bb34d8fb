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

// IntakeCourseHandler exposes intake-course endpoints, including the
// enrollment recompute trigger and timetable export.
type IntakeCourseHandler struct {
	intakeCourses *service.IntakeCourseService
	enrollment    *service.EnrollmentService
	exports       *service.ExportService
}

// NewIntakeCourseHandler constructs IntakeCourseHandler.
func NewIntakeCourseHandler(intakeCourses *service.IntakeCourseService, enrollment *service.EnrollmentService, exports *service.ExportService) *IntakeCourseHandler {
	return &IntakeCourseHandler{intakeCourses: intakeCourses, enrollment: enrollment, exports: exports}
}

// List godoc
// @Summary List intake-courses
// @Tags IntakeCourses
// @Produce json
// @Param intakeId query string false "Filter by intake"
// @Param courseId query string false "Filter by course"
// @Param status query string false "Filter by capacity status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /intake-courses [get]
func (h *IntakeCourseHandler) List(c *gin.Context) {
	var filter models.IntakeCourseFilter
	filter.IntakeID = c.Query("intakeId")
	filter.CourseID = c.Query("courseId")
	filter.Status = models.IntakeCourseStatus(c.Query("status"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	items, pagination, err := h.intakeCourses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get intake-course detail
// @Tags IntakeCourses
// @Produce json
// @Param id path string true "Intake-course ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /intake-courses/{id} [get]
func (h *IntakeCourseHandler) Get(c *gin.Context) {
	item, err := h.intakeCourses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Open a course for an intake
// @Tags IntakeCourses
// @Accept json
// @Produce json
// @Param payload body dto.CreateIntakeCourseRequest true "Intake-course payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /intake-courses [post]
func (h *IntakeCourseHandler) Create(c *gin.Context) {
	var req dto.CreateIntakeCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.intakeCourses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update intake-course capacity and fees
// @Tags IntakeCourses
// @Accept json
// @Produce json
// @Param id path string true "Intake-course ID"
// @Param payload body dto.UpdateIntakeCourseRequest true "Intake-course payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /intake-courses/{id} [put]
func (h *IntakeCourseHandler) Update(c *gin.Context) {
	var req dto.UpdateIntakeCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.intakeCourses.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// RecomputeEnrollments godoc
// @Summary Recompute enrollment counters for every intake-course
// @Tags IntakeCourses
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /intake-courses/recompute-enrollments [post]
func (h *IntakeCourseHandler) RecomputeEnrollments(c *gin.Context) {
	result, err := h.enrollment.RecomputeAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Timetable godoc
// @Summary Download an intake-course timetable as CSV
// @Tags IntakeCourses
// @Produce text/csv
// @Param id path string true "Intake-course ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /intake-courses/{id}/timetable [get]
func (h *IntakeCourseHandler) Timetable(c *gin.Context) {
	payload, filename, err := h.exports.TimetableCSV(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", payload)
}
