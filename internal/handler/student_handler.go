package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/service"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students    *service.StudentService
	performance *service.PerformanceService
	exports     *service.ExportService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, performance *service.PerformanceService, exports *service.ExportService) *StudentHandler {
	return &StudentHandler{students: students, performance: performance, exports: exports}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Search by name or email"
// @Param intakeCourseId query string false "Filter by intake-course"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	var filter models.StudentFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.IntakeCourseID = c.Query("intakeCourseId")
	filter.Status = models.StudentStatus(c.Query("status"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Create godoc
// @Summary Register a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update a student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.UpdateStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// UpdateStatus godoc
// @Summary Change a student's lifecycle status
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body object true "Status payload"
// @Success 204
// @Security BearerAuth
// @Router /students/{id}/status [patch]
func (h *StudentHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status models.StudentStatus `json:"status" binding:"required,oneof=ENROLLED ACTIVE GRADUATED DROPPED SUSPENDED"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.students.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Recompute godoc
// @Summary Recompute a student's academic performance
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id}/performance [post]
func (h *StudentHandler) Recompute(c *gin.Context) {
	student, err := h.performance.RecomputeStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Transcript godoc
// @Summary Download a student transcript as PDF
// @Tags Students
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /students/{id}/transcript [get]
func (h *StudentHandler) Transcript(c *gin.Context) {
	payload, filename, err := h.exports.TranscriptPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", payload)
}
