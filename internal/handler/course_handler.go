package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/service"
	"github.com/campushub/campushub-api/pkg/response"
)

// CourseHandler exposes the read-only course and module catalog.
type CourseHandler struct {
	courses *service.CourseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Get godoc
// @Summary Get a course with its modules
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// ListModules godoc
// @Summary List modules
// @Tags Courses
// @Produce json
// @Param courseId query string false "Filter by course"
// @Param search query string false "Search by name or code"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /modules [get]
func (h *CourseHandler) ListModules(c *gin.Context) {
	var filter models.ModuleFilter
	filter.CourseID = c.Query("courseId")
	filter.Search = c.Query("search")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}

	modules, pagination, err := h.courses.ListModules(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, modules, pagination)
}
