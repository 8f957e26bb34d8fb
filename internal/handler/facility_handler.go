package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	"github.com/campushub/campushub-api/internal/service"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/response"
)

// FacilityHandler exposes room and lecturer endpoints.
type FacilityHandler struct {
	facilities *service.FacilityService
}

// NewFacilityHandler constructs FacilityHandler.
func NewFacilityHandler(facilities *service.FacilityService) *FacilityHandler {
	return &FacilityHandler{facilities: facilities}
}

// ListRooms godoc
// @Summary List rooms
// @Tags Facilities
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /rooms [get]
func (h *FacilityHandler) ListRooms(c *gin.Context) {
	rooms, err := h.facilities.ListRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rooms, nil)
}

// CreateRoom godoc
// @Summary Create a room
// @Tags Facilities
// @Accept json
// @Produce json
// @Param payload body dto.CreateRoomRequest true "Room payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /rooms [post]
func (h *FacilityHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	room, err := h.facilities.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, room)
}

// UpdateRoomStatus godoc
// @Summary Change a room's status
// @Tags Facilities
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param payload body object true "Status payload"
// @Success 204
// @Security BearerAuth
// @Router /rooms/{id}/status [patch]
func (h *FacilityHandler) UpdateRoomStatus(c *gin.Context) {
	var req struct {
		Status models.RoomStatus `json:"status" binding:"required,oneof=ACTIVE MAINTENANCE RETIRED"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.facilities.SetRoomStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListLecturers godoc
// @Summary List lecturers
// @Tags Facilities
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /lecturers [get]
func (h *FacilityHandler) ListLecturers(c *gin.Context) {
	lecturers, err := h.facilities.ListLecturers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lecturers, nil)
}

// CreateLecturer godoc
// @Summary Create a lecturer profile
// @Tags Facilities
// @Accept json
// @Produce json
// @Param payload body dto.CreateLecturerRequest true "Lecturer payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /lecturers [post]
func (h *FacilityHandler) CreateLecturer(c *gin.Context) {
	var req dto.CreateLecturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	lecturer, err := h.facilities.CreateLecturer(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lecturer)
}

// UpdateLecturerActive godoc
// @Summary Activate or deactivate a lecturer
// @Tags Facilities
// @Accept json
// @Produce json
// @Param id path string true "Lecturer ID"
// @Param payload body object true "Active flag"
// @Success 204
// @Security BearerAuth
// @Router /lecturers/{id}/active [patch]
func (h *FacilityHandler) UpdateLecturerActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.facilities.SetLecturerActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
