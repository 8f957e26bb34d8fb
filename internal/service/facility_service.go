package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
)

// RoomRepository abstracts room persistence.
type RoomRepository interface {
	List(ctx context.Context) ([]models.Room, error)
	FindByID(ctx context.Context, id string) (*models.Room, error)
	Create(ctx context.Context, room *models.Room) error
	UpdateStatus(ctx context.Context, id string, status models.RoomStatus) error
}

// LecturerRepository abstracts lecturer persistence.
type LecturerRepository interface {
	List(ctx context.Context) ([]models.LecturerDetail, error)
	FindByID(ctx context.Context, id string) (*models.LecturerDetail, error)
	Create(ctx context.Context, lecturer *models.Lecturer) error
	SetActive(ctx context.Context, id string, active bool) error
}

// FacilityService manages the scheduling inputs: rooms and lecturers.
type FacilityService struct {
	rooms     RoomRepository
	lecturers LecturerRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFacilityService constructs the service.
func NewFacilityService(rooms RoomRepository, lecturers LecturerRepository, validate *validator.Validate, logger *zap.Logger) *FacilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacilityService{rooms: rooms, lecturers: lecturers, validator: validate, logger: logger}
}

// ListRooms returns all rooms.
func (s *FacilityService) ListRooms(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list rooms")
	}
	return rooms, nil
}

// CreateRoom registers a teaching room.
func (s *FacilityService) CreateRoom(ctx context.Context, req dto.CreateRoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	roomType := req.RoomType
	if roomType == "" {
		roomType = "CLASSROOM"
	}
	room := &models.Room{
		Name:     req.Name,
		Building: req.Building,
		Capacity: req.Capacity,
		RoomType: roomType,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create room")
	}
	return room, nil
}

// SetRoomStatus flips a room between ACTIVE and MAINTENANCE.
func (s *FacilityService) SetRoomStatus(ctx context.Context, id string, status models.RoomStatus) error {
	if _, err := s.rooms.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load room")
	}
	if err := s.rooms.UpdateStatus(ctx, id, status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpdateFailure.Code, appErrors.ErrUpdateFailure.Status, "failed to update room status")
	}
	return nil
}

// ListLecturers returns all lecturers with user context.
func (s *FacilityService) ListLecturers(ctx context.Context) ([]models.LecturerDetail, error) {
	lecturers, err := s.lecturers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lecturers")
	}
	return lecturers, nil
}

// CreateLecturer registers a lecturer profile.
func (s *FacilityService) CreateLecturer(ctx context.Context, req dto.CreateLecturerRequest) (*models.Lecturer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lecturer payload")
	}
	lecturer := &models.Lecturer{
		UserID:          req.UserID,
		Title:           req.Title,
		Department:      req.Department,
		Specializations: pq.StringArray(req.Specializations),
		Active:          true,
	}
	if err := s.lecturers.Create(ctx, lecturer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lecturer")
	}
	return lecturer, nil
}

// SetLecturerActive toggles a lecturer's scheduling eligibility.
func (s *FacilityService) SetLecturerActive(ctx context.Context, id string, active bool) error {
	if _, err := s.lecturers.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lecturer not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturer")
	}
	if err := s.lecturers.SetActive(ctx, id, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpdateFailure.Code, appErrors.ErrUpdateFailure.Status, "failed to update lecturer")
	}
	return nil
}
