package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
)

// IntakeCourseRepository abstracts intake-course persistence for the CRUD
// surface.
type IntakeCourseRepository interface {
	List(ctx context.Context, filter models.IntakeCourseFilter) ([]models.IntakeCourseDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.IntakeCourse, error)
	FindDetailByID(ctx context.Context, id string) (*models.IntakeCourseDetail, error)
	Create(ctx context.Context, item *models.IntakeCourse) error
	Update(ctx context.Context, item *models.IntakeCourse) error
}

// IntakeCourseService manages intake-course pairings. The enrollment counter
// is derived state owned by the enrollment aggregator; this service never
// writes it directly.
type IntakeCourseService struct {
	repo      IntakeCourseRepository
	courses   PerformanceCourseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewIntakeCourseService constructs the service.
func NewIntakeCourseService(repo IntakeCourseRepository, courses PerformanceCourseRepository, validate *validator.Validate, logger *zap.Logger) *IntakeCourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeCourseService{repo: repo, courses: courses, validator: validate, logger: logger}
}

// List returns intake-courses matching the filter.
func (s *IntakeCourseService) List(ctx context.Context, filter models.IntakeCourseFilter) ([]models.IntakeCourseDetail, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list intake courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one intake-course with intake and course names.
func (s *IntakeCourseService) Get(ctx context.Context, id string) (*models.IntakeCourseDetail, error) {
	item, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "intake course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load intake course")
	}
	return item, nil
}

// Create opens a course for an intake.
func (s *IntakeCourseService) Create(ctx context.Context, req dto.CreateIntakeCourseRequest) (*models.IntakeCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid intake course payload")
	}

	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrMissingReference, "course does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify course")
	}

	item := &models.IntakeCourse{
		IntakeID:        req.IntakeID,
		CourseID:        req.CourseID,
		MaxStudents:     req.MaxStudents,
		TuitionFee:      req.TuitionFee,
		RegistrationFee: req.RegistrationFee,
		Status:          models.IntakeCourseStatusAvailable,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create intake course")
	}
	return item, nil
}

// Update adjusts capacity and fees. Raising or lowering max_students can
// flip the AVAILABLE/FULL flag against the current counter.
func (s *IntakeCourseService) Update(ctx context.Context, id string, req dto.UpdateIntakeCourseRequest) (*models.IntakeCourse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid intake course payload")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "intake course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load intake course")
	}

	if req.MaxStudents > 0 {
		item.MaxStudents = req.MaxStudents
	}
	if req.TuitionFee != nil {
		item.TuitionFee = *req.TuitionFee
	}
	if req.RegistrationFee != nil {
		item.RegistrationFee = *req.RegistrationFee
	}
	item.Status = capacityStatus(item.CurrentEnrollment, item.MaxStudents)

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpdateFailure.Code, appErrors.ErrUpdateFailure.Status, "failed to update intake course")
	}
	return item, nil
}
