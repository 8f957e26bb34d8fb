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

// StudentRepository abstracts student persistence for the CRUD surface.
type StudentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	UpdateStatus(ctx context.Context, id string, status models.StudentStatus) error
}

// StudentService handles the student CRUD surface. Creating, moving or
// removing a student changes an intake-course's headcount, so the enrollment
// aggregator is invoked after every write that touches the pairing.
type StudentService struct {
	repo          StudentRepository
	intakeCourses ScheduleIntakeCourseRepository
	enrollment    *EnrollmentService
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(repo StudentRepository, intakeCourses ScheduleIntakeCourseRepository, enrollment *EnrollmentService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{
		repo:          repo,
		intakeCourses: intakeCourses,
		enrollment:    enrollment,
		validator:     validate,
		logger:        logger,
	}
}

// List returns students matching the filter with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one student with user and course context.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a student and refreshes the target intake-course counter.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	if _, err := s.intakeCourses.FindByID(ctx, req.IntakeCourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrMissingReference, "intake course does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify intake course")
	}

	student := &models.Student{
		UserID:           req.UserID,
		IntakeCourseID:   req.IntakeCourseID,
		Status:           models.StudentStatus(req.Status),
		AcademicStanding: models.StandingGood,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}

	if s.enrollment != nil {
		if _, err := s.enrollment.RecomputeOne(ctx, student.IntakeCourseID); err != nil {
			s.logger.Warn("enrollment refresh after student create failed",
				zap.String("intake_course_id", student.IntakeCourseID), zap.Error(err))
		}
	}
	return student, nil
}

// Update moves a student between intake-courses or statuses, refreshing the
// counters on both sides of a move.
func (s *StudentService) Update(ctx context.Context, id string, req dto.UpdateStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	previousIntakeCourse := current.IntakeCourseID
	if req.IntakeCourseID != "" {
		if _, err := s.intakeCourses.FindByID(ctx, req.IntakeCourseID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrMissingReference, "intake course does not exist")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify intake course")
		}
		current.IntakeCourseID = req.IntakeCourseID
	}
	if req.Status != "" {
		current.Status = models.StudentStatus(req.Status)
	}

	if err := s.repo.Update(ctx, &current.Student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpdateFailure.Code, appErrors.ErrUpdateFailure.Status, "failed to update student")
	}

	if s.enrollment != nil {
		for _, icID := range []string{previousIntakeCourse, current.IntakeCourseID} {
			if icID == "" {
				continue
			}
			if _, err := s.enrollment.RecomputeOne(ctx, icID); err != nil {
				s.logger.Warn("enrollment refresh after student update failed",
					zap.String("intake_course_id", icID), zap.Error(err))
			}
			if previousIntakeCourse == current.IntakeCourseID {
				break
			}
		}
	}
	return current, nil
}

// UpdateStatus transitions a student's lifecycle status only.
func (s *StudentService) UpdateStatus(ctx context.Context, id string, status models.StudentStatus) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpdateFailure.Code, appErrors.ErrUpdateFailure.Status, "failed to update student status")
	}
	if s.enrollment != nil {
		if _, err := s.enrollment.RecomputeOne(ctx, current.IntakeCourseID); err != nil {
			s.logger.Warn("enrollment refresh after status change failed",
				zap.String("intake_course_id", current.IntakeCourseID), zap.Error(err))
		}
	}
	return nil
}
