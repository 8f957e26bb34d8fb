package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/jobs"
)

// ResultRepository abstracts result persistence.
type ResultRepository interface {
	List(ctx context.Context, filter models.ResultFilter) ([]models.ResultDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Result, error)
	Upsert(ctx context.Context, result *models.Result) error
	Delete(ctx context.Context, id string) error
}

// resultModuleRepository resolves the module a grade is recorded against.
type resultModuleRepository interface {
	FindModuleByID(ctx context.Context, id string) (*models.Module, error)
}

// JobPerformanceRecompute is the queue job type for deferred performance
// recomputation after a grade write.
const JobPerformanceRecompute = "performance.recompute"

// ResultService manages graded results. Every write queues a performance
// recompute for the affected student so the derived CGPA catches up without
// blocking the request.
type ResultService struct {
	repo      ResultRepository
	modules   resultModuleRepository
	students  PerformanceStudentRepository
	queue     *jobs.Queue
	validator *validator.Validate
	logger    *zap.Logger
}

// NewResultService constructs the service.
func NewResultService(repo ResultRepository, modules resultModuleRepository, students PerformanceStudentRepository, queue *jobs.Queue, validate *validator.Validate, logger *zap.Logger) *ResultService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{
		repo:      repo,
		modules:   modules,
		students:  students,
		queue:     queue,
		validator: validate,
		logger:    logger,
	}
}

// List returns results matching the filter.
func (s *ResultService) List(ctx context.Context, filter models.ResultFilter) ([]models.ResultDetail, *models.Pagination, error) {
	results, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return results, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Upsert records or replaces a grade. The per-result GPA scalar is derived
// from the letter grade.
func (s *ResultService) Upsert(ctx context.Context, req dto.UpsertResultRequest) (*models.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid result payload")
	}

	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrMissingReference, "student does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify student")
	}
	if _, err := s.modules.FindModuleByID(ctx, req.ModuleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrMissingReference, "module does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify module")
	}

	point, ok := GradePoint(req.Grade)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown letter grade")
	}

	result := &models.Result{
		StudentID:    req.StudentID,
		ModuleID:     req.ModuleID,
		Grade:        req.Grade,
		CreditHours:  req.CreditHours,
		GPA:          point,
		AcademicYear: req.AcademicYear,
		Semester:     req.Semester,
	}
	if err := s.repo.Upsert(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpdateFailure.Code, appErrors.ErrUpdateFailure.Status, "failed to store result")
	}

	s.queueRecompute(req.StudentID)
	return result, nil
}

// Delete removes a grade and queues a recompute for its student.
func (s *ResultService) Delete(ctx context.Context, id string) error {
	result, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpdateFailure.Code, appErrors.ErrUpdateFailure.Status, "failed to delete result")
	}

	s.queueRecompute(result.StudentID)
	return nil
}

func (s *ResultService) queueRecompute(studentID string) {
	if s.queue == nil {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    JobPerformanceRecompute,
		Payload: studentID,
	})
	if err != nil {
		s.logger.Warn("failed to queue performance recompute",
			zap.String("student_id", studentID), zap.Error(err))
	}
}
