package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/models"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
)

// CourseCatalogRepository reads the course/module catalog.
type CourseCatalogRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListModulesByCourse(ctx context.Context, courseID string) ([]models.Module, error)
	ListModules(ctx context.Context, filter models.ModuleFilter) ([]models.Module, int, error)
}

// CourseDetail couples a course with its module list.
type CourseDetail struct {
	models.Course
	Modules []models.Module `json:"modules"`
}

// CourseService serves the read-only course and module catalog. Courses and
// modules are inputs to the aggregators and the generator; they are managed
// out of band.
type CourseService struct {
	repo   CourseCatalogRepository
	logger *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(repo CourseCatalogRepository, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, logger: logger}
}

// List returns all courses.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// Get returns one course with its modules.
func (s *CourseService) Get(ctx context.Context, id string) (*CourseDetail, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	modules, err := s.repo.ListModulesByCourse(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course modules")
	}
	return &CourseDetail{Course: *course, Modules: modules}, nil
}

// ListModules returns modules matching the filter.
func (s *CourseService) ListModules(ctx context.Context, filter models.ModuleFilter) ([]models.Module, *models.Pagination, error) {
	modules, total, err := s.repo.ListModules(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list modules")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return modules, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
