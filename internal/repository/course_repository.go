package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/campushub-api/internal/models"
)

// CourseRepository handles persistence of courses and their modules.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, code, name, total_credit_hours, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns all courses.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, code, name, total_credit_hours, created_at, updated_at FROM courses ORDER BY code`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListModulesByCourse returns the modules linked to a course via the
// course_modules join table.
func (r *CourseRepository) ListModulesByCourse(ctx context.Context, courseID string) ([]models.Module, error) {
	const query = `SELECT m.id, m.code, m.name, m.credit_hours, m.learning_outcomes, m.created_at, m.updated_at
        FROM modules m
        JOIN course_modules cm ON cm.module_id = m.id
        WHERE cm.course_id = $1
        ORDER BY m.code`
	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, query, courseID); err != nil {
		return nil, fmt.Errorf("list course modules: %w", err)
	}
	return modules, nil
}

// FindModuleByID returns a module by its ID.
func (r *CourseRepository) FindModuleByID(ctx context.Context, id string) (*models.Module, error) {
	const query = `SELECT id, code, name, credit_hours, learning_outcomes, created_at, updated_at FROM modules WHERE id = $1`
	var module models.Module
	if err := r.db.GetContext(ctx, &module, query, id); err != nil {
		return nil, err
	}
	return &module, nil
}

// ListModules returns modules filtered by the provided criteria.
func (r *CourseRepository) ListModules(ctx context.Context, filter models.ModuleFilter) ([]models.Module, int, error) {
	base := "FROM modules m"
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		base += " JOIN course_modules cm ON cm.module_id = m.id"
		conditions = append(conditions, fmt.Sprintf("cm.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(m.name ILIKE $%d OR m.code ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT m.id, m.code, m.name, m.credit_hours, m.learning_outcomes, m.created_at, m.updated_at
        %s ORDER BY m.code LIMIT %d OFFSET %d`, base+clause, size, offset)

	var modules []models.Module
	if err := r.db.SelectContext(ctx, &modules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list modules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count modules: %w", err)
	}
	return modules, total, nil
}
