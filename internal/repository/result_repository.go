package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushub/campushub-api/internal/models"
)

// ResultRepository handles persistence of graded results.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs the repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// List returns results filtered by the provided criteria.
func (r *ResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.ResultDetail, int, error) {
	base := `FROM results r
LEFT JOIN modules m ON m.id = r.module_id`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("r.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.ModuleID != "" {
		conditions = append(conditions, fmt.Sprintf("r.module_id = $%d", len(args)+1))
		args = append(args, filter.ModuleID)
	}
	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("r.academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
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

	query := fmt.Sprintf(`SELECT r.id, r.student_id, r.module_id, r.grade, r.credit_hours, r.gpa,
        r.academic_year, r.semester, r.created_at, r.updated_at,
        m.code AS module_code, m.name AS module_name
        %s ORDER BY r.created_at DESC LIMIT %d OFFSET %d`, base+clause, size, offset)

	var results []models.ResultDetail
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}
	return results, total, nil
}

// ListByStudent returns every result recorded for a student.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Result, error) {
	const query = `SELECT id, student_id, module_id, grade, credit_hours, gpa, academic_year, semester,
        created_at, updated_at FROM results WHERE student_id = $1 ORDER BY created_at`
	var results []models.Result
	if err := r.db.SelectContext(ctx, &results, query, studentID); err != nil {
		return nil, fmt.Errorf("list student results: %w", err)
	}
	return results, nil
}

// ListDetailByStudent returns a student's results with module context, used
// for transcript export.
func (r *ResultRepository) ListDetailByStudent(ctx context.Context, studentID string) ([]models.ResultDetail, error) {
	const query = `SELECT r.id, r.student_id, r.module_id, r.grade, r.credit_hours, r.gpa,
        r.academic_year, r.semester, r.created_at, r.updated_at,
        m.code AS module_code, m.name AS module_name
        FROM results r
        LEFT JOIN modules m ON m.id = r.module_id
        WHERE r.student_id = $1
        ORDER BY r.academic_year, r.semester, m.code`
	var results []models.ResultDetail
	if err := r.db.SelectContext(ctx, &results, query, studentID); err != nil {
		return nil, fmt.Errorf("list student result details: %w", err)
	}
	return results, nil
}

// FindByID returns a result by its ID.
func (r *ResultRepository) FindByID(ctx context.Context, id string) (*models.Result, error) {
	const query = `SELECT id, student_id, module_id, grade, credit_hours, gpa, academic_year, semester,
        created_at, updated_at FROM results WHERE id = $1`
	var result models.Result
	if err := r.db.GetContext(ctx, &result, query, id); err != nil {
		return nil, err
	}
	return &result, nil
}

// Upsert inserts or replaces the grade for a student-module pairing.
func (r *ResultRepository) Upsert(ctx context.Context, result *models.Result) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	result.CreatedAt = now
	result.UpdatedAt = now
	const query = `INSERT INTO results (id, student_id, module_id, grade, credit_hours, gpa,
        academic_year, semester, created_at, updated_at)
        VALUES (:id, :student_id, :module_id, :grade, :credit_hours, :gpa,
        :academic_year, :semester, :created_at, :updated_at)
        ON CONFLICT (student_id, module_id) DO UPDATE SET
        grade = EXCLUDED.grade, credit_hours = EXCLUDED.credit_hours, gpa = EXCLUDED.gpa,
        academic_year = EXCLUDED.academic_year, semester = EXCLUDED.semester, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}

// Delete removes a result record.
func (r *ResultRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM results WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	return nil
}
