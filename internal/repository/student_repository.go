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

// StudentRepository handles persistence of students.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// LEFT JOINed columns are coalesced so a dangling reference scans as an
// empty string instead of failing the row.
const studentDetailColumns = `s.id, s.user_id, s.intake_course_id, s.cgpa, s.completed_credit_hours,
        s.total_credit_hours, s.status, s.academic_standing, s.created_at, s.updated_at,
        COALESCE(u.full_name, '') AS full_name, COALESCE(u.email, '') AS email,
        COALESCE(ic.course_id, '') AS course_id, COALESCE(c.name, '') AS course_name,
        COALESCE(i.name, '') AS intake_name`

const studentDetailJoins = `FROM students s
LEFT JOIN users u ON u.id = s.user_id
LEFT JOIN intake_courses ic ON ic.id = s.intake_course_id
LEFT JOIN courses c ON c.id = ic.course_id
LEFT JOIN intakes i ON i.id = ic.intake_id`

// List returns students filtered by the provided criteria.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	var conditions []string
	var args []interface{}

	if filter.IntakeCourseID != "" {
		conditions = append(conditions, fmt.Sprintf("s.intake_course_id = $%d", len(args)+1))
		args = append(args, filter.IntakeCourseID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(u.full_name ILIKE $%d OR u.email ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"created_at": "s.created_at",
		"full_name":  "u.full_name",
		"cgpa":       "s.cgpa",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "s.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		studentDetailColumns, studentDetailJoins+clause, orderBy, order, size, offset)

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", studentDetailJoins+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID returns a student with user and course context.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE s.id = $1", studentDetailColumns, studentDetailJoins)
	var student models.StudentDetail
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create persists a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.Status == "" {
		student.Status = models.StudentStatusEnrolled
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, user_id, intake_course_id, cgpa, completed_credit_hours,
        total_credit_hours, status, academic_standing, created_at, updated_at)
        VALUES (:id, :user_id, :intake_course_id, :cgpa, :completed_credit_hours,
        :total_credit_hours, :status, :academic_standing, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update rewrites the mutable CRUD fields of a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	const query = `UPDATE students SET intake_course_id = $2, status = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, student.ID, student.IntakeCourseID, student.Status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// UpdateStatus transitions a student's lifecycle status.
func (r *StudentRepository) UpdateStatus(ctx context.Context, id string, status models.StudentStatus) error {
	const query = `UPDATE students SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update student status: %w", err)
	}
	return nil
}

// UpdatePerformance writes the recomputed academic scalars for a student.
func (r *StudentRepository) UpdatePerformance(ctx context.Context, id string, cgpa float64, completed, total int, standing models.AcademicStanding) error {
	const query = `UPDATE students SET cgpa = $2, completed_credit_hours = $3, total_credit_hours = $4,
        academic_standing = $5, updated_at = $6 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, cgpa, completed, total, standing, time.Now().UTC()); err != nil {
		return fmt.Errorf("update student performance: %w", err)
	}
	return nil
}

// CountByIntakeCourse returns the number of students per intake-course.
func (r *StudentRepository) CountByIntakeCourse(ctx context.Context) (map[string]int, error) {
	const query = `SELECT intake_course_id, COUNT(*) AS total FROM students GROUP BY intake_course_id`
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count students by intake course: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var intakeCourseID string
		var total int
		if err := rows.Scan(&intakeCourseID, &total); err != nil {
			return nil, fmt.Errorf("scan student count: %w", err)
		}
		counts[intakeCourseID] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate student counts: %w", err)
	}
	return counts, nil
}

// ListIDs returns every student ID, used by batch recomputation.
func (r *StudentRepository) ListIDs(ctx context.Context) ([]string, error) {
	const query = `SELECT id FROM students ORDER BY created_at`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("list student ids: %w", err)
	}
	return ids, nil
}
