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

// IntakeCourseRepository handles persistence of intake-course pairings.
type IntakeCourseRepository struct {
	db *sqlx.DB
}

// NewIntakeCourseRepository constructs the repository.
func NewIntakeCourseRepository(db *sqlx.DB) *IntakeCourseRepository {
	return &IntakeCourseRepository{db: db}
}

const intakeCourseDetailQuery = `SELECT ic.id, ic.intake_id, ic.course_id, ic.max_students, ic.current_enrollment,
        ic.tuition_fee, ic.registration_fee, ic.status, ic.created_at, ic.updated_at,
        i.name AS intake_name, c.code AS course_code, c.name AS course_name
        FROM intake_courses ic
        LEFT JOIN intakes i ON i.id = ic.intake_id
        LEFT JOIN courses c ON c.id = ic.course_id`

// List returns intake-courses filtered by the provided criteria.
func (r *IntakeCourseRepository) List(ctx context.Context, filter models.IntakeCourseFilter) ([]models.IntakeCourseDetail, int, error) {
	base := `FROM intake_courses ic
LEFT JOIN intakes i ON i.id = ic.intake_id
LEFT JOIN courses c ON c.id = ic.course_id`
	var conditions []string
	var args []interface{}

	if filter.IntakeID != "" {
		conditions = append(conditions, fmt.Sprintf("ic.intake_id = $%d", len(args)+1))
		args = append(args, filter.IntakeID)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("ic.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("ic.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"created_at":  "ic.created_at",
		"intake_name": "i.name",
		"course_name": "c.name",
		"enrollment":  "ic.current_enrollment",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "ic.created_at"
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

	query := fmt.Sprintf(`SELECT ic.id, ic.intake_id, ic.course_id, ic.max_students, ic.current_enrollment,
        ic.tuition_fee, ic.registration_fee, ic.status, ic.created_at, ic.updated_at,
        i.name AS intake_name, c.code AS course_code, c.name AS course_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var items []models.IntakeCourseDetail
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list intake courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count intake courses: %w", err)
	}
	return items, total, nil
}

// ListAll returns every intake-course row, used by the enrollment aggregator.
func (r *IntakeCourseRepository) ListAll(ctx context.Context) ([]models.IntakeCourse, error) {
	const query = `SELECT id, intake_id, course_id, max_students, current_enrollment,
        tuition_fee, registration_fee, status, created_at, updated_at FROM intake_courses`
	var items []models.IntakeCourse
	if err := r.db.SelectContext(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("list all intake courses: %w", err)
	}
	return items, nil
}

// FindByID returns an intake-course by its ID.
func (r *IntakeCourseRepository) FindByID(ctx context.Context, id string) (*models.IntakeCourse, error) {
	const query = `SELECT id, intake_id, course_id, max_students, current_enrollment,
        tuition_fee, registration_fee, status, created_at, updated_at FROM intake_courses WHERE id = $1`
	var item models.IntakeCourse
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindDetailByID returns an intake-course with intake and course context.
func (r *IntakeCourseRepository) FindDetailByID(ctx context.Context, id string) (*models.IntakeCourseDetail, error) {
	query := intakeCourseDetailQuery + " WHERE ic.id = $1"
	var detail models.IntakeCourseDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create persists a new intake-course pairing.
func (r *IntakeCourseRepository) Create(ctx context.Context, item *models.IntakeCourse) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Status == "" {
		item.Status = models.IntakeCourseStatusAvailable
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	const query = `INSERT INTO intake_courses (id, intake_id, course_id, max_students, current_enrollment,
        tuition_fee, registration_fee, status, created_at, updated_at)
        VALUES (:id, :intake_id, :course_id, :max_students, :current_enrollment,
        :tuition_fee, :registration_fee, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create intake course: %w", err)
	}
	return nil
}

// Update rewrites capacity and fee fields.
func (r *IntakeCourseRepository) Update(ctx context.Context, item *models.IntakeCourse) error {
	const query = `UPDATE intake_courses SET max_students = $2, tuition_fee = $3, registration_fee = $4,
        status = $5, updated_at = $6 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, item.ID, item.MaxStudents, item.TuitionFee, item.RegistrationFee, item.Status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update intake course: %w", err)
	}
	return nil
}

// UpdateEnrollment writes the recomputed enrollment counter and capacity
// status in a single row update.
func (r *IntakeCourseRepository) UpdateEnrollment(ctx context.Context, id string, count int, status models.IntakeCourseStatus) error {
	const query = `UPDATE intake_courses SET current_enrollment = $2, status = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, count, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update intake course enrollment: %w", err)
	}
	return nil
}
