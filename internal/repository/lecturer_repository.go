package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushub/campushub-api/internal/models"
)

// LecturerRepository handles persistence of lecturers.
type LecturerRepository struct {
	db *sqlx.DB
}

// NewLecturerRepository constructs the repository.
func NewLecturerRepository(db *sqlx.DB) *LecturerRepository {
	return &LecturerRepository{db: db}
}

const lecturerDetailQuery = `SELECT l.id, l.user_id, l.title, l.department, l.specializations,
        l.active, l.created_at, l.updated_at, u.full_name AS full_name, u.email AS email
        FROM lecturers l
        LEFT JOIN users u ON u.id = l.user_id`

// List returns all lecturers with user context.
func (r *LecturerRepository) List(ctx context.Context) ([]models.LecturerDetail, error) {
	query := lecturerDetailQuery + " ORDER BY u.full_name"
	var lecturers []models.LecturerDetail
	if err := r.db.SelectContext(ctx, &lecturers, query); err != nil {
		return nil, fmt.Errorf("list lecturers: %w", err)
	}
	return lecturers, nil
}

// ListActive returns lecturers eligible for scheduling.
func (r *LecturerRepository) ListActive(ctx context.Context) ([]models.Lecturer, error) {
	const query = `SELECT id, user_id, title, department, specializations, active, created_at, updated_at
        FROM lecturers WHERE active = TRUE ORDER BY department`
	var lecturers []models.Lecturer
	if err := r.db.SelectContext(ctx, &lecturers, query); err != nil {
		return nil, fmt.Errorf("list active lecturers: %w", err)
	}
	return lecturers, nil
}

// FindByID returns a lecturer with user context.
func (r *LecturerRepository) FindByID(ctx context.Context, id string) (*models.LecturerDetail, error) {
	query := lecturerDetailQuery + " WHERE l.id = $1"
	var lecturer models.LecturerDetail
	if err := r.db.GetContext(ctx, &lecturer, query, id); err != nil {
		return nil, err
	}
	return &lecturer, nil
}

// Create persists a new lecturer.
func (r *LecturerRepository) Create(ctx context.Context, lecturer *models.Lecturer) error {
	if lecturer.ID == "" {
		lecturer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	lecturer.CreatedAt = now
	lecturer.UpdatedAt = now
	const query = `INSERT INTO lecturers (id, user_id, title, department, specializations, active, created_at, updated_at)
        VALUES (:id, :user_id, :title, :department, :specializations, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, lecturer); err != nil {
		return fmt.Errorf("create lecturer: %w", err)
	}
	return nil
}

// SetActive toggles scheduling eligibility.
func (r *LecturerRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `UPDATE lecturers SET active = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, active, time.Now().UTC()); err != nil {
		return fmt.Errorf("update lecturer active flag: %w", err)
	}
	return nil
}
