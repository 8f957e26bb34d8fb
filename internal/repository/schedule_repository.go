package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campushub/campushub-api/internal/models"
)

// ScheduleRepository handles persistence of class schedules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// BulkCreate inserts a batch of schedule entries in one transaction. Either
// every entry lands or none does.
func (r *ScheduleRepository) BulkCreate(ctx context.Context, entries []models.ClassSchedule) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule insert: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT INTO class_schedules (id, intake_course_id, module_id, room_id, lecturer_id,
        day_of_week, start_time, end_time, class_date, module_start_date, module_end_date, created_at, updated_at)
        VALUES (:id, :intake_course_id, :module_id, :room_id, :lecturer_id,
        :day_of_week, :start_time, :end_time, :class_date, :module_start_date, :module_end_date, :created_at, :updated_at)`

	now := time.Now().UTC()
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		entries[i].CreatedAt = now
		entries[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, entries[i]); err != nil {
			return fmt.Errorf("insert schedule entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule insert: %w", err)
	}
	return nil
}

// ListByIntakeCourse returns the persisted timetable for an intake-course,
// ordered by first occurrence then start time.
func (r *ScheduleRepository) ListByIntakeCourse(ctx context.Context, intakeCourseID string) ([]models.ClassScheduleDetail, error) {
	const query = `SELECT cs.id, cs.intake_course_id, cs.module_id, cs.room_id, cs.lecturer_id,
        cs.day_of_week, cs.start_time, cs.end_time, cs.class_date, cs.module_start_date, cs.module_end_date,
        cs.created_at, cs.updated_at,
        m.code AS module_code, m.name AS module_name,
        r.name AS room_name, u.full_name AS lecturer_name
        FROM class_schedules cs
        LEFT JOIN modules m ON m.id = cs.module_id
        LEFT JOIN rooms r ON r.id = cs.room_id
        LEFT JOIN lecturers l ON l.id = cs.lecturer_id
        LEFT JOIN users u ON u.id = l.user_id
        WHERE cs.intake_course_id = $1
        ORDER BY cs.class_date, cs.start_time`
	var entries []models.ClassScheduleDetail
	if err := r.db.SelectContext(ctx, &entries, query, intakeCourseID); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return entries, nil
}

// DeleteByIntakeCourse clears the timetable for an intake-course.
func (r *ScheduleRepository) DeleteByIntakeCourse(ctx context.Context, intakeCourseID string) error {
	const query = `DELETE FROM class_schedules WHERE intake_course_id = $1`
	if _, err := r.db.ExecContext(ctx, query, intakeCourseID); err != nil {
		return fmt.Errorf("delete schedules: %w", err)
	}
	return nil
}

// FindConflicts returns existing entries occupying the same day, start time
// and first occurrence date. Used when saving a generated timetable against
// schedules already persisted for other intake-courses.
func (r *ScheduleRepository) FindConflicts(ctx context.Context, dayOfWeek, startTime string, classDate time.Time) ([]models.ClassSchedule, error) {
	const query = `SELECT id, intake_course_id, module_id, room_id, lecturer_id,
        day_of_week, start_time, end_time, class_date, module_start_date, module_end_date, created_at, updated_at
        FROM class_schedules WHERE day_of_week = $1 AND start_time = $2 AND class_date = $3`
	var entries []models.ClassSchedule
	if err := r.db.SelectContext(ctx, &entries, query, dayOfWeek, startTime, classDate); err != nil {
		return nil, fmt.Errorf("find schedule conflicts: %w", err)
	}
	return entries, nil
}
