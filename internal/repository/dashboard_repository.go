package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
)

// DashboardRepository aggregates counts across the campus tables.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Counts returns entity totals for the admin dashboard.
func (r *DashboardRepository) Counts(ctx context.Context) (dto.DashboardCounts, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM students) AS students,
        (SELECT COUNT(*) FROM lecturers) AS lecturers,
        (SELECT COUNT(*) FROM rooms) AS rooms,
        (SELECT COUNT(*) FROM modules) AS modules,
        (SELECT COUNT(*) FROM intake_courses) AS intake_courses`
	var counts dto.DashboardCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return dto.DashboardCounts{}, fmt.Errorf("dashboard counts: %w", err)
	}
	return counts, nil
}

// EnrollmentTotals returns the sum of enrollment counters and how many
// intake-courses are at capacity.
func (r *DashboardRepository) EnrollmentTotals(ctx context.Context) (total int, full int, err error) {
	const query = `SELECT COALESCE(SUM(current_enrollment), 0) AS total,
        COUNT(*) FILTER (WHERE status = $1) AS full
        FROM intake_courses`
	row := struct {
		Total int `db:"total"`
		Full  int `db:"full"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, models.IntakeCourseStatusFull); err != nil {
		return 0, 0, fmt.Errorf("dashboard enrollment totals: %w", err)
	}
	return row.Total, row.Full, nil
}
