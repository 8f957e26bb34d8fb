package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campushub-api/internal/models"
)

func TestIntakeCourseRepositoryUpdateEnrollment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIntakeCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE intake_courses SET current_enrollment = $2, status = $3, updated_at = $4 WHERE id = $1")).
		WithArgs("ic-1", 30, models.IntakeCourseStatusFull, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateEnrollment(context.Background(), "ic-1", 30, models.IntakeCourseStatusFull)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntakeCourseRepositoryListAll(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIntakeCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "intake_id", "course_id", "max_students", "current_enrollment",
		"tuition_fee", "registration_fee", "status", "created_at", "updated_at",
	}).
		AddRow("ic-1", "in-1", "c-1", 30, 12, 15000.0, 500.0, models.IntakeCourseStatusAvailable, now, now).
		AddRow("ic-2", "in-1", "c-2", 25, 25, 12000.0, 500.0, models.IntakeCourseStatusFull, now, now)
	mock.ExpectQuery(`SELECT id, intake_id, course_id, max_students, current_enrollment`).
		WillReturnRows(rows)

	items, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, models.IntakeCourseStatusFull, items[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIntakeCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIntakeCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "intake_id", "course_id", "max_students", "current_enrollment",
		"tuition_fee", "registration_fee", "status", "created_at", "updated_at",
	}).AddRow("ic-1", "in-1", "c-1", 30, 12, 15000.0, 500.0, models.IntakeCourseStatusAvailable, now, now)
	mock.ExpectQuery(`SELECT id, intake_id, course_id, max_students, current_enrollment.+WHERE id = \$1`).
		WithArgs("ic-1").
		WillReturnRows(rows)

	item, err := repo.FindByID(context.Background(), "ic-1")
	require.NoError(t, err)
	require.Equal(t, 30, item.MaxStudents)
	require.NoError(t, mock.ExpectationsWereMet())
}
