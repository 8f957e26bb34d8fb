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

func TestScheduleRepositoryBulkCreateCommitsAllEntries(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	entries := []models.ClassSchedule{
		{IntakeCourseID: "ic-1", ModuleID: "m-1", RoomID: "r-1", LecturerID: "l-1", DayOfWeek: "Monday", StartTime: "08:00", EndTime: "10:00"},
		{IntakeCourseID: "ic-1", ModuleID: "m-2", RoomID: "r-2", LecturerID: "l-2", DayOfWeek: "Tuesday", StartTime: "10:00", EndTime: "12:00"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO class_schedules`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO class_schedules`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.BulkCreate(context.Background(), entries)
	require.NoError(t, err)
	require.NotEmpty(t, entries[0].ID)
	require.NotEmpty(t, entries[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryBulkCreateRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	entries := []models.ClassSchedule{
		{IntakeCourseID: "ic-1", ModuleID: "m-1"},
		{IntakeCourseID: "ic-1", ModuleID: "m-2"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO class_schedules`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO class_schedules`).WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	err := repo.BulkCreate(context.Background(), entries)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryBulkCreateEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	require.NoError(t, repo.BulkCreate(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryDeleteByIntakeCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM class_schedules WHERE intake_course_id = $1")).
		WithArgs("ic-1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	require.NoError(t, repo.DeleteByIntakeCourse(context.Background(), "ic-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryFindConflicts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	classDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "intake_course_id", "module_id", "room_id", "lecturer_id", "day_of_week", "start_time"}).
		AddRow("cs-1", "ic-2", "m-9", "r-1", "l-1", "Monday", "08:00")
	mock.ExpectQuery(`FROM class_schedules WHERE day_of_week = \$1 AND start_time = \$2 AND class_date = \$3`).
		WithArgs("Monday", "08:00", classDate).
		WillReturnRows(rows)

	conflicts, err := repo.FindConflicts(context.Background(), "Monday", "08:00", classDate)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	require.Equal(t, "r-1", conflicts[0].RoomID)
	require.NoError(t, mock.ExpectationsWereMet())
}
