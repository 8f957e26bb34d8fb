package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campushub-api/internal/models"
)

func TestResultRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "module_id", "grade", "credit_hours", "gpa", "academic_year", "semester", "created_at", "updated_at"}).
		AddRow("res-1", "stu-1", "m-1", "A", 4, 4.0, "2025/2026", 1, now, now).
		AddRow("res-2", "stu-1", "m-2", "F", 3, 0.0, "2025/2026", 1, now, now)
	mock.ExpectQuery(`FROM results WHERE student_id = \$1 ORDER BY created_at`).
		WithArgs("stu-1").
		WillReturnRows(rows)

	results, err := repo.ListByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "F", results[1].Grade)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectExec(`INSERT INTO results .+ON CONFLICT \(student_id, module_id\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	result := &models.Result{StudentID: "stu-1", ModuleID: "m-1", Grade: "B+", CreditHours: 4, GPA: 3.3, AcademicYear: "2025/2026", Semester: 1}
	require.NoError(t, repo.Upsert(context.Background(), result))
	require.NotEmpty(t, result.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}
