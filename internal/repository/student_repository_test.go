package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campushub-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryCountByIntakeCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"intake_course_id", "total"}).
		AddRow("ic-1", 12).
		AddRow("ic-2", 30)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT intake_course_id, COUNT(*) AS total FROM students GROUP BY intake_course_id")).
		WillReturnRows(rows)

	counts, err := repo.CountByIntakeCourse(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]int{"ic-1": 12, "ic-2": 30}, counts)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdatePerformance(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec(`UPDATE students SET cgpa = \$2, completed_credit_hours = \$3, total_credit_hours = \$4`).
		WithArgs("stu-1", 3.33, 8, 12, models.StandingGood, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdatePerformance(context.Background(), "stu-1", 3.33, 8, 12, models.StandingGood)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListIDs(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id"}).AddRow("stu-1").AddRow("stu-2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM students ORDER BY created_at")).
		WillReturnRows(rows)

	ids, err := repo.ListIDs(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"stu-1", "stu-2"}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindByIDDanglingReference(t *testing.T) {
	// A student whose intake-course chain no longer resolves must still scan;
	// the joined columns come back as empty strings, not a row error.
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "intake_course_id", "cgpa", "completed_credit_hours",
		"total_credit_hours", "status", "academic_standing",
		"full_name", "email", "course_id", "course_name", "intake_name",
	}).AddRow("stu-1", "usr-1", "ic-gone", 0.0, 0, 0, models.StudentStatusEnrolled, models.StandingGood,
		"", "", "", "", "")
	mock.ExpectQuery(`COALESCE\(ic\.course_id, ''\) AS course_id.+WHERE s\.id = \$1`).
		WithArgs("stu-1").
		WillReturnRows(rows)

	student, err := repo.FindByID(context.Background(), "stu-1")
	require.NoError(t, err)
	require.Empty(t, student.CourseID)
	require.Empty(t, student.CourseName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	listRows := sqlmock.NewRows([]string{"id", "user_id", "intake_course_id", "cgpa", "status"}).
		AddRow("stu-1", "usr-1", "ic-1", 3.5, models.StudentStatusActive)
	mock.ExpectQuery(`SELECT s\.id, s\.user_id, s\.intake_course_id.+WHERE s\.intake_course_id = \$1 AND s\.status = \$2`).
		WithArgs("ic-1", models.StudentStatusActive).
		WillReturnRows(listRows)
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("ic-1", models.StudentStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	students, total, err := repo.List(context.Background(), models.StudentFilter{
		IntakeCourseID: "ic-1",
		Status:         models.StudentStatusActive,
	})
	require.NoError(t, err)
	require.Len(t, students, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
