package service

import (
	"context"
	"database/sql"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
)

// gradePoints maps letter grades onto the 4.0 scale.
var gradePoints = map[string]float64{
	"A+": 4.0,
	"A":  4.0,
	"A-": 3.7,
	"B+": 3.3,
	"B":  3.0,
	"B-": 2.7,
	"C+": 2.3,
	"C":  2.0,
	"C-": 1.7,
	"D+": 1.3,
	"D":  1.0,
	"F":  0.0,
}

// passingGrade reports whether a letter grade earns credit hours. Every
// known grade except F passes.
func passingGrade(grade string) bool {
	_, known := gradePoints[grade]
	return known && grade != "F"
}

// GradePoint returns the 4.0-scale value for a letter grade and whether the
// grade is recognised.
func GradePoint(grade string) (float64, bool) {
	point, ok := gradePoints[grade]
	return point, ok
}

// roundCGPA rounds to two decimals, halves away from zero.
func roundCGPA(v float64) float64 {
	return math.Round(v*100) / 100
}

// standingFor classifies a CGPA into an academic standing band.
func standingFor(cgpa float64) models.AcademicStanding {
	switch {
	case cgpa >= 3.7:
		return models.StandingDeanList
	case cgpa >= 2.0:
		return models.StandingGood
	default:
		return models.StandingProbation
	}
}

// PerformanceStudentRepository exposes the student reads and the scalar
// write used by the performance aggregator.
type PerformanceStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	UpdatePerformance(ctx context.Context, id string, cgpa float64, completed, total int, standing models.AcademicStanding) error
	ListIDs(ctx context.Context) ([]string, error)
}

// PerformanceResultRepository exposes the graded results of a student.
type PerformanceResultRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.Result, error)
}

// PerformanceCourseRepository resolves the module list of a student's
// enrolled course.
type PerformanceCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListModulesByCourse(ctx context.Context, courseID string) ([]models.Module, error)
}

// PerformanceService recomputes a student's CGPA, completed credit hours and
// total credit hours from their graded results and the module list of their
// enrolled course.
type PerformanceService struct {
	deps    StudentPerformanceDeps
	logger  *zap.Logger
	metrics *MetricsService
}

// StudentPerformanceDeps bundles the repositories the aggregator reads from.
type StudentPerformanceDeps struct {
	Students PerformanceStudentRepository
	Results  PerformanceResultRepository
	Courses  PerformanceCourseRepository
}

// NewPerformanceService constructs the aggregator.
func NewPerformanceService(deps StudentPerformanceDeps, metrics *MetricsService, logger *zap.Logger) *PerformanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PerformanceService{deps: deps, logger: logger, metrics: metrics}
}

// RecomputeStudent recalculates and persists the academic scalars for one
// student. CGPA is the credit-hour-weighted mean over every graded result,
// failing grades included, rounded to two decimals; a student with no
// results lands on zero.
func (s *PerformanceService) RecomputeStudent(ctx context.Context, studentID string) (*models.Student, error) {
	student, err := s.deps.Students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	if student.CourseID == "" {
		return nil, appErrors.Clone(appErrors.ErrMissingReference, "student has no enrolled course")
	}
	modules, err := s.deps.Courses.ListModulesByCourse(ctx, student.CourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrMissingReference, "enrolled course has no modules")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course modules")
	}

	results, err := s.deps.Results.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}

	totalCreditHours := 0
	for _, m := range modules {
		totalCreditHours += m.CreditHours
	}

	var weightedPoints float64
	var gradedHours, completedHours int
	for _, r := range results {
		point, known := GradePoint(r.Grade)
		if !known {
			continue
		}
		weightedPoints += point * float64(r.CreditHours)
		gradedHours += r.CreditHours
		if passingGrade(r.Grade) {
			completedHours += r.CreditHours
		}
	}

	cgpa := 0.0
	if gradedHours > 0 {
		cgpa = roundCGPA(weightedPoints / float64(gradedHours))
	}
	standing := standingFor(cgpa)

	if err := s.deps.Students.UpdatePerformance(ctx, studentID, cgpa, completedHours, totalCreditHours, standing); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpdateFailure.Code, appErrors.ErrUpdateFailure.Status, "failed to persist performance")
	}

	if s.metrics != nil {
		s.metrics.RecordPerformanceRecompute()
	}

	updated := student.Student
	updated.CGPA = cgpa
	updated.CompletedCreditHours = completedHours
	updated.TotalCreditHours = totalCreditHours
	updated.AcademicStanding = standing
	return &updated, nil
}

// RecomputeAll applies RecomputeStudent to every student sequentially,
// continuing past individual failures and accumulating a tally.
func (s *PerformanceService) RecomputeAll(ctx context.Context) (*dto.PerformanceRecomputeResponse, error) {
	ids, err := s.deps.Students.ListIDs(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}

	resp := &dto.PerformanceRecomputeResponse{GeneratedAt: time.Now().UTC()}
	for _, id := range ids {
		if _, err := s.RecomputeStudent(ctx, id); err != nil {
			resp.ErrorCount++
			resp.Errors = append(resp.Errors, dto.PerformanceRecomputeError{StudentID: id, Error: err.Error()})
			s.logger.Warn("performance recompute failed", zap.String("student_id", id), zap.Error(err))
			continue
		}
		resp.SuccessCount++
	}

	s.logger.Info("performance recompute finished",
		zap.Int("success", resp.SuccessCount),
		zap.Int("errors", resp.ErrorCount))
	return resp, nil
}
