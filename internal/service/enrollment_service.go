package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
)

// EnrollmentStudentRepository exposes the student counts needed by the
// enrollment aggregator.
type EnrollmentStudentRepository interface {
	CountByIntakeCourse(ctx context.Context) (map[string]int, error)
}

// EnrollmentIntakeCourseRepository exposes intake-course reads and the
// counter write used by the aggregator.
type EnrollmentIntakeCourseRepository interface {
	ListAll(ctx context.Context) ([]models.IntakeCourse, error)
	FindByID(ctx context.Context, id string) (*models.IntakeCourse, error)
	UpdateEnrollment(ctx context.Context, id string, count int, status models.IntakeCourseStatus) error
}

// EnrollmentService recomputes the derived current_enrollment counter of
// every intake-course from the authoritative student rows. The recompute is
// idempotent: a second run over unchanged data writes the same values.
type EnrollmentService struct {
	students      EnrollmentStudentRepository
	intakeCourses EnrollmentIntakeCourseRepository
	cache         *CacheService
	metrics       *MetricsService
	concurrency   int
	logger        *zap.Logger
}

// NewEnrollmentService constructs the aggregator.
func NewEnrollmentService(students EnrollmentStudentRepository, intakeCourses EnrollmentIntakeCourseRepository, cache *CacheService, metrics *MetricsService, concurrency int, logger *zap.Logger) *EnrollmentService {
	if concurrency <= 0 {
		concurrency = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		students:      students,
		intakeCourses: intakeCourses,
		cache:         cache,
		metrics:       metrics,
		concurrency:   concurrency,
		logger:        logger,
	}
}

// capacityStatus derives the AVAILABLE/FULL flag from a counter and capacity.
func capacityStatus(count, maxStudents int) models.IntakeCourseStatus {
	if maxStudents > 0 && count >= maxStudents {
		return models.IntakeCourseStatusFull
	}
	return models.IntakeCourseStatusAvailable
}

// RecomputeAll recounts students per intake-course and writes the counter and
// capacity status back. Intake-courses with no matching students are reset to
// zero. One failed row does not abort the rest of the run.
func (s *EnrollmentService) RecomputeAll(ctx context.Context) (*dto.EnrollmentRecomputeResponse, error) {
	countStart := time.Now()
	counts, err := s.students.CountByIntakeCourse(ctx)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("students_count_by_intake_course", time.Since(countStart))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	items, err := s.intakeCourses.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list intake courses")
	}

	outcomes := make([]dto.EnrollmentRecomputeOutcome, len(items))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item models.IntakeCourse) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			count := counts[item.ID]
			status := capacityStatus(count, item.MaxStudents)
			outcome := dto.EnrollmentRecomputeOutcome{
				IntakeCourseID: item.ID,
				PreviousCount:  item.CurrentEnrollment,
				CurrentCount:   count,
				Status:         string(status),
			}

			// Unchanged counters are reported but not rewritten, which
			// makes a back-to-back run issue zero writes.
			if count != item.CurrentEnrollment || status != item.Status {
				if err := s.intakeCourses.UpdateEnrollment(ctx, item.ID, count, status); err != nil {
					outcome.Error = err.Error()
					s.logger.Warn("enrollment update failed",
						zap.String("intake_course_id", item.ID),
						zap.Error(err))
				} else {
					outcome.Updated = true
				}
			}
			outcomes[i] = outcome
		}(i, item)
	}
	wg.Wait()

	sort.Slice(outcomes, func(a, b int) bool {
		return outcomes[a].IntakeCourseID < outcomes[b].IntakeCourseID
	})

	resp := &dto.EnrollmentRecomputeResponse{
		Outcomes:    outcomes,
		GeneratedAt: time.Now().UTC(),
	}
	for _, o := range outcomes {
		switch {
		case o.Updated:
			resp.Updated++
		case o.Error != "":
			resp.Failed++
		}
	}

	if s.metrics != nil {
		s.metrics.RecordEnrollmentRecompute()
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, "dashboard:*")
	}

	s.logger.Info("enrollment recompute finished",
		zap.Int("updated", resp.Updated),
		zap.Int("failed", resp.Failed))
	return resp, nil
}

// RecomputeOne recounts a single intake-course, used after student CRUD.
func (s *EnrollmentService) RecomputeOne(ctx context.Context, intakeCourseID string) (*dto.EnrollmentRecomputeOutcome, error) {
	item, err := s.intakeCourses.FindByID(ctx, intakeCourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "intake course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load intake course")
	}

	countStart := time.Now()
	counts, err := s.students.CountByIntakeCourse(ctx)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("students_count_by_intake_course", time.Since(countStart))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}

	count := counts[item.ID]
	status := capacityStatus(count, item.MaxStudents)
	if err := s.intakeCourses.UpdateEnrollment(ctx, item.ID, count, status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpdateFailure.Code, appErrors.ErrUpdateFailure.Status, "failed to update enrollment")
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, "dashboard:*")
	}

	return &dto.EnrollmentRecomputeOutcome{
		IntakeCourseID: item.ID,
		PreviousCount:  item.CurrentEnrollment,
		CurrentCount:   count,
		Status:         string(status),
		Updated:        true,
	}, nil
}
