package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/models"
)

type mockEnrollmentStudents struct {
	counts map[string]int
	err    error
}

func (m *mockEnrollmentStudents) CountByIntakeCourse(ctx context.Context) (map[string]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.counts, nil
}

type mockEnrollmentIntakeCourses struct {
	mu      sync.Mutex
	items   []models.IntakeCourse
	updates map[string]int
	failIDs map[string]error
}

func (m *mockEnrollmentIntakeCourses) ListAll(ctx context.Context) ([]models.IntakeCourse, error) {
	return m.items, nil
}

func (m *mockEnrollmentIntakeCourses) FindByID(ctx context.Context, id string) (*models.IntakeCourse, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			item := m.items[i]
			return &item, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentIntakeCourses) UpdateEnrollment(ctx context.Context, id string, count int, status models.IntakeCourseStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failIDs[id]; ok {
		return err
	}
	if m.updates == nil {
		m.updates = make(map[string]int)
	}
	m.updates[id] = count
	for i := range m.items {
		if m.items[i].ID == id {
			m.items[i].CurrentEnrollment = count
			m.items[i].Status = status
		}
	}
	return nil
}

func TestEnrollmentServiceRecomputeAll(t *testing.T) {
	students := &mockEnrollmentStudents{counts: map[string]int{"ic-1": 3, "ic-2": 30}}
	intakeCourses := &mockEnrollmentIntakeCourses{items: []models.IntakeCourse{
		{ID: "ic-1", MaxStudents: 30, CurrentEnrollment: 1, Status: models.IntakeCourseStatusAvailable},
		{ID: "ic-2", MaxStudents: 30, CurrentEnrollment: 29, Status: models.IntakeCourseStatusAvailable},
		{ID: "ic-3", MaxStudents: 10, CurrentEnrollment: 5, Status: models.IntakeCourseStatusAvailable},
	}}
	svc := NewEnrollmentService(students, intakeCourses, nil, nil, 2, zap.NewNop())

	resp, err := svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Updated)
	assert.Equal(t, 0, resp.Failed)

	// Counters now match the student counts, orphans reset to zero.
	assert.Equal(t, 3, intakeCourses.updates["ic-1"])
	assert.Equal(t, 30, intakeCourses.updates["ic-2"])
	assert.Equal(t, 0, intakeCourses.updates["ic-3"])

	// Reaching capacity flips the status to FULL.
	for _, o := range resp.Outcomes {
		if o.IntakeCourseID == "ic-2" {
			assert.Equal(t, string(models.IntakeCourseStatusFull), o.Status)
		}
	}
}

func TestEnrollmentServiceRecomputeAllIdempotent(t *testing.T) {
	students := &mockEnrollmentStudents{counts: map[string]int{"ic-1": 3}}
	intakeCourses := &mockEnrollmentIntakeCourses{items: []models.IntakeCourse{
		{ID: "ic-1", MaxStudents: 30, CurrentEnrollment: 1, Status: models.IntakeCourseStatusAvailable},
	}}
	svc := NewEnrollmentService(students, intakeCourses, nil, nil, 2, zap.NewNop())

	_, err := svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	require.Len(t, intakeCourses.updates, 1)

	// Second run over unchanged data issues zero writes.
	intakeCourses.updates = nil
	resp, err := svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Updated)
	assert.Empty(t, intakeCourses.updates)
}

func TestEnrollmentServiceRecomputeAllIsolatesFailures(t *testing.T) {
	students := &mockEnrollmentStudents{counts: map[string]int{"ic-1": 3, "ic-2": 7}}
	intakeCourses := &mockEnrollmentIntakeCourses{
		items: []models.IntakeCourse{
			{ID: "ic-1", MaxStudents: 30},
			{ID: "ic-2", MaxStudents: 30},
		},
		failIDs: map[string]error{"ic-1": errors.New("connection reset")},
	}
	svc := NewEnrollmentService(students, intakeCourses, nil, nil, 2, zap.NewNop())

	resp, err := svc.RecomputeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Updated)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, 7, intakeCourses.updates["ic-2"])

	for _, o := range resp.Outcomes {
		if o.IntakeCourseID == "ic-1" {
			assert.False(t, o.Updated)
			assert.Contains(t, o.Error, "connection reset")
		}
	}
}

func TestEnrollmentServiceRecomputeAllTimesStudentCount(t *testing.T) {
	students := &mockEnrollmentStudents{counts: map[string]int{"ic-1": 3}}
	intakeCourses := &mockEnrollmentIntakeCourses{items: []models.IntakeCourse{
		{ID: "ic-1", MaxStudents: 30},
	}}
	metrics := NewMetricsService()
	svc := NewEnrollmentService(students, intakeCourses, nil, metrics, 2, zap.NewNop())

	_, err := svc.RecomputeAll(context.Background())
	require.NoError(t, err)

	snapshot := metrics.Snapshot()
	assert.Equal(t, uint64(1), snapshot.DBQueryCount)
	assert.Equal(t, uint64(1), snapshot.EnrollmentRecomputes)
}

func TestEnrollmentServiceRecomputeOne(t *testing.T) {
	students := &mockEnrollmentStudents{counts: map[string]int{"ic-1": 10}}
	intakeCourses := &mockEnrollmentIntakeCourses{items: []models.IntakeCourse{
		{ID: "ic-1", MaxStudents: 10, CurrentEnrollment: 4},
	}}
	svc := NewEnrollmentService(students, intakeCourses, nil, nil, 2, zap.NewNop())

	outcome, err := svc.RecomputeOne(context.Background(), "ic-1")
	require.NoError(t, err)
	assert.Equal(t, 4, outcome.PreviousCount)
	assert.Equal(t, 10, outcome.CurrentCount)
	assert.Equal(t, string(models.IntakeCourseStatusFull), outcome.Status)
}

func TestEnrollmentServiceRecomputeOneNotFound(t *testing.T) {
	svc := NewEnrollmentService(&mockEnrollmentStudents{}, &mockEnrollmentIntakeCourses{}, nil, nil, 2, zap.NewNop())

	_, err := svc.RecomputeOne(context.Background(), "missing")
	require.Error(t, err)
}
