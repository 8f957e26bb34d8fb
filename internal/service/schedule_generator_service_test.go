package service

import (
	"context"
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
)

type mockScheduleIntakeCourses struct {
	items map[string]models.IntakeCourse
}

func (m *mockScheduleIntakeCourses) FindByID(ctx context.Context, id string) (*models.IntakeCourse, error) {
	if item, ok := m.items[id]; ok {
		return &item, nil
	}
	return nil, sql.ErrNoRows
}

type mockScheduleRooms struct {
	rooms []models.Room
}

func (m *mockScheduleRooms) ListActive(ctx context.Context) ([]models.Room, error) {
	return m.rooms, nil
}

type mockScheduleLecturers struct {
	lecturers []models.Lecturer
}

func (m *mockScheduleLecturers) ListActive(ctx context.Context) ([]models.Lecturer, error) {
	return m.lecturers, nil
}

type mockSchedulePersistence struct {
	stored    []models.ClassSchedule
	deleted   []string
	conflicts []models.ClassSchedule
}

func (m *mockSchedulePersistence) BulkCreate(ctx context.Context, entries []models.ClassSchedule) error {
	m.stored = append(m.stored, entries...)
	return nil
}

func (m *mockSchedulePersistence) ListByIntakeCourse(ctx context.Context, intakeCourseID string) ([]models.ClassScheduleDetail, error) {
	var details []models.ClassScheduleDetail
	for _, e := range m.stored {
		if e.IntakeCourseID == intakeCourseID {
			details = append(details, models.ClassScheduleDetail{ClassSchedule: e})
		}
	}
	return details, nil
}

func (m *mockSchedulePersistence) DeleteByIntakeCourse(ctx context.Context, intakeCourseID string) error {
	m.deleted = append(m.deleted, intakeCourseID)
	return nil
}

func (m *mockSchedulePersistence) FindConflicts(ctx context.Context, dayOfWeek, startTime string, classDate time.Time) ([]models.ClassSchedule, error) {
	var out []models.ClassSchedule
	for _, e := range m.conflicts {
		if e.DayOfWeek == dayOfWeek && e.StartTime == startTime && e.ClassDate.Equal(classDate) {
			out = append(out, e)
		}
	}
	return out, nil
}

func makeModules(n int) []models.Module {
	modules := make([]models.Module, n)
	for i := range modules {
		modules[i] = models.Module{
			ID:          string(rune('a' + i)),
			Code:        string(rune('A' + i)),
			CreditHours: 3,
		}
	}
	return modules
}

func newGenerator(modules []models.Module, rooms []models.Room, lecturers []models.Lecturer, persistence *mockSchedulePersistence) *ScheduleGeneratorService {
	intakeCourses := &mockScheduleIntakeCourses{items: map[string]models.IntakeCourse{
		"ic-1": {ID: "ic-1", CourseID: "c-1"},
	}}
	courses := &mockPerformanceCourses{
		courses: map[string]models.Course{"c-1": {ID: "c-1", Code: "CS"}},
		modules: map[string][]models.Module{"c-1": modules},
	}
	if persistence == nil {
		persistence = &mockSchedulePersistence{}
	}
	return NewScheduleGeneratorService(
		intakeCourses,
		courses,
		&mockScheduleRooms{rooms: rooms},
		&mockScheduleLecturers{lecturers: lecturers},
		persistence,
		nil,
		nil,
		ScheduleGeneratorConfig{ClassesPerWeek: 2, DurationWeeks: 12},
		zap.NewNop(),
	)
}

func seededRequest(seed int64) dto.GenerateScheduleRequest {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return dto.GenerateScheduleRequest{
		IntakeCourseID: "ic-1",
		SemesterStart:  &start,
		Seed:           &seed,
	}
}

func TestScheduleGeneratorPlacesEveryModule(t *testing.T) {
	svc := newGenerator(
		makeModules(5),
		[]models.Room{{ID: "r-1"}, {ID: "r-2"}, {ID: "r-3"}},
		[]models.Lecturer{{ID: "l-1"}, {ID: "l-2"}, {ID: "l-3"}},
		nil,
	)

	resp, err := svc.Generate(context.Background(), seededRequest(42))
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 5)
	assert.Empty(t, resp.Unscheduled)

	for _, e := range resp.Entries {
		assert.NotEmpty(t, e.RoomID)
		assert.NotEmpty(t, e.LecturerID)
		assert.False(t, e.ClassDate.IsZero())
		assert.Equal(t, e.DayOfWeek, e.ClassDate.Weekday().String())
	}
}

func TestScheduleGeneratorNoDoubleBooking(t *testing.T) {
	// One room and one lecturer force heavy contention; any two entries
	// sharing a room or lecturer must differ in (day, start, date).
	svc := newGenerator(
		makeModules(8),
		[]models.Room{{ID: "r-1"}},
		[]models.Lecturer{{ID: "l-1"}},
		nil,
	)

	resp, err := svc.Generate(context.Background(), seededRequest(7))
	require.NoError(t, err)

	type occupancy struct{ day, start, date string }
	roomsSeen := make(map[occupancy]string)
	lecturersSeen := make(map[occupancy]string)
	for _, e := range resp.Entries {
		key := occupancy{e.DayOfWeek, e.StartTime, e.ClassDate.Format("2006-01-02")}
		if prev, ok := roomsSeen[key]; ok {
			assert.NotEqual(t, prev, e.RoomID, "room double-booked at %+v", key)
		}
		if prev, ok := lecturersSeen[key]; ok {
			assert.NotEqual(t, prev, e.LecturerID, "lecturer double-booked at %+v", key)
		}
		roomsSeen[key] = e.RoomID
		lecturersSeen[key] = e.LecturerID
	}
}

func TestScheduleGeneratorReportsUnscheduled(t *testing.T) {
	// Force every module onto the same slot so only the first can be
	// placed with a single room.
	svc := newGenerator(
		makeModules(3),
		[]models.Room{{ID: "r-1"}},
		[]models.Lecturer{{ID: "l-1"}, {ID: "l-2"}, {ID: "l-3"}},
		nil,
	)
	svc.newRand = func(seed int64) *rand.Rand {
		return rand.New(constantSource{})
	}
	// Zero duration stagger keeps every window on the same start date.
	req := seededRequest(0)
	req.DurationWeeks = 1

	resp, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, resp.Entries, 1)
	assert.Len(t, resp.Unscheduled, 2)
	for _, u := range resp.Unscheduled {
		assert.NotEmpty(t, u.ModuleID)
		assert.Contains(t, u.Reason, "no room available")
	}
}

// constantSource always yields zero so the generator picks the first day,
// slot, room and lecturer every time.
type constantSource struct{}

func (constantSource) Int63() int64 { return 0 }
func (constantSource) Seed(int64)   {}

func TestScheduleGeneratorOutputSorted(t *testing.T) {
	svc := newGenerator(
		makeModules(6),
		[]models.Room{{ID: "r-1"}, {ID: "r-2"}},
		[]models.Lecturer{{ID: "l-1"}, {ID: "l-2"}},
		nil,
	)

	resp, err := svc.Generate(context.Background(), seededRequest(99))
	require.NoError(t, err)
	for i := 1; i < len(resp.Entries); i++ {
		prev, curr := resp.Entries[i-1], resp.Entries[i]
		if prev.ClassDate.Equal(curr.ClassDate) {
			assert.LessOrEqual(t, prev.StartTime, curr.StartTime)
		} else {
			assert.True(t, prev.ClassDate.Before(curr.ClassDate))
		}
	}
}

func TestScheduleGeneratorDeterministicWithSeed(t *testing.T) {
	build := func() *ScheduleGeneratorService {
		return newGenerator(
			makeModules(4),
			[]models.Room{{ID: "r-1"}, {ID: "r-2"}},
			[]models.Lecturer{{ID: "l-1"}, {ID: "l-2"}},
			nil,
		)
	}

	first, err := build().Generate(context.Background(), seededRequest(1234))
	require.NoError(t, err)
	second, err := build().Generate(context.Background(), seededRequest(1234))
	require.NoError(t, err)

	require.Len(t, second.Entries, len(first.Entries))
	for i := range first.Entries {
		assert.Equal(t, first.Entries[i].ModuleID, second.Entries[i].ModuleID)
		assert.Equal(t, first.Entries[i].DayOfWeek, second.Entries[i].DayOfWeek)
		assert.Equal(t, first.Entries[i].StartTime, second.Entries[i].StartTime)
		assert.Equal(t, first.Entries[i].RoomID, second.Entries[i].RoomID)
		assert.Equal(t, first.Entries[i].LecturerID, second.Entries[i].LecturerID)
	}
}

func TestScheduleGeneratorUnknownIntakeCourse(t *testing.T) {
	svc := newGenerator(makeModules(1), []models.Room{{ID: "r-1"}}, []models.Lecturer{{ID: "l-1"}}, nil)

	_, err := svc.Generate(context.Background(), dto.GenerateScheduleRequest{IntakeCourseID: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestScheduleGeneratorSaveRejectsRoomConflict(t *testing.T) {
	classDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	persistence := &mockSchedulePersistence{conflicts: []models.ClassSchedule{
		{IntakeCourseID: "ic-other", RoomID: "r-1", DayOfWeek: "Monday", StartTime: "08:00", ClassDate: classDate},
	}}
	svc := newGenerator(makeModules(1), []models.Room{{ID: "r-1"}}, []models.Lecturer{{ID: "l-1"}}, persistence)

	err := svc.Save(context.Background(), dto.SaveScheduleRequest{
		IntakeCourseID: "ic-1",
		Entries: []models.ClassSchedule{
			{ModuleID: "m-1", RoomID: "r-1", LecturerID: "l-9", DayOfWeek: "Monday", StartTime: "08:00", ClassDate: classDate},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "room already booked")
	assert.Empty(t, persistence.stored)
}

func TestScheduleGeneratorSaveRejectsConflictWithinBatch(t *testing.T) {
	classDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	persistence := &mockSchedulePersistence{}
	svc := newGenerator(makeModules(2), []models.Room{{ID: "r-1"}}, []models.Lecturer{{ID: "l-1"}}, persistence)

	err := svc.Save(context.Background(), dto.SaveScheduleRequest{
		IntakeCourseID: "ic-1",
		Entries: []models.ClassSchedule{
			{ModuleID: "m-1", RoomID: "r-1", LecturerID: "l-1", DayOfWeek: "Monday", StartTime: "08:00", ClassDate: classDate},
			{ModuleID: "m-2", RoomID: "r-1", LecturerID: "l-1", DayOfWeek: "Monday", StartTime: "08:00", ClassDate: classDate},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booked twice within the batch")
	assert.Empty(t, persistence.stored)
}

func TestScheduleGeneratorSaveAllowsDistinctSlotsWithinBatch(t *testing.T) {
	classDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	persistence := &mockSchedulePersistence{}
	svc := newGenerator(makeModules(2), []models.Room{{ID: "r-1"}}, []models.Lecturer{{ID: "l-1"}}, persistence)

	err := svc.Save(context.Background(), dto.SaveScheduleRequest{
		IntakeCourseID: "ic-1",
		Entries: []models.ClassSchedule{
			{ModuleID: "m-1", RoomID: "r-1", LecturerID: "l-1", DayOfWeek: "Monday", StartTime: "08:00", ClassDate: classDate},
			{ModuleID: "m-2", RoomID: "r-1", LecturerID: "l-1", DayOfWeek: "Monday", StartTime: "10:00", ClassDate: classDate},
		},
	})
	require.NoError(t, err)
	assert.Len(t, persistence.stored, 2)
}

func TestScheduleGeneratorSaveReplaceClearsExisting(t *testing.T) {
	persistence := &mockSchedulePersistence{}
	svc := newGenerator(makeModules(1), []models.Room{{ID: "r-1"}}, []models.Lecturer{{ID: "l-1"}}, persistence)

	err := svc.Save(context.Background(), dto.SaveScheduleRequest{
		IntakeCourseID: "ic-1",
		Replace:        true,
		Entries: []models.ClassSchedule{
			{ModuleID: "m-1", RoomID: "r-1", LecturerID: "l-1", DayOfWeek: "Tuesday", StartTime: "10:00",
				ClassDate: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ic-1"}, persistence.deleted)
	require.Len(t, persistence.stored, 1)
	assert.Equal(t, "ic-1", persistence.stored[0].IntakeCourseID)
}
