package service

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
)

// timeSlot is one fixed two-hour teaching block.
type timeSlot struct {
	Start string
	End   string
}

var scheduleDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

var scheduleSlots = []timeSlot{
	{Start: "08:00", End: "10:00"},
	{Start: "10:00", End: "12:00"},
	{Start: "12:00", End: "14:00"},
	{Start: "14:00", End: "16:00"},
	{Start: "16:00", End: "18:00"},
}

var weekdayIndex = map[string]time.Weekday{
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
}

// slotKey identifies one (day, start time, first occurrence) unit of room and
// lecturer occupancy.
type slotKey struct {
	Day       string
	Start     string
	ClassDate string
}

// conflictMap tracks which rooms and lecturers are taken per slot.
type conflictMap struct {
	rooms     map[slotKey]map[string]struct{}
	lecturers map[slotKey]map[string]struct{}
}

func newConflictMap() *conflictMap {
	return &conflictMap{
		rooms:     make(map[slotKey]map[string]struct{}),
		lecturers: make(map[slotKey]map[string]struct{}),
	}
}

func (c *conflictMap) availableRooms(key slotKey, rooms []models.Room) []models.Room {
	taken := c.rooms[key]
	var free []models.Room
	for _, r := range rooms {
		if _, used := taken[r.ID]; !used {
			free = append(free, r)
		}
	}
	return free
}

func (c *conflictMap) availableLecturers(key slotKey, lecturers []models.Lecturer) []models.Lecturer {
	taken := c.lecturers[key]
	var free []models.Lecturer
	for _, l := range lecturers {
		if _, used := taken[l.ID]; !used {
			free = append(free, l)
		}
	}
	return free
}

func (c *conflictMap) roomTaken(key slotKey, roomID string) bool {
	_, used := c.rooms[key][roomID]
	return used
}

func (c *conflictMap) lecturerTaken(key slotKey, lecturerID string) bool {
	_, used := c.lecturers[key][lecturerID]
	return used
}

func (c *conflictMap) occupy(key slotKey, roomID, lecturerID string) {
	if c.rooms[key] == nil {
		c.rooms[key] = make(map[string]struct{})
	}
	if c.lecturers[key] == nil {
		c.lecturers[key] = make(map[string]struct{})
	}
	c.rooms[key][roomID] = struct{}{}
	c.lecturers[key][lecturerID] = struct{}{}
}

// ScheduleIntakeCourseRepository resolves the intake-course being scheduled.
type ScheduleIntakeCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.IntakeCourse, error)
}

// ScheduleCourseRepository resolves the modules of the scheduled course.
type ScheduleCourseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListModulesByCourse(ctx context.Context, courseID string) ([]models.Module, error)
}

// ScheduleRoomRepository lists rooms eligible for scheduling.
type ScheduleRoomRepository interface {
	ListActive(ctx context.Context) ([]models.Room, error)
}

// ScheduleLecturerRepository lists lecturers eligible for scheduling.
type ScheduleLecturerRepository interface {
	ListActive(ctx context.Context) ([]models.Lecturer, error)
}

// SchedulePersistence stores and reads generated timetables.
type SchedulePersistence interface {
	BulkCreate(ctx context.Context, entries []models.ClassSchedule) error
	ListByIntakeCourse(ctx context.Context, intakeCourseID string) ([]models.ClassScheduleDetail, error)
	DeleteByIntakeCourse(ctx context.Context, intakeCourseID string) error
	FindConflicts(ctx context.Context, dayOfWeek, startTime string, classDate time.Time) ([]models.ClassSchedule, error)
}

// ScheduleGeneratorConfig carries the generation defaults.
type ScheduleGeneratorConfig struct {
	ClassesPerWeek int
	DurationWeeks  int
}

// ScheduleGeneratorService builds a weekly timetable for every module of an
// intake-course's course. Each module receives one random weekly slot inside
// a staggered date window; rooms and lecturers are assigned without
// double-booking. Modules that cannot be placed are reported, not dropped.
type ScheduleGeneratorService struct {
	intakeCourses ScheduleIntakeCourseRepository
	courses       ScheduleCourseRepository
	rooms         ScheduleRoomRepository
	lecturers     ScheduleLecturerRepository
	schedules     SchedulePersistence
	cache         *CacheService
	metrics       *MetricsService
	config        ScheduleGeneratorConfig
	logger        *zap.Logger
	now           func() time.Time
	newRand       func(seed int64) *rand.Rand
}

// NewScheduleGeneratorService constructs the generator.
func NewScheduleGeneratorService(
	intakeCourses ScheduleIntakeCourseRepository,
	courses ScheduleCourseRepository,
	rooms ScheduleRoomRepository,
	lecturers ScheduleLecturerRepository,
	schedules SchedulePersistence,
	cache *CacheService,
	metrics *MetricsService,
	config ScheduleGeneratorConfig,
	logger *zap.Logger,
) *ScheduleGeneratorService {
	if config.ClassesPerWeek <= 0 || config.ClassesPerWeek > 5 {
		config.ClassesPerWeek = 2
	}
	if config.DurationWeeks <= 0 {
		config.DurationWeeks = 12
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGeneratorService{
		intakeCourses: intakeCourses,
		courses:       courses,
		rooms:         rooms,
		lecturers:     lecturers,
		schedules:     schedules,
		cache:         cache,
		metrics:       metrics,
		config:        config,
		logger:        logger,
		now:           time.Now,
		newRand:       func(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) },
	}
}

// firstOccurrence walks forward from start to the first date falling on the
// given weekday.
func firstOccurrence(start time.Time, day time.Weekday) time.Time {
	date := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for date.Weekday() != day {
		date = date.AddDate(0, 0, 1)
	}
	return date
}

// Generate produces a timetable for the intake-course without persisting it.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	started := s.now()

	intakeCourse, err := s.intakeCourses.FindByID(ctx, req.IntakeCourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "intake course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load intake course")
	}

	course, err := s.courses.FindByID(ctx, intakeCourse.CourseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrMissingReference, "intake course references a missing course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	modules, err := s.courses.ListModulesByCourse(ctx, course.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course modules")
	}
	if len(modules) == 0 {
		return nil, appErrors.Clone(appErrors.ErrMissingReference, "course has no modules to schedule")
	}

	rooms, err := s.rooms.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	lecturers, err := s.lecturers.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lecturers")
	}

	durationWeeks := s.config.DurationWeeks
	if req.DurationWeeks > 0 {
		durationWeeks = req.DurationWeeks
	}
	semesterStart := s.now().UTC()
	if req.SemesterStart != nil {
		semesterStart = req.SemesterStart.UTC()
	}
	seed := s.now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := s.newRand(seed)

	conflicts := newConflictMap()
	resp := &dto.GenerateScheduleResponse{IntakeCourseID: intakeCourse.ID}

	for i, module := range modules {
		// Modules are staggered across the semester so later modules
		// start later instead of everything running in parallel.
		offsetWeeks := (i * durationWeeks) / len(modules)
		windowStart := semesterStart.AddDate(0, 0, offsetWeeks*7)
		windowEnd := windowStart.AddDate(0, 0, durationWeeks*7)

		day := scheduleDays[rng.Intn(len(scheduleDays))]
		slot := scheduleSlots[rng.Intn(len(scheduleSlots))]
		classDate := firstOccurrence(windowStart, weekdayIndex[day])
		key := slotKey{Day: day, Start: slot.Start, ClassDate: classDate.Format("2006-01-02")}

		freeRooms := conflicts.availableRooms(key, rooms)
		if len(freeRooms) == 0 {
			resp.Unscheduled = append(resp.Unscheduled, dto.UnscheduledModule{
				ModuleID:   module.ID,
				ModuleCode: module.Code,
				Reason:     fmt.Sprintf("no room available on %s at %s", day, slot.Start),
			})
			continue
		}
		freeLecturers := conflicts.availableLecturers(key, lecturers)
		if len(freeLecturers) == 0 {
			resp.Unscheduled = append(resp.Unscheduled, dto.UnscheduledModule{
				ModuleID:   module.ID,
				ModuleCode: module.Code,
				Reason:     fmt.Sprintf("no lecturer available on %s at %s", day, slot.Start),
			})
			continue
		}

		room := freeRooms[rng.Intn(len(freeRooms))]
		lecturer := freeLecturers[rng.Intn(len(freeLecturers))]
		conflicts.occupy(key, room.ID, lecturer.ID)

		resp.Entries = append(resp.Entries, models.ClassSchedule{
			IntakeCourseID:  intakeCourse.ID,
			ModuleID:        module.ID,
			RoomID:          room.ID,
			LecturerID:      lecturer.ID,
			DayOfWeek:       day,
			StartTime:       slot.Start,
			EndTime:         slot.End,
			ClassDate:       classDate,
			ModuleStartDate: windowStart,
			ModuleEndDate:   windowEnd,
		})
	}

	sort.Slice(resp.Entries, func(a, b int) bool {
		if !resp.Entries[a].ClassDate.Equal(resp.Entries[b].ClassDate) {
			return resp.Entries[a].ClassDate.Before(resp.Entries[b].ClassDate)
		}
		return resp.Entries[a].StartTime < resp.Entries[b].StartTime
	})
	resp.GeneratedAt = s.now().UTC()

	if s.metrics != nil {
		s.metrics.RecordScheduleGeneration(s.now().Sub(started))
	}
	s.logger.Info("schedule generated",
		zap.String("intake_course_id", intakeCourse.ID),
		zap.Int("entries", len(resp.Entries)),
		zap.Int("unscheduled", len(resp.Unscheduled)))
	return resp, nil
}

// Save persists previously generated entries. When Replace is set the
// existing timetable for the intake-course is cleared first. Every entry is
// checked against the rest of the batch and against schedules already stored
// for other intake-courses; a room or lecturer double-booking rejects the
// whole batch.
func (s *ScheduleGeneratorService) Save(ctx context.Context, req dto.SaveScheduleRequest) error {
	if _, err := s.intakeCourses.FindByID(ctx, req.IntakeCourseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "intake course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load intake course")
	}

	if req.Replace {
		if err := s.schedules.DeleteByIntakeCourse(ctx, req.IntakeCourseID); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear existing schedule")
		}
	}

	batch := newConflictMap()
	for i := range req.Entries {
		entry := &req.Entries[i]
		entry.IntakeCourseID = req.IntakeCourseID
		key := slotKey{Day: entry.DayOfWeek, Start: entry.StartTime, ClassDate: entry.ClassDate.Format("2006-01-02")}

		if batch.roomTaken(key, entry.RoomID) {
			return appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("room booked twice within the batch on %s at %s", entry.DayOfWeek, entry.StartTime))
		}
		if batch.lecturerTaken(key, entry.LecturerID) {
			return appErrors.Clone(appErrors.ErrConflict,
				fmt.Sprintf("lecturer booked twice within the batch on %s at %s", entry.DayOfWeek, entry.StartTime))
		}
		batch.occupy(key, entry.RoomID, entry.LecturerID)

		existing, err := s.schedules.FindConflicts(ctx, entry.DayOfWeek, entry.StartTime, entry.ClassDate)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
		}
		for _, other := range existing {
			if other.IntakeCourseID == req.IntakeCourseID && req.Replace {
				continue
			}
			if other.RoomID == entry.RoomID {
				return appErrors.Clone(appErrors.ErrConflict,
					fmt.Sprintf("room already booked on %s at %s", entry.DayOfWeek, entry.StartTime))
			}
			if other.LecturerID == entry.LecturerID {
				return appErrors.Clone(appErrors.ErrConflict,
					fmt.Sprintf("lecturer already booked on %s at %s", entry.DayOfWeek, entry.StartTime))
			}
		}
	}

	if err := s.schedules.BulkCreate(ctx, req.Entries); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpdateFailure.Code, appErrors.ErrUpdateFailure.Status, "failed to persist schedule")
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, fmt.Sprintf("schedule:%s", req.IntakeCourseID))
	}
	return nil
}

// List returns the persisted timetable for an intake-course, cached briefly
// to keep repeated dashboard loads off the database.
func (s *ScheduleGeneratorService) List(ctx context.Context, intakeCourseID string) ([]models.ClassScheduleDetail, error) {
	cacheKey := fmt.Sprintf("schedule:%s", intakeCourseID)
	if s.cache != nil {
		var cached []models.ClassScheduleDetail
		if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
			return cached, nil
		}
	}

	entries, err := s.schedules.ListByIntakeCourse(ctx, intakeCourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule")
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, cacheKey, entries, 0)
	}
	return entries, nil
}
