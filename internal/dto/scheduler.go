package dto

import (
	"time"

	"github.com/campushub/campushub-api/internal/models"
)

// GenerateScheduleRequest configures one schedule generation run. Every
// knob is optional apart from the intake-course; defaults mirror the
// service configuration.
type GenerateScheduleRequest struct {
	IntakeCourseID string     `json:"intake_course_id" validate:"required"`
	ClassesPerWeek int        `json:"classes_per_week" validate:"omitempty,min=1,max=5"`
	DurationWeeks  int        `json:"duration_weeks" validate:"omitempty,min=1,max=52"`
	SemesterStart  *time.Time `json:"semester_start,omitempty"`
	Seed           *int64     `json:"seed,omitempty"`
}

// UnscheduledModule reports a module the generator could not place.
type UnscheduledModule struct {
	ModuleID   string `json:"module_id"`
	ModuleCode string `json:"module_code"`
	Reason     string `json:"reason"`
}

// GenerateScheduleResponse carries the generated entries plus diagnostics
// for modules that could not be placed.
type GenerateScheduleResponse struct {
	IntakeCourseID string                 `json:"intake_course_id"`
	Entries        []models.ClassSchedule `json:"entries"`
	Unscheduled    []UnscheduledModule    `json:"unscheduled,omitempty"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

// SaveScheduleRequest persists previously generated entries.
type SaveScheduleRequest struct {
	IntakeCourseID string                 `json:"intake_course_id" validate:"required"`
	Entries        []models.ClassSchedule `json:"entries" validate:"required,min=1,dive"`
	Replace        bool                   `json:"replace"`
}
