package models

import "time"

// IntakeStatus represents intake lifecycle.
type IntakeStatus string

const (
	IntakeStatusPlanned   IntakeStatus = "PLANNED"
	IntakeStatusOpen      IntakeStatus = "OPEN"
	IntakeStatusClosed    IntakeStatus = "CLOSED"
	IntakeStatusCompleted IntakeStatus = "COMPLETED"
)

// Intake is an admission cohort, e.g. "January 2024 Intake".
type Intake struct {
	ID        string       `db:"id" json:"id"`
	Name      string       `db:"name" json:"name"`
	StartDate time.Time    `db:"start_date" json:"start_date"`
	EndDate   *time.Time   `db:"end_date" json:"end_date,omitempty"`
	Status    IntakeStatus `db:"status" json:"status"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// IntakeCourseStatus marks whether an intake-course still has capacity.
type IntakeCourseStatus string

const (
	IntakeCourseStatusAvailable IntakeCourseStatus = "AVAILABLE"
	IntakeCourseStatusFull      IntakeCourseStatus = "FULL"
)

// IntakeCourse pairs an Intake with a Course and carries the capacity
// counters. CurrentEnrollment is derived; only the enrollment aggregator
// writes it.
type IntakeCourse struct {
	ID                string             `db:"id" json:"id"`
	IntakeID          string             `db:"intake_id" json:"intake_id"`
	CourseID          string             `db:"course_id" json:"course_id"`
	MaxStudents       int                `db:"max_students" json:"max_students"`
	CurrentEnrollment int                `db:"current_enrollment" json:"current_enrollment"`
	TuitionFee        float64            `db:"tuition_fee" json:"tuition_fee"`
	RegistrationFee   float64            `db:"registration_fee" json:"registration_fee"`
	Status            IntakeCourseStatus `db:"status" json:"status"`
	CreatedAt         time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at" json:"updated_at"`
}

// IntakeCourseDetail enriches IntakeCourse with intake and course names.
type IntakeCourseDetail struct {
	IntakeCourse
	IntakeName string `db:"intake_name" json:"intake_name"`
	CourseCode string `db:"course_code" json:"course_code"`
	CourseName string `db:"course_name" json:"course_name"`
}

// IntakeCourseFilter provides filters for listing intake-courses.
type IntakeCourseFilter struct {
	IntakeID  string
	CourseID  string
	Status    IntakeCourseStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
