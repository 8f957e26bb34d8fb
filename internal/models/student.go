package models

import "time"

// StudentStatus represents the lifecycle of a student record.
type StudentStatus string

// Possible student statuses.
const (
	StudentStatusEnrolled  StudentStatus = "ENROLLED"
	StudentStatusActive    StudentStatus = "ACTIVE"
	StudentStatusGraduated StudentStatus = "GRADUATED"
	StudentStatusDropped   StudentStatus = "DROPPED"
	StudentStatusSuspended StudentStatus = "SUSPENDED"
)

// AcademicStanding classifies a student's CGPA band.
type AcademicStanding string

const (
	StandingDeanList  AcademicStanding = "DEAN_LIST"
	StandingGood      AcademicStanding = "GOOD"
	StandingProbation AcademicStanding = "PROBATION"
)

// Student captures an enrolled student and their derived academic scalars.
// CGPA and the credit-hour counters are recomputed by the performance
// aggregator; everything else is maintained by the CRUD surface.
type Student struct {
	ID                   string        `db:"id" json:"id"`
	UserID               string        `db:"user_id" json:"user_id"`
	IntakeCourseID       string        `db:"intake_course_id" json:"intake_course_id"`
	CGPA                 float64       `db:"cgpa" json:"cgpa"`
	CompletedCreditHours int           `db:"completed_credit_hours" json:"completed_credit_hours"`
	TotalCreditHours     int           `db:"total_credit_hours" json:"total_credit_hours"`
	Status               StudentStatus `db:"status" json:"status"`
	AcademicStanding     AcademicStanding `db:"academic_standing" json:"academic_standing"`
	CreatedAt            time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time     `db:"updated_at" json:"updated_at"`
}

// StudentDetail enriches Student with user and course context.
type StudentDetail struct {
	Student
	FullName   string `db:"full_name" json:"full_name"`
	Email      string `db:"email" json:"email"`
	CourseID   string `db:"course_id" json:"course_id"`
	CourseName string `db:"course_name" json:"course_name"`
	IntakeName string `db:"intake_name" json:"intake_name"`
}

// StudentFilter provides filters for listing students.
type StudentFilter struct {
	IntakeCourseID string
	Status         StudentStatus
	Search         string
	Page           int
	PageSize       int
	SortBy         string
	SortOrder      string
}
