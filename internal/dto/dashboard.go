package dto

import "time"

// DashboardCounts aggregates headline entity counts.
type DashboardCounts struct {
	Students      int `db:"students" json:"students"`
	Lecturers     int `db:"lecturers" json:"lecturers"`
	Rooms         int `db:"rooms" json:"rooms"`
	Modules       int `db:"modules" json:"modules"`
	IntakeCourses int `db:"intake_courses" json:"intake_courses"`
}

// DashboardSummary is the cached admin dashboard payload.
type DashboardSummary struct {
	Counts          DashboardCounts `json:"counts"`
	TotalEnrollment int             `json:"total_enrollment"`
	FullCourses     int             `json:"full_courses"`
	GeneratedAt     time.Time       `json:"generated_at"`
}
