package models

import "time"

// ClassSchedule is a weekly recurring teaching slot for one module of an
// intake-course. ClassDate is the first calendar occurrence of the slot;
// the module runs weekly between ModuleStartDate and ModuleEndDate.
type ClassSchedule struct {
	ID              string    `db:"id" json:"id"`
	IntakeCourseID  string    `db:"intake_course_id" json:"intake_course_id"`
	ModuleID        string    `db:"module_id" json:"module_id"`
	RoomID          string    `db:"room_id" json:"room_id"`
	LecturerID      string    `db:"lecturer_id" json:"lecturer_id"`
	DayOfWeek       string    `db:"day_of_week" json:"day_of_week"`
	StartTime       string    `db:"start_time" json:"start_time"`
	EndTime         string    `db:"end_time" json:"end_time"`
	ClassDate       time.Time `db:"class_date" json:"class_date"`
	ModuleStartDate time.Time `db:"module_start_date" json:"module_start_date"`
	ModuleEndDate   time.Time `db:"module_end_date" json:"module_end_date"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// ClassScheduleDetail enriches ClassSchedule with display names.
type ClassScheduleDetail struct {
	ClassSchedule
	ModuleCode   string `db:"module_code" json:"module_code"`
	ModuleName   string `db:"module_name" json:"module_name"`
	RoomName     string `db:"room_name" json:"room_name"`
	LecturerName string `db:"lecturer_name" json:"lecturer_name"`
}
