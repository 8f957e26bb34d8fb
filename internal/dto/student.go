package dto

// CreateStudentRequest registers a student against an intake-course.
type CreateStudentRequest struct {
	UserID         string `json:"user_id" validate:"required,uuid4"`
	IntakeCourseID string `json:"intake_course_id" validate:"required,uuid4"`
	Status         string `json:"status" validate:"omitempty,oneof=ENROLLED ACTIVE GRADUATED DROPPED SUSPENDED"`
}

// UpdateStudentRequest moves a student between intake-courses or statuses.
type UpdateStudentRequest struct {
	IntakeCourseID string `json:"intake_course_id" validate:"omitempty,uuid4"`
	Status         string `json:"status" validate:"omitempty,oneof=ENROLLED ACTIVE GRADUATED DROPPED SUSPENDED"`
}
