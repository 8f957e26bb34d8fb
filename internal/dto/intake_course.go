package dto

// CreateIntakeCourseRequest opens a course for an intake.
type CreateIntakeCourseRequest struct {
	IntakeID        string  `json:"intake_id" validate:"required,uuid4"`
	CourseID        string  `json:"course_id" validate:"required,uuid4"`
	MaxStudents     int     `json:"max_students" validate:"required,min=1"`
	TuitionFee      float64 `json:"tuition_fee" validate:"min=0"`
	RegistrationFee float64 `json:"registration_fee" validate:"min=0"`
}

// UpdateIntakeCourseRequest adjusts capacity and fees.
type UpdateIntakeCourseRequest struct {
	MaxStudents     int      `json:"max_students" validate:"omitempty,min=1"`
	TuitionFee      *float64 `json:"tuition_fee,omitempty" validate:"omitempty,min=0"`
	RegistrationFee *float64 `json:"registration_fee,omitempty" validate:"omitempty,min=0"`
}
