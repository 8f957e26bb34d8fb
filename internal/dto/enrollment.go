package dto

import "time"

// EnrollmentRecomputeOutcome records the result of recomputing one
// intake-course's enrollment counter.
type EnrollmentRecomputeOutcome struct {
	IntakeCourseID string `json:"intake_course_id"`
	PreviousCount  int    `json:"previous_count"`
	CurrentCount   int    `json:"current_count"`
	Status         string `json:"status"`
	Updated        bool   `json:"updated"`
	Error          string `json:"error,omitempty"`
}

// EnrollmentRecomputeResponse summarises a full aggregator run.
type EnrollmentRecomputeResponse struct {
	Outcomes    []EnrollmentRecomputeOutcome `json:"outcomes"`
	Updated     int                          `json:"updated"`
	Failed      int                          `json:"failed"`
	GeneratedAt time.Time                    `json:"generated_at"`
}
