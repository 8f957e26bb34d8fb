package dto

import "time"

// PerformanceRecomputeError records one student the batch run could not
// recompute.
type PerformanceRecomputeError struct {
	StudentID string `json:"student_id"`
	Error     string `json:"error"`
}

// PerformanceRecomputeResponse summarises a batch performance run.
type PerformanceRecomputeResponse struct {
	SuccessCount int                         `json:"success_count"`
	ErrorCount   int                         `json:"error_count"`
	Errors       []PerformanceRecomputeError `json:"errors,omitempty"`
	GeneratedAt  time.Time                   `json:"generated_at"`
}
