package models

import (
	"time"

	"github.com/lib/pq"
)

// Course is a degree programme composed of modules.
type Course struct {
	ID               string    `db:"id" json:"id"`
	Code             string    `db:"code" json:"code"`
	Name             string    `db:"name" json:"name"`
	TotalCreditHours int       `db:"total_credit_hours" json:"total_credit_hours"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Module is a single subject/unit within one or more courses. Modules are
// read-only inputs to the aggregators and the schedule generator.
type Module struct {
	ID               string         `db:"id" json:"id"`
	Code             string         `db:"code" json:"code"`
	Name             string         `db:"name" json:"name"`
	CreditHours      int            `db:"credit_hours" json:"credit_hours"`
	LearningOutcomes pq.StringArray `db:"learning_outcomes" json:"learning_outcomes"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// ModuleFilter provides filters for listing modules.
type ModuleFilter struct {
	CourseID  string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
