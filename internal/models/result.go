package models

import "time"

// Result is a graded outcome for a student in one module.
type Result struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	ModuleID     string    `db:"module_id" json:"module_id"`
	Grade        string    `db:"grade" json:"grade"`
	CreditHours  int       `db:"credit_hours" json:"credit_hours"`
	GPA          float64   `db:"gpa" json:"gpa"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	Semester     int       `db:"semester" json:"semester"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// ResultDetail enriches Result with module context.
type ResultDetail struct {
	Result
	ModuleCode string `db:"module_code" json:"module_code"`
	ModuleName string `db:"module_name" json:"module_name"`
}

// ResultFilter provides filters for listing results.
type ResultFilter struct {
	StudentID    string
	ModuleID     string
	AcademicYear string
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
