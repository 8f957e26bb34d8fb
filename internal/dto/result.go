package dto

// UpsertResultRequest records or replaces a student's grade for a module.
// The per-result GPA is derived from the grade, never accepted from the
// caller.
type UpsertResultRequest struct {
	StudentID    string `json:"student_id" validate:"required,uuid4"`
	ModuleID     string `json:"module_id" validate:"required,uuid4"`
	Grade        string `json:"grade" validate:"required,oneof=A+ A A- B+ B B- C+ C C- D+ D F"`
	CreditHours  int    `json:"credit_hours" validate:"required,min=1,max=12"`
	AcademicYear string `json:"academic_year" validate:"required"`
	Semester     int    `json:"semester" validate:"required,min=1,max=3"`
}
