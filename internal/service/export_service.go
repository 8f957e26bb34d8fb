package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/models"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
	"github.com/campushub/campushub-api/pkg/export"
)

// exportResultRepository lists transcript rows for a student.
type exportResultRepository interface {
	ListDetailByStudent(ctx context.Context, studentID string) ([]models.ResultDetail, error)
}

// ExportService renders timetables as CSV and transcripts as PDF.
type ExportService struct {
	schedules *ScheduleGeneratorService
	students  *StudentService
	results   exportResultRepository
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(schedules *ScheduleGeneratorService, students *StudentService, results exportResultRepository, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		schedules: schedules,
		students:  students,
		results:   results,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// TimetableCSV renders the persisted timetable of an intake-course.
func (s *ExportService) TimetableCSV(ctx context.Context, intakeCourseID string) ([]byte, string, error) {
	entries, err := s.schedules.List(ctx, intakeCourseID)
	if err != nil {
		return nil, "", err
	}

	data := export.Dataset{
		Headers: []string{"Module", "Day", "Start", "End", "First Class", "Room", "Lecturer"},
	}
	for _, e := range entries {
		data.Rows = append(data.Rows, map[string]string{
			"Module":      fmt.Sprintf("%s %s", e.ModuleCode, e.ModuleName),
			"Day":         e.DayOfWeek,
			"Start":       e.StartTime,
			"End":         e.EndTime,
			"First Class": e.ClassDate.Format("2006-01-02"),
			"Room":        e.RoomName,
			"Lecturer":    e.LecturerName,
		})
	}

	payload, err := s.csv.Render(data)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable csv")
	}
	filename := fmt.Sprintf("timetable-%s.csv", intakeCourseID)
	return payload, filename, nil
}

// TranscriptPDF renders a student's graded results with the derived CGPA in
// the header.
func (s *ExportService) TranscriptPDF(ctx context.Context, studentID string) ([]byte, string, error) {
	student, err := s.students.Get(ctx, studentID)
	if err != nil {
		return nil, "", err
	}

	results, err := s.results.ListDetailByStudent(ctx, studentID)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load results")
	}

	data := export.Dataset{
		Headers: []string{"Module", "Year", "Semester", "Credit Hours", "Grade", "Points"},
	}
	for _, r := range results {
		data.Rows = append(data.Rows, map[string]string{
			"Module":       fmt.Sprintf("%s %s", r.ModuleCode, r.ModuleName),
			"Year":         r.AcademicYear,
			"Semester":     fmt.Sprintf("%d", r.Semester),
			"Credit Hours": fmt.Sprintf("%d", r.CreditHours),
			"Grade":        r.Grade,
			"Points":       fmt.Sprintf("%.1f", r.GPA),
		})
	}

	summary := []string{
		fmt.Sprintf("Student: %s (%s)", student.FullName, student.Email),
		fmt.Sprintf("Course: %s, Intake: %s", student.CourseName, student.IntakeName),
		fmt.Sprintf("CGPA: %.2f, Credit Hours: %d/%d, Standing: %s",
			student.CGPA, student.CompletedCreditHours, student.TotalCreditHours, student.AcademicStanding),
	}

	payload, err := s.pdf.Render(data, "Academic Transcript", summary)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render transcript pdf")
	}
	filename := fmt.Sprintf("transcript-%s.pdf", studentID)
	return payload, filename, nil
}
