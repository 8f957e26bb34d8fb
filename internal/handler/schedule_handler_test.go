package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/campushub/campushub-api/internal/dto"
	"github.com/campushub/campushub-api/internal/models"
)

type scheduleGeneratorMock struct {
	captured  dto.GenerateScheduleRequest
	saved     dto.SaveScheduleRequest
	saveErr   error
	listErr   error
	schedules []models.ClassScheduleDetail
}

func (m *scheduleGeneratorMock) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	m.captured = req
	return &dto.GenerateScheduleResponse{IntakeCourseID: req.IntakeCourseID}, nil
}

func (m *scheduleGeneratorMock) Save(ctx context.Context, req dto.SaveScheduleRequest) error {
	m.saved = req
	return m.saveErr
}

func (m *scheduleGeneratorMock) List(ctx context.Context, intakeCourseID string) ([]models.ClassScheduleDetail, error) {
	return m.schedules, m.listErr
}

func TestScheduleHandlerGenerateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleGeneratorMock{}
	handler := &ScheduleHandler{schedules: mockSvc}

	payload := []byte(`{"intake_course_id":"ic-1","duration_weeks":8}`)
	req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ic-1", mockSvc.captured.IntakeCourseID)
	require.Equal(t, 8, mockSvc.captured.DurationWeeks)
}

func TestScheduleHandlerGenerateMalformedPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ScheduleHandler{schedules: &scheduleGeneratorMock{}}

	req, _ := http.NewRequest(http.MethodPost, "/schedules/generate", bytes.NewReader([]byte(`{"intake_course_id":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleHandlerSavePassesReplaceFlag(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleGeneratorMock{}
	handler := &ScheduleHandler{schedules: mockSvc}

	payload := []byte(`{"intake_course_id":"ic-1","replace":true,"entries":[{"module_id":"m-1","room_id":"r-1","lecturer_id":"l-1","day_of_week":"MONDAY","start_time":"08:00","end_time":"10:00"}]}`)
	req, _ := http.NewRequest(http.MethodPost, "/schedules", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Save(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, mockSvc.saved.Replace)
	require.Len(t, mockSvc.saved.Entries, 1)
}
