package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/campushub/campushub-api/internal/dto"
)

type fakeDashboardSrv struct {
	resp *dto.DashboardSummary
	hit  bool
	err  error
}

func (f *fakeDashboardSrv) Summary(context.Context) (*dto.DashboardSummary, bool, error) {
	return f.resp, f.hit, f.err
}

func TestDashboardHandlerSummarySuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		resp: &dto.DashboardSummary{
			Counts:          dto.DashboardCounts{Students: 42},
			TotalEnrollment: 42,
			FullCourses:     2,
		},
		hit: true,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, float64(42), envelope.Data["total_enrollment"])
}

func TestDashboardHandlerSummaryFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}
