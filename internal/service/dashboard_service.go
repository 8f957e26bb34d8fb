package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campushub/campushub-api/internal/dto"
	appErrors "github.com/campushub/campushub-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:summary"

// DashboardRepository aggregates headline counts for the admin dashboard.
type DashboardRepository interface {
	Counts(ctx context.Context) (dto.DashboardCounts, error)
	EnrollmentTotals(ctx context.Context) (total int, full int, err error)
}

// DashboardService serves the cached admin dashboard summary.
type DashboardService struct {
	repo     DashboardRepository
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(repo DashboardRepository, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, metrics: metrics, cacheTTL: cacheTTL, logger: logger}
}

// Summary returns the dashboard payload, served from cache when warm. The
// enrollment and performance aggregators invalidate the cache on writes.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, bool, error) {
	if s.cache != nil {
		var cached dto.DashboardSummary
		if hit, _ := s.cache.Get(ctx, dashboardCacheKey, &cached); hit {
			return &cached, true, nil
		}
	}

	countsStart := time.Now()
	counts, err := s.repo.Counts(ctx)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("dashboard_counts", time.Since(countsStart))
	}
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard counts")
	}
	totalsStart := time.Now()
	total, full, err := s.repo.EnrollmentTotals(ctx)
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("dashboard_enrollment_totals", time.Since(totalsStart))
	}
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment totals")
	}

	summary := &dto.DashboardSummary{
		Counts:          counts,
		TotalEnrollment: total,
		FullCourses:     full,
		GeneratedAt:     time.Now().UTC(),
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, dashboardCacheKey, summary, s.cacheTTL)
	}
	return summary, false, nil
}
