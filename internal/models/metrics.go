package models

import "time"

// SystemMetrics is a lightweight aggregate snapshot exposed alongside the
// Prometheus endpoint for quick inspection.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	EnrollmentRecomputes     uint64    `json:"enrollment_recomputes"`
	PerformanceRecomputes    uint64    `json:"performance_recomputes"`
	SchedulesGenerated       uint64    `json:"schedules_generated"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
