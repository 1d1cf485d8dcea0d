package models

import "time"

// AnalyticsSummary holds teacher-wide counters.
type AnalyticsSummary struct {
	TotalAssignments     int `db:"total_assignments" json:"totalAssignments"`
	PublishedAssignments int `db:"published_assignments" json:"publishedAssignments"`
	TotalSubmissions     int `db:"total_submissions" json:"totalSubmissions"`
}

// AssignmentSubmissionCount is the per-assignment submission tally.
type AssignmentSubmissionCount struct {
	AssignmentID    string           `db:"assignment_id" json:"assignmentId"`
	Title           string           `db:"title" json:"title"`
	Status          AssignmentStatus `db:"status" json:"status"`
	SubmissionCount int              `db:"submission_count" json:"submissionCount"`
}

// AnalyticsSnapshot is a derived, read-only view over one teacher's assignments.
type AnalyticsSnapshot struct {
	Summary     AnalyticsSummary            `json:"summary"`
	Assignments []AssignmentSubmissionCount `json:"assignments"`
	GeneratedAt time.Time                   `json:"generatedAt"`
}

// SystemMetrics is a lightweight instrumentation snapshot.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cacheHitRatio"`
	CacheHits                uint64    `json:"cacheHits"`
	CacheMisses              uint64    `json:"cacheMisses"`
	RequestsTotal            uint64    `json:"requestsTotal"`
	AverageRequestDurationMs float64   `json:"averageRequestDurationMs"`
	DBQueryCount             uint64    `json:"dbQueryCount"`
	AverageDBQueryDurationMs float64   `json:"averageDbQueryDurationMs"`
	LifecycleEvents          uint64    `json:"lifecycleEvents"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generatedAt"`
}
