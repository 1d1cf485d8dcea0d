package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classwork-api/internal/models"
)

// AnalyticsRepository exposes read-optimised aggregate queries over a teacher's assignments.
type AnalyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// TeacherSummary counts assignments, published assignments and submissions for a teacher.
func (r *AnalyticsRepository) TeacherSummary(ctx context.Context, teacherID string) (models.AnalyticsSummary, error) {
	const query = `SELECT
        COUNT(*) AS total_assignments,
        COUNT(*) FILTER (WHERE a.status = 'Published') AS published_assignments,
        (SELECT COUNT(*) FROM submissions s JOIN assignments sa ON sa.id = s.assignment_id WHERE sa.teacher_id = $1) AS total_submissions
        FROM assignments a
        WHERE a.teacher_id = $1`
	var summary models.AnalyticsSummary
	if err := r.db.GetContext(ctx, &summary, query, teacherID); err != nil {
		return models.AnalyticsSummary{}, fmt.Errorf("query teacher summary: %w", err)
	}
	return summary, nil
}

// SubmissionCounts returns per-assignment submission totals in creation order.
func (r *AnalyticsRepository) SubmissionCounts(ctx context.Context, teacherID string) ([]models.AssignmentSubmissionCount, error) {
	const query = `SELECT a.id AS assignment_id, a.title, a.status, COUNT(s.id) AS submission_count
        FROM assignments a
        LEFT JOIN submissions s ON s.assignment_id = a.id
        WHERE a.teacher_id = $1
        GROUP BY a.id, a.title, a.status, a.created_at
        ORDER BY a.created_at ASC, a.id ASC`
	counts := make([]models.AssignmentSubmissionCount, 0)
	if err := r.db.SelectContext(ctx, &counts, query, teacherID); err != nil {
		return nil, fmt.Errorf("query submission counts: %w", err)
	}
	return counts, nil
}
