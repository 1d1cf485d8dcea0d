package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classwork-api/internal/models"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
)

// AnalyticsRepository describes the aggregate queries required by AnalyticsService.
type AnalyticsRepository interface {
	TeacherSummary(ctx context.Context, teacherID string) (models.AnalyticsSummary, error)
	SubmissionCounts(ctx context.Context, teacherID string) ([]models.AssignmentSubmissionCount, error)
}

// AnalyticsService derives per-teacher snapshots with a read-through cache.
type AnalyticsService struct {
	repo    AnalyticsRepository
	cache   *CacheService
	metrics *MetricsService
	policy  *AccessPolicy
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(repo AnalyticsRepository, cache *CacheService, metrics *MetricsService, policy *AccessPolicy, ttl time.Duration, logger *zap.Logger) *AnalyticsService {
	if policy == nil {
		policy = NewAccessPolicy(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsService{repo: repo, cache: cache, metrics: metrics, policy: policy, ttl: ttl, logger: logger, now: time.Now}
}

// AnalyticsCacheKey is the cache key of a teacher's snapshot.
func AnalyticsCacheKey(teacherID string) string {
	return "analytics:teacher:" + teacherID
}

// Teacher returns the snapshot for teacherID, which defaults to the actor. The boolean reports a
// cache hit.
func (s *AnalyticsService) Teacher(ctx context.Context, actor models.Actor, teacherID string) (*models.AnalyticsSnapshot, bool, error) {
	if err := s.policy.Authorize(actor, PermAnalyticsView); err != nil {
		return nil, false, err
	}
	if teacherID == "" {
		teacherID = actor.UserID
	}
	if teacherID != actor.UserID {
		return nil, false, appErrors.Clone(appErrors.ErrForbidden, "analytics are limited to your own assignments")
	}

	key := AnalyticsCacheKey(teacherID)
	var cached models.AnalyticsSnapshot
	if hit, err := s.cache.Get(ctx, key, &cached); err != nil {
		s.logger.Warn("analytics cache unavailable, recomputing", zap.String("teacher_id", teacherID), zap.Error(err))
	} else if hit {
		return &cached, true, nil
	}

	start := time.Now()
	summary, err := s.repo.TeacherSummary(ctx, teacherID)
	if err != nil {
		return nil, false, wrapInternal(err, "failed to compute analytics")
	}
	counts, err := s.repo.SubmissionCounts(ctx, teacherID)
	if err != nil {
		return nil, false, wrapInternal(err, "failed to compute analytics")
	}
	s.metrics.ObserveDBQuery("analytics_teacher", time.Since(start))

	snapshot := &models.AnalyticsSnapshot{
		Summary:     summary,
		Assignments: counts,
		GeneratedAt: s.now().UTC(),
	}
	if err := s.cache.Set(ctx, key, snapshot, s.ttl); err != nil {
		s.logger.Warn("cache analytics", zap.Error(err))
	}
	return snapshot, false, nil
}

// Invalidate drops the cached snapshot of teacherID.
func (s *AnalyticsService) Invalidate(ctx context.Context, teacherID string) error {
	if teacherID == "" {
		return nil
	}
	return s.cache.Delete(ctx, AnalyticsCacheKey(teacherID))
}

// SystemMetrics returns the instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.SystemMetrics {
	return s.metrics.Snapshot()
}
