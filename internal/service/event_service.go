package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/classwork-api/internal/models"
	"github.com/noah-isme/classwork-api/pkg/jobs"
)

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type analyticsInvalidator interface {
	Invalidate(ctx context.Context, teacherID string) error
}

const lifecycleJobType = "lifecycle_event"

// EventService drops stale analytics synchronously and fans committed lifecycle events out to the
// audit trail and metrics on a background worker pool.
type EventService struct {
	queue     *jobs.Queue
	audit     auditWriter
	analytics analyticsInvalidator
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewEventService builds the service and its queue. Call Start to process asynchronously.
func NewEventService(audit auditWriter, analytics analyticsInvalidator, metrics *MetricsService, logger *zap.Logger, cfg jobs.QueueConfig) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &EventService{audit: audit, analytics: analytics, metrics: metrics, logger: logger}
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	svc.queue = jobs.NewQueue("lifecycle-events", svc.handleJob, cfg)
	return svc
}

// Start launches the workers.
func (s *EventService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *EventService) Stop() {
	s.queue.Stop()
}

// Stats exposes queue throughput.
func (s *EventService) Stats() jobs.Stats {
	return s.queue.Stats()
}

// Publish invalidates the teacher's analytics before returning, so a re-fetch right after the
// mutation sees fresh counts, then enqueues the audit write and metrics. When the queue is not
// running those are handled inline.
func (s *EventService) Publish(ctx context.Context, event models.LifecycleEvent) {
	s.invalidate(ctx, event)

	job := jobs.Job{ID: uuid.NewString(), Type: lifecycleJobType, Payload: event}
	err := s.queue.Enqueue(job)
	if err == nil {
		return
	}
	if !errors.Is(err, jobs.ErrNotRunning) {
		s.logger.Warn("enqueue lifecycle event", zap.String("type", string(event.Type)), zap.Error(err))
	}
	if err := s.Handle(ctx, event); err != nil {
		s.logger.Error("handle lifecycle event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func (s *EventService) invalidate(ctx context.Context, event models.LifecycleEvent) {
	if s.analytics == nil || event.TeacherID == "" {
		return
	}
	if err := s.analytics.Invalidate(ctx, event.TeacherID); err != nil {
		s.logger.Warn("invalidate analytics", zap.String("teacher_id", event.TeacherID), zap.Error(err))
	}
}

// Handle writes the audit row and counts the event.
func (s *EventService) Handle(ctx context.Context, event models.LifecycleEvent) error {
	if s.audit != nil {
		entry, err := auditEntry(event)
		if err != nil {
			return err
		}
		if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
			return fmt.Errorf("write audit log: %w", err)
		}
	}

	s.metrics.RecordLifecycleEvent(string(event.Type))
	s.logger.Debug("lifecycle event handled",
		zap.String("type", string(event.Type)),
		zap.String("assignment_id", event.AssignmentID),
	)
	return nil
}

func (s *EventService) handleJob(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(models.LifecycleEvent)
	if !ok {
		return fmt.Errorf("unexpected payload %T", job.Payload)
	}
	return s.Handle(ctx, event)
}

func auditEntry(event models.LifecycleEvent) (*models.AuditLog, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode lifecycle event: %w", err)
	}
	resource, resourceID := "assignment", event.AssignmentID
	if event.SubmissionID != "" {
		resource, resourceID = "submission", event.SubmissionID
	}
	entry := &models.AuditLog{
		Action:     event.Type.AuditAction(),
		Resource:   resource,
		ResourceID: &resourceID,
		NewValues:  payload,
		CreatedAt:  event.At,
	}
	if event.ActorID != "" {
		actorID := event.ActorID
		entry.UserID = &actorID
	}
	return entry, nil
}
