package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/classwork-api/internal/dto"
	"github.com/noah-isme/classwork-api/internal/models"
	"github.com/noah-isme/classwork-api/pkg/jobs"
)

type memoryAudit struct {
	mu      sync.Mutex
	entries []*models.AuditLog
	err     error
}

func (a *memoryAudit) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, log)
	return nil
}

func (a *memoryAudit) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}

type recordingInvalidator struct {
	mu       sync.Mutex
	teachers []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, teacherID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teachers = append(r.teachers, teacherID)
	return nil
}

func TestEventServiceHandlesInlineWhenQueueStopped(t *testing.T) {
	audit := &memoryAudit{}
	invalidator := &recordingInvalidator{}
	metrics := NewMetricsService()
	svc := NewEventService(audit, invalidator, metrics, zap.NewNop(), jobs.QueueConfig{Workers: 1})

	svc.Publish(context.Background(), models.LifecycleEvent{
		Type:         models.EventSubmissionCreated,
		ActorID:      studentActor.UserID,
		TeacherID:    teacherActor.UserID,
		AssignmentID: "a-1",
		SubmissionID: "s-1",
		At:           time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC),
	})

	require.Equal(t, 1, audit.count())
	entry := audit.entries[0]
	assert.Equal(t, models.AuditActionSubmissionCreate, entry.Action)
	assert.Equal(t, "submission", entry.Resource)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "s-1", *entry.ResourceID)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, studentActor.UserID, *entry.UserID)
	assert.JSONEq(t, `{"type":"submission.created","actorId":"student-1","teacherId":"teacher-1","assignmentId":"a-1","submissionId":"s-1","at":"2024-12-20T10:00:00Z"}`, string(entry.NewValues))
	assert.Equal(t, []string{teacherActor.UserID}, invalidator.teachers)
	assert.Equal(t, uint64(1), metrics.Snapshot().LifecycleEvents)
}

func TestEventServiceProcessesOnWorkers(t *testing.T) {
	audit := &memoryAudit{}
	svc := NewEventService(audit, nil, nil, zap.NewNop(), jobs.QueueConfig{Workers: 2, BufferSize: 8})
	svc.Start(context.Background())
	defer svc.Stop()

	for i := 0; i < 5; i++ {
		svc.Publish(context.Background(), models.LifecycleEvent{Type: models.EventAssignmentPublished, ActorID: "teacher-1", TeacherID: "teacher-1", AssignmentID: "a-1"})
	}

	require.Eventually(t, func() bool { return svc.Stats().Processed == 5 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 5, audit.count())
}

func TestEventServiceReturnsAuditFailure(t *testing.T) {
	audit := &memoryAudit{err: errors.New("db down")}
	svc := NewEventService(audit, nil, nil, nil, jobs.QueueConfig{})

	err := svc.Handle(context.Background(), models.LifecycleEvent{Type: models.EventAssignmentDeleted, AssignmentID: "a-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

// gatedAudit holds every audit write until release is closed.
type gatedAudit struct {
	release chan struct{}
	memoryAudit
}

func (a *gatedAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	<-a.release
	return a.memoryAudit.CreateAuditLog(ctx, log)
}

func TestEventServiceInvalidatesAnalyticsBeforeWorkersRun(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	repo := &storeAnalytics{store: store}
	cacheSvc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	analytics := NewAnalyticsService(repo, cacheSvc, nil, nil, time.Minute, zap.NewNop())

	audit := &gatedAudit{release: make(chan struct{})}
	events := NewEventService(audit, analytics, nil, zap.NewNop(), jobs.QueueConfig{Workers: 1, BufferSize: 8})
	events.Start(ctx)
	defer events.Stop()
	defer close(audit.release)

	clock := &fixedClock{now: time.Date(2024, 12, 20, 10, 0, 0, 0, time.UTC)}
	assignments := NewAssignmentService(store, NewAccessPolicy(nil), events, Paginator{}, nil, nil, WithClock(clock.Now))
	draft, err := assignments.Create(ctx, teacherActor, dto.CreateAssignmentRequest{Title: "Essay 1", Description: "Write", DueDate: "2025-01-01"})
	require.NoError(t, err)

	_, hit, err := analytics.Teacher(ctx, teacherActor, "")
	require.NoError(t, err)
	require.False(t, hit)
	_, hit, err = analytics.Teacher(ctx, teacherActor, "")
	require.NoError(t, err)
	require.True(t, hit)

	_, err = assignments.Publish(ctx, teacherActor, draft.ID)
	require.NoError(t, err)

	snapshot, hit, err := analytics.Teacher(ctx, teacherActor, "")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 1, snapshot.Summary.PublishedAssignments)
	assert.Zero(t, audit.count(), "audit writes stay on the worker")
}
