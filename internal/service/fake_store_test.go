package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/noah-isme/classwork-api/internal/models"
	"github.com/noah-isme/classwork-api/internal/repository"
)

// memoryStore mimics the conditional SQL of the postgres repositories.
type memoryStore struct {
	mu          sync.Mutex
	seq         int
	assignments map[string]models.Assignment
	order       []string
	submissions map[string]models.Submission
	names       map[string]string
	audit       []*models.AuditLog
	failWith    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		assignments: make(map[string]models.Assignment),
		submissions: make(map[string]models.Submission),
		names:       make(map[string]string),
	}
}

func (m *memoryStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memoryStore) Create(ctx context.Context, assignment *models.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	if assignment.ID == "" {
		assignment.ID = m.nextID("a")
	}
	m.assignments[assignment.ID] = *assignment
	m.order = append(m.order, assignment.ID)
	return nil
}

func (m *memoryStore) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &assignment, nil
}

func (m *memoryStore) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, 0, m.failWith
	}
	matched := make([]models.Assignment, 0)
	for _, id := range m.order {
		assignment, ok := m.assignments[id]
		if !ok {
			continue
		}
		if filter.TeacherID != "" && assignment.TeacherID != filter.TeacherID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, assignment.Status) {
			continue
		}
		matched = append(matched, assignment)
	}
	return pageOf(matched, filter.Page, filter.PageSize), len(matched), nil
}

func (m *memoryStore) UpdateDraft(ctx context.Context, id, teacherID string, changes models.AssignmentChanges) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.assignments[id]
	if !ok || assignment.TeacherID != teacherID || assignment.Status != models.AssignmentStatusDraft {
		return nil, sql.ErrNoRows
	}
	if changes.Title != nil {
		assignment.Title = *changes.Title
	}
	if changes.Description != nil {
		assignment.Description = *changes.Description
	}
	if changes.DueDate != nil {
		assignment.DueDate = *changes.DueDate
	}
	assignment.UpdatedAt = changes.UpdatedAt
	m.assignments[id] = assignment
	return &assignment, nil
}

func (m *memoryStore) Transition(ctx context.Context, id, teacherID string, from, to models.AssignmentStatus, at time.Time) (*models.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.assignments[id]
	if !ok || assignment.TeacherID != teacherID || assignment.Status != from {
		return nil, sql.ErrNoRows
	}
	assignment.Status = to
	assignment.UpdatedAt = at
	stamp := at
	switch to {
	case models.AssignmentStatusPublished:
		assignment.PublishedAt = &stamp
	case models.AssignmentStatusCompleted:
		assignment.CompletedAt = &stamp
	}
	m.assignments[id] = assignment
	return &assignment, nil
}

func (m *memoryStore) DeleteDraft(ctx context.Context, id, teacherID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	assignment, ok := m.assignments[id]
	if !ok || assignment.TeacherID != teacherID || assignment.Status != models.AssignmentStatusDraft {
		return sql.ErrNoRows
	}
	delete(m.assignments, id)
	return nil
}

func (m *memoryStore) ListForStudent(ctx context.Context, studentID string, page, pageSize int) ([]models.StudentAssignment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	visible := make([]models.StudentAssignment, 0)
	for _, id := range m.order {
		assignment, ok := m.assignments[id]
		if !ok || !assignment.VisibleToStudents() {
			continue
		}
		view := models.StudentAssignment{Assignment: assignment}
		for _, sub := range m.submissions {
			if sub.AssignmentID == id && sub.StudentID == studentID {
				submittedAt := sub.SubmittedAt
				view.IsSubmitted = true
				view.SubmittedAt = &submittedAt
				view.Reviewed = sub.Reviewed
			}
		}
		visible = append(visible, view)
	}
	return pageOf(visible, page, pageSize), len(visible), nil
}

func (m *memoryStore) submissionStore() *memorySubmissions {
	return &memorySubmissions{m}
}

// memorySubmissions exposes the submission half of the store under non-clashing method names.
type memorySubmissions struct {
	*memoryStore
}

func (s *memorySubmissions) Create(ctx context.Context, submission *models.Submission) error {
	m := s.memoryStore
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.submissions {
		if existing.AssignmentID == submission.AssignmentID && existing.StudentID == submission.StudentID {
			return repository.ErrUniqueViolation
		}
	}
	assignment, ok := m.assignments[submission.AssignmentID]
	if !ok || assignment.Status != models.AssignmentStatusPublished || submission.SubmittedAt.After(assignment.DueDate) {
		return repository.ErrConditionFailed
	}
	if submission.ID == "" {
		submission.ID = m.nextID("s")
	}
	m.submissions[submission.ID] = *submission
	return nil
}

func (s *memorySubmissions) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*models.Submission, error) {
	m := s.memoryStore
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.submissions {
		if sub.AssignmentID == assignmentID && sub.StudentID == studentID {
			found := sub
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memorySubmissions) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	m := s.memoryStore
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]models.Submission, 0)
	for _, sub := range m.submissions {
		if sub.AssignmentID == assignmentID {
			sub.StudentName = m.names[sub.StudentID]
			result = append(result, sub)
		}
	}
	for i := 1; i < len(result); i++ {
		for j := i; j > 0 && result[j].SubmittedAt.Before(result[j-1].SubmittedAt); j-- {
			result[j], result[j-1] = result[j-1], result[j]
		}
	}
	return result, nil
}

func (s *memorySubmissions) FindWithAssignment(ctx context.Context, id string) (*models.SubmissionContext, error) {
	m := s.memoryStore
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.submissions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	assignment := m.assignments[sub.AssignmentID]
	sub.StudentName = m.names[sub.StudentID]
	return &models.SubmissionContext{Submission: sub, TeacherID: assignment.TeacherID, AssignmentTitle: assignment.Title}, nil
}

func (s *memorySubmissions) MarkReviewed(ctx context.Context, id string, at time.Time) (*models.Submission, error) {
	m := s.memoryStore
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.submissions[id]
	if !ok || sub.Reviewed {
		return nil, sql.ErrNoRows
	}
	reviewedAt := at
	sub.Reviewed = true
	sub.ReviewedAt = &reviewedAt
	m.submissions[id] = sub
	return &sub, nil
}

func containsStatus(statuses []models.AssignmentStatus, status models.AssignmentStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func pageOf[T any](items []T, page, size int) []T {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 10
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// recordingPublisher captures lifecycle events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []models.LifecycleEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event models.LifecycleEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []models.LifecycleEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.LifecycleEventType, len(p.events))
	for i, event := range p.events {
		out[i] = event.Type
	}
	return out
}

type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var (
	teacherActor      = models.Actor{UserID: "teacher-1", Role: models.RoleTeacher, Name: "Bu Sari"}
	otherTeacherActor = models.Actor{UserID: "teacher-2", Role: models.RoleTeacher, Name: "Pak Budi"}
	studentActor      = models.Actor{UserID: "student-1", Role: models.RoleStudent, Name: "Ana"}
	otherStudentActor = models.Actor{UserID: "student-2", Role: models.RoleStudent, Name: "Dimas"}
)
