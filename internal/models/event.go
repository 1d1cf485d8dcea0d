package models

import "time"

// LifecycleEventType names a committed state change.
type LifecycleEventType string

const (
	EventAssignmentCreated   LifecycleEventType = "assignment.created"
	EventAssignmentUpdated   LifecycleEventType = "assignment.updated"
	EventAssignmentDeleted   LifecycleEventType = "assignment.deleted"
	EventAssignmentPublished LifecycleEventType = "assignment.published"
	EventAssignmentCompleted LifecycleEventType = "assignment.completed"
	EventSubmissionCreated   LifecycleEventType = "submission.created"
	EventSubmissionReviewed  LifecycleEventType = "submission.reviewed"
)

// AuditAction maps the event to its audit log action.
func (t LifecycleEventType) AuditAction() string {
	switch t {
	case EventAssignmentCreated:
		return AuditActionAssignmentCreate
	case EventAssignmentUpdated:
		return AuditActionAssignmentUpdate
	case EventAssignmentDeleted:
		return AuditActionAssignmentDelete
	case EventAssignmentPublished:
		return AuditActionAssignmentPublish
	case EventAssignmentCompleted:
		return AuditActionAssignmentComplete
	case EventSubmissionCreated:
		return AuditActionSubmissionCreate
	case EventSubmissionReviewed:
		return AuditActionSubmissionReview
	}
	return string(t)
}

// LifecycleEvent records a committed mutation for downstream consumers.
type LifecycleEvent struct {
	Type         LifecycleEventType `json:"type"`
	ActorID      string             `json:"actorId"`
	TeacherID    string             `json:"teacherId"`
	AssignmentID string             `json:"assignmentId"`
	SubmissionID string             `json:"submissionId,omitempty"`
	Status       AssignmentStatus   `json:"status,omitempty"`
	At           time.Time          `json:"at"`
}
