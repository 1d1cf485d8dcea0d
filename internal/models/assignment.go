package models

import (
	"strings"
	"time"
)

// AssignmentStatus is the lifecycle state of an assignment.
type AssignmentStatus string

const (
	AssignmentStatusDraft     AssignmentStatus = "Draft"
	AssignmentStatusPublished AssignmentStatus = "Published"
	AssignmentStatusCompleted AssignmentStatus = "Completed"
)

// Valid reports whether s is a known lifecycle state.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentStatusDraft, AssignmentStatusPublished, AssignmentStatusCompleted:
		return true
	}
	return false
}

// ParseAssignmentStatus matches raw case-insensitively against the known states. Unknown input
// is returned unchanged so callers can reject it with Valid.
func ParseAssignmentStatus(raw string) AssignmentStatus {
	trimmed := strings.TrimSpace(raw)
	for _, status := range []AssignmentStatus{AssignmentStatusDraft, AssignmentStatusPublished, AssignmentStatusCompleted} {
		if strings.EqualFold(trimmed, string(status)) {
			return status
		}
	}
	return AssignmentStatus(trimmed)
}

// CanTransitionTo reports whether next is the single forward step from s.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	switch s {
	case AssignmentStatusDraft:
		return next == AssignmentStatusPublished
	case AssignmentStatusPublished:
		return next == AssignmentStatusCompleted
	}
	return false
}

// Assignment is a unit of work authored by a teacher.
type Assignment struct {
	ID          string           `db:"id" json:"id"`
	TeacherID   string           `db:"teacher_id" json:"teacherId"`
	Title       string           `db:"title" json:"title"`
	Description string           `db:"description" json:"description"`
	DueDate     time.Time        `db:"due_date" json:"dueDate"`
	Status      AssignmentStatus `db:"status" json:"status"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time        `db:"updated_at" json:"updatedAt"`
	PublishedAt *time.Time       `db:"published_at" json:"publishedAt,omitempty"`
	CompletedAt *time.Time       `db:"completed_at" json:"completedAt,omitempty"`
}

// IsPastDue reports whether now is strictly after the due date.
func (a Assignment) IsPastDue(now time.Time) bool {
	return now.After(a.DueDate)
}

// AcceptsSubmissions reports whether a student may submit at now.
func (a Assignment) AcceptsSubmissions(now time.Time) bool {
	return a.Status == AssignmentStatusPublished && !a.IsPastDue(now)
}

// VisibleToStudents reports whether students may browse the assignment.
func (a Assignment) VisibleToStudents() bool {
	return a.Status == AssignmentStatusPublished || a.Status == AssignmentStatusCompleted
}

// AssignmentFilter scopes assignment listings.
type AssignmentFilter struct {
	TeacherID string
	Statuses  []AssignmentStatus
	Page      int
	PageSize  int
}

// AssignmentChanges carries a validated partial update. Nil fields are left untouched.
type AssignmentChanges struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	UpdatedAt   time.Time
}

// Empty reports whether no field is set.
func (c AssignmentChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.DueDate == nil
}
