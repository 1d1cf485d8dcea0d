package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAssignmentStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to AssignmentStatus
		ok       bool
	}{
		{AssignmentStatusDraft, AssignmentStatusPublished, true},
		{AssignmentStatusPublished, AssignmentStatusCompleted, true},
		{AssignmentStatusDraft, AssignmentStatusCompleted, false},
		{AssignmentStatusPublished, AssignmentStatusDraft, false},
		{AssignmentStatusCompleted, AssignmentStatusPublished, false},
		{AssignmentStatusCompleted, AssignmentStatusCompleted, false},
		{AssignmentStatusDraft, AssignmentStatusDraft, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.False(t, AssignmentStatus("Archived").Valid())
}

func TestAssignmentDeadlineBoundary(t *testing.T) {
	due := time.Date(2024, 5, 10, 23, 59, 59, 0, time.UTC)
	a := Assignment{Status: AssignmentStatusPublished, DueDate: due}

	assert.True(t, a.AcceptsSubmissions(due))
	assert.False(t, a.AcceptsSubmissions(due.Add(time.Second)))

	a.Status = AssignmentStatusCompleted
	assert.False(t, a.AcceptsSubmissions(due.Add(-time.Hour)))
	assert.True(t, a.VisibleToStudents())
}

func TestStudentAssignmentProjection(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	view := StudentAssignment{Assignment: Assignment{Status: AssignmentStatusPublished, DueDate: now.Add(time.Hour)}}
	view.Project(now)
	assert.True(t, view.CanSubmit)
	assert.False(t, view.IsPastDue)

	view.IsSubmitted = true
	view.Project(now)
	assert.False(t, view.CanSubmit)

	late := StudentAssignment{Assignment: Assignment{Status: AssignmentStatusPublished, DueDate: now.Add(-time.Hour)}}
	late.Project(now)
	assert.True(t, late.IsPastDue)
	assert.False(t, late.CanSubmit)
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{CurrentPage: 1, TotalPages: 1, TotalItems: 0, ItemsPerPage: 10}, NewPagination(PageRequest{Page: 1, PageSize: 10}, 0))
	assert.Equal(t, 3, NewPagination(PageRequest{Page: 1, PageSize: 10}, 21).TotalPages)
	assert.Equal(t, 2, NewPagination(PageRequest{Page: 2, PageSize: 10}, 20).TotalPages)

	beyond := NewPagination(PageRequest{Page: 9, PageSize: 10}, 15)
	assert.Equal(t, 9, beyond.CurrentPage)
	assert.Equal(t, 2, beyond.TotalPages)
	assert.Equal(t, 15, beyond.TotalItems)
	assert.Equal(t, int64(80), PageRequest{Page: 9, PageSize: 10}.Offset())
}

func TestParseAssignmentStatus(t *testing.T) {
	assert.Equal(t, AssignmentStatusPublished, ParseAssignmentStatus(" published "))
	assert.Equal(t, AssignmentStatusDraft, ParseAssignmentStatus("DRAFT"))
	assert.False(t, ParseAssignmentStatus("archived").Valid())
}
