package models

import "time"

// Submission is a student's single answer to an assignment.
type Submission struct {
	ID           string     `db:"id" json:"id"`
	AssignmentID string     `db:"assignment_id" json:"assignmentId"`
	StudentID    string     `db:"student_id" json:"studentId"`
	StudentName  string     `db:"student_name" json:"studentName,omitempty"`
	Answer       string     `db:"answer" json:"answer"`
	SubmittedAt  time.Time  `db:"submitted_at" json:"submittedAt"`
	Reviewed     bool       `db:"reviewed" json:"reviewed"`
	ReviewedAt   *time.Time `db:"reviewed_at" json:"reviewedAt,omitempty"`
}

// SubmissionContext is a submission joined with the owning teacher of its assignment.
type SubmissionContext struct {
	Submission
	TeacherID       string `db:"teacher_id"`
	AssignmentTitle string `db:"assignment_title"`
}

// StudentAssignment is an assignment as seen by one student.
type StudentAssignment struct {
	Assignment
	IsSubmitted bool       `db:"is_submitted" json:"isSubmitted"`
	SubmittedAt *time.Time `db:"submitted_at" json:"submittedAt,omitempty"`
	Reviewed    bool       `db:"reviewed" json:"reviewed"`
	IsPastDue   bool       `db:"-" json:"isPastDue"`
	CanSubmit   bool       `db:"-" json:"canSubmit"`
}

// Project fills the derived deadline flags at now.
func (s *StudentAssignment) Project(now time.Time) {
	s.IsPastDue = s.Assignment.IsPastDue(now)
	s.CanSubmit = s.Assignment.AcceptsSubmissions(now) && !s.IsSubmitted
}
