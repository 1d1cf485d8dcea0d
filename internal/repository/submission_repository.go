package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classwork-api/internal/models"
)

const submissionColumns = "id, assignment_id, student_id, answer, submitted_at, reviewed, reviewed_at"

// SubmissionRepository persists student submissions.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts the submission only while its assignment is published and not past due at
// submission.SubmittedAt. A failed guard yields ErrConditionFailed and a second submission by the
// same student yields ErrUniqueViolation.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}

	const query = `INSERT INTO submissions (id, assignment_id, student_id, answer, submitted_at, reviewed)
        SELECT $1::text, a.id, $3::text, $4::text, $5::timestamptz, FALSE
        FROM assignments a
        WHERE a.id = $2 AND a.status = $6 AND a.due_date >= $5::timestamptz`
	result, err := r.db.ExecContext(ctx, query,
		submission.ID,
		submission.AssignmentID,
		submission.StudentID,
		submission.Answer,
		submission.SubmittedAt,
		models.AssignmentStatusPublished,
	)
	if err != nil {
		return fmt.Errorf("create submission: %w", mapWriteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create submission rows affected: %w", err)
	}
	if rows == 0 {
		return ErrConditionFailed
	}
	return nil
}

// FindByAssignmentAndStudent returns the student's submission for an assignment.
func (r *SubmissionRepository) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*models.Submission, error) {
	query := fmt.Sprintf("SELECT %s FROM submissions WHERE assignment_id = $1 AND student_id = $2", submissionColumns)
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, assignmentID, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return &submission, nil
}

// ListByAssignment returns every submission for the assignment ordered by submission time.
func (r *SubmissionRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	const query = `SELECT s.id, s.assignment_id, s.student_id, u.full_name AS student_name, s.answer, s.submitted_at, s.reviewed, s.reviewed_at
        FROM submissions s
        JOIN users u ON u.id = s.student_id
        WHERE s.assignment_id = $1
        ORDER BY s.submitted_at ASC, s.id ASC`
	submissions := make([]models.Submission, 0)
	if err := r.db.SelectContext(ctx, &submissions, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

// FindWithAssignment returns a submission with the owning teacher of its assignment.
func (r *SubmissionRepository) FindWithAssignment(ctx context.Context, id string) (*models.SubmissionContext, error) {
	const query = `SELECT s.id, s.assignment_id, s.student_id, u.full_name AS student_name, s.answer, s.submitted_at, s.reviewed, s.reviewed_at,
        a.teacher_id, a.title AS assignment_title
        FROM submissions s
        JOIN assignments a ON a.id = s.assignment_id
        JOIN users u ON u.id = s.student_id
        WHERE s.id = $1`
	var record models.SubmissionContext
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find submission context: %w", err)
	}
	return &record, nil
}

// MarkReviewed flips reviewed to true once. It returns sql.ErrNoRows when the submission is
// missing or already reviewed.
func (r *SubmissionRepository) MarkReviewed(ctx context.Context, id string, at time.Time) (*models.Submission, error) {
	query := fmt.Sprintf("UPDATE submissions SET reviewed = TRUE, reviewed_at = $2 WHERE id = $1 AND reviewed = FALSE RETURNING %s", submissionColumns)
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("mark submission reviewed: %w", err)
	}
	return &submission, nil
}
