package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classwork-api/internal/models"
)

const assignmentColumns = "id, teacher_id, title, description, due_date, status, created_at, updated_at, published_at, completed_at"

const qualifiedAssignmentColumns = "a.id, a.teacher_id, a.title, a.description, a.due_date, a.status, a.created_at, a.updated_at, a.published_at, a.completed_at"

// AssignmentRepository persists assignments. Every state-dependent write is conditional on the
// expected prior status so concurrent sessions cannot both win.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	if assignment.UpdatedAt.IsZero() {
		assignment.UpdatedAt = assignment.CreatedAt
	}
	if assignment.Status == "" {
		assignment.Status = models.AssignmentStatusDraft
	}

	const query = `INSERT INTO assignments (id, teacher_id, title, description, due_date, status, created_at, updated_at)
        VALUES (:id, :teacher_id, :title, :description, :due_date, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", mapWriteError(err))
	}
	return nil
}

// FindByID returns an assignment by identifier.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := fmt.Sprintf("SELECT %s FROM assignments WHERE id = $1", assignmentColumns)
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find assignment: %w", err)
	}
	return &assignment, nil
}

// List returns a page of assignments in creation order along with the total count.
func (r *AssignmentRepository) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	var conditions []string
	var args []interface{}

	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ", ")))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := normalisePage(filter.Page, filter.PageSize)
	listQuery := fmt.Sprintf("SELECT %s FROM assignments%s ORDER BY created_at ASC, id ASC LIMIT %d OFFSET %d",
		assignmentColumns, where, page.PageSize, page.Offset())

	assignments := make([]models.Assignment, 0)
	if err := r.db.SelectContext(ctx, &assignments, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM assignments"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}
	return assignments, total, nil
}

// UpdateDraft applies changes when the assignment is still a draft owned by teacherID. It returns
// sql.ErrNoRows when the guard fails.
func (r *AssignmentRepository) UpdateDraft(ctx context.Context, id, teacherID string, changes models.AssignmentChanges) (*models.Assignment, error) {
	args := []interface{}{id, teacherID, models.AssignmentStatusDraft}
	sets := make([]string, 0, 4)
	if changes.Title != nil {
		args = append(args, *changes.Title)
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)))
	}
	if changes.Description != nil {
		args = append(args, *changes.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if changes.DueDate != nil {
		args = append(args, *changes.DueDate)
		sets = append(sets, fmt.Sprintf("due_date = $%d", len(args)))
	}
	updatedAt := changes.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	args = append(args, updatedAt)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf("UPDATE assignments SET %s WHERE id = $1 AND teacher_id = $2 AND status = $3 RETURNING %s",
		strings.Join(sets, ", "), assignmentColumns)
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("update assignment: %w", err)
	}
	return &assignment, nil
}

// Transition moves the assignment from one status to the next in a single conditional statement.
// It returns sql.ErrNoRows when the row is missing, owned by someone else, or not in from.
func (r *AssignmentRepository) Transition(ctx context.Context, id, teacherID string, from, to models.AssignmentStatus, at time.Time) (*models.Assignment, error) {
	stamp := ""
	switch to {
	case models.AssignmentStatusPublished:
		stamp = ", published_at = $5"
	case models.AssignmentStatusCompleted:
		stamp = ", completed_at = $5"
	}
	query := fmt.Sprintf("UPDATE assignments SET status = $4, updated_at = $5%s WHERE id = $1 AND teacher_id = $2 AND status = $3 RETURNING %s",
		stamp, assignmentColumns)

	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id, teacherID, from, to, at); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("transition assignment: %w", err)
	}
	return &assignment, nil
}

// DeleteDraft removes a draft owned by teacherID. It returns sql.ErrNoRows when the guard fails.
func (r *AssignmentRepository) DeleteDraft(ctx context.Context, id, teacherID string) error {
	const query = `DELETE FROM assignments WHERE id = $1 AND teacher_id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, id, teacherID, models.AssignmentStatusDraft)
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete assignment rows affected: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListForStudent returns student-visible assignments projected with the student's own submission.
func (r *AssignmentRepository) ListForStudent(ctx context.Context, studentID string, page, pageSize int) ([]models.StudentAssignment, int, error) {
	req := normalisePage(page, pageSize)
	query := fmt.Sprintf(`SELECT %s, (s.id IS NOT NULL) AS is_submitted, s.submitted_at, COALESCE(s.reviewed, FALSE) AS reviewed
        FROM assignments a
        LEFT JOIN submissions s ON s.assignment_id = a.id AND s.student_id = $1
        WHERE a.status IN ($2, $3)
        ORDER BY a.created_at ASC, a.id ASC
        LIMIT %d OFFSET %d`, qualifiedAssignmentColumns, req.PageSize, req.Offset())

	items := make([]models.StudentAssignment, 0)
	if err := r.db.SelectContext(ctx, &items, query, studentID, models.AssignmentStatusPublished, models.AssignmentStatusCompleted); err != nil {
		return nil, 0, fmt.Errorf("list student assignments: %w", err)
	}

	var total int
	const countQuery = `SELECT COUNT(*) FROM assignments WHERE status IN ($1, $2)`
	if err := r.db.GetContext(ctx, &total, countQuery, models.AssignmentStatusPublished, models.AssignmentStatusCompleted); err != nil {
		return nil, 0, fmt.Errorf("count student assignments: %w", err)
	}
	return items, total, nil
}

func normalisePage(page, size int) models.PageRequest {
	if page < 1 {
		page = 1
	}
	if page > models.MaxPage {
		page = models.MaxPage
	}
	if size <= 0 {
		size = 10
	}
	if size > models.MaxPage {
		size = models.MaxPage
	}
	return models.PageRequest{Page: page, PageSize: size}
}
