package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classwork-api/internal/dto"
	"github.com/noah-isme/classwork-api/internal/models"
	"github.com/noah-isme/classwork-api/internal/repository"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
)

type submissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*models.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error)
	FindWithAssignment(ctx context.Context, id string) (*models.SubmissionContext, error)
	MarkReviewed(ctx context.Context, id string, at time.Time) (*models.Submission, error)
}

type submissionAssignmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	ListForStudent(ctx context.Context, studentID string, page, pageSize int) ([]models.StudentAssignment, int, error)
}

// SubmissionOption customises a SubmissionService.
type SubmissionOption func(*SubmissionService)

// WithSubmissionClock replaces the clock used for deadlines and timestamps.
func WithSubmissionClock(now func() time.Time) SubmissionOption {
	return func(s *SubmissionService) {
		if now != nil {
			s.now = now
		}
	}
}

// SubmissionService records student answers and teacher reviews.
type SubmissionService struct {
	submissions submissionRepository
	assignments submissionAssignmentReader
	policy      *AccessPolicy
	events      lifecyclePublisher
	pager       Paginator
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewSubmissionService constructs the registry.
func NewSubmissionService(submissions submissionRepository, assignments submissionAssignmentReader, policy *AccessPolicy, events lifecyclePublisher, pager Paginator, validate *validator.Validate, logger *zap.Logger, opts ...SubmissionOption) *SubmissionService {
	if policy == nil {
		policy = NewAccessPolicy(nil)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &SubmissionService{
		submissions: submissions,
		assignments: assignments,
		policy:      policy,
		events:      events,
		pager:       pager,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Submit records the actor's single answer to a published, not yet due assignment.
func (s *SubmissionService) Submit(ctx context.Context, actor models.Actor, req dto.CreateSubmissionRequest) (*models.Submission, error) {
	if err := s.policy.Authorize(actor, PermSubmissionCreate); err != nil {
		return nil, err
	}

	req.AssignmentID = strings.TrimSpace(req.AssignmentID)
	req.Answer = strings.TrimSpace(req.Answer)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "assignmentId and answer are required")
	}

	now := s.now().UTC()
	assignment, err := s.assignments.FindByID(ctx, req.AssignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, wrapInternal(err, "failed to load assignment")
	}
	if err := submittable(assignment, now); err != nil {
		return nil, err
	}

	if _, err := s.submissions.FindByAssignmentAndStudent(ctx, assignment.ID, actor.UserID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrDuplicate, "assignment already submitted")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, wrapInternal(err, "failed to check existing submission")
	}

	submission := &models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    actor.UserID,
		StudentName:  actor.Name,
		Answer:       req.Answer,
		SubmittedAt:  now,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		switch {
		case errors.Is(err, repository.ErrUniqueViolation):
			return nil, appErrors.Clone(appErrors.ErrDuplicate, "assignment already submitted")
		case errors.Is(err, repository.ErrConditionFailed):
			return nil, s.explainRejectedSubmit(ctx, assignment.ID, now)
		}
		return nil, wrapInternal(err, "failed to create submission")
	}

	s.logger.Info("submission created",
		zap.String("submission_id", submission.ID),
		zap.String("assignment_id", assignment.ID),
		zap.String("student_id", actor.UserID),
	)
	s.emit(ctx, models.EventSubmissionCreated, actor, assignment.TeacherID, submission)
	return submission, nil
}

// GetForStudent returns the actor's own submission for an assignment.
func (s *SubmissionService) GetForStudent(ctx context.Context, actor models.Actor, assignmentID string) (*models.Submission, error) {
	if err := s.policy.Authorize(actor, PermSubmissionViewOwn); err != nil {
		return nil, err
	}
	submission, err := s.submissions.FindByAssignmentAndStudent(ctx, assignmentID, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, wrapInternal(err, "failed to load submission")
	}
	return submission, nil
}

// ListForAssignment returns every submission to one of the actor's assignments, oldest first.
func (s *SubmissionService) ListForAssignment(ctx context.Context, actor models.Actor, assignmentID string) ([]models.Submission, error) {
	if err := s.policy.Authorize(actor, PermSubmissionList); err != nil {
		return nil, err
	}
	if _, err := s.ownedAssignment(ctx, actor, assignmentID); err != nil {
		return nil, err
	}
	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, wrapInternal(err, "failed to list submissions")
	}
	return submissions, nil
}

// MarkReviewed flags a submission as reviewed. Reviewing twice returns the stored record.
func (s *SubmissionService) MarkReviewed(ctx context.Context, actor models.Actor, submissionID string) (*models.Submission, error) {
	if err := s.policy.Authorize(actor, PermSubmissionReview); err != nil {
		return nil, err
	}

	record, err := s.loadContext(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if record.TeacherID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "submission belongs to another teacher's assignment")
	}
	if record.Reviewed {
		return &record.Submission, nil
	}

	reviewed, err := s.submissions.MarkReviewed(ctx, submissionID, s.now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Another session reviewed it first.
			current, loadErr := s.loadContext(ctx, submissionID)
			if loadErr != nil {
				return nil, loadErr
			}
			return &current.Submission, nil
		}
		return nil, wrapInternal(err, "failed to mark submission reviewed")
	}
	reviewed.StudentName = record.StudentName

	s.emit(ctx, models.EventSubmissionReviewed, actor, record.TeacherID, reviewed)
	return reviewed, nil
}

// ListAvailable returns a page of published and completed assignments projected for the actor.
func (s *SubmissionService) ListAvailable(ctx context.Context, actor models.Actor, page, pageSize int) ([]models.StudentAssignment, models.Pagination, error) {
	if err := s.policy.Authorize(actor, PermAssignmentBrowse); err != nil {
		return nil, models.Pagination{}, err
	}

	req := s.pager.Normalize(page, pageSize)
	items, total, err := s.assignments.ListForStudent(ctx, actor.UserID, req.Page, req.PageSize)
	if err != nil {
		return nil, models.Pagination{}, wrapInternal(err, "failed to list assignments")
	}
	now := s.now().UTC()
	for i := range items {
		items[i].Project(now)
	}
	return items, models.NewPagination(req, total), nil
}

func submittable(assignment *models.Assignment, now time.Time) error {
	if assignment.Status != models.AssignmentStatusPublished {
		return appErrors.Clone(appErrors.ErrState, "assignment is not open for submission")
	}
	if assignment.IsPastDue(now) {
		return appErrors.Clone(appErrors.ErrDeadline, "assignment is past due")
	}
	return nil
}

// explainRejectedSubmit re-reads the assignment after the guarded insert matched nothing.
func (s *SubmissionService) explainRejectedSubmit(ctx context.Context, assignmentID string, now time.Time) error {
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return wrapInternal(err, "failed to load assignment")
	}
	if err := submittable(assignment, now); err != nil {
		return err
	}
	return appErrors.Clone(appErrors.ErrState, "assignment is not open for submission")
}

func (s *SubmissionService) ownedAssignment(ctx context.Context, actor models.Actor, assignmentID string) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, wrapInternal(err, "failed to load assignment")
	}
	if assignment.TeacherID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another teacher")
	}
	return assignment, nil
}

func (s *SubmissionService) loadContext(ctx context.Context, submissionID string) (*models.SubmissionContext, error) {
	record, err := s.submissions.FindWithAssignment(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, wrapInternal(err, "failed to load submission")
	}
	return record, nil
}

func (s *SubmissionService) emit(ctx context.Context, eventType models.LifecycleEventType, actor models.Actor, teacherID string, submission *models.Submission) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, models.LifecycleEvent{
		Type:         eventType,
		ActorID:      actor.UserID,
		TeacherID:    teacherID,
		AssignmentID: submission.AssignmentID,
		SubmissionID: submission.ID,
		At:           s.now().UTC(),
	})
}
