package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classwork-api/internal/dto"
	"github.com/noah-isme/classwork-api/internal/models"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
)

type assignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error)
	UpdateDraft(ctx context.Context, id, teacherID string, changes models.AssignmentChanges) (*models.Assignment, error)
	Transition(ctx context.Context, id, teacherID string, from, to models.AssignmentStatus, at time.Time) (*models.Assignment, error)
	DeleteDraft(ctx context.Context, id, teacherID string) error
}

// lifecyclePublisher receives committed mutations.
type lifecyclePublisher interface {
	Publish(ctx context.Context, event models.LifecycleEvent)
}

// AssignmentOption customises an AssignmentService.
type AssignmentOption func(*AssignmentService)

// WithClock replaces the wall clock used for timestamps.
func WithClock(now func() time.Time) AssignmentOption {
	return func(s *AssignmentService) {
		if now != nil {
			s.now = now
		}
	}
}

// AssignmentService drives the Draft, Published, Completed lifecycle. Every state-dependent
// write is a single conditional statement so concurrent sessions cannot both succeed.
type AssignmentService struct {
	repo      assignmentRepository
	policy    *AccessPolicy
	events    lifecyclePublisher
	pager     Paginator
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAssignmentService constructs the lifecycle engine.
func NewAssignmentService(repo assignmentRepository, policy *AccessPolicy, events lifecyclePublisher, pager Paginator, validate *validator.Validate, logger *zap.Logger, opts ...AssignmentOption) *AssignmentService {
	if policy == nil {
		policy = NewAccessPolicy(nil)
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AssignmentService{
		repo:      repo,
		policy:    policy,
		events:    events,
		pager:     pager,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Create authors a new draft owned by the actor.
func (s *AssignmentService) Create(ctx context.Context, actor models.Actor, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.policy.Authorize(actor, PermAssignmentCreate); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.DueDate = strings.TrimSpace(req.DueDate)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "title, description and dueDate are required")
	}
	dueDate, err := ParseDueDate(req.DueDate)
	if err != nil {
		return nil, validationError(err, "dueDate must be YYYY-MM-DD or RFC3339")
	}

	now := s.now().UTC()
	assignment := &models.Assignment{
		TeacherID:   actor.UserID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     dueDate,
		Status:      models.AssignmentStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, wrapInternal(err, "failed to create assignment")
	}

	s.logger.Info("assignment created", zap.String("assignment_id", assignment.ID), zap.String("teacher_id", actor.UserID))
	s.emit(ctx, models.EventAssignmentCreated, actor, assignment)
	return assignment, nil
}

// Get returns one of the actor's assignments.
func (s *AssignmentService) Get(ctx context.Context, actor models.Actor, id string) (*models.Assignment, error) {
	if err := s.policy.Authorize(actor, PermAssignmentList); err != nil {
		return nil, err
	}
	return s.loadOwned(ctx, actor, id)
}

// Update applies a partial edit to a draft.
func (s *AssignmentService) Update(ctx context.Context, actor models.Actor, id string, req dto.UpdateAssignmentRequest) (*models.Assignment, error) {
	if err := s.policy.Authorize(actor, PermAssignmentUpdate); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid assignment payload")
	}

	changes := models.AssignmentChanges{UpdatedAt: s.now().UTC()}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "title must not be empty")
		}
		changes.Title = &title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "description must not be empty")
		}
		changes.Description = &description
	}
	if req.DueDate != nil {
		dueDate, err := ParseDueDate(*req.DueDate)
		if err != nil {
			return nil, validationError(err, "dueDate must be YYYY-MM-DD or RFC3339")
		}
		changes.DueDate = &dueDate
	}
	if changes.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}

	updated, err := s.repo.UpdateDraft(ctx, id, actor.UserID, changes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.explainMiss(ctx, actor, id, "only draft assignments can be edited")
		}
		return nil, wrapInternal(err, "failed to update assignment")
	}

	s.emit(ctx, models.EventAssignmentUpdated, actor, updated)
	return updated, nil
}

// Delete removes a draft.
func (s *AssignmentService) Delete(ctx context.Context, actor models.Actor, id string) error {
	if err := s.policy.Authorize(actor, PermAssignmentDelete); err != nil {
		return err
	}
	if err := s.repo.DeleteDraft(ctx, id, actor.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.explainMiss(ctx, actor, id, "only draft assignments can be deleted")
		}
		return wrapInternal(err, "failed to delete assignment")
	}

	s.logger.Info("assignment deleted", zap.String("assignment_id", id), zap.String("teacher_id", actor.UserID))
	s.emit(ctx, models.EventAssignmentDeleted, actor, &models.Assignment{ID: id, TeacherID: actor.UserID})
	return nil
}

// Publish opens a draft for submissions.
func (s *AssignmentService) Publish(ctx context.Context, actor models.Actor, id string) (*models.Assignment, error) {
	if err := s.policy.Authorize(actor, PermAssignmentPublish); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, models.AssignmentStatusDraft, models.AssignmentStatusPublished,
		models.EventAssignmentPublished, "only draft assignments can be published")
}

// Complete closes a published assignment. It is the only way an assignment becomes Completed.
func (s *AssignmentService) Complete(ctx context.Context, actor models.Actor, id string) (*models.Assignment, error) {
	if err := s.policy.Authorize(actor, PermAssignmentComplete); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, models.AssignmentStatusPublished, models.AssignmentStatusCompleted,
		models.EventAssignmentCompleted, "only published assignments can be completed")
}

// List returns a page of the actor's assignments in creation order.
func (s *AssignmentService) List(ctx context.Context, actor models.Actor, filter models.AssignmentFilter) ([]models.Assignment, models.Pagination, error) {
	if err := s.policy.Authorize(actor, PermAssignmentList); err != nil {
		return nil, models.Pagination{}, err
	}
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, models.Pagination{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", status))
		}
	}

	page := s.pager.Normalize(filter.Page, filter.PageSize)
	filter.TeacherID = actor.UserID
	filter.Page = page.Page
	filter.PageSize = page.PageSize

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, wrapInternal(err, "failed to list assignments")
	}
	return items, models.NewPagination(page, total), nil
}

func (s *AssignmentService) transition(ctx context.Context, actor models.Actor, id string, from, to models.AssignmentStatus, event models.LifecycleEventType, stateMessage string) (*models.Assignment, error) {
	if !from.CanTransitionTo(to) {
		return nil, appErrors.Clone(appErrors.ErrState, fmt.Sprintf("%s cannot move to %s", from, to))
	}
	updated, err := s.repo.Transition(ctx, id, actor.UserID, from, to, s.now().UTC())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.explainMiss(ctx, actor, id, stateMessage)
		}
		return nil, wrapInternal(err, "failed to change assignment status")
	}

	s.logger.Info("assignment status changed",
		zap.String("assignment_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	s.emit(ctx, event, actor, updated)
	return updated, nil
}

// explainMiss classifies a conditional write that matched no row.
func (s *AssignmentService) explainMiss(ctx context.Context, actor models.Actor, id, stateMessage string) error {
	current, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	return appErrors.Clone(appErrors.ErrState, fmt.Sprintf("assignment is %s; %s", current.Status, stateMessage))
}

func (s *AssignmentService) loadOwned(ctx context.Context, actor models.Actor, id string) (*models.Assignment, error) {
	assignment, err := s.repo.FindByID(ctx, id)
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

func (s *AssignmentService) emit(ctx context.Context, eventType models.LifecycleEventType, actor models.Actor, assignment *models.Assignment) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, models.LifecycleEvent{
		Type:         eventType,
		ActorID:      actor.UserID,
		TeacherID:    assignment.TeacherID,
		AssignmentID: assignment.ID,
		Status:       assignment.Status,
		At:           s.now().UTC(),
	})
}

const dateOnlyLayout = "2006-01-02"

// ParseDueDate accepts a calendar date, which is taken as the last second of that UTC day, or
// an RFC3339 timestamp.
func ParseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("due date is empty")
	}
	if day, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return day.Add(24*time.Hour - time.Second).UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
