package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/classwork-api/internal/dto"
	"github.com/noah-isme/classwork-api/internal/models"
)

type dashboardAssignmentLister interface {
	List(ctx context.Context, actor models.Actor, filter models.AssignmentFilter) ([]models.Assignment, models.Pagination, error)
}

type dashboardAnalyticsProvider interface {
	Teacher(ctx context.Context, actor models.Actor, teacherID string) (*models.AnalyticsSnapshot, bool, error)
}

type dashboardStudentLister interface {
	ListAvailable(ctx context.Context, actor models.Actor, page, pageSize int) ([]models.StudentAssignment, models.Pagination, error)
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Assignments dashboardAssignmentLister
	Analytics   dashboardAnalyticsProvider
	Available   dashboardStudentLister
	Policy      *AccessPolicy
	Logger      *zap.Logger
}

// DashboardService composes the per-role landing pages in one call.
type DashboardService struct {
	assignments dashboardAssignmentLister
	analytics   dashboardAnalyticsProvider
	available   dashboardStudentLister
	policy      *AccessPolicy
	logger      *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	policy := params.Policy
	if policy == nil {
		policy = NewAccessPolicy(nil)
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		assignments: params.Assignments,
		analytics:   params.Analytics,
		available:   params.Available,
		policy:      policy,
		logger:      logger,
	}
}

// Teacher returns a page of the actor's assignments with their analytics. The boolean reports
// whether analytics came from cache. An analytics failure leaves Analytics nil rather than
// failing the page.
func (s *DashboardService) Teacher(ctx context.Context, actor models.Actor, filter models.AssignmentFilter) (*dto.TeacherDashboardResponse, bool, error) {
	if err := s.policy.Authorize(actor, PermDashboardTeacher); err != nil {
		return nil, false, err
	}

	items, page, err := s.assignments.List(ctx, actor, filter)
	if err != nil {
		return nil, false, err
	}

	resp := &dto.TeacherDashboardResponse{
		Assignments: items,
		Pagination:  page,
		StatusCount: map[string]int{
			string(models.AssignmentStatusDraft):     0,
			string(models.AssignmentStatusPublished): 0,
			string(models.AssignmentStatusCompleted): 0,
		},
	}

	snapshot, hit, err := s.analytics.Teacher(ctx, actor, actor.UserID)
	if err != nil {
		s.logger.Warn("dashboard analytics unavailable", zap.String("teacher_id", actor.UserID), zap.Error(err))
		return resp, false, nil
	}
	resp.Analytics = snapshot
	for _, count := range snapshot.Assignments {
		resp.StatusCount[string(count.Status)]++
	}
	return resp, hit, nil
}

// Student returns a page of assignments visible to the actor and how many remain submittable.
func (s *DashboardService) Student(ctx context.Context, actor models.Actor, page, pageSize int) (*dto.StudentDashboardResponse, error) {
	if err := s.policy.Authorize(actor, PermDashboardStudent); err != nil {
		return nil, err
	}

	items, pagination, err := s.available.ListAvailable(ctx, actor, page, pageSize)
	if err != nil {
		return nil, err
	}

	pending := 0
	for _, item := range items {
		if item.CanSubmit {
			pending++
		}
	}
	return &dto.StudentDashboardResponse{Assignments: items, Pagination: pagination, Pending: pending}, nil
}
