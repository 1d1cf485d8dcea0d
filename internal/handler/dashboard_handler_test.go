package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/classwork-api/internal/dto"
	"github.com/noah-isme/classwork-api/internal/models"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
)

type fakeDashboardSrv struct {
	teacherHit  bool
	lastFilter  models.AssignmentFilter
	lastActor   models.Actor
	studentErr  error
	studentPage [2]int
}

func (f *fakeDashboardSrv) Teacher(_ context.Context, actor models.Actor, filter models.AssignmentFilter) (*dto.TeacherDashboardResponse, bool, error) {
	f.lastActor, f.lastFilter = actor, filter
	return &dto.TeacherDashboardResponse{
		Assignments: []models.Assignment{},
		StatusCount: map[string]int{"Draft": 1, "Published": 0, "Completed": 0},
	}, f.teacherHit, nil
}

func (f *fakeDashboardSrv) Student(_ context.Context, actor models.Actor, page, pageSize int) (*dto.StudentDashboardResponse, error) {
	f.lastActor = actor
	f.studentPage = [2]int{page, pageSize}
	if f.studentErr != nil {
		return nil, f.studentErr
	}
	return &dto.StudentDashboardResponse{Pending: 2}, nil
}

func TestDashboardHandlerTeacher(t *testing.T) {
	svc := &fakeDashboardSrv{teacherHit: true}
	h := NewDashboardHandler(svc)

	rec, envelope := serve(t, http.MethodGet, "/dashboard/teacher", "/dashboard/teacher?status=completed&limit=5", teacherClaims, "", h.Teacher)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "teacher-1", svc.lastActor.UserID)
	assert.Equal(t, []models.AssignmentStatus{models.AssignmentStatusCompleted}, svc.lastFilter.Statuses)
	assert.Equal(t, 5, svc.lastFilter.PageSize)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	var body dto.TeacherDashboardResponse
	decodeData(t, envelope, &body)
	assert.Equal(t, 1, body.StatusCount["Draft"])
}

func TestDashboardHandlerStudent(t *testing.T) {
	svc := &fakeDashboardSrv{}
	h := NewDashboardHandler(svc)

	rec, envelope := serve(t, http.MethodGet, "/dashboard/student", "/dashboard/student?page=2", studentClaims, "", h.Student)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, [2]int{2, 0}, svc.studentPage)
	var body dto.StudentDashboardResponse
	decodeData(t, envelope, &body)
	assert.Equal(t, 2, body.Pending)

	svc.studentErr = appErrors.ErrForbidden
	rec, _ = serve(t, http.MethodGet, "/dashboard/student", "/dashboard/student", teacherClaims, "", h.Student)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
