package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-api/internal/dto"
	"github.com/noah-isme/classwork-api/internal/models"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
)

type fakeAssignmentSrv struct {
	lastActor  models.Actor
	lastFilter models.AssignmentFilter
	lastCreate dto.CreateAssignmentRequest
	lastUpdate dto.UpdateAssignmentRequest
	lastID     string
	result     *models.Assignment
	err        error
}

func (f *fakeAssignmentSrv) Create(_ context.Context, actor models.Actor, req dto.CreateAssignmentRequest) (*models.Assignment, error) {
	f.lastActor, f.lastCreate = actor, req
	return f.result, f.err
}

func (f *fakeAssignmentSrv) Get(_ context.Context, actor models.Actor, id string) (*models.Assignment, error) {
	f.lastActor, f.lastID = actor, id
	return f.result, f.err
}

func (f *fakeAssignmentSrv) Update(_ context.Context, actor models.Actor, id string, req dto.UpdateAssignmentRequest) (*models.Assignment, error) {
	f.lastActor, f.lastID, f.lastUpdate = actor, id, req
	return f.result, f.err
}

func (f *fakeAssignmentSrv) Delete(_ context.Context, actor models.Actor, id string) error {
	f.lastActor, f.lastID = actor, id
	return f.err
}

func (f *fakeAssignmentSrv) Publish(_ context.Context, actor models.Actor, id string) (*models.Assignment, error) {
	f.lastActor, f.lastID = actor, id
	return f.result, f.err
}

func (f *fakeAssignmentSrv) Complete(_ context.Context, actor models.Actor, id string) (*models.Assignment, error) {
	f.lastActor, f.lastID = actor, id
	return f.result, f.err
}

func (f *fakeAssignmentSrv) List(_ context.Context, actor models.Actor, filter models.AssignmentFilter) ([]models.Assignment, models.Pagination, error) {
	f.lastActor, f.lastFilter = actor, filter
	if f.err != nil {
		return nil, models.Pagination{}, f.err
	}
	return []models.Assignment{*f.result}, models.Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 21, ItemsPerPage: 10}, nil
}

type fakeReviewSrv struct {
	items  []models.Submission
	result *models.Submission
	lastID string
	err    error
}

func (f *fakeReviewSrv) ListForAssignment(_ context.Context, _ models.Actor, assignmentID string) ([]models.Submission, error) {
	f.lastID = assignmentID
	return f.items, f.err
}

func (f *fakeReviewSrv) MarkReviewed(_ context.Context, _ models.Actor, submissionID string) (*models.Submission, error) {
	f.lastID = submissionID
	return f.result, f.err
}

type fakeExportSrv struct {
	format string
	err    error
}

func (f *fakeExportSrv) Export(_ context.Context, _ models.Actor, _ string, format string) (*dto.ExportFile, error) {
	f.format = format
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ExportFile{Filename: "essay-submissions.csv", ContentType: "text/csv; charset=utf-8", Payload: []byte("Student\nAna\n")}, nil
}

type fakeAnalyticsSrv struct {
	hit bool
	err error
}

func (f *fakeAnalyticsSrv) Teacher(context.Context, models.Actor, string) (*models.AnalyticsSnapshot, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	return &models.AnalyticsSnapshot{Summary: models.AnalyticsSummary{TotalAssignments: 3}}, f.hit, nil
}

func newAssignmentFixture() (*AssignmentHandler, *fakeAssignmentSrv, *fakeReviewSrv, *fakeExportSrv, *fakeAnalyticsSrv) {
	assignments := &fakeAssignmentSrv{result: &models.Assignment{ID: "a-1", Title: "Essay", Status: models.AssignmentStatusDraft}}
	reviews := &fakeReviewSrv{}
	exports := &fakeExportSrv{}
	analytics := &fakeAnalyticsSrv{}
	return NewAssignmentHandler(assignments, reviews, exports, analytics), assignments, reviews, exports, analytics
}

func TestAssignmentHandlerCreate(t *testing.T) {
	h, assignments, _, _, _ := newAssignmentFixture()

	rec, envelope := serve(t, http.MethodPost, "/assignments", "/assignments", teacherClaims,
		`{"title":"Essay","description":"Write","dueDate":"2025-01-01"}`, h.Create)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "teacher-1", assignments.lastActor.UserID)
	assert.Equal(t, models.RoleTeacher, assignments.lastActor.Role)
	assert.Equal(t, "2025-01-01", assignments.lastCreate.DueDate)
	var created models.Assignment
	decodeData(t, envelope, &created)
	assert.Equal(t, "a-1", created.ID)
}

func TestAssignmentHandlerRejectsMalformedJSON(t *testing.T) {
	h, _, _, _, _ := newAssignmentFixture()
	rec, envelope := serve(t, http.MethodPost, "/assignments", "/assignments", teacherClaims, `{"title":`, h.Create)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error.Code)
}

func TestAssignmentHandlerListParsesQuery(t *testing.T) {
	h, assignments, _, _, _ := newAssignmentFixture()

	rec, envelope := serve(t, http.MethodGet, "/assignments", "/assignments?page=2&limit=10&status=draft,Published", teacherClaims, "", h.List)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, assignments.lastFilter.Page)
	assert.Equal(t, 10, assignments.lastFilter.PageSize)
	assert.Equal(t, []models.AssignmentStatus{models.AssignmentStatusDraft, models.AssignmentStatusPublished}, assignments.lastFilter.Statuses)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 21, envelope.Pagination.TotalItems)
}

func TestAssignmentHandlerMapsErrorKinds(t *testing.T) {
	cases := []struct {
		err    *appErrors.Error
		status int
	}{
		{appErrors.ErrValidation, http.StatusBadRequest},
		{appErrors.ErrUnauthorized, http.StatusUnauthorized},
		{appErrors.ErrForbidden, http.StatusForbidden},
		{appErrors.ErrNotFound, http.StatusNotFound},
		{appErrors.ErrState, http.StatusConflict},
		{appErrors.ErrDuplicate, http.StatusConflict},
		{appErrors.ErrDeadline, http.StatusUnprocessableEntity},
		{appErrors.ErrUnavailable, http.StatusServiceUnavailable},
		{appErrors.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Code, func(t *testing.T) {
			h, assignments, _, _, _ := newAssignmentFixture()
			assignments.err = appErrors.Clone(tc.err, "")
			rec, envelope := serve(t, http.MethodPost, "/assignments/:id/publish", "/assignments/a-1/publish", teacherClaims, "", h.Publish)
			assert.Equal(t, tc.status, rec.Code)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tc.err.Code, envelope.Error.Code)
			assert.Equal(t, "a-1", assignments.lastID)
		})
	}
}

func TestAssignmentHandlerLifecycleRoutes(t *testing.T) {
	h, assignments, _, _, _ := newAssignmentFixture()

	rec, _ := serve(t, http.MethodPut, "/assignments/:id", "/assignments/a-9", teacherClaims, `{"title":"New"}`, h.Update)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a-9", assignments.lastID)
	require.NotNil(t, assignments.lastUpdate.Title)
	assert.Equal(t, "New", *assignments.lastUpdate.Title)
	assert.Nil(t, assignments.lastUpdate.Description)

	rec, _ = serve(t, http.MethodDelete, "/assignments/:id", "/assignments/a-8", teacherClaims, "", h.Delete)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "a-8", assignments.lastID)

	rec, _ = serve(t, http.MethodPost, "/assignments/:id/complete", "/assignments/a-7/complete", teacherClaims, "", h.Complete)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a-7", assignments.lastID)

	rec, _ = serve(t, http.MethodGet, "/assignments/:id", "/assignments/a-6", teacherClaims, "", h.Get)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a-6", assignments.lastID)
}

func TestAssignmentHandlerSubmissionsAndReview(t *testing.T) {
	h, _, reviews, _, _ := newAssignmentFixture()
	reviews.items = []models.Submission{{ID: "s-1", Answer: "x"}}
	reviews.result = &models.Submission{ID: "s-1", Reviewed: true}

	rec, envelope := serve(t, http.MethodGet, "/assignments/:id/submissions", "/assignments/a-1/submissions", teacherClaims, "", h.Submissions)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a-1", reviews.lastID)
	var items []models.Submission
	decodeData(t, envelope, &items)
	assert.Len(t, items, 1)

	rec, envelope = serve(t, http.MethodPost, "/assignments/submissions/:submissionId/review", "/assignments/submissions/s-1/review", teacherClaims, "", h.Review)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "s-1", reviews.lastID)
	var reviewed models.Submission
	decodeData(t, envelope, &reviewed)
	assert.True(t, reviewed.Reviewed)
}

func TestAssignmentHandlerExport(t *testing.T) {
	h, _, _, exports, _ := newAssignmentFixture()

	rec, _ := serve(t, http.MethodGet, "/assignments/:id/submissions/export", "/assignments/a-1/submissions/export?format=csv", teacherClaims, "", h.Export)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", exports.format)
	assert.Equal(t, `attachment; filename="essay-submissions.csv"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "Student\nAna\n", rec.Body.String())

	exports.err = appErrors.Clone(appErrors.ErrValidation, "format must be csv, pdf or xlsx")
	rec, envelope := serve(t, http.MethodGet, "/assignments/:id/submissions/export", "/assignments/a-1/submissions/export?format=docx", teacherClaims, "", h.Export)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, envelope.Error)
}

func TestAssignmentHandlerAnalyticsCacheMeta(t *testing.T) {
	h, _, _, _, analytics := newAssignmentFixture()
	analytics.hit = true

	rec, envelope := serve(t, http.MethodGet, "/assignments/analytics", "/assignments/analytics", teacherClaims, "", h.Analytics)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	var snapshot models.AnalyticsSnapshot
	decodeData(t, envelope, &snapshot)
	assert.Equal(t, 3, snapshot.Summary.TotalAssignments)
}
