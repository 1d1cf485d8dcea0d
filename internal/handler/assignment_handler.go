package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classwork-api/internal/dto"
	"github.com/noah-isme/classwork-api/internal/middleware"
	"github.com/noah-isme/classwork-api/internal/models"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
	"github.com/noah-isme/classwork-api/pkg/response"
)

type assignmentService interface {
	Create(ctx context.Context, actor models.Actor, req dto.CreateAssignmentRequest) (*models.Assignment, error)
	Get(ctx context.Context, actor models.Actor, id string) (*models.Assignment, error)
	Update(ctx context.Context, actor models.Actor, id string, req dto.UpdateAssignmentRequest) (*models.Assignment, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	Publish(ctx context.Context, actor models.Actor, id string) (*models.Assignment, error)
	Complete(ctx context.Context, actor models.Actor, id string) (*models.Assignment, error)
	List(ctx context.Context, actor models.Actor, filter models.AssignmentFilter) ([]models.Assignment, models.Pagination, error)
}

type reviewService interface {
	ListForAssignment(ctx context.Context, actor models.Actor, assignmentID string) ([]models.Submission, error)
	MarkReviewed(ctx context.Context, actor models.Actor, submissionID string) (*models.Submission, error)
}

type exportService interface {
	Export(ctx context.Context, actor models.Actor, assignmentID, format string) (*dto.ExportFile, error)
}

type analyticsService interface {
	Teacher(ctx context.Context, actor models.Actor, teacherID string) (*models.AnalyticsSnapshot, bool, error)
}

// AssignmentHandler serves the teacher side of the assignment workflow.
type AssignmentHandler struct {
	assignments assignmentService
	reviews     reviewService
	exports     exportService
	analytics   analyticsService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(assignments assignmentService, reviews reviewService, exports exportService, analytics analyticsService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, reviews: reviews, exports: exports, analytics: analytics}
}

// List godoc
// @Summary List own assignments
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Param status query string false "Comma separated statuses (Draft, Published, Completed)"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	var query dto.ListAssignmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}

	items, page, err := h.assignments.List(c.Request.Context(), actorFromContext(c), models.AssignmentFilter{
		Statuses: parseStatuses(query.Status),
		Page:     query.Page,
		PageSize: query.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, &page)
}

// Create godoc
// @Summary Create draft assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateAssignmentRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := bindJSON(c, &req, "invalid assignment payload"); err != nil {
		response.Error(c, err)
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Get godoc
// @Summary Get own assignment
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	assignment, err := h.assignments.Get(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Update godoc
// @Summary Edit draft assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param payload body dto.UpdateAssignmentRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id} [put]
func (h *AssignmentHandler) Update(c *gin.Context) {
	var req dto.UpdateAssignmentRequest
	if err := bindJSON(c, &req, "invalid assignment payload"); err != nil {
		response.Error(c, err)
		return
	}
	assignment, err := h.assignments.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Delete godoc
// @Summary Delete draft assignment
// @Tags Assignments
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id} [delete]
func (h *AssignmentHandler) Delete(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Publish godoc
// @Summary Publish draft assignment
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id}/publish [post]
func (h *AssignmentHandler) Publish(c *gin.Context) {
	assignment, err := h.assignments.Publish(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Complete godoc
// @Summary Complete published assignment
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id}/complete [post]
func (h *AssignmentHandler) Complete(c *gin.Context) {
	assignment, err := h.assignments.Complete(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Submissions godoc
// @Summary List submissions of an assignment
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/submissions [get]
func (h *AssignmentHandler) Submissions(c *gin.Context) {
	items, err := h.reviews.ListForAssignment(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Export godoc
// @Summary Download submissions
// @Tags Assignments
// @Produce octet-stream
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param format query string false "csv (default), pdf or xlsx"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /assignments/{id}/submissions/export [get]
func (h *AssignmentHandler) Export(c *gin.Context) {
	file, err := h.exports.Export(c.Request.Context(), actorFromContext(c), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

// Review godoc
// @Summary Mark submission reviewed
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Param submissionId path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /assignments/submissions/{submissionId}/review [post]
func (h *AssignmentHandler) Review(c *gin.Context) {
	submission, err := h.reviews.MarkReviewed(c.Request.Context(), actorFromContext(c), c.Param("submissionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// Analytics godoc
// @Summary Submission analytics for the current teacher
// @Tags Assignments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /assignments/analytics [get]
func (h *AssignmentHandler) Analytics(c *gin.Context) {
	snapshot, hit, err := h.analytics.Teacher(c.Request.Context(), actorFromContext(c), "")
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, snapshot, nil, withMeta(c))
}
