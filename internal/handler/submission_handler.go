package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classwork-api/internal/dto"
	"github.com/noah-isme/classwork-api/internal/models"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
	"github.com/noah-isme/classwork-api/pkg/response"
)

type submissionService interface {
	Submit(ctx context.Context, actor models.Actor, req dto.CreateSubmissionRequest) (*models.Submission, error)
	GetForStudent(ctx context.Context, actor models.Actor, assignmentID string) (*models.Submission, error)
	ListAvailable(ctx context.Context, actor models.Actor, page, pageSize int) ([]models.StudentAssignment, models.Pagination, error)
}

// SubmissionHandler serves the student side of the assignment workflow.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler constructs the handler.
func NewSubmissionHandler(svc submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: svc}
}

// Available godoc
// @Summary Assignments visible to the student
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /submissions/assignments [get]
func (h *SubmissionHandler) Available(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	items, page, err := h.service.ListAvailable(c.Request.Context(), actorFromContext(c), query.Page, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, &page)
}

// Create godoc
// @Summary Submit an answer
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateSubmissionRequest true "Submission"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req dto.CreateSubmissionRequest
	if err := bindJSON(c, &req, "invalid submission payload"); err != nil {
		response.Error(c, err)
		return
	}
	submission, err := h.service.Submit(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, submission)
}

// Own godoc
// @Summary The student's submission for an assignment
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param assignmentId path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /submissions/assignment/{assignmentId} [get]
func (h *SubmissionHandler) Own(c *gin.Context) {
	submission, err := h.service.GetForStudent(c.Request.Context(), actorFromContext(c), c.Param("assignmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}
