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

type dashboardService interface {
	Teacher(ctx context.Context, actor models.Actor, filter models.AssignmentFilter) (*dto.TeacherDashboardResponse, bool, error)
	Student(ctx context.Context, actor models.Actor, page, pageSize int) (*dto.StudentDashboardResponse, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Teacher godoc
// @Summary Teacher dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Param status query string false "Comma separated statuses"
// @Success 200 {object} response.Envelope
// @Router /dashboard/teacher [get]
func (h *DashboardHandler) Teacher(c *gin.Context) {
	var query dto.ListAssignmentsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	summary, hit, err := h.service.Teacher(c.Request.Context(), actorFromContext(c), models.AssignmentFilter{
		Statuses: parseStatuses(query.Status),
		Page:     query.Page,
		PageSize: query.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, summary, nil, withMeta(c))
}

// Student godoc
// @Summary Student dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /dashboard/student [get]
func (h *DashboardHandler) Student(c *gin.Context) {
	var query dto.PageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	summary, err := h.service.Student(c.Request.Context(), actorFromContext(c), query.Page, query.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
