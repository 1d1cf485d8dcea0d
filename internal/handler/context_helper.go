package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classwork-api/internal/middleware"
	"github.com/noah-isme/classwork-api/internal/models"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
)

func actorFromContext(c *gin.Context) models.Actor {
	return middleware.Actor(c)
}

// bindJSON decodes the request body, reporting oversize bodies separately from malformed ones.
func bindJSON(c *gin.Context, dst interface{}, message string) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return appErrors.Wrap(err, appErrors.ErrPayloadTooLarge.Code, appErrors.ErrPayloadTooLarge.Status, "request body too large")
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
	}
	return nil
}

func parseStatuses(raw string) []models.AssignmentStatus {
	var statuses []models.AssignmentStatus
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		statuses = append(statuses, models.ParseAssignmentStatus(part))
	}
	return statuses
}

func withMeta(c *gin.Context) map[string]interface{} {
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return meta
}
