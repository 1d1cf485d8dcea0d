package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classwork-api/pkg/middleware/requestid"
	"github.com/noah-isme/classwork-api/pkg/reporting"
)

type errorReporter interface {
	Report(err error, req *http.Request, person *reporting.Person, extras map[string]interface{})
}

// ReportServerErrors forwards the errors behind 5xx responses.
func ReportServerErrors(reporter errorReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if reporter == nil || c.Writer.Status() < http.StatusInternalServerError || len(c.Errors) == 0 {
			return
		}

		var person *reporting.Person
		if claims, ok := Claims(c); ok {
			person = &reporting.Person{ID: claims.UserID, Name: claims.FullName, Email: claims.Email}
		}
		extras := map[string]interface{}{
			"request_id": requestid.Value(c),
			"route":      c.FullPath(),
			"status":     c.Writer.Status(),
		}
		reporter.Report(c.Errors.Last().Err, c.Request, person, extras)
	}
}
