package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-api/internal/middleware"
	"github.com/noah-isme/classwork-api/internal/models"
)

var (
	teacherClaims = &models.JWTClaims{UserID: "teacher-1", Role: models.RoleTeacher, FullName: "Bu Sari", Email: "sari@school.test"}
	studentClaims = &models.JWTClaims{UserID: "student-1", Role: models.RoleStudent, FullName: "Ana"}
)

type responseEnvelope struct {
	Data       json.RawMessage        `json:"data"`
	Error      *errorBody             `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// serve registers h under pattern, optionally behind claims, and performs one request.
func serve(t *testing.T, method, pattern, target string, claims *models.JWTClaims, body string, h gin.HandlerFunc) (*httptest.ResponseRecorder, responseEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	if claims != nil {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserKey, claims)
			c.Next()
		})
	}
	r.Handle(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var envelope responseEnvelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") && rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	}
	return rec, envelope
}

func decodeData(t *testing.T, envelope responseEnvelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}
