package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classwork-api/internal/middleware"
	"github.com/noah-isme/classwork-api/internal/models"
	"github.com/noah-isme/classwork-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error)
	Logout(ctx context.Context, actor models.Actor, req models.LogoutRequest) error
	Me(ctx context.Context, actor models.Actor) (*models.UserInfo, error)
}

type routeResolver interface {
	Resolve(session models.Session, requiredRole models.UserRole) models.RouteDecision
	LoginRedirect(user *models.UserInfo) models.RouteDecision
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	guard   routeResolver
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, guard routeResolver) *AuthHandler {
	return &AuthHandler{service: svc, guard: guard}
}

// Login godoc
// @Summary Authenticate user
// @Description Authenticate user by email and password. The response carries the dashboard to open.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := bindJSON(c, &req, "invalid login payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchange a refresh token for a new token pair. Each refresh token works once.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RefreshTokenRequest true "Refresh payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := bindJSON(c, &req, "invalid refresh payload"); err != nil {
		response.Error(c, err)
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	res, err := h.service.RefreshToken(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Logout godoc
// @Summary Logout current session
// @Description Revoke refresh token
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.LogoutRequest true "Refresh token"
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req models.LogoutRequest
	if err := bindJSON(c, &req, "refresh token required"); err != nil {
		response.Error(c, err)
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	if err := h.service.Logout(c.Request.Context(), actorFromContext(c), req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Me godoc
// @Summary Current user
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	info, err := h.service.Me(c.Request.Context(), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info, nil)
}

// Route godoc
// @Summary Route decision
// @Description Tells a client whether to render a role-restricted page, wait, or redirect.
// @Tags Authentication
// @Produce json
// @Param role query string false "Required role (teacher or student)"
// @Param page query string false "Use login to ask where the login page should send a signed in user"
// @Param loading query bool false "Client session still resolving"
// @Success 200 {object} response.Envelope
// @Router /auth/route [get]
func (h *AuthHandler) Route(c *gin.Context) {
	var user *models.UserInfo
	if claims, ok := middleware.Claims(c); ok {
		user = &models.UserInfo{ID: claims.UserID, Email: claims.Email, FullName: claims.FullName, Role: claims.Role}
	}

	if strings.EqualFold(c.Query("page"), "login") {
		response.JSON(c, http.StatusOK, h.guard.LoginRedirect(user), nil)
		return
	}

	session := models.Session{User: user, Loading: c.Query("loading") == "true"}
	role := models.UserRole(strings.ToLower(strings.TrimSpace(c.Query("role"))))
	response.JSON(c, http.StatusOK, h.guard.Resolve(session, role), nil)
}
