package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-api/internal/models"
	"github.com/noah-isme/classwork-api/internal/service"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
)

type fakeAuthSrv struct {
	loginReq   models.LoginRequest
	logoutReq  models.LogoutRequest
	lastActor  models.Actor
	loginErr   error
	refreshErr error
}

func (f *fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.loginReq = req
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.LoginResponse{AccessToken: "access", RefreshToken: "refresh", Redirect: models.PathTeacherDashboard}, nil
}

func (f *fakeAuthSrv) RefreshToken(_ context.Context, _ models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return &models.RefreshTokenResponse{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (f *fakeAuthSrv) Logout(_ context.Context, actor models.Actor, req models.LogoutRequest) error {
	f.lastActor, f.logoutReq = actor, req
	return nil
}

func (f *fakeAuthSrv) Me(_ context.Context, actor models.Actor) (*models.UserInfo, error) {
	if actor.IsZero() {
		return nil, appErrors.ErrUnauthorized
	}
	return &models.UserInfo{ID: actor.UserID, Role: actor.Role}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	svc := &fakeAuthSrv{}
	h := NewAuthHandler(svc, service.NewRouteGuard())

	rec, envelope := serve(t, http.MethodPost, "/auth/login", "/auth/login", nil, `{"email":"sari@school.test","password":"secret"}`, h.Login)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sari@school.test", svc.loginReq.Email)
	assert.NotEmpty(t, svc.loginReq.IP)
	var res models.LoginResponse
	decodeData(t, envelope, &res)
	assert.Equal(t, "/teacher", res.Redirect)

	svc.loginErr = appErrors.ErrInvalidCredentials
	rec, envelope = serve(t, http.MethodPost, "/auth/login", "/auth/login", nil, `{"email":"sari@school.test","password":"bad"}`, h.Login)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Error.Code)
}

func TestAuthHandlerRefreshAndLogout(t *testing.T) {
	svc := &fakeAuthSrv{}
	h := NewAuthHandler(svc, service.NewRouteGuard())

	rec, envelope := serve(t, http.MethodPost, "/auth/refresh", "/auth/refresh", nil, `{"refreshToken":"refresh"}`, h.Refresh)
	assert.Equal(t, http.StatusOK, rec.Code)
	var refreshed models.RefreshTokenResponse
	decodeData(t, envelope, &refreshed)
	assert.Equal(t, "refresh-2", refreshed.RefreshToken)

	rec, _ = serve(t, http.MethodPost, "/auth/logout", "/auth/logout", studentClaims, `{"refreshToken":"refresh"}`, h.Logout)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "student-1", svc.lastActor.UserID)
	assert.Equal(t, "refresh", svc.logoutReq.RefreshToken)
}

func TestAuthHandlerMe(t *testing.T) {
	h := NewAuthHandler(&fakeAuthSrv{}, service.NewRouteGuard())

	rec, envelope := serve(t, http.MethodGet, "/auth/me", "/auth/me", studentClaims, "", h.Me)
	assert.Equal(t, http.StatusOK, rec.Code)
	var info models.UserInfo
	decodeData(t, envelope, &info)
	assert.Equal(t, models.RoleStudent, info.Role)

	rec, _ = serve(t, http.MethodGet, "/auth/me", "/auth/me", nil, "", h.Me)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerRouteDecisions(t *testing.T) {
	h := NewAuthHandler(&fakeAuthSrv{}, service.NewRouteGuard())

	cases := []struct {
		name   string
		target string
		claims *models.JWTClaims
		want   models.RouteDecision
	}{
		{"anonymous", "/auth/route?role=teacher", nil, models.RouteDecision{Outcome: models.RouteRedirect, Redirect: "/login"}},
		{"loading", "/auth/route?role=teacher&loading=true", nil, models.RouteDecision{Outcome: models.RouteWait}},
		{"wrong role", "/auth/route?role=teacher", studentClaims, models.RouteDecision{Outcome: models.RouteRedirect, Redirect: "/student"}},
		{"right role", "/auth/route?role=Student", studentClaims, models.RouteDecision{Outcome: models.RouteAllow}},
		{"any role", "/auth/route", teacherClaims, models.RouteDecision{Outcome: models.RouteAllow}},
		{"login page signed in", "/auth/route?page=login", teacherClaims, models.RouteDecision{Outcome: models.RouteRedirect, Redirect: "/teacher"}},
		{"login page anonymous", "/auth/route?page=login", nil, models.RouteDecision{Outcome: models.RouteAllow}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, envelope := serve(t, http.MethodGet, "/auth/route", tc.target, tc.claims, "", h.Route)
			assert.Equal(t, http.StatusOK, rec.Code)
			var decision models.RouteDecision
			decodeData(t, envelope, &decision)
			assert.Equal(t, tc.want, decision)
		})
	}
}
