package service

import "github.com/noah-isme/classwork-api/internal/models"

// RouteGuard decides whether a client session may view a role-restricted page.
type RouteGuard struct {
	dashboards map[models.UserRole]string
}

// NewRouteGuard returns a guard with the default dashboard for each role.
func NewRouteGuard() *RouteGuard {
	return &RouteGuard{dashboards: map[models.UserRole]string{
		models.RoleTeacher: models.PathTeacherDashboard,
		models.RoleStudent: models.PathStudentDashboard,
	}}
}

// Resolve evaluates session against requiredRole. An empty requiredRole admits any signed in
// user.
func (g *RouteGuard) Resolve(session models.Session, requiredRole models.UserRole) models.RouteDecision {
	if session.Loading {
		return models.RouteDecision{Outcome: models.RouteWait}
	}
	if session.User == nil {
		return models.RouteDecision{Outcome: models.RouteRedirect, Redirect: models.PathLogin}
	}
	if requiredRole != "" && session.User.Role != requiredRole {
		return models.RouteDecision{Outcome: models.RouteRedirect, Redirect: g.DashboardFor(session.User.Role)}
	}
	return models.RouteDecision{Outcome: models.RouteAllow}
}

// LoginRedirect returns where a visitor of the login page goes. Anonymous visitors stay.
func (g *RouteGuard) LoginRedirect(user *models.UserInfo) models.RouteDecision {
	if user == nil {
		return models.RouteDecision{Outcome: models.RouteAllow}
	}
	return models.RouteDecision{Outcome: models.RouteRedirect, Redirect: g.DashboardFor(user.Role)}
}

// DashboardFor maps a role to its landing page. Unknown roles go to login.
func (g *RouteGuard) DashboardFor(role models.UserRole) string {
	if path, ok := g.dashboards[role]; ok {
		return path
	}
	return models.PathLogin
}
