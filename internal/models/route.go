package models

// RouteOutcome is the decision for a navigation attempt.
type RouteOutcome string

const (
	RouteAllow    RouteOutcome = "allow"
	RouteWait     RouteOutcome = "wait"
	RouteRedirect RouteOutcome = "redirect"
)

const (
	PathLogin            = "/login"
	PathTeacherDashboard = "/teacher"
	PathStudentDashboard = "/student"
)

// Session is the client-visible authentication state.
type Session struct {
	User    *UserInfo
	Loading bool
}

// RouteDecision tells a client whether to render, wait, or navigate elsewhere.
type RouteDecision struct {
	Outcome  RouteOutcome `json:"outcome"`
	Redirect string       `json:"redirect,omitempty"`
}
