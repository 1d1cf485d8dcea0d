package service

import (
	"github.com/noah-isme/classwork-api/internal/models"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
)

// Permission names a single guarded operation.
type Permission string

const (
	PermAssignmentCreate   Permission = "assignment:create"
	PermAssignmentUpdate   Permission = "assignment:update"
	PermAssignmentDelete   Permission = "assignment:delete"
	PermAssignmentPublish  Permission = "assignment:publish"
	PermAssignmentComplete Permission = "assignment:complete"
	PermAssignmentList     Permission = "assignment:list"
	PermAssignmentBrowse   Permission = "assignment:browse"
	PermSubmissionCreate   Permission = "submission:create"
	PermSubmissionViewOwn  Permission = "submission:view-own"
	PermSubmissionList     Permission = "submission:list"
	PermSubmissionReview   Permission = "submission:review"
	PermSubmissionExport   Permission = "submission:export"
	PermAnalyticsView      Permission = "analytics:view"
	PermDashboardTeacher   Permission = "dashboard:teacher"
	PermDashboardStudent   Permission = "dashboard:student"
)

// DefaultPermissions is the role capability table.
var DefaultPermissions = map[models.UserRole][]Permission{
	models.RoleTeacher: {
		PermAssignmentCreate,
		PermAssignmentUpdate,
		PermAssignmentDelete,
		PermAssignmentPublish,
		PermAssignmentComplete,
		PermAssignmentList,
		PermSubmissionList,
		PermSubmissionReview,
		PermSubmissionExport,
		PermAnalyticsView,
		PermDashboardTeacher,
	},
	models.RoleStudent: {
		PermAssignmentBrowse,
		PermSubmissionCreate,
		PermSubmissionViewOwn,
		PermDashboardStudent,
	},
}

// AccessPolicy answers whether an actor may perform an operation.
type AccessPolicy struct {
	grants map[models.UserRole]map[Permission]struct{}
}

// NewAccessPolicy indexes the table. A nil table falls back to DefaultPermissions.
func NewAccessPolicy(table map[models.UserRole][]Permission) *AccessPolicy {
	if table == nil {
		table = DefaultPermissions
	}
	grants := make(map[models.UserRole]map[Permission]struct{}, len(table))
	for role, perms := range table {
		set := make(map[Permission]struct{}, len(perms))
		for _, perm := range perms {
			set[perm] = struct{}{}
		}
		grants[role] = set
	}
	return &AccessPolicy{grants: grants}
}

// Allows reports whether role holds perm.
func (p *AccessPolicy) Allows(role models.UserRole, perm Permission) bool {
	if p == nil {
		return false
	}
	_, ok := p.grants[role][perm]
	return ok
}

// Authorize returns ErrUnauthorized for a missing actor and ErrForbidden when the actor's role
// lacks perm.
func (p *AccessPolicy) Authorize(actor models.Actor, perm Permission) error {
	if actor.IsZero() {
		return appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	if !p.Allows(actor.Role, perm) {
		return appErrors.Clone(appErrors.ErrForbidden, "role "+string(actor.Role)+" may not perform "+string(perm))
	}
	return nil
}
