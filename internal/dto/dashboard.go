package dto

import "github.com/noah-isme/classwork-api/internal/models"

// TeacherDashboardResponse bundles the teacher's assignment page with analytics.
type TeacherDashboardResponse struct {
	Assignments []models.Assignment       `json:"assignments"`
	Pagination  models.Pagination         `json:"pagination"`
	Analytics   *models.AnalyticsSnapshot `json:"analytics"`
	StatusCount map[string]int            `json:"statusCount"`
}

// StudentDashboardResponse is the student's view of available assignments.
type StudentDashboardResponse struct {
	Assignments []models.StudentAssignment `json:"assignments"`
	Pagination  models.Pagination          `json:"pagination"`
	Pending     int                        `json:"pending"`
}
