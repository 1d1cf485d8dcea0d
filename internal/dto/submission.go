package dto

// CreateSubmissionRequest is a student's answer to a published assignment.
type CreateSubmissionRequest struct {
	AssignmentID string `json:"assignmentId" validate:"required"`
	Answer       string `json:"answer" validate:"required"`
}

// PageQuery binds page and limit query parameters.
type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Payload     []byte
}
