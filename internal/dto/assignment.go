package dto

// CreateAssignmentRequest is the payload for authoring a draft assignment. DueDate accepts
// YYYY-MM-DD or RFC3339.
type CreateAssignmentRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	DueDate     string `json:"dueDate" validate:"required"`
}

// UpdateAssignmentRequest carries a partial edit of a draft. Omitted fields are unchanged.
type UpdateAssignmentRequest struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"dueDate,omitempty"`
}

// ListAssignmentsQuery binds the teacher listing query string.
type ListAssignmentsQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
}
