package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/classwork-api/internal/dto"
	"github.com/noah-isme/classwork-api/internal/models"
	"github.com/noah-isme/classwork-api/pkg/export"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
)

type exportSource interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
}

type exportSubmissions interface {
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.Submission, error)
}

var exportHeaders = []string{"Student", "Submitted At", "Reviewed", "Answer"}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// ExportService renders an assignment's submissions as a downloadable document.
type ExportService struct {
	assignments exportSource
	submissions exportSubmissions
	policy      *AccessPolicy
	logger      *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(assignments exportSource, submissions exportSubmissions, policy *AccessPolicy, logger *zap.Logger) *ExportService {
	if policy == nil {
		policy = NewAccessPolicy(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{assignments: assignments, submissions: submissions, policy: policy, logger: logger}
}

// Export renders every submission of one of the actor's assignments in csv, pdf or xlsx.
func (s *ExportService) Export(ctx context.Context, actor models.Actor, assignmentID, format string) (*dto.ExportFile, error) {
	if err := s.policy.Authorize(actor, PermSubmissionExport); err != nil {
		return nil, err
	}
	parsed, err := export.ParseFormat(format)
	if err != nil {
		return nil, validationError(err, "format must be csv, pdf or xlsx")
	}
	exporter, err := export.ForFormat(parsed)
	if err != nil {
		return nil, validationError(err, "format must be csv, pdf or xlsx")
	}

	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, wrapInternal(err, "failed to load assignment")
	}
	if assignment.TeacherID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assignment belongs to another teacher")
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignment.ID)
	if err != nil {
		return nil, wrapInternal(err, "failed to list submissions")
	}

	payload, err := exporter.Render(submissionDataset(assignment, submissions))
	if err != nil {
		return nil, wrapInternal(err, "failed to render export")
	}

	s.logger.Info("submissions exported",
		zap.String("assignment_id", assignment.ID),
		zap.String("format", string(parsed)),
		zap.Int("rows", len(submissions)),
	)
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("%s-submissions.%s", slugify(assignment.Title), exporter.Extension()),
		ContentType: exporter.ContentType(),
		Payload:     payload,
	}, nil
}

func submissionDataset(assignment *models.Assignment, submissions []models.Submission) export.Dataset {
	rows := make([]map[string]string, 0, len(submissions))
	for _, sub := range submissions {
		student := sub.StudentName
		if student == "" {
			student = sub.StudentID
		}
		reviewed := "No"
		if sub.Reviewed {
			reviewed = "Yes"
		}
		rows = append(rows, map[string]string{
			"Student":      student,
			"Submitted At": sub.SubmittedAt.UTC().Format(time.RFC3339),
			"Reviewed":     reviewed,
			"Answer":       sub.Answer,
		})
	}
	return export.Dataset{Title: assignment.Title, Headers: exportHeaders, Rows: rows}
}

func slugify(title string) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		return "assignment"
	}
	return slug
}
