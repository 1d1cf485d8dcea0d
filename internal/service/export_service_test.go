package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-api/internal/dto"
	appErrors "github.com/noah-isme/classwork-api/pkg/errors"
)

func TestExportSubmissionsCSV(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	assignment := f.published(t, "Essay 1: Heroes!")
	_, err := f.submissions.Submit(ctx, studentActor, dto.CreateSubmissionRequest{AssignmentID: assignment.ID, Answer: "brave, kind"})
	require.NoError(t, err)

	svc := NewExportService(f.store, f.store.submissionStore(), nil, nil)
	file, err := svc.Export(ctx, teacherActor, assignment.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "essay-1-heroes-submissions.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	records, err := csv.NewReader(strings.NewReader(string(file.Payload))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Student", "Submitted At", "Reviewed", "Answer"}, records[0])
	assert.Equal(t, []string{"Ana", "2024-12-20T10:00:00Z", "No", "brave, kind"}, records[1])
}

func TestExportFormatsAndGuards(t *testing.T) {
	f := newLifecycleFixture()
	ctx := context.Background()
	assignment := f.published(t, "Essay")
	svc := NewExportService(f.store, f.store.submissionStore(), nil, nil)

	pdf, err := svc.Export(ctx, teacherActor, assignment.ID, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdf.ContentType)
	assert.True(t, strings.HasPrefix(string(pdf.Payload), "%PDF"))

	xlsx, err := svc.Export(ctx, teacherActor, assignment.ID, "XLSX")
	require.NoError(t, err)
	assert.Equal(t, "essay-submissions.xlsx", xlsx.Filename)

	_, err = svc.Export(ctx, teacherActor, assignment.ID, "docx")
	requireAppError(t, err, appErrors.ErrValidation)
	_, err = svc.Export(ctx, otherTeacherActor, assignment.ID, "csv")
	requireAppError(t, err, appErrors.ErrForbidden)
	_, err = svc.Export(ctx, studentActor, assignment.ID, "csv")
	requireAppError(t, err, appErrors.ErrForbidden)
	_, err = svc.Export(ctx, teacherActor, "missing", "csv")
	requireAppError(t, err, appErrors.ErrNotFound)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "week-3-reading", slugify("  Week 3 -- Reading "))
	assert.Equal(t, "assignment", slugify("!!!"))
}
