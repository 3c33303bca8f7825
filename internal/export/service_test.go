package export

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/orthodoxmetrics/record-extractor/constants"
	"github.com/orthodoxmetrics/record-extractor/internal/engine"
	"github.com/orthodoxmetrics/record-extractor/internal/repository"
)

type stubJobRepo struct {
	repository.JobRepository
	completed []*repository.Job
}

func (s *stubJobRepo) ListCompleted(context.Context) ([]*repository.Job, error) {
	return s.completed, nil
}

func completedJob(t *testing.T, text, hint string) *repository.Job {
	t.Helper()
	e := engine.NewExtractor(slog.New(slog.DiscardHandler))
	result := e.Extract(engine.Input{Text: text, RecordTypeHint: hint})
	payload, err := json.Marshal(result)
	require.NoError(t, err)

	return &repository.Job{
		ID:                uuid.New(),
		OCRText:           text,
		Status:            constants.JobStatusComplete,
		ResultJSON:        payload,
		OverallConfidence: result.Confidence.Overall,
		NeedsReview:       result.Metadata.NeedsReview,
		CreatedAt:         time.Now().UTC(),
	}
}

func TestExportJobsXLSX(t *testing.T) {
	repo := &stubJobRepo{completed: []*repository.Job{
		completedJob(t, "This is to certify that John Peter Doe was baptized on August 15, 1950.", "baptism"),
		completedJob(t, "Groom: John Smith\nBride: Mary Jones\nwere married on June 15, 1952", "marriage"),
	}}
	svc := NewService(repo, slog.New(slog.DiscardHandler))

	data, err := svc.ExportJobsXLSX(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	baptisms, err := f.GetRows("Baptisms")
	require.NoError(t, err)
	require.Len(t, baptisms, 2, "header plus one record")
	assert.Equal(t, "Job ID", baptisms[0][0])
	assert.Contains(t, baptisms[0], "First Name")
	assert.Contains(t, baptisms[1], "John")
	assert.Contains(t, baptisms[1], "1950-08-15")

	marriages, err := f.GetRows("Marriages")
	require.NoError(t, err)
	require.Len(t, marriages, 2)
	assert.Contains(t, marriages[1], "John Smith")
	assert.Contains(t, marriages[1], "Mary Jones")
}

func TestExportJobsXLSXEmpty(t *testing.T) {
	svc := NewService(&stubJobRepo{}, slog.New(slog.DiscardHandler))

	data, err := svc.ExportJobsXLSX(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, data, "an empty workbook is still a valid file")
}

func TestFieldHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"Entry Number", "Age At Death", "Clergy"},
		fieldHeaders([]string{"entryNumber", "ageAtDeath", "clergy"}))
}
