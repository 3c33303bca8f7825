package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthodoxmetrics/record-extractor/constants"
	"github.com/orthodoxmetrics/record-extractor/internal/common"
	"github.com/orthodoxmetrics/record-extractor/internal/engine"
	"github.com/orthodoxmetrics/record-extractor/internal/repository"
)

// fakeJobRepo records repository calls in memory.
type fakeJobRepo struct {
	pending   []*repository.Job
	succeeded map[uuid.UUID][]byte
	overall   map[uuid.UUID]float64
	review    map[uuid.UUID]bool
	failed    map[uuid.UUID]string
}

func newFakeJobRepo(jobs ...*repository.Job) *fakeJobRepo {
	return &fakeJobRepo{
		pending:   jobs,
		succeeded: map[uuid.UUID][]byte{},
		overall:   map[uuid.UUID]float64{},
		review:    map[uuid.UUID]bool{},
		failed:    map[uuid.UUID]string{},
	}
}

func (f *fakeJobRepo) Enqueue(_ context.Context, text, rt, lang, tenant string) (*repository.Job, error) {
	job := &repository.Job{
		ID: uuid.New(), OCRText: text, RecordTypeHint: rt, LanguageHint: lang,
		TenantContext: tenant, Status: constants.JobStatusPending, CreatedAt: time.Now().UTC(),
	}
	f.pending = append(f.pending, job)
	return job, nil
}

func (f *fakeJobRepo) ClaimPending(_ context.Context, limit int) ([]*repository.Job, error) {
	n := limit
	if n > len(f.pending) {
		n = len(f.pending)
	}
	claimed := f.pending[:n]
	f.pending = f.pending[n:]
	for _, job := range claimed {
		job.Status = constants.JobStatusRunning
	}
	return claimed, nil
}

func (f *fakeJobRepo) FinishSuccess(_ context.Context, id uuid.UUID, resultJSON []byte, overall float64, needsReview bool) error {
	f.succeeded[id] = resultJSON
	f.overall[id] = overall
	f.review[id] = needsReview
	return nil
}

func (f *fakeJobRepo) FinishFailure(_ context.Context, id uuid.UUID, message string) error {
	f.failed[id] = message
	return nil
}

func (f *fakeJobRepo) GetByID(context.Context, uuid.UUID) (*repository.Job, error) {
	return nil, common.ErrNotFound
}

func (f *fakeJobRepo) ListCompleted(context.Context) ([]*repository.Job, error) {
	return nil, nil
}

func testLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func pendingJob(text, hint string) *repository.Job {
	return &repository.Job{
		ID:             uuid.New(),
		OCRText:        text,
		RecordTypeHint: hint,
		Status:         constants.JobStatusPending,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestProcessJobPersistsValidResult(t *testing.T) {
	repo := newFakeJobRepo()
	proc := NewProcessor(testLogger(), engine.NewExtractor(testLogger()), repo)

	job := pendingJob("This is to certify that John Peter Doe was baptized on August 15, 1950.\nBy Fr. Vadim A. Pogrebniak", "baptism")
	require.NoError(t, proc.ProcessJob(context.Background(), job))

	payload, ok := repo.succeeded[job.ID]
	require.True(t, ok)
	require.NoError(t, engine.ValidateResultJSON(payload))

	var wire struct {
		RecordType string         `json:"recordType"`
		Fields     map[string]any `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(payload, &wire))
	assert.Equal(t, "baptism", wire.RecordType)
	assert.Equal(t, "John", wire.Fields["firstName"])
	assert.Empty(t, repo.failed)
}

func TestProcessJobFlagsLowConfidenceForReview(t *testing.T) {
	repo := newFakeJobRepo()
	proc := NewProcessor(testLogger(), engine.NewExtractor(testLogger()), repo)

	job := pendingJob("completely illegible smudges", "")
	require.NoError(t, proc.ProcessJob(context.Background(), job))

	assert.True(t, repo.review[job.ID])
	assert.Zero(t, repo.overall[job.ID])
}

func TestLoopRunOnceProcessesBatch(t *testing.T) {
	repo := newFakeJobRepo(
		pendingJob("Groom: A B\nBride: C D\nwere married on June 15, 1952", "marriage"),
		pendingJob("The servant of God, Nicholas Kosta, died on March 3, 1961", "funeral"),
	)
	proc := NewProcessor(testLogger(), engine.NewExtractor(testLogger()), repo)
	loop := NewLoop(testLogger(), proc, common.WorkerConfig{PollInterval: time.Minute, BatchSize: 5})

	n, err := loop.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, repo.succeeded, 2)

	n, err = loop.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
