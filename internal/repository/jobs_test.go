package repository

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orthodoxmetrics/record-extractor/constants"
	"github.com/orthodoxmetrics/record-extractor/internal/common"
)

func newTestDB(t *testing.T) (*DB, JobRepository) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	ctx := context.Background()

	db, err := Open(ctx, common.DatabaseConfig{DSN: ":memory:", DialTimeout: time.Second}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(logger) })

	require.NoError(t, Migrate(ctx, db, logger))
	return db, NewJobRepository(db, logger)
}

func TestEnqueueAndClaim(t *testing.T) {
	_, repo := newTestDB(t)
	ctx := context.Background()

	job, err := repo.Enqueue(ctx, "some ocr text", "baptism", "en", "parish-42")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusPending, job.Status)
	assert.NotEqual(t, uuid.Nil, job.ID)

	claimed, err := repo.ClaimPending(ctx, 5)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, job.ID, claimed[0].ID)
	assert.Equal(t, constants.JobStatusRunning, claimed[0].Status)
	assert.Equal(t, "some ocr text", claimed[0].OCRText)
	assert.Equal(t, "baptism", claimed[0].RecordTypeHint)
	assert.Equal(t, "parish-42", claimed[0].TenantContext)
	require.NotNil(t, claimed[0].StartedAt)

	// nothing left to claim
	again, err := repo.ClaimPending(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestClaimRespectsLimitAndOrder(t *testing.T) {
	_, repo := newTestDB(t)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		job, err := repo.Enqueue(ctx, "text", "", "", "")
		require.NoError(t, err)
		ids = append(ids, job.ID)
		time.Sleep(2 * time.Millisecond) // distinct created_at ordering
	}

	claimed, err := repo.ClaimPending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	assert.Equal(t, ids[0], claimed[0].ID)
	assert.Equal(t, ids[1], claimed[1].ID)
}

func TestFinishSuccessRoundTrip(t *testing.T) {
	_, repo := newTestDB(t)
	ctx := context.Background()

	job, err := repo.Enqueue(ctx, "text", "marriage", "", "")
	require.NoError(t, err)
	_, err = repo.ClaimPending(ctx, 1)
	require.NoError(t, err)

	payload := []byte(`{"recordType":"marriage","fields":{},"confidence":{"overall":0.91},"metadata":{"language":"en","extractionDate":"2024-03-01T12:00:00Z","needsReview":false}}`)
	require.NoError(t, repo.FinishSuccess(ctx, job.ID, payload, 0.91, false))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusComplete, got.Status)
	assert.JSONEq(t, string(payload), string(got.ResultJSON))
	assert.InDelta(t, 0.91, got.OverallConfidence, 1e-9)
	assert.False(t, got.NeedsReview)
	require.NotNil(t, got.FinishedAt)

	completed, err := repo.ListCompleted(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, job.ID, completed[0].ID)
}

func TestFinishFailure(t *testing.T) {
	_, repo := newTestDB(t)
	ctx := context.Background()

	job, err := repo.Enqueue(ctx, "text", "", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.FinishFailure(ctx, job.ID, "schema validation failed"))

	got, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusError, got.Status)
	assert.Equal(t, "schema validation failed", got.ErrorMessage)

	completed, err := repo.ListCompleted(ctx)
	require.NoError(t, err)
	assert.Empty(t, completed)
}

func TestFinishUnknownJobIsNotFound(t *testing.T) {
	_, repo := newTestDB(t)
	ctx := context.Background()

	err := repo.FinishSuccess(ctx, uuid.New(), []byte(`{}`), 0, true)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	err = repo.FinishFailure(ctx, uuid.New(), "nope")
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = repo.GetByID(ctx, uuid.New())
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestEnqueueRejectsEmptyText(t *testing.T) {
	_, repo := newTestDB(t)
	ctx := context.Background()

	for _, text := range []string{"", "   \n\t"} {
		_, err := repo.Enqueue(ctx, text, "baptism", "en", "")
		assert.True(t, errors.Is(err, common.ErrInvalidInput), "text %q", text)
	}
}

func TestDriverFailuresCarryDatabaseSentinel(t *testing.T) {
	db, repo := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, db.SQL.Close())

	_, err := repo.Enqueue(ctx, "text", "", "", "")
	assert.True(t, errors.Is(err, common.ErrDatabase))

	_, err = repo.ClaimPending(ctx, 1)
	assert.True(t, errors.Is(err, common.ErrDatabase))
}

func TestCorruptStoredIDIsInternal(t *testing.T) {
	db, repo := newTestDB(t)
	ctx := context.Background()

	_, err := db.SQL.ExecContext(ctx, `
		INSERT INTO extraction_job (id, ocr_text, status, created_at)
		VALUES ('not-a-uuid', 'text', 'COMPLETE', '2024-03-01T12:00:00.000000000Z')`)
	require.NoError(t, err)

	_, err = repo.ListCompleted(ctx)
	assert.True(t, errors.Is(err, common.ErrInternal))
}

func TestOpenRejectsMalformedPostgresDSN(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	_, err := Open(context.Background(), common.DatabaseConfig{DSN: "postgres://%zz", DialTimeout: time.Second}, logger)
	require.Error(t, err)

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "DB_CONFIG", appErr.Code)
}

func TestRebindOnlyTouchesPostgres(t *testing.T) {
	lite := &DB{}
	assert.Equal(t, "SELECT ? WHERE a = ?", lite.rebind("SELECT ? WHERE a = ?"))

	pg := &DB{Postgres: true}
	assert.Equal(t, "SELECT $1 WHERE a = $2", pg.rebind("SELECT ? WHERE a = ?"))
}
