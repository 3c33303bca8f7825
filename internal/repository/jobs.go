package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/orthodoxmetrics/record-extractor/constants"
	"github.com/orthodoxmetrics/record-extractor/internal/common"
)

// dbError tags a driver failure so callers can errors.Is against
// common.ErrDatabase without knowing which driver is underneath.
func dbError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, common.ErrDatabase, err)
}

// Job is one queued extraction: the raw OCR text plus its hints on the way
// in, the serialized result on the way out.
type Job struct {
	ID                uuid.UUID
	TenantContext     string
	RecordTypeHint    string
	LanguageHint      string
	OCRText           string
	Status            constants.JobStatus
	ResultJSON        []byte
	ErrorMessage      string
	OverallConfidence float64
	NeedsReview       bool
	CreatedAt         time.Time
	StartedAt         *time.Time
	FinishedAt        *time.Time
}

type JobRepository interface {
	Enqueue(ctx context.Context, ocrText, recordTypeHint, languageHint, tenantContext string) (*Job, error)
	ClaimPending(ctx context.Context, limit int) ([]*Job, error)
	FinishSuccess(ctx context.Context, jobID uuid.UUID, resultJSON []byte, overall float64, needsReview bool) error
	FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error
	GetByID(ctx context.Context, jobID uuid.UUID) (*Job, error)
	ListCompleted(ctx context.Context) ([]*Job, error)
}

type jobRepo struct {
	db  *DB
	log *slog.Logger
}

func NewJobRepository(db *DB, log *slog.Logger) JobRepository {
	return &jobRepo{db: db, log: log}
}

// Timestamps are stored as RFC3339 text with a fixed-width fraction so
// both dialects round-trip them identically and ORDER BY created_at sorts
// chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const migrateDDL = `
CREATE TABLE IF NOT EXISTS extraction_job (
	id                 TEXT PRIMARY KEY,
	tenant_context     TEXT NOT NULL DEFAULT '',
	record_type_hint   TEXT NOT NULL DEFAULT '',
	language_hint      TEXT NOT NULL DEFAULT '',
	ocr_text           TEXT NOT NULL,
	status             TEXT NOT NULL,
	result_json        TEXT,
	error_message      TEXT NOT NULL DEFAULT '',
	overall_confidence REAL NOT NULL DEFAULT 0,
	needs_review       BOOLEAN NOT NULL DEFAULT FALSE,
	created_at         TEXT NOT NULL,
	started_at         TEXT,
	finished_at        TEXT
);
CREATE INDEX IF NOT EXISTS idx_extraction_job_status ON extraction_job (status, created_at);
`

// Migrate creates the job table when absent. The DDL sticks to the type
// names both dialects accept.
func Migrate(ctx context.Context, db *DB, logger *slog.Logger) error {
	if _, err := db.SQL.ExecContext(ctx, migrateDDL); err != nil {
		logger.Error("migration failed", "error", err)
		return dbError("migrate extraction_job", err)
	}
	logger.Info("migration applied", "table", "extraction_job")
	return nil
}

func (r *jobRepo) Enqueue(ctx context.Context, ocrText, recordTypeHint, languageHint, tenantContext string) (*Job, error) {
	if strings.TrimSpace(ocrText) == "" {
		return nil, common.WrapError(common.ErrInvalidInput, "enqueue job: empty ocr text")
	}
	job := &Job{
		ID:             uuid.New(),
		TenantContext:  tenantContext,
		RecordTypeHint: recordTypeHint,
		LanguageHint:   languageHint,
		OCRText:        ocrText,
		Status:         constants.JobStatusPending,
		CreatedAt:      time.Now().UTC(),
	}
	_, err := r.db.SQL.ExecContext(ctx, r.db.rebind(`
		INSERT INTO extraction_job (id, tenant_context, record_type_hint, language_hint, ocr_text, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		job.ID.String(), job.TenantContext, job.RecordTypeHint, job.LanguageHint,
		job.OCRText, string(job.Status), job.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		r.log.Error("extraction_job enqueue failed", "err", err)
		return nil, dbError("enqueue job", err)
	}
	r.log.Info("extraction_job enqueued", "job_id", job.ID, "record_type_hint", recordTypeHint)
	return job, nil
}

// ClaimPending moves up to limit of the oldest PENDING jobs to RUNNING and
// returns them. Select and update run in one transaction so two workers on
// the same database never claim the same job.
func (r *jobRepo) ClaimPending(ctx context.Context, limit int) ([]*Job, error) {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return nil, dbError("begin claim tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, r.db.rebind(`
		SELECT `+jobColumns+`
		FROM extraction_job
		WHERE status = ?
		ORDER BY created_at
		LIMIT ?`),
		string(constants.JobStatusPending), limit,
	)
	if err != nil {
		return nil, dbError("select pending jobs", err)
	}
	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, job := range jobs {
		if _, err := tx.ExecContext(ctx, r.db.rebind(`
			UPDATE extraction_job SET status = ?, started_at = ? WHERE id = ?`),
			string(constants.JobStatusRunning), now.Format(timeLayout), job.ID.String(),
		); err != nil {
			return nil, dbError("claim job", err)
		}
		job.Status = constants.JobStatusRunning
		started := now
		job.StartedAt = &started
	}
	if err := tx.Commit(); err != nil {
		return nil, dbError("commit claim tx", err)
	}
	if len(jobs) > 0 {
		r.log.Info("extraction_jobs claimed", "count", len(jobs))
	}
	return jobs, nil
}

func (r *jobRepo) FinishSuccess(ctx context.Context, jobID uuid.UUID, resultJSON []byte, overall float64, needsReview bool) error {
	res, err := r.db.SQL.ExecContext(ctx, r.db.rebind(`
		UPDATE extraction_job
		SET status = ?, result_json = ?, overall_confidence = ?, needs_review = ?, finished_at = ?
		WHERE id = ?`),
		string(constants.JobStatusComplete), string(resultJSON), overall, needsReview,
		time.Now().UTC().Format(timeLayout), jobID.String(),
	)
	if err != nil {
		r.log.Error("extraction_job finish(COMPLETE) failed", "job_id", jobID, "err", err)
		return dbError("finish job", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	r.log.Info("extraction_job finished", "job_id", jobID, "overall", overall, "needs_review", needsReview)
	return nil
}

func (r *jobRepo) FinishFailure(ctx context.Context, jobID uuid.UUID, message string) error {
	res, err := r.db.SQL.ExecContext(ctx, r.db.rebind(`
		UPDATE extraction_job SET status = ?, error_message = ?, finished_at = ? WHERE id = ?`),
		string(constants.JobStatusError), message,
		time.Now().UTC().Format(timeLayout), jobID.String(),
	)
	if err != nil {
		r.log.Error("extraction_job finish(ERROR) failed", "job_id", jobID, "err", err)
		return dbError("fail job", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	r.log.Warn("extraction_job failed", "job_id", jobID, "error", message)
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, jobID uuid.UUID) (*Job, error) {
	rows, err := r.db.SQL.QueryContext(ctx, r.db.rebind(`
		SELECT `+jobColumns+` FROM extraction_job WHERE id = ?`),
		jobID.String(),
	)
	if err != nil {
		return nil, dbError("get job", err)
	}
	jobs, err := scanJobs(rows)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, common.ErrNotFound
	}
	return jobs[0], nil
}

func (r *jobRepo) ListCompleted(ctx context.Context) ([]*Job, error) {
	rows, err := r.db.SQL.QueryContext(ctx, r.db.rebind(`
		SELECT `+jobColumns+` FROM extraction_job WHERE status = ? ORDER BY created_at`),
		string(constants.JobStatusComplete),
	)
	if err != nil {
		return nil, dbError("list completed jobs", err)
	}
	return scanJobs(rows)
}

const jobColumns = `id, tenant_context, record_type_hint, language_hint, ocr_text,
	status, result_json, error_message, overall_confidence, needs_review,
	created_at, started_at, finished_at`

func scanJobs(rows *sql.Rows) ([]*Job, error) {
	defer func() { _ = rows.Close() }()

	var jobs []*Job
	for rows.Next() {
		var (
			job        Job
			id         string
			status     string
			resultJSON sql.NullString
			createdAt  string
			startedAt  sql.NullString
			finishedAt sql.NullString
		)
		if err := rows.Scan(
			&id, &job.TenantContext, &job.RecordTypeHint, &job.LanguageHint, &job.OCRText,
			&status, &resultJSON, &job.ErrorMessage, &job.OverallConfidence, &job.NeedsReview,
			&createdAt, &startedAt, &finishedAt,
		); err != nil {
			return nil, dbError("scan job", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			// a row we wrote ourselves holds a malformed id
			return nil, fmt.Errorf("parse job id %q: %w: %w", id, common.ErrInternal, err)
		}
		job.ID = parsed
		job.Status = constants.JobStatus(status)
		if resultJSON.Valid {
			job.ResultJSON = []byte(resultJSON.String)
		}
		job.CreatedAt = parseStoredTime(createdAt)
		job.StartedAt = parseStoredTimePtr(startedAt)
		job.FinishedAt = parseStoredTimePtr(finishedAt)
		jobs = append(jobs, &job)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("iterate jobs", err)
	}
	return jobs, nil
}

func parseStoredTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseStoredTimePtr(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseStoredTime(s.String)
	return &t
}
