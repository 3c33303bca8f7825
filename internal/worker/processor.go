package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/orthodoxmetrics/record-extractor/internal/common"
	"github.com/orthodoxmetrics/record-extractor/internal/engine"
	"github.com/orthodoxmetrics/record-extractor/internal/repository"
)

// Processor runs one claimed job through the engine, validates the
// serialized result against the schema, and persists the outcome.
type Processor struct {
	logger    *slog.Logger
	extractor *engine.Extractor
	jobs      repository.JobRepository
}

func NewProcessor(logger *slog.Logger, extractor *engine.Extractor, jobs repository.JobRepository) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, extractor: extractor, jobs: jobs}
}

// ProcessJob extracts and persists one job. Extraction itself is total;
// only serialization, validation, and persistence can fail, and a failure
// moves the job to ERROR rather than leaving it RUNNING.
func (p *Processor) ProcessJob(ctx context.Context, job *repository.Job) error {
	result := p.extractor.Extract(engine.Input{
		Text:           job.OCRText,
		RecordTypeHint: job.RecordTypeHint,
		LanguageHint:   job.LanguageHint,
		TenantContext:  job.TenantContext,
	})

	payload, err := json.Marshal(result)
	if err != nil {
		p.fail(ctx, job, "marshal result: "+err.Error())
		return common.WrapError(err, "marshal result")
	}
	if err := engine.ValidateResultJSON(payload); err != nil {
		p.fail(ctx, job, "validate result: "+err.Error())
		return common.WrapError(common.ErrValidation, err.Error())
	}

	if err := p.jobs.FinishSuccess(ctx, job.ID, payload, result.Confidence.Overall, result.Metadata.NeedsReview); err != nil {
		p.logger.Error("worker.persist.failed", "job_id", job.ID, "err", err)
		return err
	}
	p.logger.Info("worker.extract.done",
		"job_id", job.ID,
		"record_type", string(result.RecordType),
		"fields", len(result.Fields),
		"overall", result.Confidence.Overall,
		"needs_review", result.Metadata.NeedsReview,
	)
	return nil
}

func (p *Processor) fail(ctx context.Context, job *repository.Job, message string) {
	p.logger.Error("worker.extract.failed", "job_id", job.ID, "err", message)
	if err := p.jobs.FinishFailure(ctx, job.ID, message); err != nil {
		p.logger.Error("worker.fail_persist.failed", "job_id", job.ID, "err", err)
	}
}
