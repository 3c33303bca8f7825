package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/orthodoxmetrics/record-extractor/internal/common"
)

// Loop polls the job table and drives claimed jobs through the Processor.
type Loop struct {
	logger    *slog.Logger
	processor *Processor
	cfg       common.WorkerConfig
}

func NewLoop(logger *slog.Logger, processor *Processor, cfg common.WorkerConfig) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	return &Loop{logger: logger, processor: processor, cfg: cfg}
}

// Run polls until the context is canceled. A drained batch polls again
// immediately so a backlog clears at full speed; an empty or failed poll
// waits out the interval.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("worker started", "poll_interval", l.cfg.PollInterval, "batch_size", l.cfg.BatchSize)
	for {
		n, err := l.RunOnce(ctx)
		if err != nil {
			l.logger.Error("worker.poll.failed", "err", err)
		}
		if err == nil && n == l.cfg.BatchSize {
			continue
		}
		select {
		case <-ctx.Done():
			l.logger.Info("worker stopped")
			return
		case <-time.After(l.cfg.PollInterval):
		}
	}
}

// RunOnce claims and processes one batch, returning how many jobs it
// claimed. Per-job failures are recorded on the job and do not stop the
// batch.
func (l *Loop) RunOnce(ctx context.Context) (int, error) {
	jobs, err := l.processor.jobs.ClaimPending(ctx, l.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	for _, job := range jobs {
		if ctx.Err() != nil {
			return len(jobs), ctx.Err()
		}
		if err := l.processor.ProcessJob(ctx, job); err != nil {
			l.logger.Error("worker.job.failed", "job_id", job.ID, "err", err)
		}
	}
	return len(jobs), nil
}
