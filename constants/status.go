package constants

// JobStatus is the canonical status for rows in extraction_job.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusPending  JobStatus = "PENDING"  // queued, not yet claimed
	JobStatusRunning  JobStatus = "RUNNING"  // claimed by a worker
	JobStatusComplete JobStatus = "COMPLETE" // result persisted
	JobStatusError    JobStatus = "ERROR"    // terminal failure outside the engine
)

// ReviewThreshold is the single global cutoff: results whose overall
// confidence falls below it are flagged needs_review.
const ReviewThreshold = 0.70
