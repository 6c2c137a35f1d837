package domain

import "time"

// JobStatus represents the status of an ingest job.
// Values include JobStatusRunning, JobStatusCompleted, and JobStatusFailed.
type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// IngestJob records one feed ingestion pass and its outcome. One row is
// written per scheduler tick so operators can audit pipeline health from
// the database alone.
type IngestJob struct {
	ID           string     `gorm:"type:text;primaryKey" json:"id"`
	Status       JobStatus  `gorm:"default:running" json:"status"`
	Feeds        int        `gorm:"default:0" json:"feeds"`
	Items        int        `gorm:"default:0" json:"items"`
	Stored       int        `gorm:"default:0" json:"stored"`
	Skipped      int        `gorm:"default:0" json:"skipped"`
	Failed       int        `gorm:"default:0" json:"failed"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// TableName returns the database table name for IngestJob.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (IngestJob) TableName() string {
	return "ingest_jobs"
}
