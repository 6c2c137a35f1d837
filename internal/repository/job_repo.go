package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/acantarero/news-server/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobRepository handles ingest job persistence.
type JobRepository struct {
	db *gorm.DB
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// Start records the beginning of an ingest pass.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *domain.IngestJob: the running job row.
//   - error: non-nil if the insert fails.
func (r *JobRepository) Start(ctx context.Context) (*domain.IngestJob, error) {
	job := &domain.IngestJob{
		ID:        uuid.New().String(),
		Status:    domain.JobStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, fmt.Errorf("failed to create ingest job: %w", err)
	}
	return job, nil
}

// Finish writes the outcome of an ingest pass back to its job row.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - job: job row updated with counters, status, and error message.
// Returns:
//   - error: non-nil if the update fails.
func (r *JobRepository) Finish(ctx context.Context, job *domain.IngestJob) error {
	now := time.Now().UTC()
	job.CompletedAt = &now
	if err := r.db.WithContext(ctx).Save(job).Error; err != nil {
		return fmt.Errorf("failed to finish ingest job: %w", err)
	}
	return nil
}
