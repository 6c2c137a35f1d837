package repository

import (
	"context"
	"fmt"

	"github.com/acantarero/news-server/internal/domain"
	"gorm.io/gorm"
)

// EngagementRepository persists engagement records and exposes the recent
// coefficient history used by the confidence correction.
type EngagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new EngagementRepository.
func NewEngagementRepository(db *gorm.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// Append stores a batch of engagement records.
func (r *EngagementRepository) Append(ctx context.Context, records []domain.EngagementRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		return fmt.Errorf("failed to append engagement records: %w", err)
	}
	return nil
}

// RecentCoefficients returns up to limit engagement coefficients for a user,
// ordered most-recent-first. The ordering contract matters: the confidence
// correction reads rate-of-success over "the last N events", so rows are
// sorted by insertion time descending before the limit is applied.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: user whose history to read.
//   - limit: maximum number of coefficients.
// Returns:
//   - []float64: coefficients, index 0 being the newest.
//   - error: non-nil if the query fails.
func (r *EngagementRepository) RecentCoefficients(ctx context.Context, userID string, limit int) ([]float64, error) {
	var coefficients []float64
	if err := r.db.WithContext(ctx).Model(&domain.EngagementRecord{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Pluck("coefficient", &coefficients).Error; err != nil {
		return nil, fmt.Errorf("failed to read engagement coefficients: %w", err)
	}
	return coefficients, nil
}

// CountForUser returns the total number of recorded engagements for a user.
func (r *EngagementRepository) CountForUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.EngagementRecord{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
