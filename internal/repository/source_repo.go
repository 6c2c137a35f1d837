package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/acantarero/news-server/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SourceRepository handles feed source persistence.
type SourceRepository struct {
	db *gorm.DB
}

// NewSourceRepository creates a new SourceRepository.
func NewSourceRepository(db *gorm.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// Seed registers configured feed URLs, skipping any already present. Existing
// rows keep their enabled state so a source disabled by an operator stays
// disabled across restarts.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - urls: feed URLs from configuration.
// Returns:
//   - error: non-nil if any insert fails.
func (r *SourceRepository) Seed(ctx context.Context, urls []string) error {
	for _, url := range urls {
		src := &domain.FeedSource{
			ID:        uuid.New().String(),
			Name:      url,
			URL:       url,
			IsEnabled: true,
		}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "url"}}, DoNothing: true}).
			Create(src).Error
		if err != nil {
			return fmt.Errorf("failed to seed feed source %s: %w", url, err)
		}
	}
	return nil
}

// ListEnabled returns the URLs of all enabled feed sources.
func (r *SourceRepository) ListEnabled(ctx context.Context) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).Model(&domain.FeedSource{}).
		Where("is_enabled = ?", true).
		Order("url ASC").
		Pluck("url", &urls).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list feed sources: %w", err)
	}
	return urls, nil
}

// TouchFetched stamps the last fetch time on the given sources.
func (r *SourceRepository) TouchFetched(ctx context.Context, urls []string, at time.Time) error {
	if len(urls) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&domain.FeedSource{}).
		Where("url IN ?", urls).
		Update("last_fetched_at", at).Error
}
