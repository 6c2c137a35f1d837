package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acantarero/news-server/internal/domain"
	"github.com/acantarero/news-server/internal/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArticleRepository handles article data operations.
type ArticleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *ArticleRepository: repository instance bound to db.
func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Upsert creates or updates an article record keyed by its id, so
// re-ingesting a feed refreshes existing stories in place.
func (r *ArticleRepository) Upsert(ctx context.Context, article *domain.Article) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(article).Error
}

// QueryByTimeRange retrieves articles with extracted full text published in
// [start, end).
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - start: inclusive lower bound on publish time.
//   - end: exclusive upper bound on publish time.
// Returns:
//   - []domain.Article: matching records.
//   - error: non-nil if the query fails.
func (r *ArticleRepository) QueryByTimeRange(ctx context.Context, start, end time.Time) ([]domain.Article, error) {
	var articles []domain.Article
	if err := r.db.WithContext(ctx).
		Where("published_at >= ? AND published_at < ?", start, end).
		Where("full_text IS NOT NULL AND full_text != ''").
		Order("published_at DESC").
		Find(&articles).Error; err != nil {
		return nil, fmt.Errorf("failed to query articles by time range: %w", err)
	}
	return articles, nil
}

// FindByID retrieves an article by its id. Should more than one row match,
// the oldest is returned and the duplication is logged as a data-quality
// signal.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: article id.
// Returns:
//   - *domain.Article: article record if found.
//   - error: wraps domain.ErrMissingArticle when no record exists.
func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Article{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}
	if count > 1 {
		logger.CtxWarn(ctx, "non-unique article id found: article_id=%s, count=%d", id, count)
	}

	var article domain.Article
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Order("created_at ASC").
		First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrMissingArticle, id)
		}
		return nil, fmt.Errorf("failed to find article: %w", err)
	}
	return &article, nil
}

// ExistsByFullText checks whether an identical body text was already stored
// under a different id. Some feeds republish the same story behind multiple
// links.
func (r *ArticleRepository) ExistsByFullText(ctx context.Context, fullText string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("full_text = ?", fullText).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountSince counts eligible articles published after t.
func (r *ArticleRepository) CountSince(ctx context.Context, t time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("published_at >= ?", t).
		Where("full_text IS NOT NULL AND full_text != ''").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
