// Package algo implements the personalization engine: mapping engagement
// events to learning coefficients, the adaptive DNA update rule with its
// confidence safeguards, and windowed candidate retrieval with topic-bucket
// diversification.
//
// The package holds no global state. Everything it reads or writes goes
// through the store interfaces below, injected by the caller at startup.
package algo

import (
	"context"
	"time"

	"github.com/acantarero/news-server/internal/domain"
)

// ArticleStore is the read surface the engine needs over the article corpus.
type ArticleStore interface {
	// QueryByTimeRange returns articles with extracted full text published
	// in [start, end).
	QueryByTimeRange(ctx context.Context, start, end time.Time) ([]domain.Article, error)

	// FindByID returns the article with the given id, or an error wrapping
	// domain.ErrMissingArticle. When the store holds duplicate rows for an
	// id it returns one deterministic record.
	FindByID(ctx context.Context, id string) (*domain.Article, error)
}

// UserStore persists user profiles.
type UserStore interface {
	// GetProfile returns the profile for a user, or an error wrapping
	// domain.ErrUserNotFound.
	GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error)

	SaveProfile(ctx context.Context, profile *domain.UserProfile) error
}

// ServedTracker records which articles a user has already been sent.
type ServedTracker interface {
	IsServed(ctx context.Context, userID, articleID string) (bool, error)

	// MarkServed records article ids as served with the given retention.
	MarkServed(ctx context.Context, userID string, articleIDs []string, ttl time.Duration) error
}

// EngagementLog exposes the engagement history used by the confidence
// correction. Coefficients are ordered most-recent-first; the repository
// guarantees this by sorting on insertion time descending.
type EngagementLog interface {
	RecentCoefficients(ctx context.Context, userID string, limit int) ([]float64, error)
}
