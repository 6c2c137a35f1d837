package service

import (
	"context"
	"fmt"
	"time"

	"github.com/acantarero/news-server/internal/algo"
	"github.com/acantarero/news-server/internal/domain"
	"github.com/acantarero/news-server/internal/logger"
)

// ServeService answers serve requests: it resolves the user profile, runs
// the windowed retriever, and records what was delivered.
type ServeService struct {
	users     algo.UserStore
	served    algo.ServedTracker
	retriever *algo.Retriever
	servedTTL time.Duration
}

// NewServeService creates a ServeService.
// Parameters:
//   - users: user profile store.
//   - articles: article store.
//   - served: served-set tracker.
//   - servedTTL: retention for served records (30 days in production).
// Returns:
//   - *ServeService: initialized service.
func NewServeService(users algo.UserStore, articles algo.ArticleStore, served algo.ServedTracker, servedTTL time.Duration) *ServeService {
	return &ServeService{
		users:     users,
		served:    served,
		retriever: algo.NewRetriever(articles, served),
		servedTTL: servedTTL,
	}
}

// Serve returns up to count ranked article summaries for a user and marks
// them served. Not enough eligible content is not an error; the only failure
// a caller should branch on is domain.ErrUserNotFound.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: requesting user.
//   - count: maximum number of articles to return.
// Returns:
//   - []domain.ArticleSummary: ranked, diversified, deduplicated summaries.
//   - error: wraps domain.ErrUserNotFound or domain.ErrUnsupportedAlgorithm.
func (s *ServeService) Serve(ctx context.Context, userID string, count int) ([]domain.ArticleSummary, error) {
	start := time.Now()

	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.ServeAlgorithm != 1 {
		return nil, fmt.Errorf("%w: serve algorithm %d", domain.ErrUnsupportedAlgorithm, profile.ServeAlgorithm)
	}

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldComponent: "serve",
		logger.FieldUserID:    userID,
	})

	articles, err := s.retriever.Serve(ctx, profile, count)
	if err != nil {
		return nil, err
	}

	// There is a window between the served check during retrieval and this
	// write; overlapping serves for one user can repeat an article. Accepted.
	if len(articles) > 0 {
		ids := make([]string, len(articles))
		for i, a := range articles {
			ids[i] = a.ID
		}
		if err := s.served.MarkServed(ctx, userID, ids, s.servedTTL); err != nil {
			logger.CtxError(ctx, "failed to record served articles: error=%v", err)
		}
	}

	logger.CtxInfo(ctx, "served articles: requested=%d, returned=%d, duration_ms=%d",
		count, len(articles), time.Since(start).Milliseconds())
	return articles, nil
}
