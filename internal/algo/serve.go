package algo

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/acantarero/news-server/internal/dna"
	"github.com/acantarero/news-server/internal/domain"
	"github.com/acantarero/news-server/internal/logger"
)

// ServeWindows is the fixed sequence of backward-looking time windows
// searched during a serve: hour by hour for four hours, then 4-12h, then
// 12-72h, then 72-144h. Each window's end is the previous window's start.
var ServeWindows = []time.Duration{
	time.Hour,
	time.Hour,
	time.Hour,
	time.Hour,
	8 * time.Hour,
	60 * time.Hour,
	72 * time.Hour,
}

// dominantBucketCount is how many non-overlapping interest clusters the
// diversifier carves out of a user's DNA per window.
const dominantBucketCount = 5

// Retriever performs windowed candidate retrieval with bucket-diversified
// ranking. It only reads; recording what was served is the caller's side
// effect.
type Retriever struct {
	articles ArticleStore
	served   ServedTracker
	windows  []time.Duration

	// now is swappable for tests.
	now func() time.Time
}

// NewRetriever creates a Retriever over the given stores.
// Parameters:
//   - articles: article corpus read access.
//   - served: served-set read access for repeat exclusion.
// Returns:
//   - *Retriever: retriever using the default window sequence.
func NewRetriever(articles ArticleStore, served ServedTracker) *Retriever {
	return &Retriever{
		articles: articles,
		served:   served,
		windows:  ServeWindows,
		now:      time.Now,
	}
}

// scoredArticle pairs a candidate id with a ranking score for one of the six
// per-window lists.
type scoredArticle struct {
	score float64
	id    string
}

// Serve returns up to requested article summaries ranked for the profile.
// Fewer than requested is not an error; the store may simply not hold enough
// eligible content. The caller is expected to mark the returned ids as
// served afterwards.
func (r *Retriever) Serve(ctx context.Context, profile *domain.UserProfile, requested int) ([]domain.ArticleSummary, error) {
	if requested <= 0 {
		return []domain.ArticleSummary{}, nil
	}

	results := make([]domain.ArticleSummary, 0, requested)
	emitted := make(map[string]bool)

	current := r.now().UTC()
	for _, delta := range r.windows {
		start := current.Add(-delta)

		candidates, err := r.windowCandidates(ctx, profile.ID, start, current)
		if err != nil {
			return nil, err
		}

		lists := r.rankCandidates(ctx, candidates, profile.DNA)
		r.interleave(ctx, lists, emitted, &results, requested)

		if len(results) >= requested {
			return results, nil
		}
		current = start
	}

	return results, nil
}

// windowCandidates fetches the eligible articles for one window: full text
// present, published in [start, end), not already served to the user.
func (r *Retriever) windowCandidates(ctx context.Context, userID string, start, end time.Time) ([]domain.Article, error) {
	articles, err := r.articles.QueryByTimeRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Article, 0, len(articles))
	for _, art := range articles {
		if !art.HasFullText() {
			continue
		}
		served, err := r.served.IsServed(ctx, userID, art.ID)
		if err != nil {
			// A broken served check degrades to serving a possible repeat
			// rather than dropping the candidate.
			logger.CtxWarn(ctx, "served check failed: article_id=%s, error=%v", art.ID, err)
		} else if served {
			continue
		}
		candidates = append(candidates, art)
	}
	return candidates, nil
}

// rankCandidates builds the six scored lists for a window: list 0 is plain
// relevance against the user's DNA, lists 1-5 score each article with the
// user's k-th dominant bucket zeroed out of the article's own vector. Each
// list is sorted descending, ties keeping encounter order.
func (r *Retriever) rankCandidates(ctx context.Context, candidates []domain.Article, userDNA domain.DNA) [][]scoredArticle {
	buckets := dna.DominantBuckets(userDNA, dominantBucketCount)

	lists := make([][]scoredArticle, 1+len(buckets))
	for _, art := range candidates {
		artDNA, err := dna.TopicsToVector(art.Topics)
		if err != nil {
			// One bad record must not sink the window.
			logger.CtxWarn(ctx, "skipping article with bad topics: article_id=%s, error=%v", art.ID, err)
			continue
		}

		lists[0] = append(lists[0], scoredArticle{
			score: dna.InnerProduct(artDNA, userDNA),
			id:    art.ID,
		})
		for k, bucket := range buckets {
			masked := dna.ZeroBucket(artDNA, bucket)
			lists[k+1] = append(lists[k+1], scoredArticle{
				score: dna.InnerProduct(masked, userDNA),
				id:    art.ID,
			})
		}
	}

	for _, list := range lists {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].score > list[j].score
		})
	}
	return lists
}

// interleave round-robins over the scored lists, taking the best unemitted
// article from each in turn until requested items are collected or every
// list is drained.
func (r *Retriever) interleave(ctx context.Context, lists [][]scoredArticle, emitted map[string]bool, results *[]domain.ArticleSummary, requested int) {
	heads := make([]int, len(lists))
	for {
		progressed := false
		for li := range lists {
			if len(*results) >= requested {
				return
			}

			// Advance past everything already emitted in this call.
			for heads[li] < len(lists[li]) && emitted[lists[li][heads[li]].id] {
				heads[li]++
			}
			if heads[li] >= len(lists[li]) {
				continue
			}

			id := lists[li][heads[li]].id
			heads[li]++
			progressed = true

			art, err := r.articles.FindByID(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrMissingArticle) {
					logger.CtxWarn(ctx, "ranked article vanished from store: article_id=%s", id)
					continue
				}
				logger.CtxError(ctx, "article lookup failed: article_id=%s, error=%v", id, err)
				continue
			}

			emitted[id] = true
			*results = append(*results, art.Summarize())
		}
		if !progressed {
			return
		}
	}
}
