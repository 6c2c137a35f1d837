package algo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/acantarero/news-server/internal/dna"
	"github.com/acantarero/news-server/internal/domain"
)

type fakeArticleStore struct {
	articles []domain.Article
}

func (f *fakeArticleStore) QueryByTimeRange(_ context.Context, start, end time.Time) ([]domain.Article, error) {
	var out []domain.Article
	for _, a := range f.articles {
		if !a.PublishedAt.Before(start) && a.PublishedAt.Before(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeArticleStore) FindByID(_ context.Context, id string) (*domain.Article, error) {
	for i := range f.articles {
		if f.articles[i].ID == id {
			return &f.articles[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrMissingArticle, id)
}

type fakeServedTracker struct {
	served map[string]bool
}

func newFakeServedTracker() *fakeServedTracker {
	return &fakeServedTracker{served: make(map[string]bool)}
}

func (f *fakeServedTracker) IsServed(_ context.Context, userID, articleID string) (bool, error) {
	return f.served[userID+"|"+articleID], nil
}

func (f *fakeServedTracker) MarkServed(_ context.Context, userID string, articleIDs []string, _ time.Duration) error {
	for _, id := range articleIDs {
		f.served[userID+"|"+id] = true
	}
	return nil
}

func testArticle(id, topic string, score float64, publishedAt time.Time) domain.Article {
	text := "full text for " + id
	return domain.Article{
		ID:          id,
		Source:      "test",
		Title:       "Article " + id,
		FullText:    &text,
		Links:       domain.StringArray{"https://example.com/" + id},
		Topics:      domain.TopicScores{{Topic: topic, Score: score}},
		PublishedAt: publishedAt,
	}
}

func neutralProfile() *domain.UserProfile {
	return &domain.UserProfile{
		ID:             "user-1",
		DNA:            dna.Neutral(),
		ServeAlgorithm: 1,
	}
}

func TestRetriever_Serve_RanksByRelevance(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-30 * time.Minute)

	store := &fakeArticleStore{articles: []domain.Article{
		testArticle("c", "Arts", 0.7, recent),
		testArticle("a", "Science", 0.9, recent),
		testArticle("b", "Sports", 0.8, recent),
	}}

	r := &Retriever{
		articles: store,
		served:   newFakeServedTracker(),
		windows:  []time.Duration{time.Hour},
		now:      func() time.Time { return now },
	}

	got, err := r.Serve(context.Background(), neutralProfile(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	// Neutral profile: score is proportional to the topic score, so a then b.
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("expected [a b], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestRetriever_Serve_NoDuplicates(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-30 * time.Minute)

	store := &fakeArticleStore{articles: []domain.Article{
		testArticle("a", "Science", 0.9, recent),
		testArticle("b", "Sports", 0.8, recent),
		testArticle("c", "Arts", 0.7, recent),
	}}

	r := &Retriever{
		articles: store,
		served:   newFakeServedTracker(),
		windows:  []time.Duration{time.Hour},
		now:      func() time.Time { return now },
	}

	// Ask for more than exists; every candidate appears at most once even
	// though it sits in all six ranked lists.
	got, err := r.Serve(context.Background(), neutralProfile(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(got))
	}
	seen := make(map[string]bool)
	for _, a := range got {
		if seen[a.ID] {
			t.Errorf("article %s returned twice", a.ID)
		}
		seen[a.ID] = true
	}
}

func TestRetriever_Serve_ExcludesServed(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-30 * time.Minute)

	store := &fakeArticleStore{articles: []domain.Article{
		testArticle("a", "Science", 0.9, recent),
		testArticle("b", "Sports", 0.8, recent),
	}}
	served := newFakeServedTracker()
	served.served["user-1|a"] = true

	r := &Retriever{
		articles: store,
		served:   served,
		windows:  []time.Duration{time.Hour},
		now:      func() time.Time { return now },
	}

	got, err := r.Serve(context.Background(), neutralProfile(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("expected only [b], got %v", got)
	}
}

func TestRetriever_Serve_SkipsArticlesWithoutFullText(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-30 * time.Minute)

	stub := testArticle("stub", "Science", 0.9, recent)
	stub.FullText = nil

	store := &fakeArticleStore{articles: []domain.Article{
		stub,
		testArticle("a", "Sports", 0.8, recent),
	}}

	r := &Retriever{
		articles: store,
		served:   newFakeServedTracker(),
		windows:  []time.Duration{time.Hour},
		now:      func() time.Time { return now },
	}

	got, err := r.Serve(context.Background(), neutralProfile(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("expected only [a], got %v", got)
	}
}

func TestRetriever_Serve_WidensWindowsUntilSatisfied(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	store := &fakeArticleStore{articles: []domain.Article{
		testArticle("fresh", "Science", 0.9, now.Add(-30*time.Minute)),
		testArticle("older", "Sports", 0.8, now.Add(-90*time.Minute)),
	}}

	r := &Retriever{
		articles: store,
		served:   newFakeServedTracker(),
		windows:  []time.Duration{time.Hour, time.Hour},
		now:      func() time.Time { return now },
	}

	got, err := r.Serve(context.Background(), neutralProfile(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(got))
	}
	// Window order is recency order: the fresh article comes from the first
	// window regardless of score.
	if got[0].ID != "fresh" || got[1].ID != "older" {
		t.Errorf("expected [fresh older], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestRetriever_Serve_StopsOnceSatisfied(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	store := &fakeArticleStore{articles: []domain.Article{
		testArticle("fresh", "Science", 0.9, now.Add(-30*time.Minute)),
		testArticle("older", "Sports", 0.8, now.Add(-90*time.Minute)),
	}}

	r := &Retriever{
		articles: store,
		served:   newFakeServedTracker(),
		windows:  []time.Duration{time.Hour, time.Hour},
		now:      func() time.Time { return now },
	}

	got, err := r.Serve(context.Background(), neutralProfile(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "fresh" {
		t.Fatalf("expected [fresh], got %v", got)
	}
}

func TestRetriever_Serve_DiversifiesAcrossBuckets(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-30 * time.Minute)

	// Profile heavily into Science/Technology; the corpus has two science
	// articles and one sports article.
	profile := neutralProfile()
	sciIdx, _ := dna.TopicIndex("Science")
	techIdx, _ := dna.TopicIndex("Technology")
	profile.DNA[sciIdx] = 1.0
	profile.DNA[techIdx] = 1.0

	store := &fakeArticleStore{articles: []domain.Article{
		testArticle("sci1", "Science", 0.9, recent),
		testArticle("sci2", "Science", 0.85, recent),
		testArticle("sport", "Sports", 0.3, recent),
	}}

	r := &Retriever{
		articles: store,
		served:   newFakeServedTracker(),
		windows:  []time.Duration{time.Hour},
		now:      func() time.Time { return now },
	}

	got, err := r.Serve(context.Background(), profile, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(got))
	}
	// The science-masked list promotes the sports article ahead of the
	// second science piece.
	if got[0].ID != "sci1" {
		t.Errorf("expected sci1 first, got %s", got[0].ID)
	}
	if got[1].ID != "sport" {
		t.Errorf("expected sport second via diversification, got %s", got[1].ID)
	}
}

func TestRetriever_Serve_ZeroCount(t *testing.T) {
	r := NewRetriever(&fakeArticleStore{}, newFakeServedTracker())

	got, err := r.Serve(context.Background(), neutralProfile(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no articles, got %d", len(got))
	}
}

func TestRetriever_Serve_SkipsUnknownTopicArticles(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	recent := now.Add(-30 * time.Minute)

	bad := testArticle("bad", "Astrology", 0.9, recent)
	store := &fakeArticleStore{articles: []domain.Article{
		bad,
		testArticle("ok", "Science", 0.8, recent),
	}}

	r := &Retriever{
		articles: store,
		served:   newFakeServedTracker(),
		windows:  []time.Duration{time.Hour},
		now:      func() time.Time { return now },
	}

	got, err := r.Serve(context.Background(), neutralProfile(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "ok" {
		t.Fatalf("expected only [ok], got %v", got)
	}
}
