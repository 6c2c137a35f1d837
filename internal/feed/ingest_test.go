package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/acantarero/news-server/internal/domain"
)

func TestArticleID(t *testing.T) {
	tests := []struct {
		link     string
		expected string
	}{
		{"https://example.com/story", "31be2814bf0f70644990339f0f90e621"},
		{"http://www.nytimes.com/article/1", "0f3dc7411b365a60f1ce197f3e6074d3"},
	}

	for _, tt := range tests {
		if got := ArticleID(tt.link); got != tt.expected {
			t.Errorf("ArticleID(%q) = %q, want %q", tt.link, got, tt.expected)
		}
	}

	// Same link, same id; the id is what makes re-ingestion an upsert.
	if ArticleID("https://example.com/story") != ArticleID("https://example.com/story") {
		t.Error("expected stable ids for the same link")
	}
}

func TestSourceName(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://www.nytimes.com/rss", "nytimes.com"},
		{"http://feeds.bbci.co.uk/news/rss.xml", "feeds.bbci.co.uk"},
		{"https://example.com", "example.com"},
		{"example.com/feed", "example.com"},
	}

	for _, tt := range tests {
		if got := sourceName(tt.url); got != tt.expected {
			t.Errorf("sourceName(%q) = %q, want %q", tt.url, got, tt.expected)
		}
	}
}

func TestParsePubDate(t *testing.T) {
	fallback := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		raw      string
		expected time.Time
	}{
		{
			name:     "RFC1123Z",
			raw:      "Sat, 29 Aug 2026 10:30:00 -0400",
			expected: time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC),
		},
		{
			name:     "RFC1123",
			raw:      "Sat, 29 Aug 2026 10:30:00 UTC",
			expected: time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "single digit day",
			raw:      "Mon, 3 Aug 2026 08:00:00 +0000",
			expected: time.Date(2026, 8, 3, 8, 0, 0, 0, time.UTC),
		},
		{
			name:     "RFC3339",
			raw:      "2026-08-29T10:30:00Z",
			expected: time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "garbage falls back to fetch time",
			raw:      "yesterday-ish",
			expected: fallback,
		},
		{
			name:     "empty falls back to fetch time",
			raw:      "",
			expected: fallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parsePubDate(tt.raw, fallback); !got.Equal(tt.expected) {
				t.Errorf("parsePubDate(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
		})
	}
}

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
  <title>Test Feed</title>
  <item>
    <title>First Story</title>
    <link>%s/story/1</link>
    <description>A short summary.</description>
    <dc:creator>Jane Reporter</dc:creator>
    <pubDate>Sat, 29 Aug 2026 10:30:00 +0000</pubDate>
  </item>
  <item>
    <title>No Link Story</title>
    <description>Dropped because it has no link.</description>
  </item>
  <item>
    <title>Second Story</title>
    <link>%s/story/2</link>
    <pubDate>not a date</pubDate>
  </item>
</channel>
</rss>`

func TestFetcher_Fetch(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, sampleFeed, server.URL, server.URL)
	}))
	defer server.Close()

	f := NewFetcher(5 * time.Second)
	items, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items (linkless item dropped), got %d", len(items))
	}
	first := items[0]
	if first.Title != "First Story" {
		t.Errorf("expected title, got %q", first.Title)
	}
	if first.Author != "Jane Reporter" {
		t.Errorf("expected dc:creator as author, got %q", first.Author)
	}
	want := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(want) {
		t.Errorf("expected publish time %v, got %v", want, first.PublishedAt)
	}

	// Unparseable pubDate falls back to roughly the fetch time.
	if time.Since(items[1].PublishedAt) > time.Minute {
		t.Errorf("expected fallback publish time near now, got %v", items[1].PublishedAt)
	}
}

func TestFetcher_Fetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(5 * time.Second)
	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for non-200 feed response")
	}
}

type fakeClassifier struct {
	topics domain.TopicScores
}

func (f *fakeClassifier) Classify(_ context.Context, _ string) (domain.TopicScores, error) {
	return f.topics, nil
}

type fakeArticleWriter struct {
	mu       sync.Mutex
	upserted []*domain.Article
}

func (f *fakeArticleWriter) Upsert(_ context.Context, article *domain.Article) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted = append(f.upserted, article)
	return nil
}

func (f *fakeArticleWriter) ExistsByFullText(_ context.Context, fullText string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.upserted {
		if a.FullText != nil && *a.FullText == fullText {
			return true, nil
		}
	}
	return false, nil
}

const samplePage = `<!DOCTYPE html>
<html>
<head><title>First Story</title></head>
<body>
<article>
<h1>First Story</h1>
<p>%s</p>
</article>
</body>
</html>`

func TestIngestor_Run(t *testing.T) {
	body := strings.Repeat("This is the body of a real news story with enough text to keep. ", 10)

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed":
			fmt.Fprintf(w, sampleFeed, server.URL, server.URL)
		default:
			fmt.Fprintf(w, samplePage, body)
		}
	}))
	defer server.Close()

	writer := &fakeArticleWriter{}
	classifier := &fakeClassifier{topics: domain.TopicScores{{Topic: "Science", Score: 0.8}}}
	ing := NewIngestor(NewFetcher(5*time.Second), classifier, writer, 50)

	stats := ing.Run(context.Background(), []string{server.URL + "/feed"})

	if stats.Feeds != 1 {
		t.Errorf("expected 1 feed, got %d", stats.Feeds)
	}
	if stats.Items != 2 {
		t.Errorf("expected 2 items, got %d", stats.Items)
	}
	// Both pages serve identical bodies; the second is a duplicate by text.
	if stats.Stored != 1 {
		t.Errorf("expected 1 stored, got %d", stats.Stored)
	}
	if stats.Skipped != 1 {
		t.Errorf("expected 1 duplicate skipped, got %d", stats.Skipped)
	}

	if len(writer.upserted) != 1 {
		t.Fatalf("expected 1 upserted article, got %d", len(writer.upserted))
	}
	art := writer.upserted[0]
	if art.ID != ArticleID(server.URL+"/story/1") {
		t.Errorf("expected id derived from link, got %q", art.ID)
	}
	if !art.HasFullText() {
		t.Error("expected full text on stored article")
	}
	if len(art.Topics) != 1 || art.Topics[0].Topic != "Science" {
		t.Errorf("expected classifier topics attached, got %v", art.Topics)
	}
	if art.Link() != server.URL+"/story/1" {
		t.Errorf("expected original link recorded, got %q", art.Link())
	}
}

func TestIngestor_Run_ShortTextSkipped(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/feed":
			fmt.Fprintf(w, sampleFeed, server.URL, server.URL)
		default:
			fmt.Fprintf(w, samplePage, "Too short.")
		}
	}))
	defer server.Close()

	writer := &fakeArticleWriter{}
	ing := NewIngestor(NewFetcher(5*time.Second), &fakeClassifier{}, writer, 250)

	stats := ing.Run(context.Background(), []string{server.URL + "/feed"})

	if stats.Stored != 0 {
		t.Errorf("expected nothing stored, got %d", stats.Stored)
	}
	if stats.Skipped != 2 {
		t.Errorf("expected 2 skipped, got %d", stats.Skipped)
	}
	if len(writer.upserted) != 0 {
		t.Errorf("expected no upserts, got %d", len(writer.upserted))
	}
}
