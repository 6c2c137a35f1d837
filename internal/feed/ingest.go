package feed

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"

	"github.com/acantarero/news-server/internal/domain"
	"github.com/acantarero/news-server/internal/logger"
)

// ArticleWriter is the store surface ingestion needs.
type ArticleWriter interface {
	Upsert(ctx context.Context, article *domain.Article) error
	ExistsByFullText(ctx context.Context, fullText string) (bool, error)
}

// IngestStats summarizes one ingestion pass.
type IngestStats struct {
	Feeds    int
	Items    int
	Stored   int
	Skipped  int
	Failed   int
	Duration time.Duration
}

// Ingestor runs the feed-to-store pipeline: fetch feed, extract text,
// classify topics, upsert article.
type Ingestor struct {
	fetcher    *Fetcher
	classifier TopicClassifier
	store      ArticleWriter
	minTextLen int
}

// NewIngestor creates an ingestor.
// Parameters:
//   - fetcher: feed and page downloader.
//   - classifier: topic scoring backend.
//   - store: article persistence.
//   - minTextLen: minimum extracted-text length worth keeping; shorter
//     bodies are usually paywall stubs or video pages.
// Returns:
//   - *Ingestor: initialized ingestor.
func NewIngestor(fetcher *Fetcher, classifier TopicClassifier, store ArticleWriter, minTextLen int) *Ingestor {
	if minTextLen <= 0 {
		minTextLen = 250
	}
	return &Ingestor{
		fetcher:    fetcher,
		classifier: classifier,
		store:      store,
		minTextLen: minTextLen,
	}
}

// ArticleID derives the stable, content-derived article id: the hex MD5 of
// the article link.
func ArticleID(link string) string {
	sum := md5.Sum([]byte(link))
	return hex.EncodeToString(sum[:])
}

// sourceName extracts a short source label from a feed URL host.
func sourceName(feedURL string) string {
	s := feedURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.Index(s, "/"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimPrefix(s, "www.")
}

// Run processes every configured feed once.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - feedURLs: feeds to poll.
// Returns:
//   - *IngestStats: pass statistics. Per-item failures are counted and
//     logged, never fatal to the pass.
func (ing *Ingestor) Run(ctx context.Context, feedURLs []string) *IngestStats {
	start := time.Now()
	stats := &IngestStats{Feeds: len(feedURLs)}

	for _, feedURL := range feedURLs {
		if ctx.Err() != nil {
			break
		}
		fctx := logger.WithFields(ctx, logger.Fields{
			logger.FieldComponent: "ingest",
			logger.FieldSource:    sourceName(feedURL),
		})

		items, err := ing.fetcher.Fetch(fctx, feedURL)
		if err != nil {
			logger.CtxError(fctx, "feed fetch failed: error=%v", err)
			stats.Failed++
			continue
		}
		stats.Items += len(items)

		for _, item := range items {
			if ctx.Err() != nil {
				break
			}
			switch err := ing.ingestItem(fctx, feedURL, item); {
			case err == nil:
				stats.Stored++
			case err == errSkipped:
				stats.Skipped++
			default:
				logger.CtxWarn(fctx, "item ingest failed: link=%s, error=%v", item.Link, err)
				stats.Failed++
			}
		}
	}

	stats.Duration = time.Since(start)
	logger.CtxInfo(ctx, "ingest pass complete: feeds=%d, items=%d, stored=%d, skipped=%d, failed=%d, duration_ms=%d",
		stats.Feeds, stats.Items, stats.Stored, stats.Skipped, stats.Failed, stats.Duration.Milliseconds())
	return stats
}

// errSkipped marks items filtered out on purpose (short text, duplicates).
var errSkipped = skipError{}

type skipError struct{}

func (skipError) Error() string { return "item skipped" }

func (ing *Ingestor) ingestItem(ctx context.Context, feedURL string, item Item) error {
	page, err := ing.fetcher.GetPage(ctx, item.Link)
	if err != nil {
		return err
	}

	extracted, err := ExtractArticle(page, item.Link)
	if err != nil {
		return err
	}
	if len(extracted.Text) < ing.minTextLen {
		logger.CtxDebug(ctx, "text too short, skipping: link=%s, len=%d", item.Link, len(extracted.Text))
		return errSkipped
	}

	// Same body under a different link happens when feeds republish a
	// story. Keep the first copy only.
	if dup, err := ing.store.ExistsByFullText(ctx, extracted.Text); err == nil && dup {
		return errSkipped
	}

	topics, err := ing.classifier.Classify(ctx, extracted.Text)
	if err != nil {
		return err
	}

	title := item.Title
	if title == "" {
		title = extracted.Title
	}

	text := extracted.Text
	article := &domain.Article{
		ID:          ArticleID(item.Link),
		Source:      sourceName(feedURL),
		Title:       title,
		Summary:     item.Summary,
		Author:      item.Author,
		FullText:    &text,
		Links:       domain.StringArray{item.Link},
		Image:       extracted.Image,
		Topics:      topics,
		PublishedAt: item.PublishedAt,
	}
	return ing.store.Upsert(ctx, article)
}
