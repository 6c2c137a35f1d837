// Package feed ingests RSS feeds into the article store: it fetches and
// parses feeds, extracts article body text, and asks an external
// categorization service for topic scores. The personalization engine only
// ever sees the resulting article records.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Item is one entry parsed from an RSS feed.
type Item struct {
	Title       string
	Link        string
	Summary     string
	Author      string
	PublishedAt time.Time
}

// rssDocument maps the subset of RSS 2.0 the fetcher cares about.
type rssDocument struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Creator     string `xml:"creator"`
	Author      string `xml:"author"`
	PubDate     string `xml:"pubDate"`
}

// pubDateLayouts covers the timestamp formats seen in the wild. Feeds are
// not consistent about this.
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2006-01-02 15:04:05",
}

// Fetcher downloads and parses RSS feeds.
type Fetcher struct {
	client *resty.Client
}

// NewFetcher creates a feed fetcher.
// Parameters:
//   - timeout: per-request timeout for feed and page downloads.
// Returns:
//   - *Fetcher: initialized fetcher.
func NewFetcher(timeout time.Duration) *Fetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "news-server/1.0 (+rss)").
		SetRetryCount(2).
		SetRetryWaitTime(2 * time.Second)
	return &Fetcher{client: client}
}

// Fetch downloads a feed URL and returns its items. Items with no link are
// dropped; an unparseable publish date falls back to the fetch time.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - feedURL: RSS feed address.
// Returns:
//   - []Item: parsed feed entries.
//   - error: non-nil if the download or the XML parse fails.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]Item, error) {
	resp, err := f.client.R().SetContext(ctx).Get(feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", feedURL, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("feed %s returned status %d", feedURL, resp.StatusCode())
	}

	var doc rssDocument
	if err := xml.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	now := time.Now().UTC()
	items := make([]Item, 0, len(doc.Channel.Items))
	for _, ri := range doc.Channel.Items {
		if ri.Link == "" {
			continue
		}
		author := ri.Creator
		if author == "" {
			author = ri.Author
		}
		items = append(items, Item{
			Title:       ri.Title,
			Link:        ri.Link,
			Summary:     ri.Description,
			Author:      author,
			PublishedAt: parsePubDate(ri.PubDate, now),
		})
	}
	return items, nil
}

// GetPage downloads a raw article page for text extraction.
func (f *Fetcher) GetPage(ctx context.Context, pageURL string) ([]byte, error) {
	resp, err := f.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page %s: %w", pageURL, err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("page %s returned status %d", pageURL, resp.StatusCode())
	}
	return resp.Body(), nil
}

func parsePubDate(raw string, fallback time.Time) time.Time {
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return fallback
}
