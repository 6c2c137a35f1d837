package feed

import (
	"bytes"
	"fmt"
	"net/url"

	readability "github.com/go-shiori/go-readability"
)

// Extraction is the usable content pulled out of an article page.
type Extraction struct {
	Text      string // plain body text
	Image     string // lead image URL, "" if the page has none
	Title     string // page title, may be better than the feed's
	Canonical string // canonical URL when the page declares one
}

// ExtractArticle runs readability extraction over a downloaded page.
// Parameters:
//   - html: raw page bytes.
//   - pageURL: the URL the page was fetched from, for relative link
//     resolution.
// Returns:
//   - *Extraction: extracted content.
//   - error: non-nil if the page cannot be parsed or yields no body text.
func ExtractArticle(html []byte, pageURL string) (*Extraction, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("bad article url %q: %w", pageURL, err)
	}

	article, err := readability.FromReader(bytes.NewReader(html), u)
	if err != nil {
		return nil, fmt.Errorf("readability extraction failed for %s: %w", pageURL, err)
	}
	if article.TextContent == "" {
		return nil, fmt.Errorf("no extractable text at %s", pageURL)
	}

	return &Extraction{
		Text:      article.TextContent,
		Image:     article.Image,
		Title:     article.Title,
		Canonical: pageURL,
	}, nil
}
