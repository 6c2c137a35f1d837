package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/acantarero/news-server/internal/domain"
	"github.com/go-resty/resty/v2"
)

// TopicClassifier scores article text against the coarse topic taxonomy.
// Classification is an external concern; the engine only consumes the
// resulting (topic, score) pairs.
type TopicClassifier interface {
	Classify(ctx context.Context, text string) (domain.TopicScores, error)
}

// TextRazorClassifier calls a TextRazor-compatible categorization endpoint.
type TextRazorClassifier struct {
	client *resty.Client
	apiURL string
	apiKey string
}

// NewTextRazorClassifier creates a classifier against the given endpoint.
// Parameters:
//   - apiURL: categorization endpoint; defaults to the TextRazor API.
//   - apiKey: account API key.
// Returns:
//   - *TextRazorClassifier: initialized classifier.
func NewTextRazorClassifier(apiURL, apiKey string) *TextRazorClassifier {
	if apiURL == "" {
		apiURL = "https://api.textrazor.com"
	}
	return &TextRazorClassifier{
		client: resty.New().SetTimeout(20 * time.Second),
		apiURL: apiURL,
		apiKey: apiKey,
	}
}

// textRazorResponse maps the coarse-topic part of the API response.
type textRazorResponse struct {
	Response struct {
		CoarseTopics []struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		} `json:"coarseTopics"`
	} `json:"response"`
}

// Classify sends article text for categorization and returns the coarse
// topic scores. An article with no recognized coarse topics yields an empty
// score list, not an error.
func (c *TextRazorClassifier) Classify(ctx context.Context, text string) (domain.TopicScores, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"apiKey":     c.apiKey,
			"extractors": "topics",
			"text":       text,
		}).
		Post(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("topic classification request failed: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("topic classification returned status %d", resp.StatusCode())
	}

	var parsed textRazorResponse
	if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode topic classification response: %w", err)
	}

	scores := make(domain.TopicScores, 0, len(parsed.Response.CoarseTopics))
	for _, t := range parsed.Response.CoarseTopics {
		scores = append(scores, domain.TopicScore{Topic: t.Label, Score: t.Score})
	}
	return scores, nil
}
