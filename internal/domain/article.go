package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// TopicScore is a single (topic name, score) pair attached to an article.
// Scores come from the external categorization service and lie in [0,1].
type TopicScore struct {
	Topic string  `json:"topic"`
	Score float64 `json:"score"`
}

// TopicScores is stored as JSON in the database, same pattern as StringArray.
type TopicScores []TopicScore

// Value implements the driver.Valuer interface for database serialization.
func (t TopicScores) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (t *TopicScores) Scan(value interface{}) error {
	if value == nil {
		*t = TopicScores{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan TopicScores")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, t)
}

// Article represents an ingested news article.
// The ID is the hex MD5 of the canonical article link, so re-ingesting the
// same story maps to the same record.
type Article struct {
	ID          string      `gorm:"type:text;primaryKey" json:"article_id"`
	Source      string      `gorm:"type:text;index:idx_articles_source" json:"source"`
	Title       string      `gorm:"type:text" json:"title"`
	Summary     string      `gorm:"type:text" json:"summary,omitempty"`
	Author      string      `gorm:"type:text" json:"author,omitempty"`
	FullText    *string     `gorm:"type:text" json:"full_text,omitempty"`
	Links       StringArray `gorm:"type:text" json:"links"`
	Image       string      `gorm:"type:text" json:"image,omitempty"`
	Topics      TopicScores `gorm:"type:text" json:"topics"`
	PublishedAt time.Time   `gorm:"index:idx_articles_published" json:"published_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName returns the database table name for Article.
func (Article) TableName() string {
	return "articles"
}

// HasFullText reports whether the article carries extracted body text.
func (a *Article) HasFullText() bool {
	return a.FullText != nil && *a.FullText != ""
}

// Link returns the primary link for the article, or "" if none is recorded.
func (a *Article) Link() string {
	if len(a.Links) == 0 {
		return ""
	}
	return a.Links[0]
}

// ArticleSummary is the client-facing projection of an Article. Full text,
// author, raw topic scores and the link list are stripped; only the primary
// link survives.
type ArticleSummary struct {
	ID          string    `json:"article_id"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Image       string    `json:"image,omitempty"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
}

// Summarize projects an Article to its servable summary form.
func (a *Article) Summarize() ArticleSummary {
	return ArticleSummary{
		ID:          a.ID,
		Source:      a.Source,
		Title:       a.Title,
		Image:       a.Image,
		Link:        a.Link(),
		PublishedAt: a.PublishedAt,
	}
}
