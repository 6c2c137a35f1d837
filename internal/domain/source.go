package domain

import "time"

// FeedSource represents an RSS feed registered for ingestion. The feed list
// is seeded from configuration on startup and can be toggled per source
// without a redeploy.
type FeedSource struct {
	ID            string     `gorm:"type:text;primaryKey" json:"id"`
	Name          string     `gorm:"type:text;not null" json:"name"`
	URL           string     `gorm:"type:text;not null;uniqueIndex" json:"url"`
	IsEnabled     bool       `gorm:"default:true" json:"is_enabled"`
	LastFetchedAt *time.Time `json:"last_fetched_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName returns the database table name for FeedSource.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (FeedSource) TableName() string {
	return "feed_sources"
}
