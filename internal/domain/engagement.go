package domain

import "time"

// EngagementAction is the terminal action a reader took on an article.
type EngagementAction string

const (
	ActionDone EngagementAction = "done"
	ActionSave EngagementAction = "save"
)

// ShareTarget is a network an article was shared to.
type ShareTarget string

const (
	ShareTwitter  ShareTarget = "twitter"
	ShareFacebook ShareTarget = "facebook"
	ShareEmail    ShareTarget = "email"
)

// ValidShareTarget reports whether s is one of the accepted share networks.
func ValidShareTarget(s ShareTarget) bool {
	switch s {
	case ShareTwitter, ShareFacebook, ShareEmail:
		return true
	}
	return false
}

// EngagementEvent is the per-article reading analytics submitted by a client
// after the user is done with an article.
type EngagementEvent struct {
	ArticleID string           `json:"article_id" binding:"required"`
	Action    EngagementAction `json:"action" binding:"required"`
	TotalTime float64          `json:"total_time"`
	TimeZero  float64          `json:"time_zero"`
	Percent   float64          `json:"percent"`
	Up        int              `json:"up"`
	Down      int              `json:"down"`
	Share     []ShareTarget    `json:"share"`
}

// EngagementRecord is the persisted form of an engagement event, annotated
// with the coefficient it mapped to at submission time. Records are the
// source for the confidence-correction history.
type EngagementRecord struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"type:text;not null;index:idx_engagements_user" json:"user_id"`
	ArticleID   string    `gorm:"type:text;not null" json:"article_id"`
	Source      string    `gorm:"type:text" json:"source"`
	Coefficient float64   `json:"coefficient"`
	RawEvent    string    `gorm:"type:text" json:"raw_event"`
	CreatedAt   time.Time `gorm:"index:idx_engagements_created" json:"created_at"`
}

// TableName returns the database table name for EngagementRecord.
func (EngagementRecord) TableName() string {
	return "engagements"
}
