package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// DNASize is the number of topical axes in a user interest vector.
const DNASize = 20

// DNA is a user's 20-dimensional topical-interest vector, one axis per fixed
// topic in alphabetical order. Values are expected in [0,1]; the sum is
// unconstrained. Stored as JSON in the database.
type DNA []float64

// Value implements the driver.Valuer interface for database serialization.
func (d DNA) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (d *DNA) Scan(value interface{}) error {
	if value == nil {
		*d = DNA{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan DNA")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, d)
}

// Clone returns an independent copy of the vector.
func (d DNA) Clone() DNA {
	out := make(DNA, len(d))
	copy(out, d)
	return out
}

// UserProfile holds a user's interest vector and the algorithm selections
// used to learn from and serve to that user. Profiles are created neutral at
// signup and mutated only by the learning pipeline.
type UserProfile struct {
	ID                string    `gorm:"type:text;primaryKey" json:"id"`
	DNA               DNA       `gorm:"type:text" json:"dna"`
	ServeAlgorithm    int       `gorm:"default:1" json:"serve_algorithm"`
	UpdateAlgorithm   int       `gorm:"default:1" json:"update_algorithm"`
	EngagementMapping int       `gorm:"default:1" json:"engagement_mapping"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName returns the database table name for UserProfile.
func (UserProfile) TableName() string {
	return "users"
}
