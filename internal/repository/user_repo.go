package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/acantarero/news-server/internal/dna"
	"github.com/acantarero/news-server/internal/domain"
	"gorm.io/gorm"
)

// UserRepository handles user profile persistence.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user profile with a neutral DNA vector and the
// default algorithm selections.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: id for the new user.
// Returns:
//   - *domain.UserProfile: the created profile.
//   - error: non-nil if the insert fails.
func (r *UserRepository) Create(ctx context.Context, userID string) (*domain.UserProfile, error) {
	profile := &domain.UserProfile{
		ID:                userID,
		DNA:               dna.Neutral(),
		ServeAlgorithm:    1,
		UpdateAlgorithm:   1,
		EngagementMapping: 1,
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return profile, nil
}

// GetProfile retrieves a user profile by id.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: user id to look up.
// Returns:
//   - *domain.UserProfile: profile if found.
//   - error: wraps domain.ErrUserNotFound when no profile exists.
func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := r.db.WithContext(ctx).First(&profile, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile writes a profile back. Last write wins; concurrent learn tasks
// for the same user are not serialized.
func (r *UserRepository) SaveProfile(ctx context.Context, profile *domain.UserProfile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	return nil
}

// Exists reports whether a user id is taken.
func (r *UserRepository) Exists(ctx context.Context, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.UserProfile{}).
		Where("id = ?", userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
