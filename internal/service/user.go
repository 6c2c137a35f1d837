package service

import (
	"context"

	"github.com/acantarero/news-server/internal/domain"
	"github.com/google/uuid"
)

// UserStore is the creation-side surface the user service needs on top of
// profile lookup.
type UserStore interface {
	Create(ctx context.Context, userID string) (*domain.UserProfile, error)
	Exists(ctx context.Context, userID string) (bool, error)
}

// UserService creates user accounts with fresh neutral profiles.
type UserService struct {
	users UserStore
}

// NewUserService creates a UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// CreateUser allocates an unused uuid and creates a neutral profile for it.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - *domain.UserProfile: the new profile with all axes at 0.5.
//   - error: non-nil if id allocation or the insert fails.
func (s *UserService) CreateUser(ctx context.Context) (*domain.UserProfile, error) {
	id := uuid.New().String()
	for {
		taken, err := s.users.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
		id = uuid.New().String()
	}
	return s.users.Create(ctx, id)
}
