package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/acantarero/news-server/internal/config"
	"github.com/redis/go-redis/v9"
)

// ServedRepository tracks which articles were already delivered to a user.
// Entries live in Redis with a per-key TTL; expiry makes old stories eligible
// again after the retention window.
type ServedRepository struct {
	client *redis.Client
}

// NewServedRepository creates a ServedRepository over a Redis connection.
// Parameters:
//   - cfg: Redis connection settings.
// Returns:
//   - *ServedRepository: repository instance.
//   - error: non-nil if the server does not answer a ping.
func NewServedRepository(cfg *config.RedisConfig) (*ServedRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &ServedRepository{client: client}, nil
}

// Close releases the underlying Redis connection.
func (r *ServedRepository) Close() error {
	return r.client.Close()
}

func servedKey(userID, articleID string) string {
	return "served:" + userID + ":" + articleID
}

// IsServed reports whether an article was already delivered to a user within
// the retention window.
func (r *ServedRepository) IsServed(ctx context.Context, userID, articleID string) (bool, error) {
	n, err := r.client.Exists(ctx, servedKey(userID, articleID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check served set: %w", err)
	}
	return n > 0, nil
}

// MarkServed records article ids as delivered to a user. All keys are set in
// one pipeline with the given TTL.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: user the articles were sent to.
//   - articleIDs: delivered article ids.
//   - ttl: retention window for the entries.
// Returns:
//   - error: non-nil if the pipeline fails.
func (r *ServedRepository) MarkServed(ctx context.Context, userID string, articleIDs []string, ttl time.Duration) error {
	if len(articleIDs) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for _, id := range articleIDs {
		pipe.Set(ctx, servedKey(userID, id), 1, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to mark articles served: %w", err)
	}
	return nil
}
