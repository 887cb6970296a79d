package ledger

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"
)

// RedisKeyPrefix namespaces the per-kind offense hashes.
const RedisKeyPrefix = "haven:offenses:"

// RedisStore keeps offense counts in one Redis hash per kind.
// HINCRBY makes each increment atomic on the server.
type RedisStore struct {
	client rueidis.Client
}

// NewRedisStore creates a store using an existing client.
func NewRedisStore(client rueidis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Count implements Store.
func (s *RedisStore) Count(ctx context.Context, kind Kind, userID string) (int64, error) {
	cmd := s.client.B().Hget().Key(RedisKeyPrefix + kind.String()).Field(userID).Build()

	count, err := s.client.Do(ctx, cmd).AsInt64()
	if rueidis.IsRedisNil(err) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("failed to read count: %w", err)
	}

	return count, nil
}

// Increment implements Store.
func (s *RedisStore) Increment(ctx context.Context, kind Kind, userID string) (int64, error) {
	cmd := s.client.B().Hincrby().Key(RedisKeyPrefix + kind.String()).Field(userID).Increment(1).Build()

	count, err := s.client.Do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, fmt.Errorf("failed to increment count: %w", err)
	}

	return count - 1, nil
}

// Close implements Store. The client is owned by the redis manager.
func (s *RedisStore) Close() error {
	return nil
}
