package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kvision/portal-api/internal/core/domain"
)

const stateTTL = 10 * time.Minute

// StateStore issues single-use OAuth state values with a short TTL.
type StateStore struct {
	client *redis.Client
}

func NewStateStore(client *redis.Client) *StateStore {
	return &StateStore{client: client}
}

func (s *StateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.client.Set(ctx, s.key(state), "1", stateTTL).Err(); err != nil {
		return "", fmt.Errorf("issue oauth state: %w", err)
	}
	return state, nil
}

// Redeem consumes the state atomically; a second redemption of the same
// value fails.
func (s *StateStore) Redeem(ctx context.Context, state string) error {
	err := s.client.GetDel(ctx, s.key(state)).Err()
	if err == redis.Nil {
		return domain.ErrOAuthState
	}
	if err != nil {
		return fmt.Errorf("redeem oauth state: %w", err)
	}
	return nil
}

func (s *StateStore) key(state string) string {
	return "oauth_state:" + state
}
