package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fraudBench/business/leaderboard"

	"github.com/redis/go-redis/v9"
)

// LeaderboardCache keeps assembled leaderboards for a short TTL so repeated
// public reads do not hammer Postgres. Staleness is bounded by the TTL; there
// is no push invalidation.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *LeaderboardCache) GetBoard(ctx context.Context, limit int) (*leaderboard.Board, error) {
	key := fmt.Sprintf("leaderboard:top:%d", limit)

	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read leaderboard cache: %w", err)
	}

	var board leaderboard.Board
	if err := json.Unmarshal([]byte(val), &board); err != nil {
		return nil, fmt.Errorf("failed to decode cached leaderboard: %w", err)
	}

	return &board, nil
}

func (c *LeaderboardCache) SetBoard(ctx context.Context, limit int, board *leaderboard.Board) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to encode leaderboard: %w", err)
	}

	key := fmt.Sprintf("leaderboard:top:%d", limit)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write leaderboard cache: %w", err)
	}

	return nil
}
