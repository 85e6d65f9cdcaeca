package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

// StoreToken records an active session. A forward key holds the token per
// user and a reverse lookup key maps token -> user_id for fast validation.
func (r *TokenRepository) StoreToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	userKey := fmt.Sprintf("session:user:%s", userID)
	if err := r.client.Set(ctx, userKey, token, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}

	lookupKey := fmt.Sprintf("session:lookup:%s", token)
	if err := r.client.Set(ctx, lookupKey, userID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session lookup: %w", err)
	}

	return nil
}

// ValidateToken resolves a token to its user ID, failing for unknown or
// expired sessions.
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	lookupKey := fmt.Sprintf("session:lookup:%s", token)

	userID, err := r.client.Get(ctx, lookupKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errors.New("session not found or expired")
		}
		return "", fmt.Errorf("failed to validate session: %w", err)
	}

	return userID, nil
}

// DeleteToken removes both session keys on logout.
func (r *TokenRepository) DeleteToken(ctx context.Context, userID, token string) error {
	userKey := fmt.Sprintf("session:user:%s", userID)
	lookupKey := fmt.Sprintf("session:lookup:%s", token)

	if err := r.client.Del(ctx, userKey, lookupKey).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
