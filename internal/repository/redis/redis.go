package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/it-is-Aman/ram-enterprise/domain"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// TokenRepository keeps issued bearer tokens so that logout can revoke them
// before they expire.
type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func tokenKey(token string) string {
	return fmt.Sprintf("session:token:%s", token)
}

// userTokensKey indexes a user's live tokens for RevokeUser.
func userTokensKey(userID string) string {
	return fmt.Sprintf("session:user:%s", userID)
}

func (r *TokenRepository) StoreToken(ctx context.Context, token string, session domain.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, tokenKey(token), payload, ttl)
		pipe.SAdd(ctx, userTokensKey(session.UserID), token)
		pipe.Expire(ctx, userTokensKey(session.UserID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store token in redis: %w", err)
	}

	return nil
}

// ValidateToken returns the user id the token was issued to.
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	val, err := r.client.Get(ctx, tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errors.New("token not found or expired")
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return "", fmt.Errorf("failed to unmarshal token data: %w", err)
	}

	return session.UserID, nil
}

func (r *TokenRepository) DeleteToken(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// RevokeUser deletes every token issued to the user.
func (r *TokenRepository) RevokeUser(ctx context.Context, userID string) error {
	tokens, err := r.client.SMembers(ctx, userTokensKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to list user tokens: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, tokenKey(token))
	}
	keys = append(keys, userTokensKey(userID))

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// Cache stores JSON snapshots under a key prefix.
type Cache struct {
	client *redis.Client
	prefix string
}

func NewCache(client *redis.Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to read cache: %w", err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("failed to decode cache entry: %w", err)
	}

	return nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}

	return nil
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, key := range keys {
		full[i] = c.prefix + key
	}

	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entries: %w", err)
	}

	return nil
}
