package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache tracks signed-out session tokens until they would have expired
type TokenCache interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type tokenCache struct {
	client redis.Cmdable
}

func NewTokenCache(client redis.Cmdable) TokenCache {
	return &tokenCache{client: client}
}

func revokedKey(tokenID string) string {
	return "token:revoked:" + tokenID
}

func (c *tokenCache) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err()
}

func (c *tokenCache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
