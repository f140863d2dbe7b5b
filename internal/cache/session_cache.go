package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"singularshift/internal/model"
)

// SessionCache holds live session snapshots and the cross-instance processing lock
type SessionCache interface {
	Set(ctx context.Context, status *model.SessionStatus) error
	Get(ctx context.Context, id string) (*model.SessionStatus, error)
	Delete(ctx context.Context, id string) error

	// AcquireProcessing returns true for the first caller only, per session
	AcquireProcessing(ctx context.Context, id string) (bool, error)
}

type sessionCache struct {
	client  redis.Cmdable
	ttl     time.Duration
	lockTTL time.Duration
}

func NewSessionCache(client redis.Cmdable) SessionCache {
	return &sessionCache{
		client:  client,
		ttl:     2 * time.Hour,
		lockTTL: 24 * time.Hour,
	}
}

func statusKey(id string) string {
	return fmt.Sprintf("session:%s:status", id)
}

func processingKey(id string) string {
	return fmt.Sprintf("session:%s:processing", id)
}

func (c *sessionCache) Set(ctx context.Context, status *model.SessionStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statusKey(status.ID), data, c.ttl).Err()
}

func (c *sessionCache) Get(ctx context.Context, id string) (*model.SessionStatus, error) {
	data, err := c.client.Get(ctx, statusKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var status model.SessionStatus
	if err := json.Unmarshal([]byte(data), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *sessionCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, statusKey(id)).Err()
}

func (c *sessionCache) AcquireProcessing(ctx context.Context, id string) (bool, error) {
	return c.client.SetNX(ctx, processingKey(id), time.Now().UTC().Format(time.RFC3339), c.lockTTL).Result()
}
