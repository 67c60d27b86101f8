// Package cache keeps the public event listing in Redis so the busiest
// read path skips the database. The cache degrades to a no-op when no
// Redis address is configured.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campushub/internal/model"

	"github.com/redis/go-redis/v9"
)

const publicEventsKey = "events:public"

var ErrCacheMiss = errors.New("cache miss")

type EventCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewEventCache returns a cache backed by Redis, or a disabled cache
// when addr is empty.
func NewEventCache(addr string, db int, ttl time.Duration) *EventCache {
	if addr == "" {
		return &EventCache{}
	}
	return &EventCache{
		client: redis.NewClient(&redis.Options{Addr: addr, DB: db}),
		ttl:    ttl,
	}
}

func (c *EventCache) Enabled() bool {
	return c != nil && c.client != nil
}

func (c *EventCache) GetPublicEvents(ctx context.Context) ([]model.Event, error) {
	if !c.Enabled() {
		return nil, ErrCacheMiss
	}
	payload, err := c.client.Get(ctx, publicEventsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache: failed to get events: %w", err)
	}
	var events []model.Event
	if err := json.Unmarshal(payload, &events); err != nil {
		return nil, fmt.Errorf("cache: failed to decode events: %w", err)
	}
	return events, nil
}

func (c *EventCache) SetPublicEvents(ctx context.Context, events []model.Event) error {
	if !c.Enabled() {
		return nil
	}
	payload, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("cache: failed to encode events: %w", err)
	}
	if err := c.client.Set(ctx, publicEventsKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: failed to set events: %w", err)
	}
	return nil
}

// Invalidate drops the cached listing. Called after every event mutation.
func (c *EventCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}
	if err := c.client.Del(ctx, publicEventsKey).Err(); err != nil {
		return fmt.Errorf("cache: failed to invalidate events: %w", err)
	}
	return nil
}

func (c *EventCache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
