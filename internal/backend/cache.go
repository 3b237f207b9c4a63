package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ms-ticketing-gateway/internal/logger"
	"ms-ticketing-gateway/internal/models"
)

const eventCacheKeyPrefix = "event_tree:"

// EventCache is a short-TTL Redis cache of fetched event trees. It only
// smooths repeated reads; a check-in invalidates the key so reconciliation
// always sees fresh state. Cache errors degrade to a miss, never to a
// request failure.
type EventCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

func NewEventCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *EventCache {
	return &EventCache{client: client, ttl: ttl, logger: log}
}

// InitializeRedis connects a Redis client and verifies it with a ping.
func InitializeRedis(addr string, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		PoolSize: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error("REDIS", fmt.Sprintf("Failed to connect to Redis at %s: %v", addr, err))
		return nil, err
	}

	log.Info("REDIS", fmt.Sprintf("Connected to Redis at %s", addr))
	return client, nil
}

func (c *EventCache) Get(ctx context.Context, identity string) (*models.Event, bool) {
	payload, err := c.client.Get(ctx, eventCacheKeyPrefix+identity).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("CACHE", fmt.Sprintf("Event cache read for %s: %v", identity, err))
		return nil, false
	}

	var event models.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		c.logger.Warn("CACHE", fmt.Sprintf("Corrupt cached event %s, dropping: %v", identity, err))
		c.Invalidate(ctx, identity)
		return nil, false
	}
	return &event, true
}

func (c *EventCache) Set(ctx context.Context, event *models.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		c.logger.Warn("CACHE", fmt.Sprintf("Failed to encode event %s: %v", event.Identity, err))
		return
	}
	if err := c.client.Set(ctx, eventCacheKeyPrefix+event.Identity, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("CACHE", fmt.Sprintf("Event cache write for %s: %v", event.Identity, err))
	}
}

func (c *EventCache) Invalidate(ctx context.Context, identity string) {
	if err := c.client.Del(ctx, eventCacheKeyPrefix+identity).Err(); err != nil {
		c.logger.Warn("CACHE", fmt.Sprintf("Event cache invalidate for %s: %v", identity, err))
	}
}
