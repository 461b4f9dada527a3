// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list (queue) name for game action logs.
const DefaultQueueName = "unobot_actions"

// Connect opens a Redis client and pings it.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// RedisPublisher pushes action records onto a Redis list for the historian.
type RedisPublisher struct {
	rdb   redis.Cmdable
	queue string
}

// NewRedisPublisher builds a publisher for queue, falling back to DefaultQueueName.
func NewRedisPublisher(rdb redis.Cmdable, queue string) *RedisPublisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &RedisPublisher{rdb: rdb, queue: queue}
}

// Queue returns the list name records are pushed to.
func (p *RedisPublisher) Queue() string {
	return p.queue
}

// PublishAction serializes the given record to JSON, then pushes it to the Redis queue.
func (p *RedisPublisher) PublishAction(ctx context.Context, record game.ActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal ActionRecord: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", p.queue, err)
	}
	return nil
}
