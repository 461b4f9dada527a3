package cache

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/jason-s-yu/unobot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ game.ActionPublisher = (*RedisPublisher)(nil)

func TestDefaultQueue(t *testing.T) {
	p := NewRedisPublisher(nil, "")
	assert.Equal(t, DefaultQueueName, p.Queue())
	assert.Equal(t, "custom", NewRedisPublisher(nil, "custom").Queue())
}

// TestPublishActionRedis needs a running Redis at REDIS_ADDR.
func TestPublishActionRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	rdb, err := Connect(ctx, addr, 0)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	defer rdb.Close()

	queue := "unobot_test_" + uuid.NewString()
	defer rdb.Del(ctx, queue)
	p := NewRedisPublisher(rdb, queue)

	rec := game.ActionRecord{
		GameID:      uuid.New(),
		SessionKey:  "tg:1",
		ActionIndex: 3,
		Actor:       models.RoleHuman,
		ActionType:  "human_draw",
		Payload:     map[string]interface{}{"deckSize": float64(20)},
		Timestamp:   time.Now().UnixMilli(),
	}
	require.NoError(t, p.PublishAction(ctx, rec))

	raw, err := rdb.LPop(ctx, queue).Result()
	require.NoError(t, err)
	var got game.ActionRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &got))
	assert.Equal(t, rec, got)
}
