// internal/historian/historian_test.go
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/unobot/internal/cache"
	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/jason-s-yu/unobot/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSink struct {
	mu        sync.Mutex
	batches   [][]game.ActionRecord
	abandoned []uuid.UUID
	fail      bool
}

func (f *fakeSink) InsertActions(_ context.Context, batch []game.ActionRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("db down")
	}
	f.batches = append(f.batches, append([]game.ActionRecord(nil), batch...))
	return nil
}

func (f *fakeSink) MarkAbandoned(_ context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.abandoned = append(f.abandoned, id)
	return true, nil
}

func (f *fakeSink) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.batches {
		n += len(b)
	}
	return n
}

func newTestService(sink Sink, batchSize int) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return New(nil, sink, Options{Queue: "q", BatchSize: batchSize, Inactivity: time.Minute}, logger)
}

func payload(t *testing.T, id uuid.UUID, idx int, typ string) string {
	t.Helper()
	data, err := json.Marshal(game.ActionRecord{GameID: id, SessionKey: "k", ActionIndex: idx, Actor: models.RoleHuman, ActionType: typ})
	require.NoError(t, err)
	return string(data)
}

func TestBatchFlushesWhenFull(t *testing.T) {
	sink := &fakeSink{}
	s := newTestService(sink, 3)
	ctx := context.Background()
	id := uuid.New()

	s.handlePayload(ctx, payload(t, id, 1, "game_start"))
	s.handlePayload(ctx, payload(t, id, 2, "human_draw"))
	assert.Equal(t, 0, sink.total())

	s.handlePayload(ctx, payload(t, id, 3, "opponent_draw"))
	require.Len(t, sink.batches, 1)
	assert.Len(t, sink.batches[0], 3)
	assert.Equal(t, 3, sink.batches[0][2].ActionIndex)
}

func TestInvalidPayloadIgnored(t *testing.T) {
	sink := &fakeSink{}
	s := newTestService(sink, 1)
	s.handlePayload(context.Background(), "{nope")
	assert.Equal(t, 0, sink.total())
}

func TestFailedFlushKeepsRecords(t *testing.T) {
	sink := &fakeSink{fail: true}
	s := newTestService(sink, 10)
	ctx := context.Background()
	id := uuid.New()
	s.handlePayload(ctx, payload(t, id, 1, "game_start"))
	s.flush(ctx)
	assert.Equal(t, 0, sink.total())

	sink.fail = false
	s.handlePayload(ctx, payload(t, id, 2, "human_draw"))
	s.flush(ctx)
	require.Len(t, sink.batches, 1)
	assert.Equal(t, 1, sink.batches[0][0].ActionIndex, "retried records keep their order")
	assert.Equal(t, 2, sink.total())
}

func TestFailedFlushCapsPendingRecords(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	sink := &fakeSink{fail: true}
	s := New(nil, sink, Options{Queue: "q", BatchSize: 2, MaxPending: 4}, logger)
	ctx := context.Background()
	id := uuid.New()

	for i := 1; i <= 10; i++ {
		s.handlePayload(ctx, payload(t, id, i, "human_draw"))
	}
	s.batchMu.Lock()
	assert.Len(t, s.batch, 4)
	s.batchMu.Unlock()

	sink.fail = false
	s.flush(ctx)
	require.Len(t, sink.batches, 1)
	var kept []int
	for _, rec := range sink.batches[0] {
		kept = append(kept, rec.ActionIndex)
	}
	assert.Equal(t, []int{7, 8, 9, 10}, kept, "oldest records are dropped first")
}

func TestSweepInactive(t *testing.T) {
	sink := &fakeSink{}
	s := newTestService(sink, 10)
	ctx := context.Background()
	now := time.Now()
	s.now = func() time.Time { return now }

	stale, done, fresh := uuid.New(), uuid.New(), uuid.New()
	s.handlePayload(ctx, payload(t, stale, 1, "game_start"))
	s.handlePayload(ctx, payload(t, done, 1, "game_start"))
	s.handlePayload(ctx, payload(t, done, 2, "game_end"))

	now = now.Add(2 * time.Minute)
	s.handlePayload(ctx, payload(t, fresh, 1, "game_start"))

	assert.Equal(t, 1, s.sweepInactive(ctx))
	assert.Equal(t, []uuid.UUID{stale}, sink.abandoned)
	assert.Equal(t, 4, sink.total(), "pending records are flushed before marking")

	assert.Equal(t, 0, s.sweepInactive(ctx))
}

// TestRunWithRedis needs a running Redis at REDIS_ADDR.
func TestRunWithRedis(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb, err := cache.Connect(context.Background(), addr, 0)
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	defer rdb.Close()

	queue := "unobot_test_" + uuid.NewString()
	sink := &fakeSink{}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	s := New(rdb, sink, Options{Queue: queue, BatchSize: 2, FlushDelay: 20 * time.Millisecond}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	pub := cache.NewRedisPublisher(rdb, queue)
	id := uuid.New()
	for i := 1; i <= 3; i++ {
		require.NoError(t, pub.PublishAction(ctx, game.ActionRecord{GameID: id, ActionIndex: i, ActionType: "human_draw"}))
	}
	assert.Eventually(t, func() bool { return sink.total() == 3 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	<-done
	assert.Equal(t, int64(0), rdb.LLen(context.Background(), queue).Val())
}
