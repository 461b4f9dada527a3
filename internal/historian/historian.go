// internal/historian/historian.go is the asynchronous historian that pops action records
// from a Redis queue and persists them in batches.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Sink persists action batches.
type Sink interface {
	InsertActions(ctx context.Context, batch []game.ActionRecord) error
	MarkAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error)
}

// Options tune batching and inactivity handling.
type Options struct {
	Queue      string
	BatchSize  int
	FlushDelay time.Duration
	Inactivity time.Duration // a game without actions for this long is marked abandoned

	// MaxPending caps the records kept for retry while the sink is failing.
	// The oldest records are dropped beyond it.
	MaxPending int
}

// Service moves records from the queue into the sink.
type Service struct {
	rdb  redis.Cmdable
	sink Sink
	opts Options
	log  *logrus.Entry

	lastActivity sync.Map // map[uuid.UUID]time.Time
	now          func() time.Time

	batchMu sync.Mutex
	batch   []game.ActionRecord
}

func New(rdb redis.Cmdable, sink Sink, opts Options, logger *logrus.Logger) *Service {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.FlushDelay <= 0 {
		opts.FlushDelay = 500 * time.Millisecond
	}
	if opts.Inactivity <= 0 {
		opts.Inactivity = 10 * time.Minute
	}
	if opts.MaxPending < opts.BatchSize {
		opts.MaxPending = opts.BatchSize * 50
	}
	return &Service{
		rdb:   rdb,
		sink:  sink,
		opts:  opts,
		log:   logger.WithField("component", "historian"),
		now:   time.Now,
		batch: make([]game.ActionRecord, 0, opts.BatchSize),
	}
}

// Run reads the queue until ctx is done, then flushes what is left.
func (s *Service) Run(ctx context.Context) {
	s.log.WithField("queue", s.opts.Queue).Info("Historian started.")
	go s.flushLoop(ctx)
	go s.inactivityLoop(ctx)

	for ctx.Err() == nil {
		// BLPop with a timeout so that context cancellation is handled
		res, err := s.rdb.BLPop(ctx, 3*time.Second, s.opts.Queue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				s.log.WithError(err).Error("BLPop failed.")
				time.Sleep(time.Second)
			}
			continue
		}
		// res[0] is the queue name and res[1] the payload
		if len(res) < 2 {
			continue
		}
		s.handlePayload(ctx, res[1])
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.flush(flushCtx)
	s.log.Info("Historian stopped.")
}

// handlePayload decodes one queued record and batches it.
func (s *Service) handlePayload(ctx context.Context, payload string) {
	var rec game.ActionRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		s.log.WithError(err).Warn("Invalid action record.")
		return
	}
	if rec.ActionType == "game_end" {
		s.lastActivity.Delete(rec.GameID)
	} else {
		s.lastActivity.Store(rec.GameID, s.now())
	}

	s.batchMu.Lock()
	s.batch = append(s.batch, rec)
	full := len(s.batch) >= s.opts.BatchSize
	s.batchMu.Unlock()

	if full {
		s.flush(ctx)
	}
}

func (s *Service) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.FlushDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

// flush writes the pending batch in one transaction. A failed batch is put back in
// front of the queue for the next attempt, up to MaxPending records.
func (s *Service) flush(ctx context.Context) {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	pending := s.batch
	s.batch = make([]game.ActionRecord, 0, s.opts.BatchSize)
	s.batchMu.Unlock()

	if err := s.sink.InsertActions(ctx, pending); err != nil {
		s.log.WithError(err).Errorf("Failed to flush %d action(s).", len(pending))
		s.batchMu.Lock()
		s.batch = append(pending, s.batch...)
		if over := len(s.batch) - s.opts.MaxPending; over > 0 {
			s.log.Errorf("Dropping %d action(s), sink unavailable.", over)
			s.batch = append([]game.ActionRecord(nil), s.batch[over:]...)
		}
		s.batchMu.Unlock()
		return
	}
	s.log.Debugf("Flushed %d action(s).", len(pending))
}

func (s *Service) inactivityLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepInactive(ctx)
		}
	}
}

// sweepInactive marks games without recent actions as abandoned. Pending records are
// flushed first so the game rows exist.
func (s *Service) sweepInactive(ctx context.Context) int {
	now := s.now()
	var stale []uuid.UUID
	s.lastActivity.Range(func(key, val interface{}) bool {
		gameID, ok1 := key.(uuid.UUID)
		last, ok2 := val.(time.Time)
		if ok1 && ok2 && now.Sub(last) > s.opts.Inactivity {
			stale = append(stale, gameID)
		}
		return true
	})
	if len(stale) == 0 {
		return 0
	}

	s.flush(ctx)
	marked := 0
	for _, id := range stale {
		changed, err := s.sink.MarkAbandoned(ctx, id)
		if err != nil {
			s.log.WithError(err).WithField("game_id", id).Warn("Failed to mark game abandoned.")
			continue
		}
		s.lastActivity.Delete(id)
		if changed {
			marked++
			s.log.WithField("game_id", id).Info("Marked game as abandoned due to inactivity.")
		}
	}
	return marked
}
