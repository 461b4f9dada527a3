package game

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/unobot/internal/models"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// setupTestController returns a controller over a fresh store with seeded games.
func setupTestController(t *testing.T) *Controller {
	t.Helper()
	c := NewController(NewSessionStore(), newTestLogger())
	c.NewRand = Seeded(1234)
	return c
}

// buildState lays out a consistent game: the given hands and discard pile, with every
// other card of the deck left in the draw pile in canonical order.
func buildState(t *testing.T, human, opponent models.Hand, discard models.DiscardPile) GameState {
	t.Helper()
	used := make(map[models.Card]bool)
	for _, group := range [][]models.Card{human, opponent, discard} {
		for _, c := range group {
			if used[c] {
				t.Fatalf("card %s used twice", c)
			}
			used[c] = true
		}
	}
	var deck models.Deck
	for _, c := range NewDeck() {
		if !used[c] {
			deck = append(deck, c)
		}
	}
	return GameState{
		ID:           uuid.New(),
		Deck:         deck,
		HumanHand:    append(models.Hand(nil), human...),
		OpponentHand: append(models.Hand(nil), opponent...),
		Discard:      append(models.DiscardPile(nil), discard...),
	}
}

func card(color models.Color, value string) models.Card {
	return models.Card{Color: color, Value: value}
}

type fakePublisher struct {
	mu      sync.Mutex
	records []ActionRecord
}

func (p *fakePublisher) PublishAction(_ context.Context, rec ActionRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, rec)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.records))
	for _, r := range p.records {
		out = append(out, r.ActionType)
	}
	return out
}

func (p *fakePublisher) snapshot() []ActionRecord {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ActionRecord(nil), p.records...)
}

type fakeRecorder struct {
	mu      sync.Mutex
	results []GameResult
}

func (r *fakeRecorder) RecordResult(_ context.Context, res GameResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, res)
	return nil
}

func (r *fakeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

func (r *fakeRecorder) last() GameResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[len(r.results)-1]
}
