// internal/game/game.go
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/unobot/internal/models"
)

// HandSize is how many cards each player is dealt at the start.
const HandSize = 7

// RandFactory creates the generator owned by one game. Each game gets its own
// *rand.Rand since the type is not safe for concurrent use.
type RandFactory func() *rand.Rand

// TimeSeeded returns a factory whose games draw their seeds from one generator
// seeded from the wall clock, so games started at the same instant still differ.
func TimeSeeded() RandFactory {
	var mu sync.Mutex
	master := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func() *rand.Rand {
		mu.Lock()
		seed := master.Int63()
		mu.Unlock()
		return rand.New(rand.NewSource(seed))
	}
}

// Seeded returns a factory that hands every game the same seed, for reproducible games.
func Seeded(seed int64) RandFactory {
	return func() *rand.Rand {
		return rand.New(rand.NewSource(seed))
	}
}

// GameState holds the entire state of one human-vs-bot game in memory.
// The human always moves first in a request; the opponent's turn runs within the same request.
type GameState struct {
	ID           uuid.UUID
	SessionKey   string
	Deck         models.Deck
	HumanHand    models.Hand
	OpponentHand models.Hand
	Discard      models.DiscardPile

	// Turns counts accepted human actions.
	Turns     int
	StartedAt time.Time
	UpdatedAt time.Time

	actionIndex int // increments for each published action
	rng         *rand.Rand
}

// newGameState shuffles a fresh deck, deals the human's 7 then the opponent's 7,
// and flips one card onto the discard pile.
func newGameState(key string, rng *rand.Rand, now time.Time) *GameState {
	id, _ := uuid.NewRandom()
	st := &GameState{
		ID:           id,
		SessionKey:   key,
		Deck:         Shuffle(NewDeck(), rng),
		HumanHand:    make(models.Hand, 0, HandSize),
		OpponentHand: make(models.Hand, 0, HandSize),
		Discard:      make(models.DiscardPile, 0, DeckSize),
		StartedAt:    now,
		UpdatedAt:    now,
		rng:          rng,
	}

	var card models.Card
	for i := 0; i < HandSize; i++ {
		card, st.Deck, _ = Draw(st.Deck)
		st.HumanHand = append(st.HumanHand, card)
	}
	for i := 0; i < HandSize; i++ {
		card, st.Deck, _ = Draw(st.Deck)
		st.OpponentHand = append(st.OpponentHand, card)
	}
	card, st.Deck, _ = Draw(st.Deck)
	st.Discard = append(st.Discard, card)
	return st
}

// Top returns the active card of the discard pile.
func (st *GameState) Top() models.Card {
	top, _ := st.Discard.Top()
	return top
}

// CardCount is the number of cards across deck, both hands and the discard pile.
func (st *GameState) CardCount() int {
	return len(st.Deck) + len(st.HumanHand) + len(st.OpponentHand) + len(st.Discard)
}

// checkConservation verifies no card was created or lost.
func (st *GameState) checkConservation() error {
	if n := st.CardCount(); n != DeckSize {
		return fmt.Errorf("game %s holds %d cards, want %d", st.ID, n, DeckSize)
	}
	if len(st.Discard) == 0 {
		return fmt.Errorf("game %s has an empty discard pile", st.ID)
	}
	return nil
}

// Clone returns a deep copy that shares no slices with st.
func (st *GameState) Clone() GameState {
	cp := *st
	cp.Deck = append(models.Deck(nil), st.Deck...)
	cp.HumanHand = append(models.Hand(nil), st.HumanHand...)
	cp.OpponentHand = append(models.Hand(nil), st.OpponentHand...)
	cp.Discard = append(models.DiscardPile(nil), st.Discard...)
	return cp
}

// ActionRecord is one entry of a game's action log, shipped to the historian.
type ActionRecord struct {
	GameID      uuid.UUID              `json:"game_id"`
	SessionKey  string                 `json:"session_key"`
	ActionIndex int                    `json:"action_index"`
	Actor       models.Role            `json:"actor"`
	ActionType  string                 `json:"action_type"`
	Payload     map[string]interface{} `json:"action_payload"`
	Timestamp   int64                  `json:"timestamp"`
}

// GameResult summarizes a finished game.
type GameResult struct {
	GameID     uuid.UUID   `json:"game_id"`
	SessionKey string      `json:"session_key"`
	Winner     models.Role `json:"winner"`
	Turns      int         `json:"turns"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
}

// ActionPublisher ships action records out of process, e.g. onto a Redis queue.
type ActionPublisher interface {
	PublishAction(ctx context.Context, record ActionRecord) error
}

// ResultRecorder persists finished games.
type ResultRecorder interface {
	RecordResult(ctx context.Context, result GameResult) error
}

// ResultStore is a ResultRecorder that can also report per-session totals.
type ResultStore interface {
	ResultRecorder
	Stats(ctx context.Context, sessionKey string) (models.PlayerStats, error)
}

// OnGameEndFunc is invoked after a game finishes and its session is cleared.
type OnGameEndFunc func(result GameResult)
