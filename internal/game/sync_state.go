// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/unobot/internal/models"
)

// OpponentAction describes what the bot did in the turn that just ran.
type OpponentAction string

const (
	OpponentNone   OpponentAction = ""
	OpponentPlayed OpponentAction = "played"
	OpponentDrew   OpponentAction = "drew"
	OpponentPassed OpponentAction = "passed"
)

// RenderState is the read-only projection of a game that transports render.
// The opponent's cards are only ever exposed as a count.
type RenderState struct {
	GameID         uuid.UUID      `json:"game_id"`
	Hand           []models.Card  `json:"hand"`
	Playable       []bool         `json:"playable"`
	OpponentCards  int            `json:"opponent_cards"`
	DeckSize       int            `json:"deck_size"`
	Top            models.Card    `json:"top"`
	Status         string         `json:"status"`
	OpponentAction OpponentAction `json:"opponent_action,omitempty"`
	OpponentCard   *models.Card   `json:"opponent_card,omitempty"` // set when the bot played

	Rejected  bool  `json:"rejected"`
	Rejection error `json:"-"`

	Finished bool        `json:"finished"`
	Winner   models.Role `json:"winner,omitempty"`
}

// renderState builds the projection of st. Assumes the session lock is held.
func renderState(st *GameState, status string) RenderState {
	top := st.Top()
	hand := make([]models.Card, len(st.HumanHand))
	copy(hand, st.HumanHand)
	return RenderState{
		GameID:        st.ID,
		Hand:          hand,
		Playable:      PlayableMask(st.HumanHand, top),
		OpponentCards: len(st.OpponentHand),
		DeckSize:      len(st.Deck),
		Top:           top,
		Status:        status,
	}
}

// rejectedState reports a refused action against an unchanged game.
func rejectedState(st *GameState, reason error, status string) RenderState {
	rs := renderState(st, status)
	rs.Rejected = true
	rs.Rejection = reason
	return rs
}

// HumanWon reports whether the game ended with the human emptying their hand.
func (rs RenderState) HumanWon() bool {
	return rs.Finished && rs.Winner == models.RoleHuman
}
