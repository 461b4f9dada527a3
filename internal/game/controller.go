// internal/game/controller.go
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/jason-s-yu/unobot/internal/models"
	"github.com/sirupsen/logrus"
)

// Controller runs the full turn cycle of a request: human move, legality check,
// opponent move, win checks. It never keeps a GameState beyond one call.
type Controller struct {
	Store  *SessionStore
	Policy Policy

	// NewRand creates the generator of each new game.
	NewRand RandFactory

	// Publisher receives every accepted action. Nil disables the action log.
	Publisher ActionPublisher

	// Recorder persists finished games. Nil disables result recording.
	Recorder ResultRecorder

	// SessionLabel maps a session key to what leaves the process in action
	// records and results. Nil keeps the key as is.
	SessionLabel func(key string) string

	// OnGameEnd is invoked once a game is over, after its session is cleared and
	// unlocked. It may act on the same key.
	OnGameEnd OnGameEndFunc

	log *logrus.Logger
	now func() time.Time
}

// NewController builds a controller with the first-match opponent and time-seeded games.
func NewController(store *SessionStore, logger *logrus.Logger) *Controller {
	return &Controller{
		Store:   store,
		Policy:  FirstMatch{},
		NewRand: TimeSeeded(),
		log:     logger,
		now:     time.Now,
	}
}

// StartGame deals a new game for key. A game already in progress is abandoned.
func (c *Controller) StartGame(key string) RenderState {
	sess := c.Store.acquire(key)
	defer sess.mu.Unlock()

	if sess.state != nil {
		c.log.WithFields(logrus.Fields{"session": key, "game_id": sess.state.ID}).
			Info("Abandoning game in progress for a new one.")
	}
	st := c.Store.startLocked(key, sess, c.NewRand())
	c.verify(st)

	c.gameLogger(st).Infof("Game started, top card %s.", st.Top())
	c.logAction(st, models.RoleNone, "game_start", map[string]interface{}{
		"top":      st.Top(),
		"deckSize": len(st.Deck),
	})
	return renderState(st, fmt.Sprintf("🃏 New game! Top card is %s. Match its color or value.", st.Top()))
}

// PlayCard plays the human card at index. An out-of-range index or a card that does
// not match the top card is rejected without touching the game.
func (c *Controller) PlayCard(key string, index int) (RenderState, error) {
	var (
		rs    RenderState
		ended *GameResult
	)
	err := c.Store.withGame(key, func(sess *session) error {
		st := sess.state
		if index < 0 || index >= len(st.HumanHand) {
			rs = rejectedState(st, ErrInvalidIndex, fmt.Sprintf("❌ There is no card #%d in your hand.", index+1))
			return nil
		}
		card := st.HumanHand[index]
		if !CanPlay(card, st.Top()) {
			rs = rejectedState(st, ErrIllegalMove, "❌ That card doesn't match!")
			return nil
		}

		st.HumanHand = removeAt(st.HumanHand, index)
		st.Discard = append(st.Discard, card)
		st.Turns++
		c.verify(st)
		c.logAction(st, models.RoleHuman, "human_play", map[string]interface{}{"card": card, "index": index})

		status := fmt.Sprintf("You played %s.", card)
		if HasWon(st.HumanHand) {
			rs, ended = c.finish(key, sess, models.RoleHuman, status+" 🎉 You win!")
			return nil
		}
		rs, ended = c.opponentTurn(key, sess, status)
		return nil
	})
	c.gameEnded(ended)
	return rs, err
}

// DrawCard moves one card from the deck into the human hand and lets the opponent move.
// Drawing from an empty deck is rejected and the turn does not advance.
func (c *Controller) DrawCard(key string) (RenderState, error) {
	var (
		rs    RenderState
		ended *GameResult
	)
	err := c.Store.withGame(key, func(sess *session) error {
		st := sess.state
		card, deck, err := Draw(st.Deck)
		if err != nil {
			rs = rejectedState(st, ErrEmptyDeck, "🚫 The deck is empty, you have to play a card.")
			return nil
		}

		st.Deck = deck
		st.HumanHand = append(st.HumanHand, card)
		st.Turns++
		c.verify(st)
		c.logAction(st, models.RoleHuman, "human_draw", map[string]interface{}{"card": card, "deckSize": len(st.Deck)})

		rs, ended = c.opponentTurn(key, sess, fmt.Sprintf("You drew %s.", card))
		return nil
	})
	c.gameEnded(ended)
	return rs, err
}

// GetState returns the current projection for key, or ErrNoActiveGame.
func (c *Controller) GetState(key string) (RenderState, error) {
	var rs RenderState
	err := c.Store.withGame(key, func(sess *session) error {
		rs = renderState(sess.state, "Your turn.")
		return nil
	})
	return rs, err
}

// Apply routes a transport-level action to the matching operation.
func (c *Controller) Apply(key string, action models.GameAction) (RenderState, error) {
	switch action.ActionType {
	case models.ActionStart:
		return c.StartGame(key), nil
	case models.ActionPlay:
		return c.PlayCard(key, action.Index)
	case models.ActionDraw:
		return c.DrawCard(key)
	case models.ActionState:
		return c.GetState(key)
	default:
		return RenderState{}, fmt.Errorf("unknown action type %q", action.ActionType)
	}
}

// opponentTurn plays the policy's card, or draws one, or passes when the deck is empty.
// Assumes the session lock is held and the human has not won. The result is
// non-nil when the opponent won.
func (c *Controller) opponentTurn(key string, sess *session, humanStatus string) (RenderState, *GameResult) {
	st := sess.state
	if st.rng == nil {
		st.rng = c.NewRand()
	}
	top := st.Top()
	idx := c.Policy.Choose(st.OpponentHand, top, st.rng)

	var (
		action OpponentAction
		status string
		played *models.Card
	)
	switch {
	case idx >= 0:
		if idx >= len(st.OpponentHand) || !CanPlay(st.OpponentHand[idx], top) {
			c.gameLogger(st).Panicf("opponent policy chose unplayable index %d against %s", idx, top)
		}
		card := st.OpponentHand[idx]
		st.OpponentHand = removeAt(st.OpponentHand, idx)
		st.Discard = append(st.Discard, card)
		action, played = OpponentPlayed, &card
		status = fmt.Sprintf("Bot played %s!", card)
		c.logAction(st, models.RoleOpponent, "opponent_play", map[string]interface{}{"card": card})
	case len(st.Deck) > 0:
		card, deck, _ := Draw(st.Deck)
		st.Deck = deck
		st.OpponentHand = append(st.OpponentHand, card)
		action = OpponentDrew
		status = "Bot drew a card."
		c.logAction(st, models.RoleOpponent, "opponent_draw", map[string]interface{}{"deckSize": len(st.Deck)})
	default:
		action = OpponentPassed
		status = "Bot passed, the deck is empty."
		c.logAction(st, models.RoleOpponent, "opponent_pass", nil)
	}
	c.verify(st)

	status = humanStatus + " " + status
	var (
		rs    RenderState
		ended *GameResult
	)
	if HasWon(st.OpponentHand) {
		rs, ended = c.finish(key, sess, models.RoleOpponent, status+" 😈 Bot wins!")
	} else {
		now := c.now()
		st.UpdatedAt = now
		sess.lastActive = now
		rs = renderState(st, status)
	}
	rs.OpponentAction = action
	rs.OpponentCard = played
	return rs, ended
}

// finish renders the terminal state, clears the session and hands the result to the
// recorder. Assumes the session lock is held.
func (c *Controller) finish(key string, sess *session, winner models.Role, status string) (RenderState, *GameResult) {
	st := sess.state
	now := c.now()
	st.UpdatedAt = now

	rs := renderState(st, status)
	rs.Finished = true
	rs.Winner = winner

	result := GameResult{
		GameID:     st.ID,
		SessionKey: c.label(key),
		Winner:     winner,
		Turns:      st.Turns,
		StartedAt:  st.StartedAt,
		FinishedAt: now,
	}
	c.logAction(st, models.RoleNone, "game_end", map[string]interface{}{"winner": winner, "turns": st.Turns})
	c.gameLogger(st).Infof("Game over after %d turn(s), winner: %s.", st.Turns, winner)

	c.Store.unlink(key, sess)

	if c.Recorder != nil {
		go func(res GameResult) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := c.Recorder.RecordResult(ctx, res); err != nil {
				c.log.WithError(err).WithField("game_id", res.GameID).Warn("Failed to record game result.")
			}
		}(result)
	}
	return rs, &result
}

// gameEnded runs the end-of-game callback. Must be called without the session lock.
func (c *Controller) gameEnded(result *GameResult) {
	if result != nil && c.OnGameEnd != nil {
		c.OnGameEnd(*result)
	}
}

// verify fails loudly when a mutation created or lost cards.
func (c *Controller) verify(st *GameState) {
	if err := st.checkConservation(); err != nil {
		c.gameLogger(st).WithError(err).Panic("card conservation violated")
	}
}

// logAction sends the action to the publisher asynchronously.
// Assumes the session lock is held.
func (c *Controller) logAction(st *GameState, actor models.Role, actionType string, payload map[string]interface{}) {
	st.actionIndex++
	if c.Publisher == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := ActionRecord{
		GameID:      st.ID,
		SessionKey:  c.label(st.SessionKey),
		ActionIndex: st.actionIndex,
		Actor:       actor,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   c.now().UnixMilli(),
	}
	go func(rec ActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.Publisher.PublishAction(ctx, rec); err != nil {
			c.log.WithError(err).Warnf("Failed to publish action %d for game %s.", rec.ActionIndex, rec.GameID)
		}
	}(record)
}

func (c *Controller) label(key string) string {
	if c.SessionLabel == nil {
		return key
	}
	return c.SessionLabel(key)
}

func (c *Controller) gameLogger(st *GameState) *logrus.Entry {
	return c.log.WithFields(logrus.Fields{"game_id": st.ID, "session": st.SessionKey})
}
