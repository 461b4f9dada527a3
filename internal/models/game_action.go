package models

// Action types accepted by the game controller from any transport.
const (
	ActionStart = "start"
	ActionPlay  = "play"
	ActionDraw  = "draw"
	ActionState = "state"
)

// GameAction captures a player's in-game move
type GameAction struct {
	ActionType string `json:"type"`
	Index      int    `json:"index,omitempty"`
}
