// internal/models/card.go
package models

import "fmt"

// Color is one of the four card colors.
type Color int

const (
	Red Color = iota
	Yellow
	Green
	Blue
)

// Colors lists every color in canonical deck order.
var Colors = []Color{Red, Yellow, Green, Blue}

var colorNames = [...]string{"red", "yellow", "green", "blue"}

// colorSymbols are what the chat and web clients render in front of a value.
var colorSymbols = [...]string{"🔴", "🟡", "🟢", "🔵"}

func (c Color) String() string {
	if c < Red || c > Blue {
		return fmt.Sprintf("invalid_color(%d)", int(c))
	}
	return colorNames[c]
}

// Symbol returns the emoji used for this color.
func (c Color) Symbol() string {
	if c < Red || c > Blue {
		return "?"
	}
	return colorSymbols[c]
}

// MarshalText lets colors travel as their lowercase names in JSON.
func (c Color) MarshalText() ([]byte, error) {
	if c < Red || c > Blue {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(colorNames[c]), nil
}

// UnmarshalText parses a lowercase color name.
func (c *Color) UnmarshalText(b []byte) error {
	for i, name := range colorNames {
		if name == string(b) {
			*c = Color(i)
			return nil
		}
	}
	return fmt.Errorf("unknown color %q", string(b))
}

// Values lists every card face in canonical deck order.
var Values = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "Skip", "Draw2"}

// Card is an immutable (color, value) pair. Two cards are equal iff both fields match.
type Card struct {
	Color Color  `json:"color"`
	Value string `json:"value"`
}

// String renders the card the way the bot shows it, e.g. "🔵7".
func (c Card) String() string {
	return c.Color.Symbol() + c.Value
}

// Hand is the ordered set of cards owned by one player.
type Hand []Card

// Deck is the draw pile. Cards leave from the front.
type Deck []Card

// DiscardPile grows by one per play; only the last card matters for legality.
type DiscardPile []Card

// Top returns the last card of the pile.
func (p DiscardPile) Top() (Card, bool) {
	if len(p) == 0 {
		return Card{}, false
	}
	return p[len(p)-1], true
}
