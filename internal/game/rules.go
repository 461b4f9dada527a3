// internal/game/rules.go
package game

import "github.com/jason-s-yu/unobot/internal/models"

// CanPlay reports whether card may follow top: same color or same value.
// There are no wild cards and no stacking.
func CanPlay(card, top models.Card) bool {
	return card.Color == top.Color || card.Value == top.Value
}

// HasWon reports whether a hand has been emptied.
func HasWon(hand models.Hand) bool {
	return len(hand) == 0
}

// PlayableMask marks which cards of hand may be played on top.
func PlayableMask(hand models.Hand, top models.Card) []bool {
	mask := make([]bool, len(hand))
	for i, c := range hand {
		mask[i] = CanPlay(c, top)
	}
	return mask
}
