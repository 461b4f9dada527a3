// internal/game/utils.go
package game

import "github.com/jason-s-yu/unobot/internal/models"

// removeAt returns hand without the card at i. The result never shares its
// backing array with hand.
func removeAt(hand models.Hand, i int) models.Hand {
	out := make(models.Hand, 0, len(hand)-1)
	out = append(out, hand[:i]...)
	return append(out, hand[i+1:]...)
}
