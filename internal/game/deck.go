// internal/game/deck.go
package game

import (
	"math/rand"

	"github.com/jason-s-yu/unobot/internal/models"
)

// DeckSize is the number of cards in a full deck: every color paired with every value once.
var DeckSize = len(models.Colors) * len(models.Values)

// NewDeck returns all 48 (color, value) combinations in canonical order, unshuffled.
func NewDeck() models.Deck {
	deck := make(models.Deck, 0, DeckSize)
	for _, color := range models.Colors {
		for _, value := range models.Values {
			deck = append(deck, models.Card{Color: color, Value: value})
		}
	}
	return deck
}

// Shuffle returns a uniformly permuted copy of deck. The input is left untouched.
func Shuffle(deck models.Deck, rng *rand.Rand) models.Deck {
	shuffled := make(models.Deck, len(deck))
	copy(shuffled, deck)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// Draw removes the front card. ErrEmptyDeck means there is nothing to draw,
// not that something went wrong.
func Draw(deck models.Deck) (models.Card, models.Deck, error) {
	if len(deck) == 0 {
		return models.Card{}, deck, ErrEmptyDeck
	}
	return deck[0], deck[1:], nil
}
