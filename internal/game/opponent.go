// internal/game/opponent.go
package game

import (
	"fmt"
	"math/rand"

	"github.com/jason-s-yu/unobot/internal/models"
)

// Policy decides which card, if any, the scripted opponent plays.
// Choose returns an index into hand, or -1 when nothing can be played.
// The caller handles the draw fallback.
type Policy interface {
	Choose(hand models.Hand, top models.Card, rng *rand.Rand) int
}

// FirstMatch plays the first legal card in hand order. No lookahead and no color saving.
type FirstMatch struct{}

func (FirstMatch) Choose(hand models.Hand, top models.Card, _ *rand.Rand) int {
	for i, c := range hand {
		if CanPlay(c, top) {
			return i
		}
	}
	return -1
}

// RandomMatch picks uniformly among the legal cards using the game's own generator,
// so a seeded game replays the same choices.
type RandomMatch struct{}

func (RandomMatch) Choose(hand models.Hand, top models.Card, rng *rand.Rand) int {
	var legal []int
	for i, c := range hand {
		if CanPlay(c, top) {
			legal = append(legal, i)
		}
	}
	if len(legal) == 0 {
		return -1
	}
	return legal[rng.Intn(len(legal))]
}

// PolicyByName maps the OPPONENT_POLICY setting to a Policy.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "first":
		return FirstMatch{}, nil
	case "random":
		return RandomMatch{}, nil
	default:
		return nil, fmt.Errorf("unknown opponent policy %q", name)
	}
}
