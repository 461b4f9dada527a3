package game

import "errors"

var (
	// ErrNoActiveGame is returned for any action other than start on a key without a game.
	ErrNoActiveGame = errors.New("no active game, start a new game first")
	// ErrInvalidIndex rejects a play whose index is outside the human hand.
	ErrInvalidIndex = errors.New("card index out of range")
	// ErrIllegalMove rejects a card that matches neither color nor value of the top card.
	ErrIllegalMove = errors.New("card does not match the top card")
	// ErrEmptyDeck is returned when drawing from an empty deck.
	ErrEmptyDeck = errors.New("deck is empty")
)
