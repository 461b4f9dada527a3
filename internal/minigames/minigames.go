// internal/minigames/minigames.go
package minigames

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

// Move is a rock-paper-scissors hand.
type Move string

const (
	Rock     Move = "rock"
	Paper    Move = "paper"
	Scissors Move = "scissors"
)

var Moves = []Move{Rock, Paper, Scissors}

var beats = map[Move]Move{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

var moveEmoji = map[Move]string{
	Rock:     "🪨",
	Paper:    "📄",
	Scissors: "✂️",
}

// ParseMove accepts one of "rock", "paper" or "scissors".
func ParseMove(s string) (Move, error) {
	m := Move(s)
	if _, ok := beats[m]; !ok {
		return "", fmt.Errorf("unknown move %q", s)
	}
	return m, nil
}

func (m Move) Emoji() string {
	return moveEmoji[m]
}

// Outcome of a round from the user's point of view.
type Outcome string

const (
	UserWins Outcome = "user"
	BotWins  Outcome = "bot"
	Tie      Outcome = "tie"
)

// RPSWinner decides a round.
func RPSWinner(user, bot Move) Outcome {
	switch {
	case user == bot:
		return Tie
	case beats[user] == bot:
		return UserWins
	default:
		return BotWins
	}
}

// RandomRPS picks the bot's move.
func RandomRPS(rng *rand.Rand) Move {
	return Moves[rng.Intn(len(Moves))]
}

// MathQuiz is a small addition or multiplication question with four choices.
type MathQuiz struct {
	Question string
	Answer   int
	Choices  []int
}

// NewMathQuiz builds a quiz whose choices are distinct and contain the answer once.
func NewMathQuiz(rng *rand.Rand) MathQuiz {
	a, b := rng.Intn(20)+1, rng.Intn(20)+1
	var q MathQuiz
	if rng.Intn(2) == 0 {
		q.Question = fmt.Sprintf("%d + %d = ?", a, b)
		q.Answer = a + b
	} else {
		a, b = a%10+1, b%10+1
		q.Question = fmt.Sprintf("%d × %d = ?", a, b)
		q.Answer = a * b
	}

	seen := map[int]bool{q.Answer: true}
	q.Choices = []int{q.Answer}
	for len(q.Choices) < 4 {
		c := q.Answer + rng.Intn(21) - 10
		if c < 0 || seen[c] {
			continue
		}
		seen[c] = true
		q.Choices = append(q.Choices, c)
	}
	rng.Shuffle(len(q.Choices), func(i, j int) { q.Choices[i], q.Choices[j] = q.Choices[j], q.Choices[i] })
	return q
}

// CallbackData encodes a choice as "math_<choice>_<answer>".
func (q MathQuiz) CallbackData(choice int) string {
	return "math_" + strconv.Itoa(choice) + "_" + strconv.Itoa(q.Answer)
}

// ParseMathCallback decodes the choice and the answer of CallbackData.
func ParseMathCallback(data string) (choice, answer int, err error) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 || parts[0] != "math" {
		return 0, 0, fmt.Errorf("bad math callback %q", data)
	}
	if choice, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("bad math callback %q: %w", data, err)
	}
	if answer, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, fmt.Errorf("bad math callback %q: %w", data, err)
	}
	return choice, answer, nil
}
