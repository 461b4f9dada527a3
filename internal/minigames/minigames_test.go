package minigames

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRPSWinner(t *testing.T) {
	cases := []struct {
		user, bot Move
		want      Outcome
	}{
		{Rock, Scissors, UserWins},
		{Paper, Rock, UserWins},
		{Scissors, Paper, UserWins},
		{Scissors, Rock, BotWins},
		{Rock, Paper, BotWins},
		{Paper, Scissors, BotWins},
		{Rock, Rock, Tie},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, RPSWinner(c.user, c.bot), "%s vs %s", c.user, c.bot)
	}
}

func TestParseMove(t *testing.T) {
	m, err := ParseMove("paper")
	require.NoError(t, err)
	assert.Equal(t, Paper, m)
	assert.NotEmpty(t, m.Emoji())

	_, err = ParseMove("lizard")
	assert.Error(t, err)
}

func TestRandomRPS(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seen := map[Move]bool{}
	for i := 0; i < 100; i++ {
		seen[RandomRPS(rng)] = true
	}
	assert.Len(t, seen, 3)
}

func TestMathQuiz(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		q := NewMathQuiz(rng)
		require.Len(t, q.Choices, 4)
		count := 0
		uniq := map[int]bool{}
		for _, c := range q.Choices {
			uniq[c] = true
			if c == q.Answer {
				count++
			}
			assert.GreaterOrEqual(t, c, 0)
		}
		assert.Equal(t, 1, count)
		assert.Len(t, uniq, 4)

		choice, answer, err := ParseMathCallback(q.CallbackData(q.Choices[0]))
		require.NoError(t, err)
		assert.Equal(t, q.Choices[0], choice)
		assert.Equal(t, q.Answer, answer)
	}

	_, _, err := ParseMathCallback("math_x")
	assert.Error(t, err)
}
