package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardString(t *testing.T) {
	assert.Equal(t, "🔵7", Card{Color: Blue, Value: "7"}.String())
	assert.Equal(t, "🔴Skip", Card{Color: Red, Value: "Skip"}.String())
}

func TestCardEquality(t *testing.T) {
	assert.Equal(t, Card{Color: Green, Value: "3"}, Card{Color: Green, Value: "3"})
	assert.NotEqual(t, Card{Color: Green, Value: "3"}, Card{Color: Blue, Value: "3"})
	assert.NotEqual(t, Card{Color: Green, Value: "3"}, Card{Color: Green, Value: "4"})
}

func TestColorJSON(t *testing.T) {
	data, err := json.Marshal(Card{Color: Yellow, Value: "Draw2"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"color":"yellow","value":"Draw2"}`, string(data))

	var c Card
	require.NoError(t, json.Unmarshal([]byte(`{"color":"blue","value":"0"}`), &c))
	assert.Equal(t, Card{Color: Blue, Value: "0"}, c)

	assert.Error(t, json.Unmarshal([]byte(`{"color":"purple","value":"0"}`), &c))
}

func TestDiscardTop(t *testing.T) {
	_, ok := DiscardPile{}.Top()
	assert.False(t, ok)

	top, ok := DiscardPile{{Color: Red, Value: "1"}, {Color: Blue, Value: "2"}}.Top()
	require.True(t, ok)
	assert.Equal(t, Card{Color: Blue, Value: "2"}, top)
}
