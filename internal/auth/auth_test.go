package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	require.NoError(t, Init(0))
	key := NewGuestKey()
	assert.True(t, strings.HasPrefix(key, "web:"))

	tok, err := CreateJWT(key)
	require.NoError(t, err)
	sub, err := AuthenticateJWT(tok)
	require.NoError(t, err)
	assert.Equal(t, key, sub)
}

func TestJWTRejectsTampering(t *testing.T) {
	require.NoError(t, Init(time.Hour))
	tok, err := CreateJWT("web:abc")
	require.NoError(t, err)

	_, err = AuthenticateJWT(tok + "x")
	assert.Error(t, err)

	// a new key pair invalidates old tokens
	require.NoError(t, Init(time.Hour))
	_, err = AuthenticateJWT(tok)
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	require.NoError(t, Init(-time.Minute))
	tok, err := CreateJWT("web:abc")
	require.NoError(t, err)
	_, err = AuthenticateJWT(tok)
	assert.Error(t, err)
}

func TestPseudonymizer(t *testing.T) {
	p, err := NewPseudonymizer("secret")
	require.NoError(t, err)

	a := p.Label("tg:42")
	assert.Len(t, a, 32)
	assert.Equal(t, a, p.Label("tg:42"))
	assert.NotEqual(t, a, p.Label("tg:43"))
	assert.NotContains(t, a, "42")

	other, err := NewPseudonymizer("other")
	require.NoError(t, err)
	assert.NotEqual(t, a, other.Label("tg:42"))

	long, err := NewPseudonymizer(strings.Repeat("k", 100))
	require.NoError(t, err)
	assert.Len(t, long.Label("tg:42"), 32)
}
