package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCatRandomImageURL(t *testing.T) {
	srv := serve(t, http.StatusOK, `[{"id":"x","url":"https://cdn.example/cat.jpg","width":10}]`)
	url, err := NewCatClient(srv.URL).RandomImageURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/cat.jpg", url)
}

func TestCatEmptyList(t *testing.T) {
	srv := serve(t, http.StatusOK, `[]`)
	_, err := NewCatClient(srv.URL).RandomImageURL(context.Background())
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestJokeRandom(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"type":"general","setup":"Why?","punchline":"Because.","id":1}`)
	j, err := NewJokeClient(srv.URL).Random(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Joke{Setup: "Why?", Punchline: "Because."}, j)
}

func TestFetchErrors(t *testing.T) {
	srv := serve(t, http.StatusInternalServerError, `oops`)
	_, err := NewJokeClient(srv.URL).Random(context.Background())
	assert.ErrorContains(t, err, "unexpected status 500")

	bad := serve(t, http.StatusOK, `not json`)
	_, err = NewCatClient(bad.URL).RandomImageURL(context.Background())
	assert.Error(t, err)
}
