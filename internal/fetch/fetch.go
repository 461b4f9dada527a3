// internal/fetch/fetch.go
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrEmptyResponse is returned when an API answers with nothing usable.
var ErrEmptyResponse = errors.New("empty response")

const defaultTimeout = 5 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// getJSON GETs url and decodes the JSON body into out.
func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// CatClient fetches random cat pictures.
type CatClient struct {
	URL    string
	Client *http.Client
}

func NewCatClient(url string) *CatClient {
	return &CatClient{URL: url, Client: newHTTPClient()}
}

// RandomImageURL returns the url of the first image in the API response.
func (c *CatClient) RandomImageURL(ctx context.Context) (string, error) {
	var images []struct {
		URL string `json:"url"`
	}
	if err := getJSON(ctx, c.Client, c.URL, &images); err != nil {
		return "", err
	}
	if len(images) == 0 || images[0].URL == "" {
		return "", ErrEmptyResponse
	}
	return images[0].URL, nil
}

// Joke is a two-part joke.
type Joke struct {
	Setup     string `json:"setup"`
	Punchline string `json:"punchline"`
}

// JokeClient fetches random jokes.
type JokeClient struct {
	URL    string
	Client *http.Client
}

func NewJokeClient(url string) *JokeClient {
	return &JokeClient{URL: url, Client: newHTTPClient()}
}

// Random returns one joke.
func (c *JokeClient) Random(ctx context.Context) (Joke, error) {
	var j Joke
	if err := getJSON(ctx, c.Client, c.URL, &j); err != nil {
		return Joke{}, err
	}
	if j.Setup == "" {
		return Joke{}, ErrEmptyResponse
	}
	return j, nil
}
