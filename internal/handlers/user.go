// internal/handlers/user.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/jason-s-yu/unobot/internal/auth"
)

const authCookieName = "auth_token"

// EnsureGuest returns the session key of the caller. A request without a valid token
// gets a fresh guest key and a cookie carrying it.
func EnsureGuest(w http.ResponseWriter, r *http.Request) (string, error) {
	if token := extractCookieToken(r.Header.Get("Cookie"), authCookieName); token != "" {
		if key, err := auth.AuthenticateJWT(token); err == nil {
			return key, nil
		}
	}

	key := auth.NewGuestKey()
	token, err := auth.CreateJWT(key)
	if err != nil {
		return "", fmt.Errorf("failed to create guest JWT: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
	return key, nil
}
