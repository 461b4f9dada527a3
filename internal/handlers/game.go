// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/jason-s-yu/unobot/internal/models"
)

// ServeHTTP serves the REST game routes under /game/. Every route acts on the game of
// the caller's guest session.
func (s *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var action models.GameAction
	switch r.URL.Path {
	case "/game/start":
		action.ActionType = models.ActionStart
	case "/game/play":
		action.ActionType = models.ActionPlay
	case "/game/draw":
		action.ActionType = models.ActionDraw
	case "/game/state":
		action.ActionType = models.ActionState
	default:
		writeError(w, http.StatusNotFound, "unknown game route")
		return
	}

	wantMethod := http.MethodPost
	if action.ActionType == models.ActionState {
		wantMethod = http.MethodGet
	}
	if r.Method != wantMethod {
		w.Header().Set("Allow", wantMethod)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if action.ActionType == models.ActionPlay {
		var req struct {
			Index *int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
			writeError(w, http.StatusBadRequest, `expected {"index": n}`)
			return
		}
		action.Index = *req.Index
	}

	key, err := EnsureGuest(w, r)
	if err != nil {
		s.Logger.WithError(err).Error("Failed to identify guest.")
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	rs, err := s.Controller.Apply(key, action)
	switch {
	case errors.Is(err, game.ErrNoActiveGame):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		s.Logger.WithError(err).WithField("session", key).Error("Game action failed.")
		writeError(w, http.StatusInternalServerError, "internal error")
	case rs.Rejected:
		writeJSON(w, http.StatusUnprocessableEntity, rs)
	default:
		writeJSON(w, http.StatusOK, rs)
	}
}
