// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/jason-s-yu/unobot/internal/middleware"
	"github.com/jason-s-yu/unobot/internal/models"
	"github.com/sirupsen/logrus"
)

// GameMessage is an incoming websocket message. Type is one of the game actions or "ping".
type GameMessage struct {
	Type  string `json:"type"`
	Index int    `json:"index,omitempty"`
}

// stateMessage wraps every RenderState sent to a websocket client.
type stateMessage struct {
	Type  string            `json:"type"`
	State *game.RenderState `json:"state"`
}

// GameWSHandler upgrades the connection to a websocket bound to the caller's guest
// session. Each message runs one controller action and is answered with the new state.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// the cookie has to be set before the upgrade response is written
		key, err := EnsureGuest(w, r)
		if err != nil {
			logger.WithError(err).Error("Failed to identify guest.")
			http.Error(w, "could not create session", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for session %s: %v", key, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal error")

		if c.Subprotocol() != "game" {
			c.Close(BadSubprotocolError, "client must use the 'game' subprotocol")
			return
		}
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		err = readGameMessages(r.Context(), c, gs, key, logger)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, err)
		if err == nil {
			c.Close(websocket.StatusNormalClosure, "")
		}
	}
}

// readGameMessages runs until the client goes away. A normal closure returns nil.
func readGameMessages(ctx context.Context, c *websocket.Conn, gs *GameServer, key string, logger *logrus.Logger) error {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if msgType != websocket.MessageText {
			sendWsError(ctx, c, "text messages only")
			continue
		}

		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sendWsError(ctx, c, "invalid JSON format")
			continue
		}
		logger.WithField("session", key).Debugf("Received %q over websocket.", msg.Type)

		if msg.Type == "ping" {
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})
			continue
		}

		rs, err := gs.Controller.Apply(key, models.GameAction{ActionType: msg.Type, Index: msg.Index})
		switch {
		case errors.Is(err, game.ErrNoActiveGame):
			sendWsError(ctx, c, err.Error())
		case err != nil:
			sendWsError(ctx, c, fmt.Sprintf("unknown action type: %s", msg.Type))
		default:
			sendWsMessage(ctx, c, stateMessage{Type: "state", State: &rs})
		}
	}
}

// sendWsMessage marshals a message and writes it with a timeout.
func sendWsMessage(ctx context.Context, c *websocket.Conn, message interface{}) error {
	msgBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal websocket message: %w", err)
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return c.Write(writeCtx, websocket.MessageText, msgBytes)
}

// sendWsError sends a structured error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, errorMsg string) error {
	return sendWsMessage(ctx, c, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}
