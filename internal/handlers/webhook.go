// internal/handlers/webhook.go
package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// secretHeader carries the secret_token registered with setWebhook.
const secretHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateHandler consumes Telegram updates.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// TelegramWebhookHandler accepts updates pushed by Telegram. With a non-empty secret,
// requests without the matching header are refused.
func TelegramWebhookHandler(logger *logrus.Logger, secret string, h UpdateHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if secret != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(secretHeader)), []byte(secret)) != 1 {
			logger.WithField("remote", r.RemoteAddr).Warn("Webhook call with a bad secret.")
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "invalid update", http.StatusBadRequest)
			return
		}
		// Telegram only needs the 200; replies go through the bot API
		h.HandleUpdate(r.Context(), update)
		w.WriteHeader(http.StatusOK)
	}
}
