// internal/handlers/api_server.go
package handlers

import (
	"net/http"

	"github.com/jason-s-yu/unobot/internal/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter wires every HTTP route. A nil updates handler leaves /webhook unmounted.
func NewRouter(logger *logrus.Logger, gs *GameServer, updates UpdateHandler, webhookSecret string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("Hello"))
	})

	if updates != nil {
		mux.Handle("/webhook", TelegramWebhookHandler(logger, webhookSecret, updates))
	}

	mux.Handle("/game/ws", GameWSHandler(logger, gs))
	mux.Handle("/game/", gs)

	return middleware.LogMiddleware(logger)(mux)
}
