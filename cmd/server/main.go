// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jason-s-yu/unobot/internal/auth"
	"github.com/jason-s-yu/unobot/internal/bot"
	"github.com/jason-s-yu/unobot/internal/cache"
	"github.com/jason-s-yu/unobot/internal/config"
	"github.com/jason-s-yu/unobot/internal/database"
	"github.com/jason-s-yu/unobot/internal/fetch"
	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/jason-s-yu/unobot/internal/handlers"
	"github.com/jason-s-yu/unobot/internal/models"
	"github.com/jason-s-yu/unobot/internal/storage"
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := auth.Init(cfg.TokenExpiry); err != nil {
		logger.Fatal(err)
	}
	pseudo, err := auth.NewPseudonymizer(cfg.SessionKeySecret)
	if err != nil {
		logger.Fatal(err)
	}
	if cfg.SessionKeySecret == "" {
		logger.Warn("SESSION_KEY_SECRET is empty, stored session labels are unkeyed hashes.")
	}
	policy, err := game.PolicyByName(cfg.OpponentPolicy)
	if err != nil {
		logger.Fatal(err)
	}

	store := game.NewSessionStore()
	ctrl := game.NewController(store, logger)
	ctrl.Policy = policy
	ctrl.SessionLabel = pseudo.Label

	results, closeResults, err := openResultStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal(err)
	}
	defer closeResults()
	ctrl.Recorder = results

	var humanWins, botWins atomic.Int64
	ctrl.OnGameEnd = func(res game.GameResult) {
		if res.Winner == models.RoleHuman {
			humanWins.Add(1)
		} else {
			botWins.Add(1)
		}
		logger.WithFields(logrus.Fields{
			"game_id":    res.GameID,
			"winner":     res.Winner,
			"turns":      res.Turns,
			"human_wins": humanWins.Load(),
			"bot_wins":   botWins.Load(),
		}).Info("Game finished.")
	}

	if cfg.RedisAddr != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("Action log disabled.")
		} else {
			defer rdb.Close()
			ctrl.Publisher = cache.NewRedisPublisher(rdb, cfg.QueueName)
			logger.Infof("Publishing actions to Redis list %s.", cfg.QueueName)
		}
	}

	go store.CleanupLoop(ctx, time.Minute, cfg.SessionIdleTTL, logger)

	var updates handlers.UpdateHandler
	if cfg.TelegramToken != "" {
		api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			logger.Fatalf("telegram: %v", err)
		}
		logger.Infof("Authorized on account %s.", api.Self.UserName)

		tg := bot.New(api, ctrl, logger)
		tg.Cats = fetch.NewCatClient(cfg.CatAPIURL)
		tg.Jokes = fetch.NewJokeClient(cfg.JokeAPIURL)
		tg.Stats = results
		tg.SessionLabel = pseudo.Label
		tg.ThinkingDelay = cfg.ThinkingDelay

		if cfg.WebhookURL != "" {
			if err := registerWebhook(api, cfg.WebhookURL, cfg.WebhookSecret); err != nil {
				logger.Fatalf("telegram: %v", err)
			}
			logger.Infof("Webhook registered at %s.", cfg.WebhookURL)
			updates = tg
		} else {
			go pollUpdates(ctx, api, tg, logger)
		}
	} else {
		logger.Warn("TELEGRAM_TOKEN is empty, only the web client is served.")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(logger, handlers.NewGameServer(ctrl, logger), updates, cfg.WebhookSecret),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("Running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server exited: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("Unclean HTTP shutdown.")
	}
}

// openResultStore prefers postgres when DATABASE_URL is set and falls back to SQLite.
func openResultStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (game.ResultStore, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("Recording results in postgres.")
		return database.NewRecorder(pool), pool.Close, nil
	}

	s, err := storage.New(cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("Recording results in %s.", cfg.SQLitePath)
	return s, func() { s.Close() }, nil
}

// registerWebhook calls setWebhook directly since the library's config has no
// secret_token field.
func registerWebhook(api *tgbotapi.BotAPI, url, secret string) error {
	params := tgbotapi.Params{"url": url}
	params.AddNonEmpty("secret_token", secret)
	_, err := api.MakeRequest("setWebhook", params)
	return err
}

func pollUpdates(ctx context.Context, api *tgbotapi.BotAPI, tg *bot.Bot, logger *logrus.Logger) {
	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logger.WithError(err).Warn("Failed to delete webhook before polling.")
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	ch := api.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		api.StopReceivingUpdates()
	}()

	logger.Info("Polling for Telegram updates.")
	for update := range ch {
		go tg.HandleUpdate(ctx, update)
	}
}
