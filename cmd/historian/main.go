// cmd/historian/main.go runs the historian service: it pops action records from the Redis
// queue and persists them to postgres.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/unobot/internal/cache"
	"github.com/jason-s-yu/unobot/internal/config"
	"github.com/jason-s-yu/unobot/internal/database"
	"github.com/jason-s-yu/unobot/internal/historian"
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
	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL is required")
	}
	redisAddr := cfg.RedisAddr
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.Connect(ctx, redisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatal(err)
	}
	defer rdb.Close()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal(err)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal(err)
	}

	hs := historian.New(rdb, database.NewActionStore(pool), historian.Options{
		Queue:      cfg.QueueName,
		BatchSize:  cfg.BatchSize,
		FlushDelay: cfg.FlushDelay,
		Inactivity: cfg.SessionIdleTTL + time.Minute,
	}, logger)
	hs.Run(ctx)
	logger.Info("Historian shutdown complete.")
}
