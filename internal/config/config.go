// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds every runtime setting. Values come from the environment; a .env file is
// loaded beforehand by godotenv/autoload in each main package.
type Config struct {
	Port     string
	LogLevel logrus.Level

	TelegramToken    string
	WebhookURL       string // empty means long polling
	WebhookSecret    string
	ThinkingDelay    time.Duration
	OpponentPolicy   string
	SessionIdleTTL   time.Duration
	SessionKeySecret string
	TokenExpiry      time.Duration // 0 means tokens never expire

	RedisAddr  string // empty disables the action log
	RedisDB    int
	QueueName  string
	BatchSize  int
	FlushDelay time.Duration

	DatabaseURL string // postgres; empty falls back to SQLite
	SQLitePath  string

	CatAPIURL  string
	JokeAPIURL string
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	thinking, err := getEnvDuration("BOT_THINKING_DELAY", 700*time.Millisecond)
	if err != nil {
		return nil, err
	}
	idle, err := getEnvDuration("SESSION_IDLE_TTL", time.Hour)
	if err != nil {
		return nil, err
	}
	expiry, err := parseTokenExpireTime(os.Getenv("TOKEN_EXPIRE_TIME"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: level,

		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		WebhookURL:       os.Getenv("WEBHOOK_URL"),
		WebhookSecret:    os.Getenv("WEBHOOK_SECRET"),
		ThinkingDelay:    thinking,
		OpponentPolicy:   getEnv("OPPONENT_POLICY", "first"),
		SessionIdleTTL:   idle,
		SessionKeySecret: os.Getenv("SESSION_KEY_SECRET"),
		TokenExpiry:      expiry,

		RedisAddr:  os.Getenv("REDIS_ADDR"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		QueueName:  getEnv("HISTORIAN_QUEUE_NAME", "unobot_actions"),
		BatchSize:  getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		FlushDelay: time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,

		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "unobot.db"),

		CatAPIURL:  getEnv("CAT_API_URL", "https://api.thecatapi.com/v1/images/search"),
		JokeAPIURL: getEnv("JOKE_API_URL", "https://official-joke-api.appspot.com/random_joke"),
	}, nil
}

// parseTokenExpireTime accepts "never", "0", "" or a Go duration.
func parseTokenExpireTime(v string) (time.Duration, error) {
	if v == "never" || v == "0" || v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("failed to parse token expire time: %w", err)
	}
	return d, nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
