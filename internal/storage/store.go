// internal/storage/store.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/jason-s-yu/unobot/internal/models"
	_ "modernc.org/sqlite"
)

// Store keeps finished game results in SQLite. It is the default result store when no
// postgres database is configured.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if strings.Contains(path, ":memory:") {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS uno_games (
			game_id     TEXT PRIMARY KEY,
			session_key TEXT NOT NULL,
			winner      TEXT NOT NULL,
			turns       INTEGER NOT NULL,
			started_at  DATETIME NOT NULL,
			finished_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_uno_games_session ON uno_games(session_key);
	`)
	return err
}

// RecordResult stores a finished game. Recording the same game twice keeps the first row.
func (s *Store) RecordResult(ctx context.Context, res game.GameResult) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO uno_games (game_id, session_key, winner, turns, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO NOTHING
	`, res.GameID.String(), res.SessionKey, string(res.Winner), res.Turns, res.StartedAt.UTC(), res.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert result %s: %w", res.GameID, err)
	}
	return nil
}

// Stats returns win/loss totals for a session key.
func (s *Store) Stats(ctx context.Context, sessionKey string) (models.PlayerStats, error) {
	var st models.PlayerStats
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0)
		FROM uno_games WHERE session_key = ?
	`, string(models.RoleHuman), string(models.RoleOpponent), sessionKey)
	if err := row.Scan(&st.Games, &st.Wins, &st.Losses); err != nil {
		return st, fmt.Errorf("query stats: %w", err)
	}
	return st, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
