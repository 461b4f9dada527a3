// internal/database/game.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/jason-s-yu/unobot/internal/models"
)

// Recorder stores finished games in postgres.
type Recorder struct {
	pool *pgxpool.Pool
}

func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// RecordResult upserts the game row as completed. The historian may have created the
// row already from the action log.
func (r *Recorder) RecordResult(ctx context.Context, res game.GameResult) error {
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		q := `
			INSERT INTO uno_games (id, session_key, status, winner, turns, start_time, end_time)
			VALUES ($1, $2, 'completed', $3, $4, $5, $6)
			ON CONFLICT (id)
			DO UPDATE SET status = 'completed', winner = $3, turns = $4, end_time = $6
		`
		_, err := tx.Exec(ctx, q, res.GameID, res.SessionKey, string(res.Winner), res.Turns, res.StartedAt, res.FinishedAt)
		return err
	})
	if err != nil {
		return fmt.Errorf("tx upsert game %s: %w", res.GameID, err)
	}
	return nil
}

// Stats returns win/loss totals over completed games of a session key.
func (r *Recorder) Stats(ctx context.Context, sessionKey string) (models.PlayerStats, error) {
	var st models.PlayerStats
	q := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE winner = $2),
		       COUNT(*) FILTER (WHERE winner = $3)
		FROM uno_games
		WHERE session_key = $1 AND status = 'completed'
	`
	err := r.pool.QueryRow(ctx, q, sessionKey, string(models.RoleHuman), string(models.RoleOpponent)).
		Scan(&st.Games, &st.Wins, &st.Losses)
	if err != nil {
		return st, fmt.Errorf("query stats: %w", err)
	}
	return st, nil
}
