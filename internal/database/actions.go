// internal/database/actions.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/unobot/internal/game"
)

// ActionStore persists the action log consumed by the historian.
type ActionStore struct {
	pool *pgxpool.Pool
}

func NewActionStore(pool *pgxpool.Pool) *ActionStore {
	return &ActionStore{pool: pool}
}

// InsertActions writes a batch of action records in one transaction. Game rows are
// created on first sight; a "game_end" action marks the game completed.
func (s *ActionStore) InsertActions(ctx context.Context, batch []game.ActionRecord) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range batch {
			if err := insertActionTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insert action %s#%d: %w", rec.GameID, rec.ActionIndex, err)
			}
		}
		return nil
	})
}

func insertActionTx(ctx context.Context, tx pgx.Tx, rec game.ActionRecord) error {
	upsertGameQ := `
		INSERT INTO uno_games (id, session_key, status, start_time)
		VALUES ($1, $2, 'in_progress', $3)
		ON CONFLICT (id) DO NOTHING
	`
	ts := time.UnixMilli(rec.Timestamp)
	if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID, rec.SessionKey, ts); err != nil {
		return err
	}

	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return err
	}
	actionInsertQ := `
		INSERT INTO uno_actions (game_id, action_index, actor, action_type, action_payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (game_id, action_index) DO NOTHING
	`
	if _, err := tx.Exec(ctx, actionInsertQ, rec.GameID, rec.ActionIndex, string(rec.Actor), rec.ActionType, payload, ts); err != nil {
		return err
	}

	if rec.ActionType == "game_end" {
		finalizeQ := `
			UPDATE uno_games
			SET status = 'completed', end_time = $2
			WHERE id = $1 AND status = 'in_progress'
		`
		if _, err := tx.Exec(ctx, finalizeQ, rec.GameID, ts); err != nil {
			return err
		}
	}
	return nil
}

// MarkAbandoned flags a game that is still in progress as abandoned.
// Returns whether a row changed.
func (s *ActionStore) MarkAbandoned(ctx context.Context, gameID uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE uno_games
		SET status = 'abandoned', end_time = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`, gameID)
	if err != nil {
		return false, fmt.Errorf("mark game %s abandoned: %w", gameID, err)
	}
	return tag.RowsAffected() > 0, nil
}
