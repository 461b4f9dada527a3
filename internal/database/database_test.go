package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jason-s-yu/unobot/internal/game"
	"github.com/jason-s-yu/unobot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ game.ResultStore = (*Recorder)(nil)

// setupTestPool connects to DATABASE_URL or skips the test.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := Connect(context.Background(), url)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	t.Cleanup(pool.Close)
	require.NoError(t, EnsureSchema(context.Background(), pool))
	return pool
}

func TestRecorderStats(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	r := NewRecorder(pool)
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { pool.Exec(ctx, "DELETE FROM uno_games WHERE session_key = $1", key) })

	now := time.Now()
	for _, w := range []models.Role{models.RoleHuman, models.RoleOpponent, models.RoleHuman} {
		require.NoError(t, r.RecordResult(ctx, game.GameResult{
			GameID: uuid.New(), SessionKey: key, Winner: w, Turns: 5,
			StartedAt: now.Add(-time.Minute), FinishedAt: now,
		}))
	}

	st, err := r.Stats(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, models.PlayerStats{Games: 3, Wins: 2, Losses: 1}, st)
}

func TestInsertActionsCompletesGame(t *testing.T) {
	pool := setupTestPool(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { pool.Exec(ctx, "DELETE FROM uno_games WHERE session_key = $1", key) })

	store := NewActionStore(pool)
	id := uuid.New()
	ts := time.Now().UnixMilli()
	batch := []game.ActionRecord{
		{GameID: id, SessionKey: key, ActionIndex: 1, ActionType: "game_start", Timestamp: ts},
		{GameID: id, SessionKey: key, ActionIndex: 2, Actor: models.RoleHuman, ActionType: "human_draw", Timestamp: ts},
	}
	require.NoError(t, store.InsertActions(ctx, batch))
	// replays are ignored
	require.NoError(t, store.InsertActions(ctx, batch))

	var n int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM uno_actions WHERE game_id = $1", id).Scan(&n))
	assert.Equal(t, 2, n)

	changed, err := store.MarkAbandoned(ctx, id)
	require.NoError(t, err)
	assert.True(t, changed)

	other := uuid.New()
	require.NoError(t, store.InsertActions(ctx, []game.ActionRecord{
		{GameID: other, SessionKey: key, ActionIndex: 1, ActionType: "game_end", Timestamp: ts},
	}))
	var status string
	require.NoError(t, pool.QueryRow(ctx, "SELECT status FROM uno_games WHERE id = $1", other).Scan(&status))
	assert.Equal(t, "completed", status)

	changed, err = store.MarkAbandoned(ctx, other)
	require.NoError(t, err)
	assert.False(t, changed)
}
