package daily_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-engine/internal/daily"
	"github.com/robalobadob/wordle/apps/go-engine/internal/store"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()
	s := daily.NewStore(db.SQL)

	played, err := s.AlreadyPlayed(ctx, "alice", "2024-06-01")
	require.NoError(t, err)
	assert.False(t, played)

	for _, r := range []daily.Result{
		{UserID: "alice", Date: "2024-06-01", Guesses: 4, ElapsedMs: 9000, Won: true},
		{UserID: "bob", Date: "2024-06-01", Guesses: 3, ElapsedMs: 50000, Won: true},
		{UserID: "carol", Date: "2024-06-01", Guesses: 4, ElapsedMs: 3000, Won: true},
		{UserID: "dave", Date: "2024-06-01", Guesses: 6, ElapsedMs: 1000, Won: false},
		{UserID: "erin", Date: "2024-06-02", Guesses: 1, ElapsedMs: 1000, Won: true},
	} {
		require.NoError(t, s.InsertResult(ctx, r))
	}
	// Second result for the same day is ignored.
	require.NoError(t, s.InsertResult(ctx, daily.Result{UserID: "alice", Date: "2024-06-01", Guesses: 1, Won: true}))

	played, err = s.AlreadyPlayed(ctx, "alice", "2024-06-01")
	require.NoError(t, err)
	assert.True(t, played)

	top, err := s.Leaderboard(ctx, "2024-06-01", 0)
	require.NoError(t, err)
	require.Len(t, top, 3, "losses are not ranked")
	assert.Equal(t, []string{"bob", "carol", "alice"}, []string{top[0].UserID, top[1].UserID, top[2].UserID})
	assert.Equal(t, 4, top[2].Guesses)

	top, err = s.Leaderboard(ctx, "2024-06-01", 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestStoreClaim(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	defer db.Close()
	s := daily.NewStore(db.SQL)

	require.NoError(t, s.InsertResult(ctx, daily.Result{UserID: "anon", Date: "2024-06-01", Guesses: 2, Won: true}))
	require.NoError(t, s.InsertResult(ctx, daily.Result{UserID: "anon", Date: "2024-06-02", Guesses: 5, Won: true}))
	require.NoError(t, s.InsertResult(ctx, daily.Result{UserID: "user", Date: "2024-06-02", Guesses: 3, Won: true}))

	require.NoError(t, s.Claim(ctx, "anon", "user"))

	played, err := s.AlreadyPlayed(ctx, "user", "2024-06-01")
	require.NoError(t, err)
	assert.True(t, played)

	top, err := s.Leaderboard(ctx, "2024-06-02", 0)
	require.NoError(t, err)
	require.NotEmpty(t, top)
	assert.Equal(t, "user", top[0].UserID)
	assert.Equal(t, 3, top[0].Guesses, "the account's own result is kept")

	assert.NoError(t, s.Claim(ctx, "", "user"))
}
