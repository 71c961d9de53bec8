package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-engine/internal/settings"
	"github.com/robalobadob/wordle/apps/go-engine/internal/stats"
)

// LoadStats returns the owner's statistics (zero values for a new owner).
func (d *DB) LoadStats(ctx context.Context, owner string) (stats.Statistics, error) {
	blob, err := d.column(ctx, d.SQL, "stats", owner)
	if err != nil {
		return stats.Statistics{}, err
	}
	st, err := stats.Decode([]byte(blob))
	if err != nil {
		return stats.Statistics{}, fmt.Errorf("decode stats for %s: %w", owner, err)
	}
	return st, nil
}

// UpdateStats applies fn to the owner's statistics inside one immediate
// transaction and returns the stored result. Concurrent updates serialize.
func (d *DB) UpdateStats(ctx context.Context, owner string, fn func(*stats.Statistics)) (stats.Statistics, error) {
	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return stats.Statistics{}, err
	}
	defer func() { _ = tx.Rollback() }()

	blob, err := d.column(ctx, tx, "stats", owner)
	if err != nil {
		return stats.Statistics{}, err
	}
	st, err := stats.Decode([]byte(blob))
	if err != nil {
		return stats.Statistics{}, fmt.Errorf("decode stats for %s: %w", owner, err)
	}
	fn(&st)

	b, err := json.Marshal(st)
	if err != nil {
		return stats.Statistics{}, err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (owner_id, stats, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET stats=excluded.stats, updated_at=excluded.updated_at`,
		owner, string(b), now()); err != nil {
		return stats.Statistics{}, fmt.Errorf("save stats for %s: %w", owner, err)
	}
	if err := tx.Commit(); err != nil {
		return stats.Statistics{}, err
	}
	return st, nil
}

// LoadSettings returns the owner's settings (Defaults for a new owner).
func (d *DB) LoadSettings(ctx context.Context, owner string) (settings.Settings, error) {
	blob, err := d.column(ctx, d.SQL, "settings", owner)
	if err != nil {
		return settings.Defaults(), err
	}
	s, err := settings.Decode([]byte(blob))
	if err != nil {
		return settings.Defaults(), fmt.Errorf("decode settings for %s: %w", owner, err)
	}
	return s, nil
}

// SaveSettings replaces the owner's settings.
func (d *DB) SaveSettings(ctx context.Context, owner string, s settings.Settings) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = d.SQL.ExecContext(ctx, `
		INSERT INTO profiles (owner_id, settings, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(owner_id) DO UPDATE SET settings=excluded.settings, updated_at=excluded.updated_at`,
		owner, string(b), now())
	if err != nil {
		return fmt.Errorf("save settings for %s: %w", owner, err)
	}
	return nil
}

// ClaimProfile moves an anonymous profile to a user who has none yet.
func (d *DB) ClaimProfile(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := d.SQL.ExecContext(ctx, `
		UPDATE profiles SET owner_id=?
		WHERE owner_id=? AND NOT EXISTS (SELECT 1 FROM profiles WHERE owner_id=?)`,
		userID, anonID, userID)
	return err
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// column reads one blob column of the owner's profile row ("" when missing).
// col is always a literal from this file.
func (d *DB) column(ctx context.Context, q queryer, col, owner string) (string, error) {
	var blob string
	err := q.QueryRowContext(ctx, `SELECT `+col+` FROM profiles WHERE owner_id=?`, owner).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return blob, err
}

// StatsRecorder feeds finished games into an owner's persisted statistics.
// It satisfies game.Recorder. Storage failures are logged only.
type StatsRecorder struct {
	DB    *DB
	Owner string
}

func (r *StatsRecorder) Record(o stats.Outcome) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := r.DB.UpdateStats(ctx, r.Owner, func(s *stats.Statistics) { s.Record(o) }); err != nil {
		log.Error().Err(err).Str("owner", r.Owner).Bool("won", o.Won).Msg("record stats")
	}
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }
