package store

import "context"

// Owner identifies who a game belongs to: a user account or an anonymous cookie.
type Owner struct {
	UserID      string
	AnonymousID string
}

// ID is the key used for profiles and live sessions.
func (o Owner) ID() string {
	if o.UserID != "" {
		return o.UserID
	}
	return o.AnonymousID
}

// GameRow is one entry of a player's history.
type GameRow struct {
	ID         string `json:"id"`
	Mode       string `json:"mode"`
	Strict     bool   `json:"strict"`
	Status     string `json:"status"`
	Guesses    int    `json:"guesses"`
	Answer     string `json:"answer,omitempty"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

// InsertGame records a newly started game. The answer is not stored yet.
func (d *DB) InsertGame(ctx context.Context, id string, o Owner, mode string, strict bool) error {
	_, err := d.SQL.ExecContext(ctx, `
		INSERT INTO games (id, user_id, anonymous_id, mode, strict, status, guesses, started_at)
		VALUES (?, NULLIF(?, ''), NULLIF(?, ''), ?, ?, 'playing', 0, ?)`,
		id, o.UserID, o.AnonymousID, mode, strict, now())
	return err
}

// RecordGuess bumps the guess counter and, once the game is finished,
// stores the final status and answer.
func (d *DB) RecordGuess(ctx context.Context, id, status, answer string) error {
	tx, err := d.SQL.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE games SET guesses = guesses + 1 WHERE id=?`, id); err != nil {
		return err
	}
	if status != "playing" {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, answer=?, finished_at=? WHERE id=?`,
			status, answer, now(), id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecentGames lists the owner's latest games, newest first.
func (d *DB) RecentGames(ctx context.Context, o Owner, limit int) ([]GameRow, error) {
	if limit <= 0 {
		limit = 50
	}
	clause, arg := `anonymous_id=?`, o.AnonymousID
	if o.UserID != "" {
		clause, arg = `user_id=?`, o.UserID
	}
	rows, err := d.SQL.QueryContext(ctx, `
		SELECT id, mode, strict, status, guesses, answer, started_at, COALESCE(finished_at, '')
		FROM games WHERE `+clause+` ORDER BY started_at DESC, rowid DESC LIMIT ?`, arg, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []GameRow{}
	for rows.Next() {
		var g GameRow
		if err := rows.Scan(&g.ID, &g.Mode, &g.Strict, &g.Status, &g.Guesses, &g.Answer, &g.StartedAt, &g.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ClaimAnonGames transfers any anonymous games to a user account after auth.
func (d *DB) ClaimAnonGames(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := d.SQL.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}
