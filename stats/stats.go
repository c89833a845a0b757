// Package stats owns the durable per-user game tallies. It is the single writer of the
// game_results table; counters only ever move up, one per completed round.
package stats

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Outcome of a single game round, from the invoking user's perspective.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
	OutcomeDraw Outcome = "draw"
)

// ErrUnavailable marks failures of the underlying storage. Callers report these to the
// user as a generic failure instead of claiming a result that was not durably recorded.
var ErrUnavailable = errors.New("stats store unavailable")

// Record is the cumulative tally for one user.
type Record struct {
	UserID string
	Wins   int
	Losses int
	Draws  int
}

// Store persists per-user records in Postgres.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// column maps an outcome to its counter column. Outcomes are a closed enum; anything
// else is a programming error surfaced as an invalid-outcome error, never interpolated
// into SQL.
func column(o Outcome) (string, error) {
	switch o {
	case OutcomeWin:
		return "wins", nil
	case OutcomeLoss:
		return "losses", nil
	case OutcomeDraw:
		return "draws", nil
	default:
		return "", fmt.Errorf("invalid outcome %q", o)
	}
}

// UpsertRoundResult atomically creates the record if absent, increments the single counter
// matching outcome by 1, and returns the post-update record. The whole increment is one
// INSERT ... ON CONFLICT ... RETURNING statement, so concurrent rounds for the same user
// serialize on the row and no update is lost.
func (s *Store) UpsertRoundResult(ctx context.Context, userID string, outcome Outcome) (Record, error) {
	col, err := column(outcome)
	if err != nil {
		return Record{}, err
	}
	q := fmt.Sprintf(`INSERT INTO game_results (user_id, %[1]s, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (user_id) DO UPDATE SET %[1]s = game_results.%[1]s + 1, updated_at = NOW()
		RETURNING wins, losses, draws`, col)
	rec := Record{UserID: userID}
	if err := s.db.QueryRowContext(ctx, q, userID).Scan(&rec.Wins, &rec.Losses, &rec.Draws); err != nil {
		return Record{}, fmt.Errorf("%w: upsert round result for %s: %v", ErrUnavailable, userID, err)
	}
	return rec, nil
}

// GetRecord returns the stored tally, or an all-zero record when the user has never
// completed a round. It does not create a row.
func (s *Store) GetRecord(ctx context.Context, userID string) (Record, error) {
	rec := Record{UserID: userID}
	err := s.db.QueryRowContext(ctx,
		`SELECT wins, losses, draws FROM game_results WHERE user_id = $1`, userID).
		Scan(&rec.Wins, &rec.Losses, &rec.Draws)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: get record for %s: %v", ErrUnavailable, userID, err)
	}
	return rec, nil
}
