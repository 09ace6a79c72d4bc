// README: Decision store backed by PostgreSQL with a pair uniqueness guard.
package decision

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"peloton/internal/types"
)

const uniqueViolation = "23505"

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Record applies actor's decision to the pair (actor, target), creating the
// record on first contact. The row lock plus the unique pair index make
// concurrent first decisions from both sides converge on a single record.
func (s *Store) Record(ctx context.Context, actor, target types.ID, d Decision) (*Record, error) {
	rec, err := s.recordOnce(ctx, actor, target, d)
	if isUniqueViolation(err) {
		// Lost the insert race to the other side; their row exists now.
		rec, err = s.recordOnce(ctx, actor, target, d)
	}
	return rec, err
}

func (s *Store) recordOnce(ctx context.Context, actor, target types.ID, d Decision) (*Record, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rec, err := getPairForUpdate(ctx, tx, actor, target)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		rec = NewRecord(actor, target)
		if err := rec.Apply(actor, d); err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `
            INSERT INTO buddy_matches (
                id, user1, user2, user1_decision, user2_decision, is_match, created_at
            ) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			string(rec.ID), string(rec.User1), string(rec.User2),
			string(rec.User1Decision), string(rec.User2Decision),
			rec.IsMatch, rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := rec.Apply(actor, d); err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `
            UPDATE buddy_matches
            SET user1_decision = $2, user2_decision = $3, is_match = $4
            WHERE id = $1`,
			string(rec.ID),
			string(rec.User1Decision), string(rec.User2Decision), rec.IsMatch,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

func getPairForUpdate(ctx context.Context, tx pgx.Tx, a, b types.ID) (*Record, error) {
	row := tx.QueryRow(ctx, `
        SELECT id, user1, user2, user1_decision, user2_decision, is_match,
               match_score, scheduled_time, created_at
        FROM buddy_matches
        WHERE (user1 = $1 AND user2 = $2) OR (user1 = $2 AND user2 = $1)
        FOR UPDATE`,
		string(a), string(b),
	)
	return scanRecord(row)
}

// PairedIDs returns every rider already present in a decision record with
// userID, in either position. Used to keep decided pairs out of the swipe
// feed.
func (s *Store) PairedIDs(ctx context.Context, userID types.ID) ([]types.ID, error) {
	rows, err := s.db.Query(ctx, `
        SELECT CASE WHEN user1 = $1 THEN user2 ELSE user1 END
        FROM buddy_matches
        WHERE user1 = $1 OR user2 = $1`,
		string(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.ID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, types.ID(id))
	}
	return out, rows.Err()
}

// MatchedPartnerIDs returns partners from mutual-like records only.
func (s *Store) MatchedPartnerIDs(ctx context.Context, userID types.ID) ([]types.ID, error) {
	rows, err := s.db.Query(ctx, `
        SELECT CASE WHEN user1 = $1 THEN user2 ELSE user1 END
        FROM buddy_matches
        WHERE (user1 = $1 OR user2 = $1) AND is_match`,
		string(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []types.ID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, types.ID(id))
	}
	return out, rows.Err()
}

func scanRecord(row pgx.Row) (*Record, error) {
	var r Record
	var score sql.NullFloat64
	var scheduled sql.NullTime
	err := row.Scan(
		&r.ID, &r.User1, &r.User2, &r.User1Decision, &r.User2Decision, &r.IsMatch,
		&score, &scheduled, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if score.Valid {
		v := score.Float64
		r.MatchScore = &v
	}
	if scheduled.Valid {
		t := scheduled.Time
		r.ScheduledTime = &t
	}
	return &r, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
