// README: Calendar store backed by PostgreSQL.
package calendar

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"peloton/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// ListByUser returns a rider's entries, optionally bounded by an inclusive
// [from, to] date range (YYYY-MM-DD strings; both or neither).
func (s *Store) ListByUser(ctx context.Context, userID types.ID, from, to string) ([]*Entry, error) {
	query := `
        SELECT id, user_id, source, type, title, date, duration_hours, distance_km, tss, created_at
        FROM calendar_entries
        WHERE user_id = $1`
	args := []any{string(userID)}
	if from != "" && to != "" {
		query += ` AND date >= $2 AND date <= $3`
		args = append(args, from, to)
	}
	query += ` ORDER BY date`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var e Entry
		var source, typ, title sql.NullString
		var duration, distance sql.NullFloat64
		var tss sql.NullInt64
		err := rows.Scan(
			&e.ID, &e.UserID, &source, &typ, &title, &e.Date,
			&duration, &distance, &tss, &e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if source.Valid {
			e.Source = &source.String
		}
		if typ.Valid {
			e.Type = &typ.String
		}
		if title.Valid {
			e.Title = &title.String
		}
		if duration.Valid {
			e.DurationHours = &duration.Float64
		}
		if distance.Valid {
			e.DistanceKm = &distance.Float64
		}
		if tss.Valid {
			n := int(tss.Int64)
			e.TSS = &n
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
