// README: Group ride store backed by PostgreSQL.
package ride

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peloton/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const rideColumns = `id, name, description, organizer, date, tier, pace, distance, elevation,
       location, max_participants, current_participants, is_no_drop, has_regroups, drop_policy,
       created_at`

func (s *Store) Create(ctx context.Context, r *Ride) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO group_rides (
            id, name, description, organizer, date, tier, pace, distance, elevation,
            location, max_participants, current_participants, is_no_drop, has_regroups,
            drop_policy, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		string(r.ID), r.Name, r.Description, string(r.Organizer), r.Date, string(r.Tier),
		r.Pace, r.Distance, r.Elevation, r.Location, r.MaxParticipants,
		r.CurrentParticipants, r.IsNoDrop, r.HasRegroups, r.DropPolicy, r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+rideColumns+` FROM group_rides WHERE id = $1`, string(id))
	r, err := scanRide(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

func (s *Store) List(ctx context.Context, f ListFilter) ([]*Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM group_rides`
	var conds []string
	var args []any
	if f.Tier != "" {
		args = append(args, string(f.Tier))
		conds = append(conds, "tier = $1")
	}
	if f.Date != "" {
		args = append(args, f.Date)
		if len(args) == 1 {
			conds = append(conds, "date::date = $1")
		} else {
			conds = append(conds, "date::date = $2")
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + conds[0]
		if len(conds) > 1 {
			query += " AND " + conds[1]
		}
	}
	query += " ORDER BY date"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRides(rows)
}

func (s *Store) ListByUser(ctx context.Context, userID types.ID) ([]*Ride, error) {
	rows, err := s.db.Query(ctx, `
        SELECT g.id, g.name, g.description, g.organizer, g.date, g.tier, g.pace,
               g.distance, g.elevation, g.location, g.max_participants,
               g.current_participants, g.is_no_drop, g.has_regroups, g.drop_policy,
               g.created_at
        FROM group_rides g
        INNER JOIN ride_participants p ON p.ride_id = g.id
        WHERE p.user_id = $1
        ORDER BY g.date`,
		string(userID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRides(rows)
}

// Join adds a participant under a row lock so the seat count cannot be
// oversold by concurrent joins.
func (s *Store) Join(ctx context.Context, rideID, userID types.ID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
        SELECT max_participants, current_participants
        FROM group_rides WHERE id = $1 FOR UPDATE`,
		string(rideID),
	)
	var maxP sql.NullInt64
	var current int
	if err := row.Scan(&maxP, &current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if maxP.Valid && current >= int(maxP.Int64) {
		return ErrRideFull
	}

	var exists bool
	err = tx.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM ride_participants WHERE ride_id = $1 AND user_id = $2
        )`,
		string(rideID), string(userID),
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyJoined
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO ride_participants (id, ride_id, user_id) VALUES ($1, $2, $3)`,
		string(types.NewID()), string(rideID), string(userID),
	)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `
        UPDATE group_rides
        SET current_participants = current_participants + 1
        WHERE id = $1`,
		string(rideID),
	)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func collectRides(rows pgx.Rows) ([]*Ride, error) {
	var out []*Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRide(row pgx.Row) (*Ride, error) {
	var r Ride
	var description, pace, location, dropPolicy sql.NullString
	var distance, elevation, maxParticipants sql.NullInt64
	err := row.Scan(
		&r.ID, &r.Name, &description, &r.Organizer, &r.Date, &r.Tier, &pace,
		&distance, &elevation, &location, &maxParticipants, &r.CurrentParticipants,
		&r.IsNoDrop, &r.HasRegroups, &dropPolicy, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.Description = nullStr(description)
	r.Pace = nullStr(pace)
	r.Location = nullStr(location)
	r.DropPolicy = nullStr(dropPolicy)
	r.Distance = nullInt(distance)
	r.Elevation = nullInt(elevation)
	r.MaxParticipants = nullInt(maxParticipants)
	return &r, nil
}

func nullStr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
