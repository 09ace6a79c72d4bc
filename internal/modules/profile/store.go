// README: Profile store backed by PostgreSQL.
package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"peloton/internal/types"
)

var ErrNotFound = errors.New("profile not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const profileColumns = `id, email, first_name, last_name, profile_image_url, location, bio,
       avg_speed, weekly_mileage, ftp_watts, weight_kg, ftp_wkg, weekly_hours, sensor_class,
       ftp_tolerance_pct, total_rides, kudos_received, tier, pace_zone, elevation_pref,
       ride_type_pref, max_distance_mi, social_pref, active_buddy_search, visible_in_passive_pool,
       created_at, updated_at`

func (s *Store) Get(ctx context.Context, id types.ID) (*Profile, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM users WHERE id = $1`, string(id))
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// CandidateQuery is a structured predicate for candidate retrieval. It keeps
// the matching engine decoupled from SQL: the engine states what it wants,
// the store renders the clauses.
type CandidateQuery struct {
	ExcludeID types.ID
	// Location filters candidates to the requester's location. Empty means
	// no locality filter at all.
	Location string
	// Coarse compares only the city segment (substring before the first
	// comma, trimmed) instead of the full string.
	Coarse bool
	// ExcludeIDs removes riders already present in a decision record with
	// the requester.
	ExcludeIDs []types.ID
	// Preference filters accept an exact match or the candidate's own
	// wildcard value (NoPref / any). Empty string disables the filter.
	PaceZone      string
	ElevationPref string
	RideTypePref  string
	Limit         int
}

func (s *Store) FindCandidates(ctx context.Context, q CandidateQuery) ([]*Profile, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.ExcludeID != "" {
		conds = append(conds, "u.id <> "+arg(string(q.ExcludeID)))
	}
	if q.Location != "" {
		if q.Coarse {
			conds = append(conds,
				"TRIM(SPLIT_PART(u.location, ',', 1)) = TRIM(SPLIT_PART("+arg(q.Location)+", ',', 1))")
		} else {
			conds = append(conds, "u.location = "+arg(q.Location))
		}
	}
	if len(q.ExcludeIDs) > 0 {
		ids := make([]string, len(q.ExcludeIDs))
		for i, id := range q.ExcludeIDs {
			ids[i] = string(id)
		}
		conds = append(conds, "NOT (u.id = ANY("+arg(ids)+"))")
	}
	if q.PaceZone != "" {
		conds = append(conds, "(u.pace_zone = "+arg(q.PaceZone)+" OR u.pace_zone = 'NoPref')")
	}
	if q.ElevationPref != "" {
		conds = append(conds, "(u.elevation_pref = "+arg(q.ElevationPref)+" OR u.elevation_pref = 'NoPref')")
	}
	if q.RideTypePref != "" {
		conds = append(conds, "(u.ride_type_pref = "+arg(q.RideTypePref)+" OR u.ride_type_pref = 'any')")
	}

	query := "SELECT " + profileColumns + " FROM users u"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if q.Limit > 0 {
		query += " LIMIT " + arg(q.Limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListByIDs fetches a batch of profiles; missing ids are silently skipped.
func (s *Store) ListByIDs(ctx context.Context, ids []types.ID) ([]*Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	rows, err := s.db.Query(ctx,
		`SELECT `+profileColumns+` FROM users WHERE id = ANY($1)`, raw)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update applies a partial profile patch; nil fields keep their value.
type Update struct {
	FirstName            *string
	LastName             *string
	ProfileImageURL      *string
	Location             *string
	Bio                  *string
	AvgSpeedMph          *float64
	WeeklyMileage        *int
	FTPWatts             *int
	WeightKg             *float64
	FTPWkg               *float64
	WeeklyHours          *float64
	SensorClass          *SensorClass
	FTPTolerancePct      *int
	PaceZone             *PaceZone
	ElevationPref        *ElevationPref
	RideTypePref         *RideTypePref
	MaxDistanceMi        *int
	SocialPref           *SocialPref
	ActiveBuddySearch    *bool
	VisibleInPassivePool *bool
}

func (s *Store) Update(ctx context.Context, id types.ID, u Update) (*Profile, error) {
	row := s.db.QueryRow(ctx, `
        UPDATE users SET
            first_name = COALESCE($2, first_name),
            last_name = COALESCE($3, last_name),
            profile_image_url = COALESCE($4, profile_image_url),
            location = COALESCE($5, location),
            bio = COALESCE($6, bio),
            avg_speed = COALESCE($7, avg_speed),
            weekly_mileage = COALESCE($8, weekly_mileage),
            ftp_watts = COALESCE($9, ftp_watts),
            weight_kg = COALESCE($10, weight_kg),
            ftp_wkg = COALESCE($11, ftp_wkg),
            weekly_hours = COALESCE($12, weekly_hours),
            sensor_class = COALESCE($13, sensor_class),
            ftp_tolerance_pct = COALESCE($14, ftp_tolerance_pct),
            pace_zone = COALESCE($15, pace_zone),
            elevation_pref = COALESCE($16, elevation_pref),
            ride_type_pref = COALESCE($17, ride_type_pref),
            max_distance_mi = COALESCE($18, max_distance_mi),
            social_pref = COALESCE($19, social_pref),
            active_buddy_search = COALESCE($20, active_buddy_search),
            visible_in_passive_pool = COALESCE($21, visible_in_passive_pool),
            updated_at = NOW()
        WHERE id = $1
        RETURNING `+profileColumns,
		string(id),
		u.FirstName, u.LastName, u.ProfileImageURL, u.Location, u.Bio,
		u.AvgSpeedMph, u.WeeklyMileage, u.FTPWatts, u.WeightKg, u.FTPWkg,
		u.WeeklyHours, (*string)(u.SensorClass), u.FTPTolerancePct,
		(*string)(u.PaceZone), (*string)(u.ElevationPref), (*string)(u.RideTypePref),
		u.MaxDistanceMi, (*string)(u.SocialPref),
		u.ActiveBuddySearch, u.VisibleInPassivePool,
	)
	p, err := scanProfile(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// FitnessRow is the slim projection the tier reclassifier works on.
type FitnessRow struct {
	ID          types.ID
	AvgSpeedMph *float64
	FTPWatts    *int
	WeightKg    *float64
	FTPWkg      *float64
	Tier        *Tier
}

func (s *Store) ListFitness(ctx context.Context) ([]FitnessRow, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, avg_speed, ftp_watts, weight_kg, ftp_wkg, tier FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FitnessRow
	for rows.Next() {
		var r FitnessRow
		var speed, weight, wkg sql.NullFloat64
		var watts sql.NullInt64
		var tier sql.NullString
		if err := rows.Scan(&r.ID, &speed, &watts, &weight, &wkg, &tier); err != nil {
			return nil, err
		}
		r.AvgSpeedMph = toFloatPtr(speed)
		r.WeightKg = toFloatPtr(weight)
		r.FTPWkg = toFloatPtr(wkg)
		if watts.Valid {
			v := int(watts.Int64)
			r.FTPWatts = &v
		}
		if tier.Valid {
			t := Tier(tier.String)
			r.Tier = &t
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) SetTier(ctx context.Context, id types.ID, t Tier) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET tier = $2, updated_at = NOW() WHERE id = $1`,
		string(id), string(t))
	return err
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	var email, firstName, lastName, imageURL, location, bio sql.NullString
	var avgSpeed, weightKg, ftpWkg, weeklyHours sql.NullFloat64
	var weeklyMileage, ftpWatts, ftpTolerance, maxDistance sql.NullInt64
	var sensorClass, tier, paceZone, elevationPref, rideTypePref, socialPref sql.NullString

	err := row.Scan(
		&p.ID, &email, &firstName, &lastName, &imageURL, &location, &bio,
		&avgSpeed, &weeklyMileage, &ftpWatts, &weightKg, &ftpWkg, &weeklyHours, &sensorClass,
		&ftpTolerance, &p.TotalRides, &p.KudosReceived, &tier, &paceZone, &elevationPref,
		&rideTypePref, &maxDistance, &socialPref, &p.ActiveBuddySearch, &p.VisibleInPassivePool,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Email = toStringPtr(email)
	p.FirstName = toStringPtr(firstName)
	p.LastName = toStringPtr(lastName)
	p.ProfileImageURL = toStringPtr(imageURL)
	p.Location = toStringPtr(location)
	p.Bio = toStringPtr(bio)
	p.AvgSpeedMph = toFloatPtr(avgSpeed)
	p.WeightKg = toFloatPtr(weightKg)
	p.FTPWkg = toFloatPtr(ftpWkg)
	p.WeeklyHours = toFloatPtr(weeklyHours)
	p.WeeklyMileage = toIntPtr(weeklyMileage)
	p.FTPWatts = toIntPtr(ftpWatts)
	p.FTPTolerancePct = toIntPtr(ftpTolerance)
	p.MaxDistanceMi = toIntPtr(maxDistance)
	if sensorClass.Valid {
		v := SensorClass(sensorClass.String)
		p.SensorClass = &v
	}
	if tier.Valid {
		v := Tier(tier.String)
		p.Tier = &v
	}
	if paceZone.Valid {
		v := PaceZone(paceZone.String)
		p.PaceZone = &v
	}
	if elevationPref.Valid {
		v := ElevationPref(elevationPref.String)
		p.ElevationPref = &v
	}
	if rideTypePref.Valid {
		v := RideTypePref(rideTypePref.String)
		p.RideTypePref = &v
	}
	if socialPref.Valid {
		v := SocialPref(socialPref.String)
		p.SocialPref = &v
	}
	return &p, nil
}

func toStringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func toFloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func toIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
