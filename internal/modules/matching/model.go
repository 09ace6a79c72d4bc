// README: Compatibility result shapes and metric tags for buddy matching.
package matching

import (
	"peloton/internal/modules/profile"
	"peloton/internal/types"
)

// Metric identifies which tier produced a compatibility score.
type Metric string

const (
	MetricFTPWkg      Metric = "ftp_wkg"
	MetricFTPWatts    Metric = "ftp_watts"
	MetricWeeklyHours Metric = "weekly_hours"
	MetricAvgSpeed    Metric = "avg_speed_mph"
	MetricLocation    Metric = "location"
)

// CompatibilityResult is the transient per-candidate outcome of the 4-tier
// scoring paths. Field names follow the public API (snake_case).
type CompatibilityResult struct {
	ID            types.ID `json:"id"`
	Name          string   `json:"name"`
	FTPWatts      *int     `json:"ftp_watts"`
	WeightKg      *float64 `json:"weight_kg"`
	AvgSpeedMph   *float64 `json:"avg_speed_mph"`
	Location      *string  `json:"location"`
	SensorClass   string   `json:"sensor_class"`
	Compatibility int      `json:"compatibility"`
	MatchReason   string   `json:"match_reason"`
	MetricUsed    Metric   `json:"metric_used"`
}

// SearchCandidate extends the compatibility result with the fields the buddy
// finder displays and partitions on.
type SearchCandidate struct {
	CompatibilityResult
	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	IsActive      bool    `json:"is_active"`
	PaceZone      *string `json:"pace_zone"`
	ElevationPref *string `json:"elevation_pref"`
	RideTypePref  *string `json:"ride_type_pref"`
	MaxDistanceMi *int    `json:"max_distance_mi"`
	SocialPref    *string `json:"social_pref"`
}

// SearchResult is the active/passive partition of a filtered buddy search.
// Every surviving candidate lands in exactly one bucket.
type SearchResult struct {
	Active  []SearchCandidate `json:"active"`
	Passive []SearchCandidate `json:"passive"`
	Total   int               `json:"total"`
}

// RankedCandidate is the legacy discovery-feed result. Its wire shape has
// always been camelCase and stays that way.
type RankedCandidate struct {
	ID              types.ID      `json:"id"`
	Email           *string       `json:"email"`
	FirstName       *string       `json:"firstName"`
	LastName        *string       `json:"lastName"`
	ProfileImageURL *string       `json:"profileImageUrl"`
	Location        *string       `json:"location"`
	AvgSpeedMph     *float64      `json:"avgSpeed"`
	WeeklyMileage   *int          `json:"weeklyMileage"`
	FTPWatts        *int          `json:"ftpWatts"`
	Tier            *profile.Tier `json:"tier"`
	MatchScore      int           `json:"matchScore"`
}

// SimulateParams are ad-hoc requester metrics for the debug/simulate path;
// no stored profile is involved.
type SimulateParams struct {
	FTPWatts        *float64 `json:"ftp_watts"`
	WeightKg        *float64 `json:"weight_kg"`
	WeeklyHours     *float64 `json:"weekly_hours"`
	AvgSpeedMph     *float64 `json:"avg_speed_mph"`
	Location        string   `json:"location"`
	FTPTolerancePct *float64 `json:"ftp_tolerance_pct"`
}

// SearchFilters are the caller-supplied soft filters for SearchBuddies.
// MaxDistanceMi is accepted for API compatibility but not enforced: the data
// model has no inter-rider distance to compare it against.
type SearchFilters struct {
	PaceZone      string
	ElevationPref string
	RideTypePref  string
	MaxDistanceMi *int
}

func sensorClassOf(p *profile.Profile) string {
	if p.SensorClass != nil {
		return string(*p.SensorClass)
	}
	return string(profile.SensorNone)
}
