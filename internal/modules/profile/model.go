// README: Rider profile aggregate, fitness metrics, and preference enums.
package profile

import (
	"strings"
	"time"

	"peloton/internal/types"
)

type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

type PaceZone string

const (
	PaceNoPref PaceZone = "NoPref"
	PaceZ1     PaceZone = "Z1"
	PaceZ2     PaceZone = "Z2"
	PaceZ3     PaceZone = "Z3"
	PaceZ4     PaceZone = "Z4"
)

type ElevationPref string

const (
	ElevationNoPref  ElevationPref = "NoPref"
	ElevationFlat    ElevationPref = "flat"
	ElevationRolling ElevationPref = "rolling"
	ElevationHilly   ElevationPref = "hilly"
)

type RideTypePref string

const (
	RideTypeAny    RideTypePref = "any"
	RideTypeRoad   RideTypePref = "road"
	RideTypeGravel RideTypePref = "gravel"
	RideTypeMTB    RideTypePref = "mtb"
)

type SocialPref string

const (
	SocialSocial   SocialPref = "social"
	SocialSolo     SocialPref = "solo"
	SocialFlexible SocialPref = "flexible"
)

type SensorClass string

const (
	SensorPowerMeter SensorClass = "power-meter"
	SensorNone       SensorClass = "non-sensor"
)

// Profile is the rider record. All fitness metrics are independently
// nullable; scoring treats a missing or zero value as "not provided".
type Profile struct {
	ID              types.ID
	Email           *string
	FirstName       *string
	LastName        *string
	ProfileImageURL *string
	Location        *string
	Bio             *string

	AvgSpeedMph   *float64
	WeeklyMileage *int
	FTPWatts      *int
	WeightKg      *float64
	FTPWkg        *float64
	WeeklyHours   *float64
	SensorClass   *SensorClass
	// FTPTolerancePct is the rider's own power band width in percent.
	FTPTolerancePct *int

	TotalRides    int
	KudosReceived int
	Tier          *Tier

	PaceZone      *PaceZone
	ElevationPref *ElevationPref
	RideTypePref  *RideTypePref
	MaxDistanceMi *int
	SocialPref    *SocialPref

	ActiveBuddySearch    bool
	VisibleInPassivePool bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName joins first and last name, tolerating either being unset.
func (p *Profile) DisplayName() string {
	var parts []string
	if p.FirstName != nil && *p.FirstName != "" {
		parts = append(parts, *p.FirstName)
	}
	if p.LastName != nil && *p.LastName != "" {
		parts = append(parts, *p.LastName)
	}
	return strings.Join(parts, " ")
}

// ResolvedWkg returns the rider's power-to-weight ratio: the explicit
// ftp_wkg field when set, otherwise derived from watts and weight when both
// are present. Zero values count as absent.
func (p *Profile) ResolvedWkg() (float64, bool) {
	if p.FTPWkg != nil && *p.FTPWkg != 0 {
		return *p.FTPWkg, true
	}
	if p.FTPWatts != nil && *p.FTPWatts != 0 && p.WeightKg != nil && *p.WeightKg != 0 {
		return float64(*p.FTPWatts) / *p.WeightKg, true
	}
	return 0, false
}

// TolerancePct returns the rider's power band width, falling back to def
// when the rider has not set one.
func (p *Profile) TolerancePct(def float64) float64 {
	if p.FTPTolerancePct != nil && *p.FTPTolerancePct != 0 {
		return float64(*p.FTPTolerancePct)
	}
	return def
}

// CoarseLocation reduces a free-text "city, region" string to its city
// segment for locality grouping.
func CoarseLocation(loc string) string {
	city, _, _ := strings.Cut(loc, ",")
	return strings.TrimSpace(city)
}

// Tier thresholds used by the nightly reclassifier. A strong power-to-weight
// ratio promotes regardless of reported pace.
const (
	tierAMinSpeedMph = 18.0
	tierBMinSpeedMph = 15.0
	tierAMinWkg      = 3.5
)

// ClassifyTier derives the coarse A/B/C ability grouping from average speed
// and, when available, power-to-weight.
func ClassifyTier(avgSpeedMph *float64, wkg float64, hasWkg bool) Tier {
	if hasWkg && wkg >= tierAMinWkg {
		return TierA
	}
	if avgSpeedMph != nil {
		switch {
		case *avgSpeedMph >= tierAMinSpeedMph:
			return TierA
		case *avgSpeedMph >= tierBMinSpeedMph:
			return TierB
		}
	}
	return TierC
}
