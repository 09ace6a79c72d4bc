// README: Compatibility engine: ranked, simulated, and partitioned matching.
package matching

import (
	"context"
	"math"
	"sort"

	"peloton/internal/config"
	"peloton/internal/modules/profile"
	"peloton/internal/types"
)

// ProfileSource is the external profile store the engine reads from.
type ProfileSource interface {
	Get(ctx context.Context, id types.ID) (*profile.Profile, error)
	FindCandidates(ctx context.Context, q profile.CandidateQuery) ([]*profile.Profile, error)
}

// DecisionIndex yields riders already paired with the requester so the swipe
// feed never resurfaces a decided pair.
type DecisionIndex interface {
	PairedIDs(ctx context.Context, userID types.ID) ([]types.ID, error)
}

type Service struct {
	profiles  ProfileSource
	decisions DecisionIndex
	cache     *Cache
	cfg       config.MatchingConfig
}

// NewService wires the engine. cache may be nil to disable result caching.
func NewService(profiles ProfileSource, decisions DecisionIndex, cache *Cache, cfg config.MatchingConfig) *Service {
	return &Service{profiles: profiles, decisions: decisions, cache: cache, cfg: cfg}
}

// ComputeRankedMatches runs the legacy blended scorer over same-location
// candidates, excluding pairs the requester has already decided on.
// speedTolerance <= 0 selects the configured default (2.0 mph).
func (s *Service) ComputeRankedMatches(ctx context.Context, requesterID types.ID, speedTolerance float64) ([]RankedCandidate, error) {
	if speedTolerance <= 0 {
		speedTolerance = s.cfg.LegacySpeedToleranceMph
	}
	requester, err := s.profiles.Get(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	excluded, err := s.decisions.PairedIDs(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	q := profile.CandidateQuery{
		ExcludeID:  requesterID,
		ExcludeIDs: excluded,
		Limit:      s.cfg.CandidateLimit,
	}
	if requester.Location != nil {
		q.Location = *requester.Location
	}
	candidates, err := s.profiles.FindCandidates(ctx, q)
	if err != nil {
		return nil, err
	}

	results := make([]RankedCandidate, 0, len(candidates))
	for _, cand := range candidates {
		score, ok := legacyBlend(requester, cand, speedTolerance)
		if !ok {
			continue
		}
		results = append(results, RankedCandidate{
			ID:              cand.ID,
			Email:           cand.Email,
			FirstName:       cand.FirstName,
			LastName:        cand.LastName,
			ProfileImageURL: cand.ProfileImageURL,
			Location:        cand.Location,
			AvgSpeedMph:     cand.AvgSpeedMph,
			WeeklyMileage:   cand.WeeklyMileage,
			FTPWatts:        cand.FTPWatts,
			Tier:            cand.Tier,
			MatchScore:      score,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	return truncate(results, s.cfg.ResultCap), nil
}

// ComputeSensorMatches runs the 4-tier hierarchy for a stored rider against
// candidates sharing their exact location. Zero-compatibility candidates are
// dropped. speedTolerance <= 0 selects the configured default (1.5 mph).
func (s *Service) ComputeSensorMatches(ctx context.Context, requesterID types.ID, speedTolerance float64) ([]CompatibilityResult, error) {
	if speedTolerance <= 0 {
		speedTolerance = s.cfg.SpeedToleranceMph
	}
	requester, err := s.profiles.Get(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester.Location == nil {
		// Nobody shares an unset location.
		return []CompatibilityResult{}, nil
	}

	candidates, err := s.profiles.FindCandidates(ctx, profile.CandidateQuery{
		ExcludeID: requesterID,
		Location:  *requester.Location,
		Limit:     s.cfg.CandidateLimit,
	})
	if err != nil {
		return nil, err
	}
	params := ParamsFromProfile(requester, s.cfg, speedTolerance)
	return s.rankByTiers(params, candidates), nil
}

// SimulateMatches runs the 4-tier hierarchy against raw parameters instead
// of a stored profile. An absent location falls back to the configured
// default.
func (s *Service) SimulateMatches(ctx context.Context, in SimulateParams, speedTolerance float64) ([]CompatibilityResult, error) {
	if speedTolerance <= 0 {
		speedTolerance = s.cfg.SpeedToleranceMph
	}
	location := in.Location
	if location == "" {
		location = s.cfg.DefaultLocation
	}
	candidates, err := s.profiles.FindCandidates(ctx, profile.CandidateQuery{
		Location: location,
		Limit:    s.cfg.CandidateLimit,
	})
	if err != nil {
		return nil, err
	}
	params := ParamsFromSimulate(in, s.cfg, speedTolerance)
	return s.rankByTiers(params, candidates), nil
}

func (s *Service) rankByTiers(params RiderParams, candidates []*profile.Profile) []CompatibilityResult {
	results := make([]CompatibilityResult, 0, len(candidates))
	for _, cand := range candidates {
		out, ok := ResolveTiers(params, MetricsFromProfile(cand))
		if !ok {
			continue
		}
		results = append(results, CompatibilityResult{
			ID:            cand.ID,
			Name:          cand.DisplayName(),
			FTPWatts:      cand.FTPWatts,
			WeightKg:      cand.WeightKg,
			AvgSpeedMph:   cand.AvgSpeedMph,
			Location:      cand.Location,
			SensorClass:   sensorClassOf(cand),
			Compatibility: int(math.Round(out.Score)),
			MatchReason:   detailedReason(out),
			MetricUsed:    out.Metric,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Compatibility > results[j].Compatibility
	})
	return truncate(results, s.cfg.ResultCap)
}

// SearchBuddies scores every same-city candidate passing the soft filters
// and splits the ranked list into active and passive pools. No candidate is
// dropped: riders with no usable metric land on the location floor.
func (s *Service) SearchBuddies(ctx context.Context, requesterID types.ID, filters SearchFilters) (*SearchResult, error) {
	filterKey := filterCacheKey(filters)
	if s.cache != nil {
		if res, ok := s.cache.GetSearch(ctx, requesterID, filterKey); ok {
			return res, nil
		}
	}

	requester, err := s.profiles.Get(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	res := &SearchResult{Active: []SearchCandidate{}, Passive: []SearchCandidate{}}
	if requester.Location == nil {
		return res, nil
	}

	q := profile.CandidateQuery{
		ExcludeID: requesterID,
		Location:  *requester.Location,
		Coarse:    true,
		Limit:     s.cfg.SearchCandidateLimit,
	}
	if filters.PaceZone != "" && filters.PaceZone != string(profile.PaceNoPref) {
		q.PaceZone = filters.PaceZone
	}
	if filters.ElevationPref != "" && filters.ElevationPref != string(profile.ElevationNoPref) {
		q.ElevationPref = filters.ElevationPref
	}
	if filters.RideTypePref != "" && filters.RideTypePref != string(profile.RideTypeAny) {
		q.RideTypePref = filters.RideTypePref
	}
	candidates, err := s.profiles.FindCandidates(ctx, q)
	if err != nil {
		return nil, err
	}

	// The buddy finder always uses the configured pace window, not a caller
	// override.
	params := ParamsFromProfile(requester, s.cfg, s.cfg.SpeedToleranceMph)

	scored := make([]SearchCandidate, 0, len(candidates))
	for _, cand := range candidates {
		var c SearchCandidate
		out, ok := ResolveTiers(params, MetricsFromProfile(cand))
		if ok {
			c.Compatibility = int(math.Round(out.Score))
			c.MatchReason = searchReason(out)
			c.MetricUsed = out.Metric
		} else {
			// Locality floor: same city is still worth surfacing.
			c.Compatibility = 50
			c.MatchReason = "Same location"
			c.MetricUsed = MetricLocation
		}
		c.ID = cand.ID
		c.Name = cand.DisplayName()
		c.FTPWatts = cand.FTPWatts
		c.WeightKg = cand.WeightKg
		c.AvgSpeedMph = cand.AvgSpeedMph
		c.Location = cand.Location
		c.SensorClass = sensorClassOf(cand)
		c.FirstName = cand.FirstName
		c.LastName = cand.LastName
		c.IsActive = cand.ActiveBuddySearch
		c.PaceZone = (*string)(cand.PaceZone)
		c.ElevationPref = (*string)(cand.ElevationPref)
		c.RideTypePref = (*string)(cand.RideTypePref)
		c.MaxDistanceMi = cand.MaxDistanceMi
		c.SocialPref = (*string)(cand.SocialPref)
		scored = append(scored, c)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Compatibility > scored[j].Compatibility
	})

	for _, c := range scored {
		if c.IsActive {
			res.Active = append(res.Active, c)
		} else {
			res.Passive = append(res.Passive, c)
		}
	}
	res.Total = len(scored)

	if s.cache != nil {
		s.cache.PutSearch(ctx, requesterID, filterKey, res)
	}
	return res, nil
}

func truncate[T any](results []T, limit int) []T {
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}
