package matching

import (
	"context"
	"errors"
	"testing"

	"peloton/internal/config"
	"peloton/internal/modules/profile"
	"peloton/internal/types"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockProfiles struct {
	byID       map[types.ID]*profile.Profile
	candidates []*profile.Profile
	lastQuery  profile.CandidateQuery
	findErr    error
}

func (m *mockProfiles) Get(_ context.Context, id types.ID) (*profile.Profile, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, profile.ErrNotFound
	}
	return p, nil
}

func (m *mockProfiles) FindCandidates(_ context.Context, q profile.CandidateQuery) ([]*profile.Profile, error) {
	m.lastQuery = q
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.candidates, nil
}

type mockDecisions struct {
	paired []types.ID
}

func (m *mockDecisions) PairedIDs(_ context.Context, _ types.ID) ([]types.ID, error) {
	return m.paired, nil
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func sp(s string) *string { return &s }
func ip(v int) *int       { return &v }

func testCfg() config.MatchingConfig {
	return config.MatchingConfig{
		FTPTolerancePct:         20,
		HoursTolerancePct:       25,
		SpeedToleranceMph:       1.5,
		LegacySpeedToleranceMph: 2.0,
		CandidateLimit:          50,
		SearchCandidateLimit:    100,
		ResultCap:               10,
		DefaultLocation:         "San Jose, CA",
	}
}

func rider(id string, loc string, speed float64) *profile.Profile {
	return &profile.Profile{
		ID:          types.ID(id),
		FirstName:   sp("Rider"),
		LastName:    sp(id),
		Location:    sp(loc),
		AvgSpeedMph: &speed,
	}
}

func newTestService(profiles *mockProfiles, decisions *mockDecisions) *Service {
	if decisions == nil {
		decisions = &mockDecisions{}
	}
	return NewService(profiles, decisions, nil, testCfg())
}

// ---------------------------------------------------------------------------
// ComputeSensorMatches
// ---------------------------------------------------------------------------

func TestComputeSensorMatches_DropsOutsideBand(t *testing.T) {
	me := rider("me", "San Jose, CA", 18.0)
	profiles := &mockProfiles{
		byID: map[types.ID]*profile.Profile{"me": me},
		candidates: []*profile.Profile{
			rider("close", "San Jose, CA", 19.0),
			rider("far", "San Jose, CA", 24.0),
		},
	}
	svc := newTestService(profiles, nil)

	results, err := svc.ComputeSensorMatches(context.Background(), "me", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != "close" || results[0].Compatibility != 90 {
		t.Fatalf("got %s/%d, want close/90", results[0].ID, results[0].Compatibility)
	}
	if results[0].MetricUsed != MetricAvgSpeed {
		t.Fatalf("expected avg_speed_mph, got %s", results[0].MetricUsed)
	}
}

func TestComputeSensorMatches_SortedAndCapped(t *testing.T) {
	me := rider("me", "San Jose, CA", 18.0)
	profiles := &mockProfiles{byID: map[types.ID]*profile.Profile{"me": me}}
	// 12 candidates, speeds fanning out in 0.1 mph steps. All inside the
	// window, scores strictly decreasing, so the cap must bite.
	for i := 0; i < 12; i++ {
		profiles.candidates = append(profiles.candidates,
			rider(string(rune('a'+i)), "San Jose, CA", 18.0+float64(i)*0.1))
	}
	svc := newTestService(profiles, nil)

	results, err := svc.ComputeSensorMatches(context.Background(), "me", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 10 {
		t.Fatalf("expected cap of 10, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Compatibility > results[i-1].Compatibility {
			t.Fatalf("results not sorted at %d: %d > %d",
				i, results[i].Compatibility, results[i-1].Compatibility)
		}
	}
}

func TestComputeSensorMatches_NoLocation(t *testing.T) {
	me := &profile.Profile{ID: "me"}
	profiles := &mockProfiles{
		byID:       map[types.ID]*profile.Profile{"me": me},
		candidates: []*profile.Profile{rider("x", "San Jose, CA", 18.0)},
	}
	svc := newTestService(profiles, nil)

	results, err := svc.ComputeSensorMatches(context.Background(), "me", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("a rider with no location has no matches, got %d", len(results))
	}
}

func TestComputeSensorMatches_UnknownRequester(t *testing.T) {
	svc := newTestService(&mockProfiles{byID: map[types.ID]*profile.Profile{}}, nil)
	if _, err := svc.ComputeSensorMatches(context.Background(), "ghost", 0); !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ComputeRankedMatches
// ---------------------------------------------------------------------------

func TestComputeRankedMatches_ExcludesDecidedPairs(t *testing.T) {
	me := rider("me", "San Jose, CA", 18.0)
	profiles := &mockProfiles{
		byID:       map[types.ID]*profile.Profile{"me": me},
		candidates: []*profile.Profile{rider("new", "San Jose, CA", 18.0)},
	}
	decisions := &mockDecisions{paired: []types.ID{"seen1", "seen2"}}
	svc := newTestService(profiles, decisions)

	results, err := svc.ComputeRankedMatches(context.Background(), "me", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := profiles.lastQuery
	if q.ExcludeID != "me" {
		t.Fatalf("requester must be excluded, got %q", q.ExcludeID)
	}
	if len(q.ExcludeIDs) != 2 || q.ExcludeIDs[0] != "seen1" || q.ExcludeIDs[1] != "seen2" {
		t.Fatalf("decided pairs must be passed to retrieval, got %v", q.ExcludeIDs)
	}
	if q.Location != "San Jose, CA" || q.Coarse {
		t.Fatalf("ranked feed retrieves on exact location, got %q coarse=%v", q.Location, q.Coarse)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestComputeRankedMatches_SpeedWindowExcludes(t *testing.T) {
	me := rider("me", "San Jose, CA", 18.0)
	profiles := &mockProfiles{
		byID: map[types.ID]*profile.Profile{"me": me},
		candidates: []*profile.Profile{
			rider("in", "San Jose, CA", 19.9),
			rider("out", "San Jose, CA", 20.1),
		},
	}
	svc := newTestService(profiles, nil)

	results, err := svc.ComputeRankedMatches(context.Background(), "me", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].ID != "in" {
		t.Fatalf("only the in-window candidate should score, got %v", results)
	}
}

func TestComputeRankedMatches_BlendScore(t *testing.T) {
	tier := profile.TierB
	me := rider("me", "San Jose, CA", 18.0)
	me.FTPWatts = ip(250)
	me.Tier = &tier
	twin := rider("twin", "San Jose, CA", 18.0)
	twin.FTPWatts = ip(250)
	twin.Tier = &tier

	profiles := &mockProfiles{
		byID:       map[types.ID]*profile.Profile{"me": me},
		candidates: []*profile.Profile{twin},
	}
	svc := newTestService(profiles, nil)

	results, err := svc.ComputeRankedMatches(context.Background(), "me", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Identical rider: every component scores 100.
	if len(results) != 1 || results[0].MatchScore != 100 {
		t.Fatalf("expected a perfect 100, got %v", results)
	}
}

// ---------------------------------------------------------------------------
// SimulateMatches
// ---------------------------------------------------------------------------

func TestSimulateMatches_DefaultLocation(t *testing.T) {
	profiles := &mockProfiles{candidates: nil}
	svc := newTestService(profiles, nil)

	speed := 18.0
	_, err := svc.SimulateMatches(context.Background(), SimulateParams{AvgSpeedMph: &speed}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profiles.lastQuery.Location != "San Jose, CA" {
		t.Fatalf("empty location must fall back to the default, got %q", profiles.lastQuery.Location)
	}
	if profiles.lastQuery.ExcludeID != "" {
		t.Fatalf("simulation has no requester to exclude, got %q", profiles.lastQuery.ExcludeID)
	}
}

func TestSimulateMatches_DerivedWkg(t *testing.T) {
	watts, weight := 280.0, 80.0
	cand := rider("cand", "San Jose, CA", 0)
	cand.AvgSpeedMph = nil
	cand.FTPWatts = ip(280)
	cand.WeightKg = &weight

	profiles := &mockProfiles{candidates: []*profile.Profile{cand}}
	svc := newTestService(profiles, nil)

	results, err := svc.SimulateMatches(context.Background(), SimulateParams{
		FTPWatts: &watts,
		WeightKg: &weight,
	}, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].MetricUsed != MetricFTPWkg || results[0].Compatibility != 100 {
		t.Fatalf("expected a perfect w/kg match, got %s/%d",
			results[0].MetricUsed, results[0].Compatibility)
	}
}

// ---------------------------------------------------------------------------
// SearchBuddies
// ---------------------------------------------------------------------------

func TestSearchBuddies_PartitionAndFloor(t *testing.T) {
	me := rider("me", "San Jose, CA", 18.0)

	active := rider("active", "San Jose, CA", 18.5)
	active.ActiveBuddySearch = true
	passive := rider("passive", "San Jose, CA", 19.0)
	// No usable metric at all: lands on the location floor instead of being
	// dropped.
	bare := &profile.Profile{ID: "bare", Location: sp("San Jose, CA")}

	profiles := &mockProfiles{
		byID:       map[types.ID]*profile.Profile{"me": me},
		candidates: []*profile.Profile{active, passive, bare},
	}
	svc := newTestService(profiles, nil)

	res, err := svc.SearchBuddies(context.Background(), "me", SearchFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !profiles.lastQuery.Coarse {
		t.Fatal("buddy search must retrieve on the coarse city segment")
	}
	if res.Total != 3 || res.Total != len(res.Active)+len(res.Passive) {
		t.Fatalf("total %d must equal active %d + passive %d",
			res.Total, len(res.Active), len(res.Passive))
	}
	if len(res.Active) != 1 || res.Active[0].ID != "active" {
		t.Fatalf("expected only the active rider in the active pool, got %v", res.Active)
	}

	var floor *SearchCandidate
	for i := range res.Passive {
		if res.Passive[i].ID == "bare" {
			floor = &res.Passive[i]
		}
	}
	if floor == nil {
		t.Fatal("metricless rider missing from the passive pool")
	}
	if floor.Compatibility != 50 || floor.MetricUsed != MetricLocation || floor.MatchReason != "Same location" {
		t.Fatalf("expected the 50-point location floor, got %d/%s/%q",
			floor.Compatibility, floor.MetricUsed, floor.MatchReason)
	}
	// The floor ranks below every scored candidate here.
	if res.Passive[0].ID != "passive" {
		t.Fatalf("scored riders sort above the floor, got %s first", res.Passive[0].ID)
	}
}

func TestSearchBuddies_WildcardFiltersNotForwarded(t *testing.T) {
	me := rider("me", "San Jose, CA", 18.0)
	profiles := &mockProfiles{byID: map[types.ID]*profile.Profile{"me": me}}
	svc := newTestService(profiles, nil)

	_, err := svc.SearchBuddies(context.Background(), "me", SearchFilters{
		PaceZone:      "NoPref",
		ElevationPref: "NoPref",
		RideTypePref:  "any",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := profiles.lastQuery
	if q.PaceZone != "" || q.ElevationPref != "" || q.RideTypePref != "" {
		t.Fatalf("wildcard filters must not reach retrieval, got %+v", q)
	}

	_, err = svc.SearchBuddies(context.Background(), "me", SearchFilters{PaceZone: "Z2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profiles.lastQuery.PaceZone != "Z2" {
		t.Fatalf("concrete filter must be forwarded, got %q", profiles.lastQuery.PaceZone)
	}
}

func TestSearchBuddies_NoLocation(t *testing.T) {
	me := &profile.Profile{ID: "me"}
	profiles := &mockProfiles{byID: map[types.ID]*profile.Profile{"me": me}}
	svc := newTestService(profiles, nil)

	res, err := svc.SearchBuddies(context.Background(), "me", SearchFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || len(res.Active) != 0 || len(res.Passive) != 0 {
		t.Fatalf("no location means an empty result, got %+v", res)
	}
}
