// README: Tier resolver unit tests covering fallback order, tolerance bands,
// and reason strings.
package matching

import (
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }

func baseParams() RiderParams {
	return RiderParams{
		TolerancePct:      20,
		HoursTolerancePct: 25,
		SpeedToleranceMph: 1.5,
	}
}

// ---------------------------------------------------------------------------
// Tier 1: power-to-weight
// ---------------------------------------------------------------------------

func TestResolveTiers_PowerToWeightInBand(t *testing.T) {
	req := baseParams()
	req.FTPWkg = fp(3.5)
	cand := CandidateMetrics{FTPWkg: fp(3.7)}

	out, ok := ResolveTiers(req, cand)
	if !ok {
		t.Fatal("expected a match inside the 20% band")
	}
	if out.Metric != MetricFTPWkg {
		t.Fatalf("expected ftp_wkg, got %s", out.Metric)
	}
	// deltaPct = |3.7-3.5|/3.5*100 ≈ 5.71 → score ≈ 94.29
	if got := int(math.Round(out.Score)); got != 94 {
		t.Fatalf("expected rounded score 94, got %d", got)
	}
}

func TestResolveTiers_PowerToWeightBoundsInclusive(t *testing.T) {
	req := baseParams()
	req.FTPWkg = fp(3.5)

	// 20% band is [2.8, 4.2]; both endpoints must match.
	for _, edge := range []float64{2.8, 4.2} {
		out, ok := ResolveTiers(req, CandidateMetrics{FTPWkg: fp(edge)})
		if !ok {
			t.Fatalf("candidate at band edge %.1f should match", edge)
		}
		if out.Metric != MetricFTPWkg {
			t.Fatalf("expected ftp_wkg at edge %.1f, got %s", edge, out.Metric)
		}
	}

	if _, ok := ResolveTiers(req, CandidateMetrics{FTPWkg: fp(4.21)}); ok {
		t.Fatal("candidate just outside the band must not match tier 1")
	}
}

func TestResolveTiers_ExactMatchScores100(t *testing.T) {
	req := baseParams()
	req.FTPWkg = fp(3.5)
	out, ok := ResolveTiers(req, CandidateMetrics{FTPWkg: fp(3.5)})
	if !ok || int(math.Round(out.Score)) != 100 {
		t.Fatalf("exact w/kg match must score 100, got %.2f (ok=%v)", out.Score, ok)
	}
}

// Tolerance is requester-relative, not mutual: A inside B's band does not
// imply B inside A's band. This asymmetry is intended behavior.
func TestResolveTiers_ToleranceAsymmetry(t *testing.T) {
	a := baseParams()
	a.TolerancePct = 30
	a.FTPWkg = fp(3.0)
	bMetrics := CandidateMetrics{FTPWkg: fp(3.8)}

	b := baseParams()
	b.TolerancePct = 10
	b.FTPWkg = fp(3.8)
	aMetrics := CandidateMetrics{FTPWkg: fp(3.0)}

	if _, ok := ResolveTiers(a, bMetrics); !ok {
		t.Fatal("3.8 is inside 3.0 ± 30%, A should match B")
	}
	if _, ok := ResolveTiers(b, aMetrics); ok {
		t.Fatal("3.0 is outside 3.8 ± 10%, B must not match A")
	}
}

// ---------------------------------------------------------------------------
// Tier 2: absolute power
// ---------------------------------------------------------------------------

func TestResolveTiers_FallsBackToWatts(t *testing.T) {
	req := baseParams()
	req.FTPWatts = fp(250)
	cand := CandidateMetrics{FTPWatts: fp(240)}

	out, ok := ResolveTiers(req, cand)
	if !ok {
		t.Fatal("expected a watts match")
	}
	if out.Metric != MetricFTPWatts {
		t.Fatalf("expected ftp_watts, got %s", out.Metric)
	}
	// deltaPct = 10/250*100 = 4 → 96
	if got := int(math.Round(out.Score)); got != 96 {
		t.Fatalf("expected 96, got %d", got)
	}
}

func TestResolveTiers_WkgWinsOverWatts(t *testing.T) {
	req := baseParams()
	req.FTPWkg = fp(3.5)
	req.FTPWatts = fp(250)
	cand := CandidateMetrics{FTPWkg: fp(3.6), FTPWatts: fp(250)}

	out, ok := ResolveTiers(req, cand)
	if !ok || out.Metric != MetricFTPWkg {
		t.Fatalf("tier 1 must win when both sides have w/kg, got %s", out.Metric)
	}
}

// A tier-1 miss (outside band) must still allow lower tiers to fire.
func TestResolveTiers_Tier1MissFallsThrough(t *testing.T) {
	req := baseParams()
	req.FTPWkg = fp(3.0)
	req.WeeklyHours = fp(10)
	cand := CandidateMetrics{FTPWkg: fp(5.0), WeeklyHours: fp(9)}

	out, ok := ResolveTiers(req, cand)
	if !ok {
		t.Fatal("expected the hours tier to catch the candidate")
	}
	if out.Metric != MetricWeeklyHours {
		t.Fatalf("expected weekly_hours, got %s", out.Metric)
	}
}

// ---------------------------------------------------------------------------
// Tier 3: weekly hours
// ---------------------------------------------------------------------------

func TestResolveTiers_WeeklyHours(t *testing.T) {
	req := baseParams()
	req.WeeklyHours = fp(8)
	cand := CandidateMetrics{WeeklyHours: fp(10)}

	// 10 is exactly at 8 + 25%; inclusive bound, score = 100 - 2/8*100 = 75.
	out, ok := ResolveTiers(req, cand)
	if !ok {
		t.Fatal("expected an hours match at the inclusive bound")
	}
	if out.Metric != MetricWeeklyHours {
		t.Fatalf("expected weekly_hours, got %s", out.Metric)
	}
	if got := int(math.Round(out.Score)); got != 75 {
		t.Fatalf("expected 75, got %d", got)
	}

	if _, ok := ResolveTiers(req, CandidateMetrics{WeeklyHours: fp(10.1)}); ok {
		t.Fatal("10.1 hours is outside 8 ± 25%")
	}
}

// ---------------------------------------------------------------------------
// Tier 4: average speed
// ---------------------------------------------------------------------------

func TestResolveTiers_AvgSpeedFallback(t *testing.T) {
	req := baseParams()
	req.AvgSpeedMph = fp(18.0)
	cand := CandidateMetrics{AvgSpeedMph: fp(19.0)}

	out, ok := ResolveTiers(req, cand)
	if !ok {
		t.Fatal("delta 1.0 is within the 1.5 mph window")
	}
	if out.Metric != MetricAvgSpeed {
		t.Fatalf("expected avg_speed_mph, got %s", out.Metric)
	}
	if got := int(math.Round(out.Score)); got != 90 {
		t.Fatalf("expected 90, got %d", got)
	}
}

func TestResolveTiers_NoUsableMetric(t *testing.T) {
	if _, ok := ResolveTiers(baseParams(), CandidateMetrics{}); ok {
		t.Fatal("no shared metric must yield no match")
	}
}

// Zero values mean "not provided" and must not be compared.
func TestResolveTiers_ZeroValuesAreAbsent(t *testing.T) {
	req := baseParams()
	req.AvgSpeedMph = fp(18.0)
	cand := CandidateMetrics{FTPWkg: fp(0), AvgSpeedMph: fp(18.0)}

	// Requester has no wkg; candidate's zero wkg is irrelevant either way.
	out, ok := ResolveTiers(req, cand)
	if !ok || out.Metric != MetricAvgSpeed {
		t.Fatalf("expected speed tier, got %v (ok=%v)", out.Metric, ok)
	}
}

// ---------------------------------------------------------------------------
// Reason strings
// ---------------------------------------------------------------------------

func TestReasonStrings(t *testing.T) {
	cases := []struct {
		outcome  TierOutcome
		detailed string
		short    string
	}{
		{TierOutcome{Metric: MetricFTPWkg, Delta: 0.2, TolerancePct: 20},
			"FTP match ±0.2 w/kg (20% range)", "Power-to-weight match"},
		{TierOutcome{Metric: MetricFTPWatts, Delta: 10, TolerancePct: 20},
			"FTP match ±10w (20% range)", "Power match"},
		{TierOutcome{Metric: MetricWeeklyHours, Delta: 1.5},
			"Training volume ±1.5 hrs/week", "Training volume match"},
		{TierOutcome{Metric: MetricAvgSpeed, Delta: 1.0},
			"Pace band ±1.0 mph, same city", "Pace match"},
	}
	for _, tc := range cases {
		if got := detailedReason(tc.outcome); got != tc.detailed {
			t.Errorf("detailed reason for %s: got %q, want %q", tc.outcome.Metric, got, tc.detailed)
		}
		if got := searchReason(tc.outcome); got != tc.short {
			t.Errorf("search reason for %s: got %q, want %q", tc.outcome.Metric, got, tc.short)
		}
	}
}
