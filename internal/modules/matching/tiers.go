// README: Ordered tier evaluators for the 4-tier compatibility hierarchy.
package matching

import (
	"fmt"
	"math"

	"peloton/internal/config"
	"peloton/internal/modules/profile"
)

// RiderParams is the requester side of a comparison: resolved metric values
// plus the tolerance knobs that apply to this request. Tolerances are always
// requester-relative; swapping roles can legitimately change the outcome.
type RiderParams struct {
	FTPWkg      *float64
	FTPWatts    *float64
	WeeklyHours *float64
	AvgSpeedMph *float64

	TolerancePct      float64
	HoursTolerancePct float64
	SpeedToleranceMph float64
}

// CandidateMetrics is the candidate side: metric values only.
type CandidateMetrics struct {
	FTPWkg      *float64
	FTPWatts    *float64
	WeeklyHours *float64
	AvgSpeedMph *float64
}

// TierOutcome is one tier's verdict: the raw (unrounded) score, the metric
// tag, and the absolute delta in the metric's own unit for reason strings.
type TierOutcome struct {
	Score        float64
	Metric       Metric
	Delta        float64
	TolerancePct float64
}

type tierFunc func(req RiderParams, cand CandidateMetrics) (TierOutcome, bool)

// tiers is the strict fallback order: power-to-weight, absolute power,
// weekly training volume, average speed. Each evaluator is independent; the
// resolver takes the first hit.
var tiers = []tierFunc{
	tierPowerToWeight,
	tierAbsolutePower,
	tierWeeklyHours,
	tierAvgSpeed,
}

// ResolveTiers walks the hierarchy and returns the first tier that both
// passes its tolerance check and yields a nonzero score.
func ResolveTiers(req RiderParams, cand CandidateMetrics) (TierOutcome, bool) {
	for _, tier := range tiers {
		if out, ok := tier(req, cand); ok {
			return out, true
		}
	}
	return TierOutcome{}, false
}

func tierPowerToWeight(req RiderParams, cand CandidateMetrics) (TierOutcome, bool) {
	if req.FTPWkg == nil || cand.FTPWkg == nil {
		return TierOutcome{}, false
	}
	return bandOutcome(*req.FTPWkg, *cand.FTPWkg, req.TolerancePct, MetricFTPWkg)
}

func tierAbsolutePower(req RiderParams, cand CandidateMetrics) (TierOutcome, bool) {
	if req.FTPWatts == nil || cand.FTPWatts == nil {
		return TierOutcome{}, false
	}
	return bandOutcome(*req.FTPWatts, *cand.FTPWatts, req.TolerancePct, MetricFTPWatts)
}

// bandOutcome applies the shared percentage-band mechanism of the two power
// tiers: candidate must fall inside requester ± pct%, both bounds inclusive;
// the score loses one point per percent of relative delta.
func bandOutcome(reqVal, candVal, pct float64, metric Metric) (TierOutcome, bool) {
	lower := reqVal * (1 - pct/100)
	upper := reqVal * (1 + pct/100)
	if candVal < lower || candVal > upper {
		return TierOutcome{}, false
	}
	deltaPct := math.Abs(candVal-reqVal) / reqVal * 100
	score := math.Max(0, 100-deltaPct)
	if score == 0 {
		// A zero score falls through to the next tier.
		return TierOutcome{}, false
	}
	return TierOutcome{
		Score:        score,
		Metric:       metric,
		Delta:        math.Abs(candVal - reqVal),
		TolerancePct: pct,
	}, true
}

func tierWeeklyHours(req RiderParams, cand CandidateMetrics) (TierOutcome, bool) {
	if req.WeeklyHours == nil || cand.WeeklyHours == nil {
		return TierOutcome{}, false
	}
	reqHours := *req.WeeklyHours
	delta := math.Abs(*cand.WeeklyHours - reqHours)
	if delta > reqHours*req.HoursTolerancePct/100 {
		return TierOutcome{}, false
	}
	score := math.Max(0, 100-(delta/reqHours)*100)
	if score == 0 {
		return TierOutcome{}, false
	}
	return TierOutcome{Score: score, Metric: MetricWeeklyHours, Delta: delta}, true
}

func tierAvgSpeed(req RiderParams, cand CandidateMetrics) (TierOutcome, bool) {
	if req.AvgSpeedMph == nil || cand.AvgSpeedMph == nil {
		return TierOutcome{}, false
	}
	delta := math.Abs(*cand.AvgSpeedMph - *req.AvgSpeedMph)
	if delta > req.SpeedToleranceMph {
		return TierOutcome{}, false
	}
	score := math.Max(0, 100-delta*10)
	if score == 0 {
		return TierOutcome{}, false
	}
	return TierOutcome{Score: score, Metric: MetricAvgSpeed, Delta: delta}, true
}

// detailedReason is the explanation used by the sensor and simulate paths.
func detailedReason(o TierOutcome) string {
	switch o.Metric {
	case MetricFTPWkg:
		return fmt.Sprintf("FTP match ±%.1f w/kg (%g%% range)", o.Delta, o.TolerancePct)
	case MetricFTPWatts:
		return fmt.Sprintf("FTP match ±%dw (%g%% range)", int(math.Round(o.Delta)), o.TolerancePct)
	case MetricWeeklyHours:
		return fmt.Sprintf("Training volume ±%.1f hrs/week", o.Delta)
	case MetricAvgSpeed:
		return fmt.Sprintf("Pace band ±%.1f mph, same city", o.Delta)
	}
	return ""
}

// searchReason is the terse form the buddy finder shows.
func searchReason(o TierOutcome) string {
	switch o.Metric {
	case MetricFTPWkg:
		return "Power-to-weight match"
	case MetricFTPWatts:
		return "Power match"
	case MetricWeeklyHours:
		return "Training volume match"
	case MetricAvgSpeed:
		return "Pace match"
	}
	return ""
}

// ParamsFromProfile resolves a stored profile into requester params. A zero
// metric value counts as not provided.
func ParamsFromProfile(p *profile.Profile, cfg config.MatchingConfig, speedTolerance float64) RiderParams {
	params := RiderParams{
		WeeklyHours:       nonZero(p.WeeklyHours),
		AvgSpeedMph:       nonZero(p.AvgSpeedMph),
		TolerancePct:      p.TolerancePct(cfg.FTPTolerancePct),
		HoursTolerancePct: cfg.HoursTolerancePct,
		SpeedToleranceMph: speedTolerance,
	}
	if wkg, ok := p.ResolvedWkg(); ok {
		params.FTPWkg = &wkg
	}
	if p.FTPWatts != nil && *p.FTPWatts != 0 {
		w := float64(*p.FTPWatts)
		params.FTPWatts = &w
	}
	return params
}

// ParamsFromSimulate resolves raw simulation input. Power-to-weight exists
// only when both watts and weight were supplied.
func ParamsFromSimulate(in SimulateParams, cfg config.MatchingConfig, speedTolerance float64) RiderParams {
	params := RiderParams{
		FTPWatts:          nonZero(in.FTPWatts),
		WeeklyHours:       nonZero(in.WeeklyHours),
		AvgSpeedMph:       nonZero(in.AvgSpeedMph),
		TolerancePct:      cfg.FTPTolerancePct,
		HoursTolerancePct: cfg.HoursTolerancePct,
		SpeedToleranceMph: speedTolerance,
	}
	if in.FTPTolerancePct != nil && *in.FTPTolerancePct != 0 {
		params.TolerancePct = *in.FTPTolerancePct
	}
	if in.FTPWatts != nil && *in.FTPWatts != 0 && in.WeightKg != nil && *in.WeightKg != 0 {
		wkg := *in.FTPWatts / *in.WeightKg
		params.FTPWkg = &wkg
	}
	return params
}

// MetricsFromProfile resolves the candidate side of a comparison.
func MetricsFromProfile(p *profile.Profile) CandidateMetrics {
	m := CandidateMetrics{
		WeeklyHours: nonZero(p.WeeklyHours),
		AvgSpeedMph: nonZero(p.AvgSpeedMph),
	}
	if wkg, ok := p.ResolvedWkg(); ok {
		m.FTPWkg = &wkg
	}
	if p.FTPWatts != nil && *p.FTPWatts != 0 {
		w := float64(*p.FTPWatts)
		m.FTPWatts = &w
	}
	return m
}

func nonZero(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}
