// README: Legacy blended scorer for the broad discovery feed.
package matching

import (
	"math"

	"peloton/internal/modules/profile"
)

// Blend weights for the discovery feed: pace dominates, then tier, then FTP,
// then locality. This path predates the tier hierarchy and serves the swipe
// feed; the two strategies are intentionally not reconciled.
const (
	blendWeightSpeed    = 0.4
	blendWeightTier     = 0.3
	blendWeightFTP      = 0.2
	blendWeightLocation = 0.1

	// blendDefaultFTPScore applies when either side has no FTP on file.
	blendDefaultFTPScore = 50.0
)

// legacyBlend scores one candidate against the requester. Candidates outside
// the absolute speed window are excluded entirely (ok=false) before scoring.
func legacyBlend(req, cand *profile.Profile, speedTolerance float64) (int, bool) {
	reqSpeed := floatOrZero(req.AvgSpeedMph)
	candSpeed := floatOrZero(cand.AvgSpeedMph)
	speedDelta := math.Abs(candSpeed - reqSpeed)
	if speedDelta > speedTolerance {
		return 0, false
	}
	speedScore := math.Max(0, 100-speedDelta*10)

	// Retrieval already filtered on the requester's exact location string.
	locationScore := 0.0
	if stringPtrEqual(req.Location, cand.Location) {
		locationScore = 100
	}

	ftpScore := blendDefaultFTPScore
	if hasWatts(req) && hasWatts(cand) {
		ftpDelta := math.Abs(float64(*cand.FTPWatts - *req.FTPWatts))
		ftpScore = math.Max(0, 100-ftpDelta/2)
	}

	tierScore := 50.0
	if tierPtrEqual(req.Tier, cand.Tier) {
		tierScore = 100
	}

	score := speedScore*blendWeightSpeed +
		tierScore*blendWeightTier +
		ftpScore*blendWeightFTP +
		locationScore*blendWeightLocation
	return int(math.Round(score)), true
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func hasWatts(p *profile.Profile) bool {
	return p.FTPWatts != nil && *p.FTPWatts != 0
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func tierPtrEqual(a, b *profile.Tier) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
