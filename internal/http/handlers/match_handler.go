// README: Match handlers: discovery feed, swipe decisions, sensor matching,
// simulation, and the filtered buddy search.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"peloton/internal/modules/decision"
	"peloton/internal/modules/matching"
	"peloton/internal/modules/profile"
	"peloton/internal/types"
)

type MatchHandler struct {
	matching  *matching.Service
	decisions *decision.Service
	profiles  *profile.Service
}

func NewMatchHandler(m *matching.Service, d *decision.Service, p *profile.Service) *MatchHandler {
	return &MatchHandler{matching: m, decisions: d, profiles: p}
}

// Potential serves the legacy swipe feed: blended scoring, decided pairs
// excluded, top 10.
func (h *MatchHandler) Potential(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tolerance := queryFloat(c, "speed_tolerance", 0)
	results, err := h.matching.ComputeRankedMatches(c.Request.Context(), userID, tolerance)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, results)
}

// Decide records a like/pass swipe on the target rider.
func (h *MatchHandler) Decide(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	target := c.Param("targetUserId")
	if target == "" {
		writeError(c, http.StatusBadRequest, "missing target user id")
		return
	}
	d := decision.Decision(c.Param("decision"))
	rec, err := h.decisions.Record(c.Request.Context(), userID, types.ID(target), d)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"id":            rec.ID,
		"user1":         rec.User1,
		"user2":         rec.User2,
		"user1Decision": rec.User1Decision,
		"user2Decision": rec.User2Decision,
		"isMatch":       rec.IsMatch,
	})
}

// Matches lists confirmed (mutual-like) buddies as full profiles.
func (h *MatchHandler) Matches(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	partnerIDs, err := h.decisions.MatchedPartnerIDs(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	partners, err := h.profiles.ListByIDs(c.Request.Context(), partnerIDs)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	out := make([]profileResponse, 0, len(partners))
	for _, p := range partners {
		out = append(out, toProfileResponse(p))
	}
	writeJSON(c, http.StatusOK, out)
}

// Sensor serves the 4-tier hierarchy for the authenticated rider.
func (h *MatchHandler) Sensor(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	tolerance := queryFloat(c, "speed_tolerance", 0)
	results, err := h.matching.ComputeSensorMatches(c.Request.Context(), userID, tolerance)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, results)
}

// Simulate runs the 4-tier hierarchy against ad-hoc parameters. No identity
// required; this is the debug console's endpoint.
func (h *MatchHandler) Simulate(c *gin.Context) {
	var params matching.SimulateParams
	if err := c.ShouldBindJSON(&params); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	results, err := h.matching.SimulateMatches(c.Request.Context(), params, 0)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, results)
}

// Search serves the filtered buddy finder with its active/passive split.
func (h *MatchHandler) Search(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	filters := matching.SearchFilters{
		PaceZone:      c.Query("pace_zone"),
		ElevationPref: c.Query("elevation_pref"),
		RideTypePref:  c.Query("ride_type"),
	}
	if raw := c.Query("max_distance_mi"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			filters.MaxDistanceMi = &n
		}
	}
	result, err := h.matching.SearchBuddies(c.Request.Context(), userID, filters)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, result)
}

func queryFloat(c *gin.Context, key string, def float64) float64 {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return def
}
