// README: Profile handlers for fetching and patching rider records.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peloton/internal/modules/profile"
	"peloton/internal/types"
)

type ProfileHandler struct {
	profiles *profile.Service
}

func NewProfileHandler(svc *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: svc}
}

// profileResponse is the public profile shape (camelCase, as the web client
// has always consumed it).
type profileResponse struct {
	ID                   types.ID               `json:"id"`
	Email                *string                `json:"email"`
	FirstName            *string                `json:"firstName"`
	LastName             *string                `json:"lastName"`
	ProfileImageURL      *string                `json:"profileImageUrl"`
	Location             *string                `json:"location"`
	Bio                  *string                `json:"bio"`
	AvgSpeed             *float64               `json:"avgSpeed"`
	WeeklyMileage        *int                   `json:"weeklyMileage"`
	FTPWatts             *int                   `json:"ftpWatts"`
	WeightKg             *float64               `json:"weightKg"`
	FTPWkg               *float64               `json:"ftpWkg"`
	WeeklyHours          *float64               `json:"weeklyHours"`
	SensorClass          *profile.SensorClass   `json:"sensorClass"`
	FTPTolerancePct      *int                   `json:"ftpTolerancePct"`
	TotalRides           int                    `json:"totalRides"`
	KudosReceived        int                    `json:"kudosReceived"`
	Tier                 *profile.Tier          `json:"tier"`
	PaceZone             *profile.PaceZone      `json:"paceZone"`
	ElevationPref        *profile.ElevationPref `json:"elevationPref"`
	RideTypePref         *profile.RideTypePref  `json:"rideTypePref"`
	MaxDistanceMi        *int                   `json:"maxDistanceMi"`
	SocialPref           *profile.SocialPref    `json:"socialPref"`
	ActiveBuddySearch    bool                   `json:"activeBuddySearch"`
	VisibleInPassivePool bool                   `json:"visibleInPassivePool"`
}

func toProfileResponse(p *profile.Profile) profileResponse {
	return profileResponse{
		ID:                   p.ID,
		Email:                p.Email,
		FirstName:            p.FirstName,
		LastName:             p.LastName,
		ProfileImageURL:      p.ProfileImageURL,
		Location:             p.Location,
		Bio:                  p.Bio,
		AvgSpeed:             p.AvgSpeedMph,
		WeeklyMileage:        p.WeeklyMileage,
		FTPWatts:             p.FTPWatts,
		WeightKg:             p.WeightKg,
		FTPWkg:               p.FTPWkg,
		WeeklyHours:          p.WeeklyHours,
		SensorClass:          p.SensorClass,
		FTPTolerancePct:      p.FTPTolerancePct,
		TotalRides:           p.TotalRides,
		KudosReceived:        p.KudosReceived,
		Tier:                 p.Tier,
		PaceZone:             p.PaceZone,
		ElevationPref:        p.ElevationPref,
		RideTypePref:         p.RideTypePref,
		MaxDistanceMi:        p.MaxDistanceMi,
		SocialPref:           p.SocialPref,
		ActiveBuddySearch:    p.ActiveBuddySearch,
		VisibleInPassivePool: p.VisibleInPassivePool,
	}
}

func (h *ProfileHandler) Get(c *gin.Context) {
	id := c.Param("userId")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing user id")
		return
	}
	p, err := h.profiles.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toProfileResponse(p))
}

type updateProfileReq struct {
	FirstName            *string                `json:"firstName"`
	LastName             *string                `json:"lastName"`
	ProfileImageURL      *string                `json:"profileImageUrl"`
	Location             *string                `json:"location"`
	Bio                  *string                `json:"bio"`
	AvgSpeed             *float64               `json:"avgSpeed"`
	WeeklyMileage        *int                   `json:"weeklyMileage"`
	FTPWatts             *int                   `json:"ftpWatts"`
	WeightKg             *float64               `json:"weightKg"`
	FTPWkg               *float64               `json:"ftpWkg"`
	WeeklyHours          *float64               `json:"weeklyHours"`
	SensorClass          *profile.SensorClass   `json:"sensorClass"`
	FTPTolerancePct      *int                   `json:"ftpTolerancePct"`
	PaceZone             *profile.PaceZone      `json:"paceZone"`
	ElevationPref        *profile.ElevationPref `json:"elevationPref"`
	RideTypePref         *profile.RideTypePref  `json:"rideTypePref"`
	MaxDistanceMi        *int                   `json:"maxDistanceMi"`
	SocialPref           *profile.SocialPref    `json:"socialPref"`
	ActiveBuddySearch    *bool                  `json:"activeBuddySearch"`
	VisibleInPassivePool *bool                  `json:"visibleInPassivePool"`
}

func (h *ProfileHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, err := h.profiles.Update(c.Request.Context(), userID, profile.Update{
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		ProfileImageURL:      req.ProfileImageURL,
		Location:             req.Location,
		Bio:                  req.Bio,
		AvgSpeedMph:          req.AvgSpeed,
		WeeklyMileage:        req.WeeklyMileage,
		FTPWatts:             req.FTPWatts,
		WeightKg:             req.WeightKg,
		FTPWkg:               req.FTPWkg,
		WeeklyHours:          req.WeeklyHours,
		SensorClass:          req.SensorClass,
		FTPTolerancePct:      req.FTPTolerancePct,
		PaceZone:             req.PaceZone,
		ElevationPref:        req.ElevationPref,
		RideTypePref:         req.RideTypePref,
		MaxDistanceMi:        req.MaxDistanceMi,
		SocialPref:           req.SocialPref,
		ActiveBuddySearch:    req.ActiveBuddySearch,
		VisibleInPassivePool: req.VisibleInPassivePool,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toProfileResponse(p))
}
