// README: Group ride handlers for listing, creating, and joining.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"peloton/internal/modules/profile"
	"peloton/internal/modules/ride"
	"peloton/internal/types"
)

type RideHandler struct {
	rides *ride.Service
}

func NewRideHandler(svc *ride.Service) *RideHandler {
	return &RideHandler{rides: svc}
}

func (h *RideHandler) List(c *gin.Context) {
	f := ride.ListFilter{
		Tier: profile.Tier(c.Query("tier")),
		Date: c.Query("date"),
	}
	rides, err := h.rides.List(c.Request.Context(), f)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if rides == nil {
		rides = []*ride.Ride{}
	}
	writeJSON(c, http.StatusOK, rides)
}

type createRideReq struct {
	Name            string       `json:"name"`
	Description     *string      `json:"description"`
	Date            time.Time    `json:"date"`
	Tier            profile.Tier `json:"tier"`
	Pace            *string      `json:"pace"`
	Distance        *int         `json:"distance"`
	Elevation       *int         `json:"elevation"`
	Location        *string      `json:"location"`
	MaxParticipants *int         `json:"maxParticipants"`
	IsNoDrop        bool         `json:"isNoDrop"`
	HasRegroups     bool         `json:"hasRegroups"`
	DropPolicy      *string      `json:"dropPolicy"`
}

func (h *RideHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req createRideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.rides.Create(c.Request.Context(), ride.CreateCommand{
		Organizer:       userID,
		Name:            req.Name,
		Description:     req.Description,
		Date:            req.Date,
		Tier:            req.Tier,
		Pace:            req.Pace,
		Distance:        req.Distance,
		Elevation:       req.Elevation,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		IsNoDrop:        req.IsNoDrop,
		HasRegroups:     req.HasRegroups,
		DropPolicy:      req.DropPolicy,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

func (h *RideHandler) Join(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	rideID := c.Param("rideId")
	if rideID == "" {
		writeError(c, http.StatusBadRequest, "missing ride id")
		return
	}
	if err := h.rides.Join(c.Request.Context(), types.ID(rideID), userID); err != nil {
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"message": "joined ride"})
}

func (h *RideHandler) ListMine(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	rides, err := h.rides.ListByUser(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if rides == nil {
		rides = []*ride.Ride{}
	}
	writeJSON(c, http.StatusOK, rides)
}
