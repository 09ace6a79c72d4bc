// README: Base handler utilities (JSON helpers, error mapping, identity).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"peloton/internal/http/middleware"
	"peloton/internal/modules/activity"
	"peloton/internal/modules/decision"
	"peloton/internal/modules/profile"
	"peloton/internal/modules/ride"
	"peloton/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeServiceError maps module sentinel errors onto HTTP status codes.
// Anything unrecognized is a store failure and stays opaque to the caller.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profile.ErrNotFound),
		errors.Is(err, ride.ErrNotFound),
		errors.Is(err, activity.ErrNotFound),
		errors.Is(err, decision.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, decision.ErrInvalidDecision),
		errors.Is(err, decision.ErrSelfDecision),
		errors.Is(err, ride.ErrBadRequest),
		errors.Is(err, activity.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ride.ErrRideFull),
		errors.Is(err, ride.ErrAlreadyJoined):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// requireUser extracts the rider id set by the identity middleware. The
// second return is false when the response has already been written.
func requireUser(c *gin.Context) (types.ID, bool) {
	id := c.GetString(middleware.UserIDKey)
	if id == "" {
		writeError(c, http.StatusUnauthorized, "missing rider identity")
		return "", false
	}
	return types.ID(id), true
}
