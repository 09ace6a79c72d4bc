// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peloton/internal/http/handlers"
	"peloton/internal/http/middleware"
	"peloton/internal/modules/activity"
	"peloton/internal/modules/calendar"
	"peloton/internal/modules/decision"
	"peloton/internal/modules/matching"
	"peloton/internal/modules/profile"
	"peloton/internal/modules/ride"
)

type RouterDeps struct {
	Profiles  *profile.Service
	Matching  *matching.Service
	Decisions *decision.Service
	Rides     *ride.Service
	Activity  *activity.Service
	Calendar  *calendar.Service
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery(), middleware.Identity())

	profileHandler := handlers.NewProfileHandler(deps.Profiles)
	r.GET("/api/profile/:userId", profileHandler.Get)
	r.PATCH("/api/profile", profileHandler.Update)

	matchHandler := handlers.NewMatchHandler(deps.Matching, deps.Decisions, deps.Profiles)
	r.GET("/api/matches/potential", matchHandler.Potential)
	r.POST("/api/matches/:targetUserId/:decision", matchHandler.Decide)
	r.GET("/api/matches", matchHandler.Matches)
	r.GET("/api/match", matchHandler.Sensor)
	r.POST("/api/match/simulate", matchHandler.Simulate)
	r.GET("/api/buddies/search", matchHandler.Search)

	rideHandler := handlers.NewRideHandler(deps.Rides)
	r.GET("/api/rides", rideHandler.List)
	r.POST("/api/rides", rideHandler.Create)
	r.POST("/api/rides/:rideId/join", rideHandler.Join)
	r.GET("/api/user/rides", rideHandler.ListMine)

	activityHandler := handlers.NewActivityHandler(deps.Activity)
	r.GET("/api/activity", activityHandler.Feed)
	r.POST("/api/activity", activityHandler.Create)
	r.POST("/api/activity/:postId/kudos", activityHandler.ToggleKudos)
	r.GET("/api/activity/:postId/comments", activityHandler.ListComments)
	r.POST("/api/activity/:postId/comments", activityHandler.AddComment)

	calendarHandler := handlers.NewCalendarHandler(deps.Calendar)
	r.GET("/api/calendar", calendarHandler.List)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
