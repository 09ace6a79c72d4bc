// README: Calendar handler for range queries.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peloton/internal/modules/calendar"
)

type CalendarHandler struct {
	calendar *calendar.Service
}

func NewCalendarHandler(svc *calendar.Service) *CalendarHandler {
	return &CalendarHandler{calendar: svc}
}

func (h *CalendarHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	entries, err := h.calendar.ListByUser(c.Request.Context(), userID, c.Query("from"), c.Query("to"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if entries == nil {
		entries = []*calendar.Entry{}
	}
	writeJSON(c, http.StatusOK, entries)
}
