// README: Training calendar entry type.
package calendar

import (
	"time"

	"peloton/internal/types"
)

type Entry struct {
	ID            int64     `json:"id"`
	UserID        types.ID  `json:"userId"`
	Source        *string   `json:"source"`
	Type          *string   `json:"type"`
	Title         *string   `json:"title"`
	Date          time.Time `json:"date"`
	DurationHours *float64  `json:"durationHours"`
	DistanceKm    *float64  `json:"distanceKm"`
	TSS           *int      `json:"tss"`
	CreatedAt     time.Time `json:"createdAt"`
}
