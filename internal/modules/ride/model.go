// README: Group ride aggregate and participant bookkeeping types.
package ride

import (
	"errors"
	"time"

	"peloton/internal/modules/profile"
	"peloton/internal/types"
)

var (
	ErrNotFound      = errors.New("ride not found")
	ErrBadRequest    = errors.New("bad request")
	ErrRideFull      = errors.New("ride is full")
	ErrAlreadyJoined = errors.New("rider already joined")
)

type Ride struct {
	ID                  types.ID     `json:"id"`
	Name                string       `json:"name"`
	Description         *string      `json:"description"`
	Organizer           types.ID     `json:"organizer"`
	Date                time.Time    `json:"date"`
	Tier                profile.Tier `json:"tier"`
	Pace                *string      `json:"pace"`
	Distance            *int         `json:"distance"`
	Elevation           *int         `json:"elevation"`
	Location            *string      `json:"location"`
	MaxParticipants     *int         `json:"maxParticipants"`
	CurrentParticipants int          `json:"currentParticipants"`
	IsNoDrop            bool         `json:"isNoDrop"`
	HasRegroups         bool         `json:"hasRegroups"`
	DropPolicy          *string      `json:"dropPolicy"`
	CreatedAt           time.Time    `json:"createdAt"`
}

// ListFilter narrows ride listings; zero values mean no filter.
type ListFilter struct {
	Tier profile.Tier
	Date string // YYYY-MM-DD, matches the ride's calendar day
}
