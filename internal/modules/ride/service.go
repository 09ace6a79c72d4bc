// README: Group ride service for creating, listing, and joining rides.
package ride

import (
	"context"
	"time"

	"peloton/internal/modules/profile"
	"peloton/internal/types"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type CreateCommand struct {
	Organizer       types.ID
	Name            string
	Description     *string
	Date            time.Time
	Tier            profile.Tier
	Pace            *string
	Distance        *int
	Elevation       *int
	Location        *string
	MaxParticipants *int
	IsNoDrop        bool
	HasRegroups     bool
	DropPolicy      *string
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Ride, error) {
	if cmd.Organizer == "" || cmd.Name == "" || cmd.Date.IsZero() {
		return nil, ErrBadRequest
	}
	switch cmd.Tier {
	case profile.TierA, profile.TierB, profile.TierC:
	default:
		return nil, ErrBadRequest
	}
	r := &Ride{
		ID:              types.NewID(),
		Name:            cmd.Name,
		Description:     cmd.Description,
		Organizer:       cmd.Organizer,
		Date:            cmd.Date,
		Tier:            cmd.Tier,
		Pace:            cmd.Pace,
		Distance:        cmd.Distance,
		Elevation:       cmd.Elevation,
		Location:        cmd.Location,
		MaxParticipants: cmd.MaxParticipants,
		IsNoDrop:        cmd.IsNoDrop,
		HasRegroups:     cmd.HasRegroups,
		DropPolicy:      cmd.DropPolicy,
		CreatedAt:       time.Now(),
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]*Ride, error) {
	return s.store.List(ctx, f)
}

func (s *Service) ListByUser(ctx context.Context, userID types.ID) ([]*Ride, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) Join(ctx context.Context, rideID, userID types.ID) error {
	return s.store.Join(ctx, rideID, userID)
}
