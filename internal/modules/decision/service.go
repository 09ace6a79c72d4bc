// README: Decision service validates swipe input and delegates to the store.
package decision

import (
	"context"

	"peloton/internal/types"
)

// Recorder is the store surface the service needs; tests swap in memory.
type Recorder interface {
	Record(ctx context.Context, actor, target types.ID, d Decision) (*Record, error)
	PairedIDs(ctx context.Context, userID types.ID) ([]types.ID, error)
	MatchedPartnerIDs(ctx context.Context, userID types.ID) ([]types.ID, error)
}

type Service struct {
	store Recorder
}

func NewService(store Recorder) *Service {
	return &Service{store: store}
}

// Record validates and applies a like/pass decision. Invalid input is
// rejected before any store access.
func (s *Service) Record(ctx context.Context, actor, target types.ID, d Decision) (*Record, error) {
	if !d.Valid() {
		return nil, ErrInvalidDecision
	}
	if actor == target {
		return nil, ErrSelfDecision
	}
	return s.store.Record(ctx, actor, target, d)
}

func (s *Service) PairedIDs(ctx context.Context, userID types.ID) ([]types.ID, error) {
	return s.store.PairedIDs(ctx, userID)
}

func (s *Service) MatchedPartnerIDs(ctx context.Context, userID types.ID) ([]types.ID, error) {
	return s.store.MatchedPartnerIDs(ctx, userID)
}
