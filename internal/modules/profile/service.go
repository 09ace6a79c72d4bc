// README: Profile service for fetching and patching rider records.
package profile

import (
	"context"

	"peloton/internal/types"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Profile, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id types.ID, u Update) (*Profile, error) {
	return s.store.Update(ctx, id, u)
}

// FindCandidates exposes candidate retrieval to the matching engine.
func (s *Service) FindCandidates(ctx context.Context, q CandidateQuery) ([]*Profile, error) {
	return s.store.FindCandidates(ctx, q)
}

func (s *Service) ListByIDs(ctx context.Context, ids []types.ID) ([]*Profile, error) {
	return s.store.ListByIDs(ctx, ids)
}
