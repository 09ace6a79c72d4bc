// README: Calendar service for range queries over training entries.
package calendar

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

func (s *Service) ListByUser(ctx context.Context, userID types.ID, from, to string) ([]*Entry, error) {
	return s.store.ListByUser(ctx, userID, from, to)
}
