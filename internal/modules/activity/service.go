// README: Activity feed service for posts, kudos, and comments.
package activity

import (
	"context"
	"time"

	"peloton/internal/types"
)

const defaultFeedLimit = 50

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type PostCommand struct {
	UserID   types.ID
	RideID   *types.ID
	Content  *string
	ImageURL *string
}

func (s *Service) CreatePost(ctx context.Context, cmd PostCommand) (*Post, error) {
	if cmd.UserID == "" {
		return nil, ErrBadRequest
	}
	p := &Post{
		ID:        types.NewID(),
		UserID:    cmd.UserID,
		RideID:    cmd.RideID,
		Content:   cmd.Content,
		ImageURL:  cmd.ImageURL,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreatePost(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Feed(ctx context.Context) ([]*Post, error) {
	return s.store.Feed(ctx, defaultFeedLimit)
}

func (s *Service) ToggleKudos(ctx context.Context, postID, userID types.ID) (bool, error) {
	return s.store.ToggleKudos(ctx, postID, userID)
}

func (s *Service) AddComment(ctx context.Context, postID, userID types.ID, content string) (*Comment, error) {
	if content == "" {
		return nil, ErrBadRequest
	}
	c := &Comment{
		ID:        types.NewID(),
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.store.AddComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) ListComments(ctx context.Context, postID types.ID) ([]*Comment, error) {
	return s.store.ListComments(ctx, postID)
}
