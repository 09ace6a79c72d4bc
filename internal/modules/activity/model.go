// README: Activity feed post and comment types.
package activity

import (
	"errors"
	"time"

	"peloton/internal/types"
)

var (
	ErrNotFound   = errors.New("post not found")
	ErrBadRequest = errors.New("bad request")
)

type Post struct {
	ID            types.ID  `json:"id"`
	UserID        types.ID  `json:"userId"`
	RideID        *types.ID `json:"rideId"`
	Content       *string   `json:"content"`
	ImageURL      *string   `json:"imageUrl"`
	KudosCount    int       `json:"kudosCount"`
	CommentsCount int       `json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	// AuthorName is denormalized into feed reads for display.
	AuthorName string `json:"authorName"`
}

type Comment struct {
	ID        types.ID  `json:"id"`
	PostID    types.ID  `json:"postId"`
	UserID    types.ID  `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
