// README: Activity feed store backed by PostgreSQL.
package activity

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"peloton/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) CreatePost(ctx context.Context, p *Post) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO activity_posts (id, user_id, ride_id, content, image_url, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		string(p.ID), string(p.UserID), idPtr(p.RideID), p.Content, p.ImageURL, p.CreatedAt,
	)
	return err
}

func (s *Store) Feed(ctx context.Context, limit int) ([]*Post, error) {
	rows, err := s.db.Query(ctx, `
        SELECT a.id, a.user_id, a.ride_id, a.content, a.image_url,
               a.kudos_count, a.comments_count, a.created_at,
               TRIM(CONCAT(u.first_name, ' ', u.last_name))
        FROM activity_posts a
        INNER JOIN users u ON u.id = a.user_id
        ORDER BY a.created_at DESC
        LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Post
	for rows.Next() {
		var p Post
		var rideID, content, imageURL sql.NullString
		err := rows.Scan(
			&p.ID, &p.UserID, &rideID, &content, &imageURL,
			&p.KudosCount, &p.CommentsCount, &p.CreatedAt, &p.AuthorName,
		)
		if err != nil {
			return nil, err
		}
		if rideID.Valid {
			id := types.ID(rideID.String)
			p.RideID = &id
		}
		if content.Valid {
			p.Content = &content.String
		}
		if imageURL.Valid {
			p.ImageURL = &imageURL.String
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// ToggleKudos flips userID's kudos on a post and keeps the denormalized
// counter in step. Returns whether kudos is now present.
func (s *Store) ToggleKudos(ctx context.Context, postID, userID types.ID) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM kudos WHERE post_id = $1 AND user_id = $2)`,
		string(postID), string(userID),
	).Scan(&exists)
	if err != nil {
		return false, err
	}

	if exists {
		_, err = tx.Exec(ctx,
			`DELETE FROM kudos WHERE post_id = $1 AND user_id = $2`,
			string(postID), string(userID))
		if err != nil {
			return false, err
		}
		_, err = tx.Exec(ctx,
			`UPDATE activity_posts SET kudos_count = kudos_count - 1 WHERE id = $1`,
			string(postID))
	} else {
		_, err = tx.Exec(ctx,
			`INSERT INTO kudos (id, post_id, user_id) VALUES ($1, $2, $3)`,
			string(types.NewID()), string(postID), string(userID))
		if err != nil {
			return false, err
		}
		_, err = tx.Exec(ctx,
			`UPDATE activity_posts SET kudos_count = kudos_count + 1 WHERE id = $1`,
			string(postID))
	}
	if err != nil {
		return false, err
	}
	return !exists, tx.Commit(ctx)
}

func (s *Store) AddComment(ctx context.Context, c *Comment) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
        UPDATE activity_posts SET comments_count = comments_count + 1 WHERE id = $1`,
		string(c.PostID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	_, err = tx.Exec(ctx, `
        INSERT INTO comments (id, post_id, user_id, content, created_at)
        VALUES ($1, $2, $3, $4, $5)`,
		string(c.ID), string(c.PostID), string(c.UserID), c.Content, c.CreatedAt,
	)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) ListComments(ctx context.Context, postID types.ID) ([]*Comment, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, post_id, user_id, content, created_at
        FROM comments WHERE post_id = $1 ORDER BY created_at`,
		string(postID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func idPtr(v *types.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}
