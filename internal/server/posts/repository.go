package posts

import "context"

type Repository interface {
	// List returns all posts, newest first, with author name and comment count.
	List(ctx context.Context) ([]*Post, error)
	// GetByID returns one post with its author name and comment count.
	GetByID(ctx context.Context, id int64) (*Post, error)
	// Create inserts a post and returns its id. A duplicate title yields
	// common.ErrConflict.
	Create(ctx context.Context, title, text string, authorID int64, maxComments *int) (int64, error)
	// DeleteCascade removes the post, its comments and their flags in one
	// transaction. The storage layer has no ON DELETE CASCADE; integrity is
	// enforced here.
	DeleteCascade(ctx context.Context, id int64) error
}
