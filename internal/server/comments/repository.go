package comments

import "context"

type Repository interface {
	// ListByPost returns the post's comments, newest first, with author
	// names and flag counts.
	ListByPost(ctx context.Context, postID int64) ([]*Comment, error)
	// CountByPost returns how many comments the post has.
	CountByPost(ctx context.Context, postID int64) (int, error)
	// GetByID returns one comment.
	GetByID(ctx context.Context, id int64) (*Comment, error)
	// CreateCapped inserts a comment only while the parent post is below its
	// comment cap. The check and the insert are one atomic unit per post:
	// when concurrent submissions race for the last slot, exactly one wins
	// and the rest get common.ErrCapacityExceeded. A missing post yields
	// common.ErrNotFound.
	CreateCapped(ctx context.Context, postID int64, authorID *int64, text string) (int64, error)
	// UpdateText replaces the text and marks the comment edited.
	UpdateText(ctx context.Context, id int64, text string) error
	// Delete removes the comment and its flags.
	Delete(ctx context.Context, id int64) error
}
