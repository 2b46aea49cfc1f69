package flags

import "context"

// A flag is an existence-only "interesting" mark keyed by (user, comment);
// there is no payload and no model struct beyond the comment-id lists the
// queries return.
type Repository interface {
	// Add records the caller's flag on a comment. Adding a flag that is
	// already present is a no-op, even under concurrent duplicates.
	Add(ctx context.Context, userID, commentID int64) error
	// Remove deletes the caller's flag. Removing an absent flag is a no-op.
	Remove(ctx context.Context, userID, commentID int64) error
	// ListCommentIDs returns the ids of all comments the user has flagged.
	ListCommentIDs(ctx context.Context, userID int64) ([]int64, error)
}
