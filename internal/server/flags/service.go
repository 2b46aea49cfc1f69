// Package flags implements the "interesting" marks users put on comments.
// Flagging is idempotent both ways and only ever touches the caller's own
// flag row.
package flags

import (
	"context"

	"github.com/forumlab/webforum/internal/logging"
	"github.com/forumlab/webforum/internal/server/authz"
	"github.com/forumlab/webforum/internal/server/comments"
)

type Service struct {
	repo     Repository
	comments comments.Repository
	logger   logging.Logger
}

func NewService(repo Repository, commentsRepo comments.Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, comments: commentsRepo, logger: logger.With("module", "flags")}
}

// Add flags a comment as interesting for the caller. Flagging twice leaves
// exactly one flag.
func (s *Service) Add(ctx context.Context, caller *authz.Caller, commentID int64) error {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return err
	}

	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return err
	}

	return s.repo.Add(ctx, caller.ID, commentID)
}

// Remove clears the caller's flag. Removing a flag that was never set is not
// an error.
func (s *Service) Remove(ctx context.Context, caller *authz.Caller, commentID int64) error {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return err
	}

	return s.repo.Remove(ctx, caller.ID, commentID)
}

// ListMine returns the ids of the comments the caller has flagged.
func (s *Service) ListMine(ctx context.Context, caller *authz.Caller) ([]int64, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}

	return s.repo.ListCommentIDs(ctx, caller.ID)
}
