// Package comments implements commenting on posts, including anonymous
// authorship, the per-post comment cap, and author/admin edit rules.
package comments

import (
	"context"
	"strings"

	"github.com/forumlab/webforum/internal/common"
	"github.com/forumlab/webforum/internal/logging"
	"github.com/forumlab/webforum/internal/server/authz"
	"github.com/forumlab/webforum/internal/server/posts"
)

type Service struct {
	repo   Repository
	posts  posts.Repository
	logger logging.Logger
}

func NewService(repo Repository, postsRepo posts.Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, posts: postsRepo, logger: logger.With("module", "comments")}
}

// ListForPost returns a post's comments. Authenticated callers see all of
// them; anonymous visitors see only the anonymous ones.
func (s *Service) ListForPost(ctx context.Context, caller *authz.Caller, postID int64) ([]*Comment, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	all, err := s.repo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if caller != nil {
		return all, nil
	}

	visible := make([]*Comment, 0, len(all))
	for _, c := range all {
		if c.Anonymous() {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Count returns how many comments a post has.
func (s *Service) Count(ctx context.Context, postID int64) (int, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return 0, err
	}
	return s.repo.CountByPost(ctx, postID)
}

// Create adds a comment to a post. Anyone may comment: authenticated callers
// become the author, anonymous visitors produce an authorless comment. The
// post's comment cap is enforced atomically with the insert.
func (s *Service) Create(ctx context.Context, caller *authz.Caller, postID int64, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.ErrValidation
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	var authorID *int64
	if caller != nil {
		authorID = &caller.ID
	}

	id, err := s.repo.CreateCapped(ctx, postID, authorID, text)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "comment created", "comment_id", id, "post_id", postID, "anonymous", authorID == nil)

	return s.repo.GetByID(ctx, id)
}

// Edit replaces a comment's text and marks it edited. Only the author may
// edit it; anonymous comments have no eligible author, so only an
// admin-elevated caller can touch them.
func (s *Service) Edit(ctx context.Context, caller *authz.Caller, id int64, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return common.ErrValidation
	}

	if err := s.authorizeMutation(ctx, caller, id); err != nil {
		return err
	}

	return s.repo.UpdateText(ctx, id, text)
}

// Delete removes a comment under the same ownership rules as Edit.
func (s *Service) Delete(ctx context.Context, caller *authz.Caller, id int64) error {
	if err := s.authorizeMutation(ctx, caller, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info(ctx, "comment deleted", "comment_id", id, "caller_id", caller.ID)
	return nil
}

func (s *Service) authorizeMutation(ctx context.Context, caller *authz.Caller, id int64) error {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return err
	}

	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if comment.Anonymous() || *comment.AuthorID != caller.ID {
		return authz.RequireAdminElevated(caller)
	}
	return nil
}
