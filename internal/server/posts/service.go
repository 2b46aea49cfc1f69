// Package posts implements discussion threads: listing, creation by
// authenticated users, and deletion by the author or an admin-elevated
// caller, with the comment cascade handled in one transaction.
package posts

import (
	"context"
	"strings"

	"github.com/forumlab/webforum/internal/common"
	"github.com/forumlab/webforum/internal/logging"
	"github.com/forumlab/webforum/internal/server/authz"
)

type Service struct {
	repo   Repository
	logger logging.Logger
}

func NewService(repo Repository, logger logging.Logger) *Service {
	return &Service{repo: repo, logger: logger.With("module", "posts")}
}

func (s *Service) List(ctx context.Context) ([]*Post, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

// Create adds a post authored by the caller. Any authenticated identity may
// post; anonymous callers are rejected.
func (s *Service) Create(ctx context.Context, caller *authz.Caller, title, text string, maxComments *int) (*Post, error) {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	text = strings.TrimSpace(text)
	if title == "" || text == "" {
		return nil, common.ErrValidation
	}
	if maxComments != nil && *maxComments < 1 {
		return nil, common.ErrValidation
	}

	id, err := s.repo.Create(ctx, title, text, caller.ID, maxComments)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "post created", "post_id", id, "author_id", caller.ID)

	return s.repo.GetByID(ctx, id)
}

// Delete removes a post and everything hanging off it. The author may delete
// their own post; anyone else needs verified admin elevation. On rejection
// nothing is touched.
func (s *Service) Delete(ctx context.Context, caller *authz.Caller, id int64) error {
	if err := authz.RequireAuthenticated(caller); err != nil {
		return err
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if post.AuthorID != caller.ID {
		if err := authz.RequireAdminElevated(caller); err != nil {
			return err
		}
	}

	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return err
	}

	s.logger.Info(ctx, "post deleted", "post_id", id, "caller_id", caller.ID)
	return nil
}
