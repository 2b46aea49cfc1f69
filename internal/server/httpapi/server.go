// Package httpapi is the HTTP adapter over the forum services: routing,
// session cookie handling, caller resolution and error-to-status mapping.
// Handlers stay thin; every rule lives in the service layer.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/forumlab/webforum/internal/logging"
	"github.com/forumlab/webforum/internal/server/auth"
	"github.com/forumlab/webforum/internal/server/comments"
	"github.com/forumlab/webforum/internal/server/flags"
	"github.com/forumlab/webforum/internal/server/posts"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr       string
	cookieName string
	auth       *auth.Service
	posts      *posts.Service
	comments   *comments.Service
	flags      *flags.Service
	logger     logging.Logger
}

func NewServer(addr, cookieName string, authSvc *auth.Service, postsSvc *posts.Service,
	commentsSvc *comments.Service, flagsSvc *flags.Service, logger logging.Logger) *Server {
	return &Server{
		addr:       addr,
		cookieName: cookieName,
		auth:       authSvc,
		posts:      postsSvc,
		comments:   commentsSvc,
		flags:      flagsSvc,
		logger:     logger.With("module", "httpapi"),
	}
}

// Handler builds the full route table wrapped in the access-log and
// caller-resolution middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sessions", s.handleLogin)
	mux.HandleFunc("GET /api/sessions/current", s.handleCurrent)
	mux.HandleFunc("DELETE /api/sessions/current", s.handleLogout)

	mux.HandleFunc("GET /api/posts", s.handleListPosts)
	mux.HandleFunc("POST /api/posts", s.handleCreatePost)
	mux.HandleFunc("GET /api/posts/{id}", s.handleGetPost)
	mux.HandleFunc("DELETE /api/posts/{id}", s.handleDeletePost)

	mux.HandleFunc("GET /api/posts/{id}/comments", s.handleListComments)
	mux.HandleFunc("POST /api/posts/{id}/comments", s.handleCreateComment)
	mux.HandleFunc("GET /api/posts/{id}/comments/count", s.handleCommentCount)
	mux.HandleFunc("PUT /api/comments/{id}", s.handleEditComment)
	mux.HandleFunc("DELETE /api/comments/{id}", s.handleDeleteComment)

	mux.HandleFunc("PUT /api/comments/{id}/flag", s.handleAddFlag)
	mux.HandleFunc("DELETE /api/comments/{id}/flag", s.handleRemoveFlag)
	mux.HandleFunc("GET /api/users/me/flags", s.handleMyFlags)

	return s.accessLog(s.withCaller(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "http server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info(context.Background(), "http server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
