// Package auth implements the authenticator: password login, the optional
// TOTP second factor for admin elevation, and session-bound identity lookup.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/forumlab/webforum/internal/common"
	"github.com/forumlab/webforum/internal/logging"
	"github.com/forumlab/webforum/internal/server/sessions"
	"github.com/forumlab/webforum/internal/server/users"
)

// IdentityView is what a session resolves to: the bound identity plus the
// elevation state of this particular session.
type IdentityView struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	IsAdmin       bool   `json:"is_admin"`
	AdminElevated bool   `json:"admin_elevated"`
}

type Service struct {
	users    users.Repository
	sessions sessions.Store
	logger   logging.Logger
	now      func() time.Time
}

func NewService(repo users.Repository, store sessions.Store, logger logging.Logger) *Service {
	return &Service{
		users:    repo,
		sessions: store,
		logger:   logger.With("module", "auth"),
		now:      time.Now,
	}
}

// Login authenticates email/password and establishes a session.
//
// With adminLogin set, the identity must be admin-eligible and the OTP must
// be valid for the exact current time step; the resulting session carries
// AdminElevated=true. Without adminLogin any supplied OTP is ignored and the
// session is never elevated. Elevation is recomputed here on every login,
// never inherited from an earlier session.
//
// No session exists on any failure path.
func (s *Service) Login(ctx context.Context, email, password, otpCode string, adminLogin bool) (*sessions.Session, *IdentityView, error) {

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Same kind as a wrong password so callers cannot enumerate emails.
			return nil, nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, nil, common.ErrInternal
	}

	// A non-admin asking for elevation is rejected outright, not downgraded,
	// and the answer does not depend on the password.
	if adminLogin && !user.IsAdmin {
		return nil, nil, common.ErrForbidden
	}

	ok, err := VerifyPassword(password, user.PasswordSalt, user.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "password verification failed", "error", err)
		return nil, nil, common.ErrInternal
	}
	if !ok {
		return nil, nil, common.ErrInvalidCredentials
	}

	elevated := false
	if user.IsAdmin && adminLogin {
		if !validateTOTP(strings.TrimSpace(otpCode), user.TOTPSecret, s.now()) {
			return nil, nil, common.ErrInvalidOTP
		}
		elevated = true
	}

	session, err := s.sessions.Create(user.ID, elevated)
	if err != nil {
		s.logger.Error(ctx, "session creation failed", "error", err)
		return nil, nil, common.ErrInternal
	}

	s.logger.Info(ctx, "login", "user_id", user.ID, "admin_elevated", elevated)

	return session, viewOf(user, elevated), nil
}

// Logout destroys the session for the given token. Unknown tokens are fine;
// logging out twice is not an error.
func (s *Service) Logout(ctx context.Context, token string) {
	s.sessions.Delete(token)
}

// Current resolves a session token to the bound identity and the session's
// elevation flag. Absent, expired and dangling sessions all come back as
// ErrUnauthenticated.
func (s *Service) Current(ctx context.Context, token string) (*IdentityView, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	session, ok := s.sessions.Get(token)
	if !ok {
		return nil, common.ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, session.IdentityID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Identity vanished out-of-band; the session points nowhere.
			s.sessions.Delete(token)
			return nil, common.ErrUnauthenticated
		}
		s.logger.Error(ctx, "identity load failed", "error", err)
		return nil, common.ErrInternal
	}

	return viewOf(user, session.AdminElevated), nil
}

func viewOf(u *users.User, elevated bool) *IdentityView {
	return &IdentityView{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		IsAdmin:       u.IsAdmin,
		AdminElevated: elevated,
	}
}
