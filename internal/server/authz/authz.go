// Package authz holds the two composable authorization predicates applied
// before protected operations, and the Caller value they act on.
package authz

import "github.com/forumlab/webforum/internal/common"

// Caller describes the requesting principal. A nil *Caller means an
// anonymous visitor. Handlers build it once per request from the session and
// pass it down explicitly; no ambient request state.
type Caller struct {
	ID            int64
	IsAdmin       bool
	AdminElevated bool
}

// RequireAuthenticated rejects anonymous callers with ErrUnauthenticated.
func RequireAuthenticated(c *Caller) error {
	if c == nil {
		return common.ErrUnauthenticated
	}
	return nil
}

// RequireAdminElevated rejects callers whose session does not carry verified
// admin elevation. Being provisioned as an admin is not enough; the second
// factor must have been asserted during this session's login.
func RequireAdminElevated(c *Caller) error {
	if c == nil {
		return common.ErrUnauthenticated
	}
	if !c.IsAdmin || !c.AdminElevated {
		return common.ErrForbidden
	}
	return nil
}
