// Package sessions holds the server-side session state keyed by the opaque
// token the client carries in a cookie. The store is an explicit capability
// injected into the authenticator and the HTTP guards; nothing in the
// codebase reaches for an ambient session object.
package sessions

import "time"

// Session is the per-browser-session record. AdminElevated is recomputed on
// every login and can be true only for identities provisioned as admins; it
// never survives logout.
type Session struct {
	Token         string
	IdentityID    int64
	AdminElevated bool
	ExpiresAt     time.Time
}

// Expired reports whether the session is past its TTL at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
