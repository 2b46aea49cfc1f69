package sessions

// Store abstracts session CRUD so sessions can live in memory (default) or in
// an external keyed store. Expiry policy belongs to the implementation.
type Store interface {
	// Create mints a fresh session bound to identityID with a new opaque token.
	Create(identityID int64, adminElevated bool) (*Session, error)
	// Get retrieves a live session by token. The second result is false when
	// the token is unknown or the session has expired.
	Get(token string) (*Session, bool)
	// Delete removes a session by token. Deleting an absent token is a no-op.
	Delete(token string)
}
