package users

// User is a provisioned identity. Rows are created only by the out-of-band
// provisioning tool; the running service never inserts, updates or deletes
// them.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordSalt string // hex-encoded random salt
	PasswordHash string // hex-encoded scrypt-derived key
	IsAdmin      bool
	TOTPSecret   string // base32 secret, empty unless IsAdmin
}
