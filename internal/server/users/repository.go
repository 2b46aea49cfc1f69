package users

import "context"

type Repository interface {
	// GetByEmail looks an identity up by its login key.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByID loads an identity during session restore.
	GetByID(ctx context.Context, id int64) (*User, error)
}
