// Package storage wires the Postgres-backed repositories together and runs
// the embedded schema migrations at startup.
package storage

import (
	"context"
	"database/sql"

	"github.com/forumlab/webforum/internal/server/comments"
	"github.com/forumlab/webforum/internal/server/flags"
	"github.com/forumlab/webforum/internal/server/posts"
	"github.com/forumlab/webforum/internal/server/users"
)

type Manager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Posts() posts.Repository
	Comments() comments.Repository
	Flags() flags.Repository
}
