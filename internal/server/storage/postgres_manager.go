package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/forumlab/webforum/internal/server/comments"
	"github.com/forumlab/webforum/internal/server/flags"
	"github.com/forumlab/webforum/internal/server/migrations"
	"github.com/forumlab/webforum/internal/server/posts"
	"github.com/forumlab/webforum/internal/server/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresManager struct {
	db       *sql.DB
	users    users.Repository
	posts    posts.Repository
	comments comments.Repository
	flags    flags.Repository
}

func NewPostgresManager(dsn string) (*PostgresManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresManager{
		db:       db,
		users:    users.NewPostgresRepository(db),
		posts:    posts.NewPostgresRepository(db),
		comments: comments.NewPostgresRepository(db),
		flags:    flags.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}

func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func (m *PostgresManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresManager) Users() users.Repository {
	return m.users
}

func (m *PostgresManager) Posts() posts.Repository {
	return m.posts
}

func (m *PostgresManager) Comments() comments.Repository {
	return m.comments
}

func (m *PostgresManager) Flags() flags.Repository {
	return m.flags
}
