package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/forumlab/webforum/internal/common"
	"github.com/forumlab/webforum/internal/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Post, error) {
	query :=
		`SELECT p.id, p.title, p.text, p.author_id, u.name, p.created_at, p.max_comments,
		        (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
		 FROM posts p
		 JOIN users u ON p.author_id = u.id
		 ORDER BY p.created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Post, error) {
	query :=
		`SELECT p.id, p.title, p.text, p.author_id, u.name, p.created_at, p.max_comments,
		        (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
		 FROM posts p
		 JOIN users u ON p.author_id = u.id
		 WHERE p.id = $1
		 `

	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, title, text string, authorID int64, maxComments *int) (int64, error) {
	query :=
		`INSERT INTO posts (title, text, author_id, max_comments)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	var max sql.NullInt64
	if maxComments != nil {
		max = sql.NullInt64{Int64: int64(*maxComments), Valid: true}
	}

	var id int64
	err := r.db.QueryRowContext(ctx, query, title, text, authorID, max).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, common.ErrConflict
		}
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) DeleteCascade(ctx context.Context, id int64) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM flags WHERE comment_id IN (SELECT id FROM comments WHERE post_id = $1)`, id); err != nil {
			return fmt.Errorf("deleting flags: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
			return fmt.Errorf("deleting comments: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("deleting post: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return common.ErrNotFound
		}
		return nil
	})
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*Post, error) {
	p := &Post{}
	var max sql.NullInt64

	if err := s.Scan(&p.ID, &p.Title, &p.Text, &p.AuthorID, &p.AuthorName, &p.CreatedAt, &max, &p.CommentCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning post: %w", err)
	}
	if max.Valid {
		m := int(max.Int64)
		p.MaxComments = &m
	}

	return p, nil
}
