package comments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/forumlab/webforum/internal/common"
	"github.com/forumlab/webforum/internal/dbx"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByPost(ctx context.Context, postID int64) ([]*Comment, error) {
	query :=
		`SELECT c.id, c.post_id, c.author_id, u.name, c.text, c.created_at, c.edited,
		        (SELECT COUNT(*) FROM flags f WHERE f.comment_id = c.id)
		 FROM comments c
		 LEFT JOIN users u ON c.author_id = u.id
		 WHERE c.post_id = $1
		 ORDER BY c.created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var result []*Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) CountByPost(ctx context.Context, postID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Comment, error) {
	query :=
		`SELECT c.id, c.post_id, c.author_id, u.name, c.text, c.created_at, c.edited,
		        (SELECT COUNT(*) FROM flags f WHERE f.comment_id = c.id)
		 FROM comments c
		 LEFT JOIN users u ON c.author_id = u.id
		 WHERE c.id = $1
		 `

	c, err := scanComment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}

	return c, nil
}

// CreateCapped serializes check-and-insert per post by taking the post row
// lock FOR UPDATE. Two submissions racing for the last slot under the cap
// cannot both pass the count.
func (r *PostgresRepository) CreateCapped(ctx context.Context, postID int64, authorID *int64, text string) (int64, error) {
	var id int64

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var max sql.NullInt64
		err := tx.QueryRowContext(ctx,
			`SELECT max_comments FROM posts WHERE id = $1 FOR UPDATE`, postID).Scan(&max)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrNotFound
			}
			return fmt.Errorf("locking post: %w", err)
		}

		if max.Valid {
			var count int64
			err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&count)
			if err != nil {
				return fmt.Errorf("counting comments: %w", err)
			}
			if count >= max.Int64 {
				return common.ErrCapacityExceeded
			}
		}

		var author sql.NullInt64
		if authorID != nil {
			author = sql.NullInt64{Int64: *authorID, Valid: true}
		}

		err = tx.QueryRowContext(ctx,
			`INSERT INTO comments (post_id, author_id, text) VALUES ($1, $2, $3) RETURNING id`,
			postID, author, text).Scan(&id)
		if err != nil {
			return fmt.Errorf("inserting comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *PostgresRepository) UpdateText(ctx context.Context, id int64, text string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET text = $1, edited = TRUE WHERE id = $2`, text, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM flags WHERE comment_id = $1`, id); err != nil {
			return fmt.Errorf("deleting flags: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("deleting comment: %w", err)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanComment(s scanner) (*Comment, error) {
	c := &Comment{}
	var authorID sql.NullInt64
	var authorName sql.NullString

	if err := s.Scan(&c.ID, &c.PostID, &authorID, &authorName, &c.Text, &c.CreatedAt, &c.Edited, &c.InterestingCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning comment: %w", err)
	}
	if authorID.Valid {
		id := authorID.Int64
		c.AuthorID = &id
	}
	if authorName.Valid {
		name := authorName.String
		c.AuthorName = &name
	}

	return c, nil
}
