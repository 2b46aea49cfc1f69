package flags

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Add relies on the (user_id, comment_id) primary key: ON CONFLICT DO
// NOTHING makes duplicate adds converge to exactly one row.
func (r *PostgresRepository) Add(ctx context.Context, userID, commentID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO flags (user_id, comment_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, commentID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, commentID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM flags WHERE user_id = $1 AND comment_id = $2`,
		userID, commentID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListCommentIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT comment_id FROM flags WHERE user_id = $1 ORDER BY comment_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning flag: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading rows: %w", err)
	}

	return ids, nil
}
