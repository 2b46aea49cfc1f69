package comments

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/forumlab/webforum/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreateCapped_UncappedPost(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)^SELECT\s+max_comments\s+FROM\s+posts\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"max_comments"}).AddRow(nil))
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+comments`).
		WithArgs(int64(10), sql.NullInt64{Int64: 1, Valid: true}, "hello").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(55))
	mock.ExpectCommit()

	author := int64(1)
	id, err := repo.CreateCapped(context.Background(), 10, &author, "hello")
	if err != nil {
		t.Fatalf("CreateCapped error: %v", err)
	}
	if id != 55 {
		t.Fatalf("want id 55, got %d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreateCapped_BelowCap(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)FOR\s+UPDATE`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"max_comments"}).AddRow(3))
	mock.ExpectQuery(`(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+comments`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+comments`).
		WithArgs(int64(10), sql.NullInt64{}, "anon").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(56))
	mock.ExpectCommit()

	id, err := repo.CreateCapped(context.Background(), 10, nil, "anon")
	if err != nil {
		t.Fatalf("CreateCapped error: %v", err)
	}
	if id != 56 {
		t.Fatalf("want id 56, got %d", id)
	}
}

func TestCreateCapped_CapReachedRollsBack(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)FOR\s+UPDATE`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"max_comments"}).AddRow(1))
	mock.ExpectQuery(`(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+comments`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := repo.CreateCapped(context.Background(), 10, nil, "late")
	if !errors.Is(err, common.ErrCapacityExceeded) {
		t.Fatalf("want common.ErrCapacityExceeded, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestCreateCapped_MissingPost(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)FOR\s+UPDATE`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.CreateCapped(context.Background(), 404, nil, "text")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestUpdateText_SetsEditedFlag(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+comments\s+SET\s+text\s*=\s*\$1,\s*edited\s*=\s*TRUE`).
		WithArgs("new text", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateText(context.Background(), 5, "new text"); err != nil {
		t.Fatalf("UpdateText error: %v", err)
	}
}

func TestUpdateText_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+comments`).
		WithArgs("x", int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.UpdateText(context.Background(), 404, "x"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want common.ErrNotFound, got %v", err)
	}
}

func TestDelete_RemovesFlagsFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+flags\s+WHERE\s+comment_id`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+comments\s+WHERE\s+id`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), 5); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
