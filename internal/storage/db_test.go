package storage_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SergeyParamoshkin/santeplanete/internal/config"
	"github.com/SergeyParamoshkin/santeplanete/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type outcomeRecorder struct {
	ops      []string
	outcomes []string
}

func (r *outcomeRecorder) StorageQuery(_ context.Context, op, outcome string) {
	r.ops = append(r.ops, op)
	r.outcomes = append(r.outcomes, outcome)
}

func newMockDB(t *testing.T) (*storage.DB, sqlmock.Sqlmock, *outcomeRecorder) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rec := &outcomeRecorder{}

	return storage.New(sqlx.NewDb(db, "postgres"), time.Second, storage.WithRecorder(rec)), mock, rec
}

type row struct {
	ID    int64  `db:"id"`
	Title string `db:"title"`
}

func TestDB_Select(t *testing.T) {
	db, mock, rec := newMockDB(t)

	mock.ExpectQuery("SELECT id, title FROM articles").
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title"}).AddRow(2, "B").AddRow(1, "A"))

	var rows []row
	err := db.Select(context.Background(), "list", &rows, "SELECT id, title FROM articles LIMIT $1", 10)
	require.NoError(t, err)

	assert.Equal(t, []row{{ID: 2, Title: "B"}, {ID: 1, Title: "A"}}, rows)
	assert.Equal(t, []string{storage.OutcomeOK}, rec.outcomes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_GetNoRows(t *testing.T) {
	db, mock, rec := newMockDB(t)

	mock.ExpectQuery("SELECT id, title FROM articles WHERE id").
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	var r row
	err := db.Get(context.Background(), "get", &r, "SELECT id, title FROM articles WHERE id = $1", int64(7))
	require.Error(t, err)

	assert.True(t, errors.Is(err, sql.ErrNoRows))

	var sErr *storage.Error
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, "get", sErr.Op)
	assert.Empty(t, sErr.Code)
	assert.Equal(t, []string{storage.OutcomeNoRows}, rec.outcomes)
}

func TestDB_ExecUniqueViolation(t *testing.T) {
	db, mock, rec := newMockDB(t)

	mock.ExpectExec("UPDATE articles").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "articles_slug_key"})

	_, err := db.Exec(context.Background(), "update", "UPDATE articles SET slug = $1", "dup")
	require.Error(t, err)

	assert.True(t, storage.IsUniqueViolation(err))

	var sErr *storage.Error
	require.True(t, errors.As(err, &sErr))
	assert.Equal(t, storage.UniqueViolation, sErr.Code)
	assert.Equal(t, "articles_slug_key", sErr.Constraint)
	assert.Equal(t, []string{storage.OutcomeConflict}, rec.outcomes)
}

func TestDB_ExecRowsAffected(t *testing.T) {
	db, mock, _ := newMockDB(t)

	mock.ExpectExec("DELETE FROM articles").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := db.Exec(context.Background(), "delete", "DELETE FROM articles WHERE id = $1", int64(3))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDB_GenericFailure(t *testing.T) {
	db, mock, rec := newMockDB(t)

	mock.ExpectQuery("SELECT").WillReturnError(sql.ErrConnDone)

	var rows []row
	err := db.Select(context.Background(), "list", &rows, "SELECT id, title FROM articles")
	require.Error(t, err)

	assert.False(t, storage.IsUniqueViolation(err))
	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.Equal(t, []string{storage.OutcomeError}, rec.outcomes)
}

func TestOpen_MissingURL(t *testing.T) {
	_, err := storage.Open(context.Background(), config.DatabaseConfig{})

	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "database.url", cfgErr.Key)
}

func TestMigrate_InvalidInput(t *testing.T) {
	_, err := storage.Migrate("", storage.DirectionUp)
	assert.Error(t, err)
}
