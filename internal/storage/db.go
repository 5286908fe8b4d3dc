package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// Recorder receives one observation per statement.
type Recorder interface {
	StorageQuery(ctx context.Context, op string, outcome string)
}

// Statement outcomes reported to the Recorder.
const (
	OutcomeOK       = "ok"
	OutcomeNoRows   = "no_rows"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// DB executes parameterized statements against the pool. Every call is
// bounded by the query timeout and every failure comes back as *Error.
type DB struct {
	db           *sqlx.DB
	queryTimeout time.Duration
	recorder     Recorder
}

type Option func(*DB)

// WithRecorder reports statement outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(d *DB) {
		d.recorder = r
	}
}

func New(db *sqlx.DB, queryTimeout time.Duration, opts ...Option) *DB {
	d := &DB{db: db, queryTimeout: queryTimeout}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Select runs query and scans every row into dest, a pointer to a slice.
func (d *DB) Select(ctx context.Context, op string, dest interface{}, query string, args ...interface{}) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	err := d.db.SelectContext(ctx, dest, query, args...)
	d.record(ctx, op, err)

	return wrap(op, err)
}

// Get runs query and scans the single resulting row into dest. No row is
// reported as an *Error wrapping sql.ErrNoRows.
func (d *DB) Get(ctx context.Context, op string, dest interface{}, query string, args ...interface{}) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	err := d.db.GetContext(ctx, dest, query, args...)
	d.record(ctx, op, err)

	return wrap(op, err)
}

// Exec runs a statement that returns no rows and reports how many rows it
// touched.
func (d *DB) Exec(ctx context.Context, op string, query string, args ...interface{}) (int64, error) {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		d.record(ctx, op, err)
		return 0, wrap(op, err)
	}

	n, err := res.RowsAffected()
	d.record(ctx, op, err)
	if err != nil {
		return 0, wrap(op, err)
	}

	return n, nil
}

// Ping checks that a connection can be borrowed and used.
func (d *DB) Ping(ctx context.Context) error {
	ctx, cancel := d.withTimeout(ctx)
	defer cancel()

	return wrap("ping", d.db.PingContext(ctx))
}

// Close releases the pool.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d.queryTimeout)
}

func (d *DB) record(ctx context.Context, op string, err error) {
	if d.recorder == nil {
		return
	}

	outcome := OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		outcome = OutcomeNoRows
	case IsUniqueViolation(wrap(op, err)):
		outcome = OutcomeConflict
	default:
		outcome = OutcomeError
	}

	d.recorder.StorageQuery(ctx, op, outcome)
}
