package storage

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migration directions accepted by Migrate.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Migrate applies (up) or rolls back (down) the embedded schema migrations.
// It reports false when there was nothing to do.
func Migrate(databaseURL, direction string) (bool, error) {
	if databaseURL == "" {
		return false, errors.New("migrate: database url is empty")
	}

	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return false, fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return false, fmt.Errorf("create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	switch direction {
	case DirectionUp:
		err = m.Up()
	case DirectionDown:
		err = m.Down()
	default:
		return false, fmt.Errorf("invalid direction %q (must be %q or %q)", direction, DirectionUp, DirectionDown)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("migrate %s: %w", direction, err)
	}

	return true, nil
}
