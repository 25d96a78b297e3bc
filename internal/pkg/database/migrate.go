package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Direction of a migration run.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("unsupported migration direction %q", s)
	}
}

// MigratePostgres applies the embedded PostgreSQL migrations using a
// postgres:// URL.
func MigratePostgres(databaseURL string, direction Direction) error {
	src, err := iofs.New(migrationsFS, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("load postgres migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	return run(m, direction)
}

// MigrateSQLite applies the embedded SQLite migrations on an open handle.
// The handle stays open; the migrate instance is not closed because that
// would close db as well.
func MigrateSQLite(db *sql.DB, direction Direction) error {
	src, err := iofs.New(migrationsFS, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("load sqlite migrations: %w", err)
	}

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, DriverSQLite, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	return run(m, direction)
}

func run(m *migrate.Migrate, direction Direction) error {
	var err error
	switch direction {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return fmt.Errorf("unsupported migration direction %q", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}
	return nil
}
