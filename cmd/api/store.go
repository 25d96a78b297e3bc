package main

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/worklog-backend-go/internal/config"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/worklog-backend-go/internal/repository/postgresql"
	"github.com/cmlabs-hris/worklog-backend-go/internal/repository/sqlite"
)

// store holds the repositories of the configured driver.
type store struct {
	employeeRepo employee.EmployeeRepository
	workLogRepo  worklog.WorkLogRepository
	migrate      func(database.Direction) error
	close        func()
}

func openStore(ctx context.Context, cfg *config.Config) (*store, error) {
	switch cfg.App.StoreDriver {
	case config.StoreDriverPostgres:
		dsn := cfg.DatabaseURL()
		db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		return &store{
			employeeRepo: postgresql.NewEmployeeRepository(db),
			workLogRepo:  postgresql.NewWorkLogRepository(db),
			migrate: func(direction database.Direction) error {
				return database.MigratePostgres(dsn, direction)
			},
			close: db.Close,
		}, nil

	case config.StoreDriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &store{
			employeeRepo: sqlite.NewEmployeeRepository(db),
			workLogRepo:  sqlite.NewWorkLogRepository(db),
			migrate: func(direction database.Direction) error {
				return database.MigrateSQLite(db, direction)
			},
			close: func() { db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.App.StoreDriver)
	}
}
