package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPgx    = "pgx"
	DriverPq     = "postgres"
	DriverSQLite = "sqlite"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open connects to a Postgres (pgx or lib/pq driver) or SQLite database and
// tunes the pool the same way for every caller.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverPgx, DriverPq:
		db, err := sqlx.ConnectContext(ctx, driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("connect %s: %w", driver, err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
		return db, nil

	case DriverSQLite:
		if dir := filepath.Dir(dsn); dsn != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		db, err := sqlx.ConnectContext(ctx, DriverSQLite, dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// One writer at a time; also keeps ":memory:" on a single connection.
		db.SetMaxOpenConns(1)
		for _, pragma := range []string{
			"PRAGMA journal_mode = WAL",
			"PRAGMA busy_timeout = 5000",
		} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
			}
		}
		return db, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// NewStreakRepositoryFor picks the SQL dialect matching the driver the db was opened with.
func NewStreakRepositoryFor(db *sqlx.DB) (*SQLStreakRepository, error) {
	switch db.DriverName() {
	case DriverPgx, DriverPq:
		return NewPostgresStreakRepository(db), nil
	case DriverSQLite:
		return NewSQLiteStreakRepository(db), nil
	}
	log.Printf("[DB] Unknown driver %q", db.DriverName())
	return nil, fmt.Errorf("unsupported database driver %q", db.DriverName())
}
