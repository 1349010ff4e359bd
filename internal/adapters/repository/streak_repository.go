package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/comitanigiacomo/kanso-streaks/internal/core/domain"
)

var _ domain.StreakRepository = (*SQLStreakRepository)(nil)

type dialect struct {
	name   string
	schema []string
	// dateArg converts a date to the driver argument stored in a date column.
	dateArg func(time.Time) any
}

var postgresDialect = dialect{
	name: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS streaks (
			id           BIGINT PRIMARY KEY,
			name         TEXT NOT NULL,
			start_date   DATE NOT NULL,
			end_date     DATE NOT NULL,
			streak_count INTEGER NOT NULL CHECK (streak_count >= 0),
			extra        INTEGER NOT NULL CHECK (extra >= 0),
			active       BOOLEAN NOT NULL,
			run_id       TEXT NOT NULL,
			stored_at    TIMESTAMPTZ NOT NULL,
			CHECK (end_date >= start_date)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_streaks_active_name ON streaks (name) WHERE active`,
		`CREATE INDEX IF NOT EXISTS idx_streaks_name ON streaks (name)`,
	},
	dateArg: func(t time.Time) any { return domain.Day(t) },
}

var sqliteDialect = dialect{
	name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS streaks (
			id           INTEGER PRIMARY KEY,
			name         TEXT NOT NULL,
			start_date   TEXT NOT NULL,
			end_date     TEXT NOT NULL,
			streak_count INTEGER NOT NULL CHECK (streak_count >= 0),
			extra        INTEGER NOT NULL CHECK (extra >= 0),
			active       INTEGER NOT NULL,
			run_id       TEXT NOT NULL,
			stored_at    TEXT NOT NULL,
			CHECK (end_date >= start_date)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_streaks_active_name ON streaks (name) WHERE active`,
		`CREATE INDEX IF NOT EXISTS idx_streaks_name ON streaks (name)`,
	},
	dateArg: func(t time.Time) any { return domain.FormatDate(t) },
}

// SQLStreakRepository stores the derived streak table in Postgres or SQLite.
// Every sync replaces the table as a whole inside one transaction.
type SQLStreakRepository struct {
	db      *sqlx.DB
	dialect dialect
	now     func() time.Time
}

func NewPostgresStreakRepository(db *sqlx.DB) *SQLStreakRepository {
	return &SQLStreakRepository{db: db, dialect: postgresDialect, now: time.Now}
}

func NewSQLiteStreakRepository(db *sqlx.DB) *SQLStreakRepository {
	return &SQLStreakRepository{db: db, dialect: sqliteDialect, now: time.Now}
}

// Migrate creates the streak table and its indexes if they do not exist.
func (r *SQLStreakRepository) Migrate(ctx context.Context) error {
	for _, stmt := range r.dialect.schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", r.dialect.name, err)
		}
	}
	return nil
}

type streakRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	StartDate string `db:"start_date"`
	EndDate   string `db:"end_date"`
	Count     int    `db:"streak_count"`
	Extra     int    `db:"extra"`
	Active    bool   `db:"active"`
}

func (row streakRow) toDomain() (domain.Streak, error) {
	start, err := domain.ParseDate(row.StartDate)
	if err != nil {
		return domain.Streak{}, fmt.Errorf("streak %d start_date: %w", row.ID, err)
	}
	end, err := domain.ParseDate(row.EndDate)
	if err != nil {
		return domain.Streak{}, fmt.Errorf("streak %d end_date: %w", row.ID, err)
	}
	return domain.Streak{
		ID:        row.ID,
		Name:      row.Name,
		StartDate: start,
		EndDate:   end,
		Count:     row.Count,
		Extra:     row.Extra,
		Active:    row.Active,
	}, nil
}

const selectStreaks = `
	SELECT id, name,
	       CAST(start_date AS TEXT) AS start_date,
	       CAST(end_date AS TEXT) AS end_date,
	       streak_count, extra, active
	FROM streaks`

func (r *SQLStreakRepository) ReplaceAll(ctx context.Context, runID string, streaks []domain.Streak) error {
	if err := validateTable(streaks); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM streaks`); err != nil {
		return fmt.Errorf("clear streaks: %w", err)
	}

	insert := r.db.Rebind(`
		INSERT INTO streaks (
			id, name, start_date, end_date,
			streak_count, extra, active,
			run_id, stored_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	storedAt := r.now().UTC()
	var storedArg any = storedAt
	if r.dialect.name == sqliteDialect.name {
		storedArg = storedAt.Format(time.RFC3339)
	}

	for _, s := range streaks {
		_, err := stmt.ExecContext(ctx,
			s.ID, s.Name, r.dialect.dateArg(s.StartDate), r.dialect.dateArg(s.EndDate),
			s.Count, s.Extra, s.Active,
			runID, storedArg,
		)
		if err != nil {
			return mapError(err)
		}
	}

	return mapError(tx.Commit())
}

func (r *SQLStreakRepository) List(ctx context.Context, filter domain.StreakFilter) ([]domain.Streak, error) {
	var where []string
	var args []any
	if filter.Habit != "" {
		where = append(where, "name = ?")
		args = append(args, filter.Habit)
	}
	if filter.ActiveOnly {
		where = append(where, "active = ?")
		args = append(args, true)
	}
	if filter.ClosedOnly {
		where = append(where, "active = ?")
		args = append(args, false)
	}

	query := selectStreaks
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id ASC"

	var rows []streakRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	out := make([]domain.Streak, 0, len(rows))
	for _, row := range rows {
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *SQLStreakRepository) GetByID(ctx context.Context, id int64) (*domain.Streak, error) {
	var row streakRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(selectStreaks+" WHERE id = ?"), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStreakNotFound
		}
		return nil, err
	}

	s, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// mapError turns constraint violations from any of the drivers into ErrStreakInvariant.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == "23505" || pgErr.Code == "23514") {
		return fmt.Errorf("%w: %s", domain.ErrStreakInvariant, pgErr.Message)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && (pqErr.Code == "23505" || pqErr.Code == "23514") {
		return fmt.Errorf("%w: %s", domain.ErrStreakInvariant, pqErr.Message)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) && liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%w: %s", domain.ErrStreakInvariant, liteErr.Error())
	}

	return err
}

// validateTable checks the record invariants and that no habit has more than
// one active streak.
func validateTable(streaks []domain.Streak) error {
	active := make(map[string]bool)
	ids := make(map[int64]bool, len(streaks))
	for _, s := range streaks {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("streak %d: %w", s.ID, err)
		}
		if ids[s.ID] {
			return fmt.Errorf("%w: duplicate id %d", domain.ErrStreakInvariant, s.ID)
		}
		ids[s.ID] = true
		if s.Active {
			if active[s.Name] {
				return fmt.Errorf("%w: habit %q has more than one active streak", domain.ErrStreakInvariant, s.Name)
			}
			active[s.Name] = true
		}
	}
	return nil
}
