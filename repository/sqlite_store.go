package repository

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"homebuilder-proforma/domain"
	"homebuilder-proforma/logger"
)

// Timestamps are stored as fixed-width UTC text so they sort lexically.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

//go:embed migrations/*.sql
var migrationFiles embed.FS

// SQLiteStore persists runs and accounts in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if err := RunSQLiteMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.L.Info("SQLite store ready", "path", path)
	return &SQLiteStore{db: db}, nil
}

// RunSQLiteMigrations applies the embedded migrations to db.
func RunSQLiteMigrations(db *sql.DB) error {
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migration driver: %w", err)
	}
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.L.Debug("No new database migrations to apply")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.L.Info("Database migrations applied")
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, run domain.ProformaRun) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO proforma_runs (id, kind, input, result, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, string(run.Kind), string(run.Input), string(run.Result),
		run.CreatedAt.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("insert proforma run: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.ProformaRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, input, result, created_at FROM proforma_runs WHERE id = ?`, id)
	run, err := scanSQLiteRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ProformaRun{}, fmt.Errorf("proforma run %s: %w", id, ErrNotFound)
	}
	return run, err
}

func (s *SQLiteStore) List(ctx context.Context, kind domain.ProformaKind, limit int) ([]domain.ProformaRun, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, input, result, created_at FROM proforma_runs
		 WHERE (? = '' OR kind = ?)
		 ORDER BY created_at DESC
		 LIMIT ?`,
		string(kind), string(kind), normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query proforma runs: %w", err)
	}
	defer rows.Close()

	out := []domain.ProformaRun{}
	for rows.Next() {
		run, err := scanSQLiteRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRun(row rowScanner) (domain.ProformaRun, error) {
	var (
		run                 domain.ProformaRun
		kind, input, result string
		createdAt           string
	)
	if err := row.Scan(&run.ID, &kind, &input, &result, &createdAt); err != nil {
		return domain.ProformaRun{}, err
	}
	ts, err := time.Parse(sqliteTimeFormat, createdAt)
	if err != nil {
		return domain.ProformaRun{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	run.Kind = domain.ProformaKind(kind)
	run.Input = []byte(input)
	run.Result = []byte(result)
	run.CreatedAt = ts
	return run, nil
}

// InsertAccounts writes all accounts in one transaction. Parents must
// precede their children in the slice.
func (s *SQLiteStore) InsertAccounts(ctx context.Context, accounts []domain.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO accounts (id, entity_id, account_number, name, account_type,
			parent_account_number, parent_id, level, is_header, sort_order, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare account insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range accounts {
		var parentID, parentNumber any
		if a.ParentID != nil {
			parentID = a.ParentID.String()
		}
		if a.ParentAccountNumber != "" {
			parentNumber = a.ParentAccountNumber
		}
		if _, err := stmt.ExecContext(ctx,
			a.ID.String(), a.EntityID, a.AccountNumber, a.Name, string(a.Type),
			parentNumber, parentID, a.Level, a.IsHeader, a.SortOrder, a.IsActive,
		); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("account %s for entity %s: %w", a.AccountNumber, a.EntityID, ErrAlreadyExists)
			}
			return fmt.Errorf("insert account %s: %w", a.AccountNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit accounts: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAccounts(ctx context.Context, entityID string) ([]domain.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entity_id, account_number, name, account_type,
			COALESCE(parent_account_number, ''), COALESCE(parent_id, ''),
			level, is_header, sort_order, is_active
		 FROM accounts WHERE entity_id = ? ORDER BY account_number`, entityID)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	out := []domain.Account{}
	for rows.Next() {
		var (
			a                domain.Account
			id, parentID, at string
		)
		if err := rows.Scan(&id, &a.EntityID, &a.AccountNumber, &a.Name, &at,
			&a.ParentAccountNumber, &parentID, &a.Level, &a.IsHeader, &a.SortOrder, &a.IsActive); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		if a.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse account id %q: %w", id, err)
		}
		if parentID != "" {
			pid, err := uuid.Parse(parentID)
			if err != nil {
				return nil, fmt.Errorf("parse parent id %q: %w", parentID, err)
			}
			a.ParentID = &pid
		}
		a.Type = domain.AccountType(at)
		out = append(out, a)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
