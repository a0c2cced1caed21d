package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"homebuilder-proforma/config"
	"homebuilder-proforma/domain"
)

const uniqueViolation = "23505"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS proforma_runs (
    id         TEXT PRIMARY KEY,
    kind       TEXT NOT NULL,
    input      JSONB NOT NULL,
    result     JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_proforma_runs_kind_created ON proforma_runs (kind, created_at DESC);

CREATE TABLE IF NOT EXISTS accounts (
    id                    UUID PRIMARY KEY,
    entity_id             TEXT NOT NULL,
    account_number        TEXT NOT NULL,
    name                  TEXT NOT NULL,
    account_type          TEXT NOT NULL,
    parent_account_number TEXT,
    parent_id             UUID REFERENCES accounts (id) DEFERRABLE INITIALLY DEFERRED,
    level                 INTEGER NOT NULL DEFAULT 0,
    is_header             BOOLEAN NOT NULL DEFAULT false,
    sort_order            INTEGER NOT NULL DEFAULT 0,
    is_active             BOOLEAN NOT NULL DEFAULT true,
    UNIQUE (entity_id, account_number)
);
`

var accountColumns = []string{
	"id", "entity_id", "account_number", "name", "account_type",
	"parent_account_number", "parent_id", "level", "is_header", "sort_order", "is_active",
}

// PostgresStore persists runs and accounts in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres creates a connection pool and makes sure the schema exists.
func ConnectPostgres(ctx context.Context, cfg config.DBConfig) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &PostgresStore{pool: pool}
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// EnsureSchema creates the tables when they are missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Save(ctx context.Context, run domain.ProformaRun) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO proforma_runs (id, kind, input, result, created_at) VALUES ($1, $2, $3, $4, $5)`,
		run.ID, string(run.Kind), []byte(run.Input), []byte(run.Result), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert proforma run: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (domain.ProformaRun, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, kind, input, result, created_at FROM proforma_runs WHERE id = $1`, id)
	run, err := scanPostgresRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ProformaRun{}, fmt.Errorf("proforma run %s: %w", id, ErrNotFound)
	}
	return run, err
}

func (s *PostgresStore) List(ctx context.Context, kind domain.ProformaKind, limit int) ([]domain.ProformaRun, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, kind, input, result, created_at FROM proforma_runs
		 WHERE ($1 = '' OR kind = $1)
		 ORDER BY created_at DESC
		 LIMIT $2`,
		string(kind), normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query proforma runs: %w", err)
	}
	defer rows.Close()

	out := []domain.ProformaRun{}
	for rows.Next() {
		run, err := scanPostgresRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func scanPostgresRun(row pgx.Row) (domain.ProformaRun, error) {
	var (
		run           domain.ProformaRun
		kind          string
		input, result []byte
	)
	if err := row.Scan(&run.ID, &kind, &input, &result, &run.CreatedAt); err != nil {
		return domain.ProformaRun{}, err
	}
	run.Kind = domain.ProformaKind(kind)
	run.Input = input
	run.Result = result
	return run, nil
}

// InsertAccounts bulk-loads accounts with COPY inside a transaction.
func (s *PostgresStore) InsertAccounts(ctx context.Context, accounts []domain.Account) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	rows := make([][]any, 0, len(accounts))
	for _, a := range accounts {
		var parentID pgtype.UUID
		if a.ParentID != nil {
			parentID = pgtype.UUID{Bytes: *a.ParentID, Valid: true}
		}
		var parentNumber pgtype.Text
		if a.ParentAccountNumber != "" {
			parentNumber = pgtype.Text{String: a.ParentAccountNumber, Valid: true}
		}
		rows = append(rows, []any{
			pgtype.UUID{Bytes: a.ID, Valid: true}, a.EntityID, a.AccountNumber, a.Name, string(a.Type),
			parentNumber, parentID, int32(a.Level), a.IsHeader, int32(a.SortOrder), a.IsActive,
		})
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"accounts"}, accountColumns, pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("copy accounts: %w", ErrAlreadyExists)
		}
		return fmt.Errorf("copy accounts: %w", err)
	}
	if int(n) != len(accounts) {
		return fmt.Errorf("copy accounts: wrote %d of %d rows", n, len(accounts))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit accounts: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAccounts(ctx context.Context, entityID string) ([]domain.Account, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, entity_id, account_number, name, account_type,
			COALESCE(parent_account_number, ''), parent_id,
			level, is_header, sort_order, is_active
		 FROM accounts WHERE entity_id = $1 ORDER BY account_number`, entityID)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	out := []domain.Account{}
	for rows.Next() {
		var (
			a                domain.Account
			id, parentID     pgtype.UUID
			accountType      string
			level, sortOrder int32
		)
		if err := rows.Scan(&id, &a.EntityID, &a.AccountNumber, &a.Name, &accountType,
			&a.ParentAccountNumber, &parentID, &level, &a.IsHeader, &sortOrder, &a.IsActive); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		a.ID = uuid.UUID(id.Bytes)
		if parentID.Valid {
			pid := uuid.UUID(parentID.Bytes)
			a.ParentID = &pid
		}
		a.Type = domain.AccountType(accountType)
		a.Level = int(level)
		a.SortOrder = int(sortOrder)
		out = append(out, a)
	}
	return out, rows.Err()
}
