package repository

import (
	"context"
	"errors"

	"homebuilder-proforma/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists is returned when an entity already has an account with
// the same number.
var ErrAlreadyExists = errors.New("record already exists")

// DefaultListLimit caps List calls that pass a non-positive limit.
const DefaultListLimit = 50

type ProformaRepository interface {
	Save(ctx context.Context, run domain.ProformaRun) error
	Get(ctx context.Context, id string) (domain.ProformaRun, error)
	// List returns the newest runs first. An empty kind matches every kind.
	List(ctx context.Context, kind domain.ProformaKind, limit int) ([]domain.ProformaRun, error)
}

type AccountRepository interface {
	InsertAccounts(ctx context.Context, accounts []domain.Account) error
	ListAccounts(ctx context.Context, entityID string) ([]domain.Account, error)
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > DefaultListLimit {
		return DefaultListLimit
	}
	return limit
}
