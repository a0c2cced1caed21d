package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"homebuilder-proforma/config"
	"homebuilder-proforma/domain"
)

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := ConnectPostgres(ctx, config.DBConfig{URL: url, MaxConns: 2, MinConns: 1})
	if err != nil {
		t.Fatalf("ConnectPostgres: %v", err)
	}
	defer store.Close()

	run := sampleRun(uuid.NewString(), domain.KindLotPurchase, time.Now().UTC().Truncate(time.Microsecond))
	if err := store.Save(ctx, run); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, run.CreatedAt)
	}
	if _, err := store.Get(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	entity := "pg-test-" + uuid.NewString()
	parent := uuid.New()
	accounts := []domain.Account{
		{ID: parent, EntityID: entity, AccountNumber: "1000", Name: "Assets", Type: domain.AccountTypeAsset, IsHeader: true, IsActive: true},
		{ID: uuid.New(), EntityID: entity, AccountNumber: "1010", Name: "Cash", Type: domain.AccountTypeAsset,
			ParentAccountNumber: "1000", ParentID: &parent, Level: 1, IsActive: true},
	}
	if err := store.InsertAccounts(ctx, accounts); err != nil {
		t.Fatalf("InsertAccounts: %v", err)
	}
	listed, err := store.ListAccounts(ctx, entity)
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(listed) != 2 || listed[1].ParentID == nil || *listed[1].ParentID != parent {
		t.Errorf("unexpected accounts: %+v", listed)
	}
}
