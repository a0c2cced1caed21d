package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"homebuilder-proforma/domain"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "proforma.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Runs(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, kind := range []domain.ProformaKind{domain.KindLotDevelopment, domain.KindLotPurchase, domain.KindLotDevelopment} {
		run := sampleRun(uuid.NewString(), kind, base.Add(time.Duration(i)*time.Second))
		if err := store.Save(ctx, run); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	runs, err := store.List(ctx, domain.KindLotDevelopment, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("List len = %d, want 2", len(runs))
	}
	if !runs[0].CreatedAt.After(runs[1].CreatedAt) {
		t.Errorf("runs not ordered newest first: %v, %v", runs[0].CreatedAt, runs[1].CreatedAt)
	}

	got, err := store.Get(ctx, runs[0].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.Result) != `{"totalUses":550000}` {
		t.Errorf("Result = %s", got.Result)
	}
	if !got.CreatedAt.Equal(base.Add(2 * time.Second)) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, base.Add(2*time.Second))
	}

	if _, err := store.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nope) error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_Accounts(t *testing.T) {
	ctx := context.Background()
	store := openTestSQLite(t)
	parent := uuid.New()
	accounts := []domain.Account{
		{ID: parent, EntityID: "llc-7", AccountNumber: "2000", Name: "Liabilities", Type: domain.AccountTypeLiability, IsHeader: true, IsActive: true},
		{ID: uuid.New(), EntityID: "llc-7", AccountNumber: "2500", Name: "Senior Loan - First Bank", Type: domain.AccountTypeLiability,
			ParentAccountNumber: "2000", ParentID: &parent, Level: 1, SortOrder: 3, IsActive: true},
	}

	if err := store.InsertAccounts(ctx, accounts); err != nil {
		t.Fatalf("InsertAccounts: %v", err)
	}

	got, err := store.ListAccounts(ctx, "llc-7")
	if err != nil {
		t.Fatalf("ListAccounts: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	child := got[1]
	if child.Name != "Senior Loan - First Bank" || child.Level != 1 || child.SortOrder != 3 {
		t.Errorf("unexpected child account: %+v", child)
	}
	if child.ParentID == nil || *child.ParentID != parent {
		t.Errorf("ParentID = %v, want %v", child.ParentID, parent)
	}
	if !got[0].IsHeader || !got[0].IsActive {
		t.Errorf("header flags not round-tripped: %+v", got[0])
	}

	// The unique (entity, number) constraint rolls back the whole batch.
	dup := []domain.Account{
		{ID: uuid.New(), EntityID: "llc-7", AccountNumber: "3000", Name: "Equity", Type: domain.AccountTypeEquity},
		{ID: uuid.New(), EntityID: "llc-7", AccountNumber: "2000", Name: "Again", Type: domain.AccountTypeLiability},
	}
	if err := store.InsertAccounts(ctx, dup); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("duplicate insert error = %v, want ErrAlreadyExists", err)
	}
	got, _ = store.ListAccounts(ctx, "llc-7")
	if len(got) != 2 {
		t.Errorf("len after failed insert = %d, want 2", len(got))
	}
}

func TestIsUniqueViolation_UsesErrorCode(t *testing.T) {
	if isUniqueViolation(errors.New("UNIQUE constraint failed: accounts.entity_id")) {
		t.Error("a plain error with matching text is not a constraint violation")
	}
	if isUniqueViolation(nil) {
		t.Error("nil is not a constraint violation")
	}
}
