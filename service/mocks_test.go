package service

import (
	"context"
	"errors"

	"homebuilder-proforma/domain"
	"homebuilder-proforma/repository"
)

type MockProformaRepository struct {
	Saved      []domain.ProformaRun
	ForceError bool
}

func (m *MockProformaRepository) Save(_ context.Context, run domain.ProformaRun) error {
	if m.ForceError {
		return errors.New("save error")
	}
	m.Saved = append(m.Saved, run)
	return nil
}

func (m *MockProformaRepository) Get(_ context.Context, id string) (domain.ProformaRun, error) {
	for _, r := range m.Saved {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.ProformaRun{}, repository.ErrNotFound
}

func (m *MockProformaRepository) List(context.Context, domain.ProformaKind, int) ([]domain.ProformaRun, error) {
	return m.Saved, nil
}

type MockAccountRepository struct {
	Inserted   []domain.Account
	ForceError bool
}

func (m *MockAccountRepository) InsertAccounts(_ context.Context, accounts []domain.Account) error {
	if m.ForceError {
		return errors.New("insert error")
	}
	m.Inserted = append(m.Inserted, accounts...)
	return nil
}

func (m *MockAccountRepository) ListAccounts(_ context.Context, entityID string) ([]domain.Account, error) {
	out := []domain.Account{}
	for _, a := range m.Inserted {
		if a.EntityID == entityID {
			out = append(out, a)
		}
	}
	return out, nil
}
