package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"homebuilder-proforma/domain"
)

// MemoryStore is an in-memory implementation of ProformaRepository and
// AccountRepository.
type MemoryStore struct {
	mu       sync.RWMutex
	runs     []domain.ProformaRun
	accounts map[string][]domain.Account
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs:     []domain.ProformaRun{},
		accounts: make(map[string][]domain.Account),
	}
}

// Save stores the run in memory.
func (s *MemoryStore) Save(_ context.Context, run domain.ProformaRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (domain.ProformaRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, run := range s.runs {
		if run.ID == id {
			return run, nil
		}
	}
	return domain.ProformaRun{}, fmt.Errorf("proforma run %s: %w", id, ErrNotFound)
}

func (s *MemoryStore) List(_ context.Context, kind domain.ProformaKind, limit int) ([]domain.ProformaRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.ProformaRun{}
	for _, run := range s.runs {
		if kind == "" || run.Kind == kind {
			out = append(out, run)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n := normalizeLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) InsertAccounts(_ context.Context, accounts []domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range accounts {
		for _, existing := range s.accounts[a.EntityID] {
			if existing.AccountNumber == a.AccountNumber {
				return fmt.Errorf("account %s for entity %s: %w", a.AccountNumber, a.EntityID, ErrAlreadyExists)
			}
		}
	}
	for _, a := range accounts {
		s.accounts[a.EntityID] = append(s.accounts[a.EntityID], a)
	}
	return nil
}

func (s *MemoryStore) ListAccounts(_ context.Context, entityID string) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, len(s.accounts[entityID]))
	copy(out, s.accounts[entityID])
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AccountNumber < out[j].AccountNumber
	})
	return out, nil
}
