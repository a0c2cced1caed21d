package service

import (
	"context"
	"strings"

	"homebuilder-proforma/domain"
	"homebuilder-proforma/repository"
)

// RunService reads back saved proforma runs.
type RunService struct {
	runs repository.ProformaRepository
}

func NewRunService(runs repository.ProformaRepository) *RunService {
	return &RunService{runs: runs}
}

func (s *RunService) Get(ctx context.Context, id string) (domain.ProformaRun, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ProformaRun{}, invalidf("run id is required")
	}
	return s.runs.Get(ctx, id)
}

// List returns the newest runs first. kind may be empty to match every
// kind; limit is clamped by the store.
func (s *RunService) List(ctx context.Context, kind string, limit int) ([]domain.ProformaRun, error) {
	k := domain.ProformaKind(strings.TrimSpace(kind))
	switch k {
	case "", domain.KindLotDevelopment, domain.KindLotPurchase:
	default:
		return nil, invalidf("unknown proforma kind %q", kind)
	}
	if limit < 0 {
		return nil, invalidf("limit must not be negative")
	}
	return s.runs.List(ctx, k, limit)
}
