package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"homebuilder-proforma/domain"
	"homebuilder-proforma/logger"
	"homebuilder-proforma/repository"
)

// runRecorder caches calculation results and saves calculation runs.
// Neither step is allowed to fail a calculation.
type runRecorder struct {
	runs  repository.ProformaRepository
	cache repository.CacheRepository
	now   func() time.Time
}

func newRunRecorder(runs repository.ProformaRepository, cache repository.CacheRepository) *runRecorder {
	if cache == nil {
		cache = repository.NoopCache{}
	}
	return &runRecorder{runs: runs, cache: cache, now: time.Now}
}

// cacheKey hashes the JSON form of input.
func cacheKey(kind domain.ProformaKind, input any) (string, error) {
	data, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%016x", kind, xxhash.Sum64(data)), nil
}

// lookup decodes a cached result into out and reports whether it hit.
func (r *runRecorder) lookup(ctx context.Context, key string, out any) bool {
	raw, ok := r.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		logger.FromContext(ctx).Warn("Discarding unreadable cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (r *runRecorder) remember(ctx context.Context, key string, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		logger.FromContext(ctx).Warn("Failed to encode result for cache", "key", key, "error", err)
		return
	}
	if err := r.cache.Set(ctx, key, string(data)); err != nil {
		logger.FromContext(ctx).Warn("Failed to cache result", "key", key, "error", err)
	}
}

// save stores the run and returns its ID, or "" when it could not be saved.
func (r *runRecorder) save(ctx context.Context, kind domain.ProformaKind, input, result any) string {
	if r.runs == nil {
		return ""
	}
	log := logger.FromContext(ctx)

	in, err := json.Marshal(input)
	if err != nil {
		log.Warn("Failed to encode proforma input", "kind", kind, "error", err)
		return ""
	}
	out, err := json.Marshal(result)
	if err != nil {
		log.Warn("Failed to encode proforma result", "kind", kind, "error", err)
		return ""
	}

	run := domain.ProformaRun{
		ID:        uuid.NewString(),
		Kind:      kind,
		Input:     in,
		Result:    out,
		CreatedAt: r.now().UTC(),
	}
	if err := r.runs.Save(ctx, run); err != nil {
		log.Warn("Failed to save proforma run", "kind", kind, "error", err)
		return ""
	}
	return run.ID
}
