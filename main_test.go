package main

import (
	"context"
	"testing"
	"time"

	"homebuilder-proforma/config"
	"homebuilder-proforma/repository"
)

func TestOpenCache_RedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cache, closeCache, err := openCache(ctx, &config.AppConfig{
		CacheDriver: config.CacheRedis,
		RedisAddr:   "127.0.0.1:1",
		CacheTTL:    time.Minute,
	})
	if err == nil {
		closeCache()
		t.Fatal("expected ping error for an unreachable redis")
	}
	if cache != nil || closeCache != nil {
		t.Error("no cache should be returned when the ping fails")
	}
}

func TestOpenCache_Drivers(t *testing.T) {
	tests := []struct {
		driver string
		check  func(repository.CacheRepository) bool
	}{
		{config.CacheMemory, func(c repository.CacheRepository) bool { _, ok := c.(*repository.MemoryCache); return ok }},
		{config.CacheNone, func(c repository.CacheRepository) bool { _, ok := c.(repository.NoopCache); return ok }},
	}
	for _, tt := range tests {
		cache, closeCache, err := openCache(context.Background(), &config.AppConfig{CacheDriver: tt.driver, CacheTTL: time.Minute})
		if err != nil {
			t.Fatalf("openCache(%s): %v", tt.driver, err)
		}
		if !tt.check(cache) {
			t.Errorf("openCache(%s) returned %T", tt.driver, cache)
		}
		closeCache()
	}
}

func TestOpenStore_Memory(t *testing.T) {
	st, closeStore, err := openStore(context.Background(), &config.AppConfig{StoreDriver: config.StoreMemory})
	if err != nil {
		t.Fatalf("openStore: %v", err)
	}
	defer closeStore()
	if _, ok := st.(*repository.MemoryStore); !ok {
		t.Errorf("openStore returned %T", st)
	}
}
