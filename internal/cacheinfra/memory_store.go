package cacheinfra

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
)

// MemoryStore is an in-process store built on sturdyc.
//
// A sturdyc client applies one TTL to everything it holds, so the store keeps
// one client per distinct TTL. Catalog families use a single TTL each, which in
// practice means one or two clients per process.
type MemoryStore struct {
	cfg     MemoryConfig
	buckets *xsync.MapOf[time.Duration, *sturdyc.Client[[]byte]]
}

// NewMemoryStore validates cfg and returns an empty store.
func NewMemoryStore(cfg MemoryConfig) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &MemoryStore{
		cfg:     cfg,
		buckets: xsync.NewMapOf[time.Duration, *sturdyc.Client[[]byte]](),
	}, nil
}

// Get returns the value stored under key in any bucket.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var (
		value []byte
		found bool
	)
	s.buckets.Range(func(_ time.Duration, client *sturdyc.Client[[]byte]) bool {
		value, found = client.Get(key)
		return !found
	})

	return value, found, nil
}

// Set stores value in the bucket for ttl and drops any copy of the key held by
// other buckets, so a key lives in exactly one bucket.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		return &ConfigError{Field: "ttl", Message: "must be greater than 0"}
	}

	target := s.bucket(ttl)
	s.buckets.Range(func(bucketTTL time.Duration, client *sturdyc.Client[[]byte]) bool {
		if bucketTTL != ttl {
			client.Delete(key)
		}
		return true
	})

	// sturdyc keeps the slice, copy it so callers can reuse their buffer.
	stored := make([]byte, len(value))
	copy(stored, value)
	target.Set(key, stored)

	return nil
}

// Delete removes key from every bucket.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.buckets.Range(func(_ time.Duration, client *sturdyc.Client[[]byte]) bool {
		client.Delete(key)
		return true
	})
	return nil
}

// Len returns the number of entries across all buckets.
func (s *MemoryStore) Len() int {
	total := 0
	s.buckets.Range(func(_ time.Duration, client *sturdyc.Client[[]byte]) bool {
		total += client.Size()
		return true
	})
	return total
}

// Close is a no-op, sturdyc clients hold no external resources.
func (s *MemoryStore) Close() error {
	return nil
}

func (s *MemoryStore) bucket(ttl time.Duration) *sturdyc.Client[[]byte] {
	client, _ := s.buckets.LoadOrCompute(ttl, func() *sturdyc.Client[[]byte] {
		return sturdyc.New[[]byte](
			s.cfg.Capacity,
			s.cfg.NumShards,
			ttl,
			s.cfg.EvictionPercentage,
			s.cfg.ToSturdycOptions()...,
		)
	})
	return client
}
