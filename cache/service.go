package cache

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Store is the key-value cache consumed by the read-through loader.
// Implementations must be safe for concurrent use and must write a value
// atomically: a key either holds the full payload or nothing.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// FetchFn is the function signature Loader expects when fetching from the source of truth.
// Returning found=false reports an absent value; absent values are never cached.
type FetchFn[T any] func(ctx context.Context) (value T, found bool, err error)

// Loader runs the read-through protocol for a single value type: cache read,
// then source fetch on a miss, then write-through. The three steps always run
// in that order and are never overlapped.
type Loader[T any] struct {
	store  Store
	codec  Codec[T]
	ttl    time.Duration
	logger *zap.Logger
}

// NewLoader creates a Loader writing entries with the given TTL.
func NewLoader[T any](store Store, codec Codec[T], ttl time.Duration, logger *zap.Logger) *Loader[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader[T]{
		store:  store,
		codec:  codec,
		ttl:    ttl,
		logger: logger,
	}
}

// TTL returns the expiry applied to every entry written by this loader.
func (l *Loader[T]) TTL() time.Duration {
	return l.ttl
}

// GetOrFetch returns the cached value stored under key. On a miss it calls
// fetchFn; a found value is encoded and stored before being returned.
//
// An entry that fails to decode is treated as a miss and gets overwritten by
// the write-through. Store errors are returned as-is, there is no retry and no
// fallback to the source when the store itself fails.
func (l *Loader[T]) GetOrFetch(ctx context.Context, key string, fetchFn FetchFn[T]) (T, bool, error) {
	var zero T

	data, ok, err := l.store.Get(ctx, key)
	if err != nil {
		return zero, false, err
	}

	if ok {
		value, err := l.codec.Decode(data)
		if err == nil {
			l.logger.Debug("cache hit", zap.String("key", key))
			return value, true, nil
		}
		l.logger.Warn("discarding malformed cache entry", zap.String("key", key), zap.Error(err))
	} else {
		l.logger.Debug("cache miss", zap.String("key", key))
	}

	value, found, err := fetchFn(ctx)
	if err != nil {
		return zero, false, err
	}
	if !found {
		return zero, false, nil
	}

	payload, err := l.codec.Encode(value)
	if err != nil {
		return zero, false, errors.Wrapf(err, "cache: encode value for %s", key)
	}

	if err := l.store.Set(ctx, key, payload, l.ttl); err != nil {
		return zero, false, err
	}
	l.logger.Debug("cache write", zap.String("key", key), zap.Duration("ttl", l.ttl))

	return value, true, nil
}
