package cacheinfra

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_SetGet(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "")
	ctx := context.Background()

	_, found, err := store.Get(ctx, "movies::guid::42")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "movies::guid::42", []byte(`{"id":"42"}`), 5*time.Minute))

	data, found, err := store.Get(ctx, "movies::guid::42")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":"42"}`, string(data))

	// Stored as a plain string under the unprefixed key.
	raw, err := mr.Get("movies::guid::42")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"42"}`, raw)
	assert.Equal(t, 5*time.Minute, mr.TTL("movies::guid::42"))
}

func TestRedisStore_Expiry(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", []byte("value"), 2*time.Second))
	mr.FastForward(3 * time.Second)

	_, found, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "catalog")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "genre::guid::1", []byte("v"), time.Minute))
	assert.True(t, mr.Exists("catalog:genre::guid::1"))

	_, found, err := store.Get(ctx, "genre::guid::1")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestRedisStore_Delete(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewRedisStore(client, "")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", []byte("value"), time.Minute))
	require.NoError(t, store.Delete(ctx, "key"))

	_, found, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_RejectsNonPositiveTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "")

	err := store.Set(context.Background(), "key", []byte("value"), 0)
	assert.Error(t, err)
	assert.False(t, mr.Exists("key"))
}

func TestRedisStore_ConnectionFailurePropagates(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "")
	mr.Close()

	_, _, err := store.Get(context.Background(), "key")
	assert.Error(t, err)

	err = store.Set(context.Background(), "key", []byte("value"), time.Minute)
	assert.Error(t, err)
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	store, err := DialRedis(context.Background(), RedisConfig{Host: mr.Host(), Port: port})
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "key", []byte("value"), time.Minute))
	assert.True(t, mr.Exists("key"))
	assert.NoError(t, store.Close())
}

func TestDialRedis_InvalidConfig(t *testing.T) {
	_, err := DialRedis(context.Background(), RedisConfig{})
	assert.Error(t, err)
}

func TestRedisConfig_Options(t *testing.T) {
	cfg := DefaultRedisConfig()
	cfg.DB = 2
	cfg.ReadTimeout = 250 * time.Millisecond

	opts := cfg.options()
	assert.Equal(t, "127.0.0.1:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 5*time.Second, opts.DialTimeout)
	assert.Equal(t, 250*time.Millisecond, opts.ReadTimeout)
	assert.Equal(t, 3*time.Second, opts.WriteTimeout)
}
