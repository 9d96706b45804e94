package cache

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/goliatone/go-catalog-cache/internal/cacheinfra"
)

// Store backends understood by NewStore.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// DefaultTTL is the expiry applied to every catalog entry unless configured otherwise.
const DefaultTTL = 5 * time.Minute

// Config exposes cache configuration options for consumers of the cache package.
type Config struct {
	Backend string
	TTL     time.Duration
	// Codec is FormatJSON or FormatMsgpack. Empty selects JSON.
	Codec   string
	Redis   RedisConfig
	Memory  MemoryConfig
}

// RedisConfig mirrors the redis connection settings of the internal store.
type RedisConfig struct {
	Host      string
	Port      int
	DB        int
	Password  string
	KeyPrefix string

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MemoryConfig mirrors the underlying sturdyc sizing options.
type MemoryConfig struct {
	Capacity           int
	NumShards          int
	EvictionPercentage int
	EvictionInterval   time.Duration
}

// StoreCloser is a Store holding resources that must be released.
type StoreCloser interface {
	Store
	Close() error
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Backend: BackendRedis,
		TTL:     DefaultTTL,
		Codec:   FormatJSON,
		Redis:   redisFromInternal(cacheinfra.DefaultRedisConfig()),
		Memory:  memoryFromInternal(cacheinfra.DefaultMemoryConfig()),
	}
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	if c.TTL <= 0 {
		return &cacheinfra.ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.Codec != "" && c.Codec != FormatJSON && c.Codec != FormatMsgpack {
		return &cacheinfra.ConfigError{Field: "Codec", Message: "must be json or msgpack"}
	}

	switch c.Backend {
	case BackendRedis:
		return c.Redis.toInternal().Validate()
	case BackendMemory:
		return c.Memory.toInternal().Validate()
	default:
		return &cacheinfra.ConfigError{Field: "Backend", Message: "must be redis or memory"}
	}
}

// NewStore constructs the store selected by cfg.Backend. Redis stores are
// pinged before being returned.
func NewStore(ctx context.Context, cfg Config) (StoreCloser, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Backend {
	case BackendMemory:
		store, err := cacheinfra.NewMemoryStore(cfg.Memory.toInternal())
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendRedis:
		store, err := cacheinfra.DialRedis(ctx, cfg.Redis.toInternal())
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return nil, errors.Newf("cache: unknown backend %q", cfg.Backend)
}

func (c RedisConfig) toInternal() cacheinfra.RedisConfig {
	return cacheinfra.RedisConfig{
		Host:         c.Host,
		Port:         c.Port,
		DB:           c.DB,
		Password:     c.Password,
		KeyPrefix:    c.KeyPrefix,
		DialTimeout:  c.DialTimeout,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
	}
}

func (c MemoryConfig) toInternal() cacheinfra.MemoryConfig {
	return cacheinfra.MemoryConfig{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func redisFromInternal(cfg cacheinfra.RedisConfig) RedisConfig {
	return RedisConfig{
		Host:         cfg.Host,
		Port:         cfg.Port,
		DB:           cfg.DB,
		Password:     cfg.Password,
		KeyPrefix:    cfg.KeyPrefix,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

func memoryFromInternal(cfg cacheinfra.MemoryConfig) MemoryConfig {
	return MemoryConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}
