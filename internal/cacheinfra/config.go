package cacheinfra

import (
	"net"
	"strconv"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryConfig holds the configuration for the sturdyc backed store.
type MemoryConfig struct {
	// Capacity defines the maximum number of entries each TTL bucket can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0. Default: 256
	NumShards int

	// EvictionPercentage specifies what percentage of entries to evict
	// when a bucket reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often expired entries are swept.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultMemoryConfig returns a MemoryConfig with sensible defaults for most use cases.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Capacity:           10000,
		NumShards:          256,
		EvictionPercentage: 10,
	}
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards and EvictionPercentage are constructor arguments and are
// not included.
func (c MemoryConfig) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// Validate checks if the configuration values are valid.
func (c MemoryConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}

	return nil
}

// RedisConfig holds the connection settings for the redis store.
type RedisConfig struct {
	Host     string
	Port     int
	DB       int
	Password string
	// KeyPrefix is prepended as "{prefix}:" to every key. Empty by default so
	// keys match the plain catalog key scheme.
	KeyPrefix string
	// Zero timeouts fall back to the go-redis defaults.
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedisConfig points at a local redis.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Host:         "127.0.0.1",
		Port:         6379,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks if the configuration values are valid.
func (c RedisConfig) Validate() error {
	if c.Host == "" {
		return &ConfigError{Field: "Host", Message: "must not be empty"}
	}
	if c.Port <= 0 || c.Port > 65535 {
		return &ConfigError{Field: "Port", Message: "must be between 1 and 65535"}
	}
	if c.DB < 0 {
		return &ConfigError{Field: "DB", Message: "must be non-negative"}
	}
	if c.DialTimeout < 0 {
		return &ConfigError{Field: "DialTimeout", Message: "must be non-negative"}
	}
	if c.ReadTimeout < 0 {
		return &ConfigError{Field: "ReadTimeout", Message: "must be non-negative"}
	}
	if c.WriteTimeout < 0 {
		return &ConfigError{Field: "WriteTimeout", Message: "must be non-negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
