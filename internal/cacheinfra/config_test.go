package cacheinfra

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultMemoryConfig(t *testing.T) {
	cfg := DefaultMemoryConfig()

	if cfg.Capacity != 10000 {
		t.Errorf("expected Capacity to be 10000, got %d", cfg.Capacity)
	}

	if cfg.NumShards != 256 {
		t.Errorf("expected NumShards to be 256, got %d", cfg.NumShards)
	}

	if cfg.EvictionPercentage != 10 {
		t.Errorf("expected EvictionPercentage to be 10, got %d", cfg.EvictionPercentage)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

func TestMemoryConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       MemoryConfig
		wantError bool
		errorMsg  string
	}{
		{
			name:      "valid default config",
			cfg:       DefaultMemoryConfig(),
			wantError: false,
		},
		{
			name:      "invalid capacity - zero",
			cfg:       MemoryConfig{Capacity: 0, NumShards: 256, EvictionPercentage: 10},
			wantError: true,
			errorMsg:  "must be greater than 0",
		},
		{
			name:      "invalid num shards - zero",
			cfg:       MemoryConfig{Capacity: 1000, NumShards: 0, EvictionPercentage: 10},
			wantError: true,
			errorMsg:  "must be greater than 0",
		},
		{
			name:      "invalid eviction percentage - too low",
			cfg:       MemoryConfig{Capacity: 1000, NumShards: 256, EvictionPercentage: 0},
			wantError: true,
			errorMsg:  "must be between 1 and 100",
		},
		{
			name:      "invalid eviction percentage - too high",
			cfg:       MemoryConfig{Capacity: 1000, NumShards: 256, EvictionPercentage: 101},
			wantError: true,
			errorMsg:  "must be between 1 and 100",
		},
		{
			name:      "invalid eviction interval",
			cfg:       MemoryConfig{Capacity: 1000, NumShards: 256, EvictionPercentage: 10, EvictionInterval: -time.Second},
			wantError: true,
			errorMsg:  "must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errorMsg)
				}
				if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestMemoryConfig_ToSturdycOptions(t *testing.T) {
	cfg := DefaultMemoryConfig()
	if got := len(cfg.ToSturdycOptions()); got != 0 {
		t.Errorf("expected no sturdyc options for default config, got %d", got)
	}

	cfg.EvictionInterval = time.Second
	if got := len(cfg.ToSturdycOptions()); got != 1 {
		t.Errorf("expected 1 sturdyc option with eviction interval, got %d", got)
	}
}

func TestRedisConfig_Validate(t *testing.T) {
	tests := []struct {
		name     string
		cfg      RedisConfig
		errorMsg string
	}{
		{name: "default", cfg: DefaultRedisConfig()},
		{name: "empty host", cfg: RedisConfig{Port: 6379}, errorMsg: "must not be empty"},
		{name: "port out of range", cfg: RedisConfig{Host: "localhost", Port: 70000}, errorMsg: "must be between 1 and 65535"},
		{name: "negative db", cfg: RedisConfig{Host: "localhost", Port: 6379, DB: -1}, errorMsg: "must be non-negative"},
		{name: "zero timeouts", cfg: RedisConfig{Host: "localhost", Port: 6379}},
		{name: "negative dial timeout", cfg: RedisConfig{Host: "localhost", Port: 6379, DialTimeout: -time.Second}, errorMsg: "DialTimeout"},
		{name: "negative read timeout", cfg: RedisConfig{Host: "localhost", Port: 6379, ReadTimeout: -time.Second}, errorMsg: "ReadTimeout"},
		{name: "negative write timeout", cfg: RedisConfig{Host: "localhost", Port: 6379, WriteTimeout: -time.Second}, errorMsg: "WriteTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errorMsg == "" {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errorMsg) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.errorMsg)
			}
		})
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	if got := cfg.Addr(); got != "cache.internal:6380" {
		t.Errorf("Addr() = %v, want %v", got, "cache.internal:6380")
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{
		Field:   "TestField",
		Message: "test message",
	}

	expected := "config error in field TestField: test message"
	if err.Error() != expected {
		t.Errorf("expected error message %q, got %q", expected, err.Error())
	}
}
