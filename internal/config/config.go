package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/xhit/go-str2duration/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/search"
)

// Environment variables read by Load. They override the YAML file.
const (
	EnvProjectName  = "PROJECT_NAME"
	EnvHTTPAddr     = "HTTP_ADDR"
	EnvLogLevel     = "LOG_LEVEL"
	EnvRedisHost    = "REDIS_HOST"
	EnvRedisPort    = "REDIS_PORT"
	EnvElasticHost  = "ELASTIC_HOST"
	EnvElasticPort  = "ELASTIC_PORT"
	EnvCacheBackend = "CACHE_BACKEND"
	EnvCacheTTL     = "CACHE_TTL"
	EnvCacheCodec   = "CACHE_CODEC"
)

const (
	defaultElasticHost = "127.0.0.1"
	defaultElasticPort = "9200"
)

// LookupFunc resolves an environment variable, os.LookupEnv in production.
type LookupFunc func(key string) (string, bool)

// Duration accepts Go durations plus day and week units ("1d", "2w").
type Duration time.Duration

// Std converts d to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := parseDuration(raw)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return str2duration.String(time.Duration(d)), nil
}

// Config is the application configuration, read from YAML and the environment.
type Config struct {
	ProjectName string        `yaml:"project_name"`
	HTTPAddr    string        `yaml:"http_addr"`
	LogLevel    string        `yaml:"log_level"`
	Cache       CacheConfig   `yaml:"cache"`
	Elastic     ElasticConfig `yaml:"elastic"`
}

// CacheConfig is the cache section; see cache.Config.
type CacheConfig struct {
	Backend string       `yaml:"backend"`
	TTL     Duration     `yaml:"ttl"`
	Codec   string       `yaml:"codec"`
	Redis   RedisConfig  `yaml:"redis"`
	Memory  MemoryConfig `yaml:"memory"`
}

// RedisConfig holds the redis connection and its client timeouts.
type RedisConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	DB           int      `yaml:"db"`
	Password     string   `yaml:"password"`
	KeyPrefix    string   `yaml:"key_prefix"`
	DialTimeout  Duration `yaml:"dial_timeout"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
}

// MemoryConfig sizes the in-process store.
type MemoryConfig struct {
	Capacity           int      `yaml:"capacity"`
	NumShards          int      `yaml:"num_shards"`
	EvictionPercentage int      `yaml:"eviction_percentage"`
	EvictionInterval   Duration `yaml:"eviction_interval"`
}

// ElasticConfig lists the cluster nodes and credentials.
type ElasticConfig struct {
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
}

// Default returns the configuration used when neither a file nor the
// environment sets a value.
func Default() Config {
	c := cache.DefaultConfig()
	return Config{
		ProjectName: "movies",
		HTTPAddr:    ":8000",
		LogLevel:    "info",
		Cache: CacheConfig{
			Backend: c.Backend,
			TTL:     Duration(c.TTL),
			Codec:   c.Codec,
			Redis: RedisConfig{
				Host:         c.Redis.Host,
				Port:         c.Redis.Port,
				DB:           c.Redis.DB,
				Password:     c.Redis.Password,
				KeyPrefix:    c.Redis.KeyPrefix,
				DialTimeout:  Duration(c.Redis.DialTimeout),
				ReadTimeout:  Duration(c.Redis.ReadTimeout),
				WriteTimeout: Duration(c.Redis.WriteTimeout),
			},
			Memory: MemoryConfig{
				Capacity:           c.Memory.Capacity,
				NumShards:          c.Memory.NumShards,
				EvictionPercentage: c.Memory.EvictionPercentage,
				EvictionInterval:   Duration(c.Memory.EvictionInterval),
			},
		},
		Elastic: ElasticConfig{
			Addresses: []string{elasticAddress(defaultElasticHost, defaultElasticPort)},
		},
	}
}

// Load reads the optional YAML file at path, applies the process environment
// and validates the result.
func Load(path string) (Config, error) {
	return LoadWithLookup(path, os.LookupEnv)
}

// LoadWithLookup is Load with an explicit environment.
func LoadWithLookup(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "config: read %s", path)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(err, "config: parse %s", path)
		}
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides the fields that have an environment variable set.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvProjectName); ok {
		c.ProjectName = v
	}
	if v, ok := lookup(EnvHTTPAddr); ok {
		c.HTTPAddr = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup(EnvCacheBackend); ok {
		c.Cache.Backend = v
	}
	if v, ok := lookup(EnvCacheCodec); ok {
		c.Cache.Codec = v
	}
	if v, ok := lookup(EnvCacheTTL); ok {
		ttl, err := parseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "config: %s", EnvCacheTTL)
		}
		c.Cache.TTL = Duration(ttl)
	}
	if v, ok := lookup(EnvRedisHost); ok {
		c.Cache.Redis.Host = v
	}
	if v, ok := lookup(EnvRedisPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(err, "config: %s", EnvRedisPort)
		}
		c.Cache.Redis.Port = port
	}

	host, hostSet := lookup(EnvElasticHost)
	port, portSet := lookup(EnvElasticPort)
	if hostSet || portSet {
		if !hostSet {
			host = defaultElasticHost
		}
		if !portSet {
			port = defaultElasticPort
		}
		c.Elastic.Addresses = []string{elasticAddress(host, port)}
	}
	return nil
}

// Validate checks the whole configuration, including the cache section.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.ProjectName, validation.Required),
		validation.Field(&c.HTTPAddr, validation.Required),
		validation.Field(&c.LogLevel, validation.Required, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Elastic),
	)
	if err != nil {
		return errors.Wrap(err, "config")
	}
	if err := c.CacheConfig().Validate(); err != nil {
		return errors.Wrap(err, "config: cache")
	}
	return nil
}

func (e ElasticConfig) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Addresses, validation.Required, validation.Each(validation.Required)),
	)
}

// CacheConfig converts the cache section for cache.NewStore.
func (c Config) CacheConfig() cache.Config {
	return cache.Config{
		Backend: c.Cache.Backend,
		TTL:     c.Cache.TTL.Std(),
		Codec:   c.Cache.Codec,
		Redis: cache.RedisConfig{
			Host:         c.Cache.Redis.Host,
			Port:         c.Cache.Redis.Port,
			DB:           c.Cache.Redis.DB,
			Password:     c.Cache.Redis.Password,
			KeyPrefix:    c.Cache.Redis.KeyPrefix,
			DialTimeout:  c.Cache.Redis.DialTimeout.Std(),
			ReadTimeout:  c.Cache.Redis.ReadTimeout.Std(),
			WriteTimeout: c.Cache.Redis.WriteTimeout.Std(),
		},
		Memory: cache.MemoryConfig{
			Capacity:           c.Cache.Memory.Capacity,
			NumShards:          c.Cache.Memory.NumShards,
			EvictionPercentage: c.Cache.Memory.EvictionPercentage,
			EvictionInterval:   c.Cache.Memory.EvictionInterval.Std(),
		},
	}
}

// SearchConfig converts the elastic section for search.DialElastic.
func (c Config) SearchConfig() search.ElasticConfig {
	return search.ElasticConfig{
		Addresses: append([]string(nil), c.Elastic.Addresses...),
		Username:  c.Elastic.Username,
		Password:  c.Elastic.Password,
	}
}

func parseDuration(raw string) (time.Duration, error) {
	d, err := str2duration.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid duration %q", raw)
	}
	return d, nil
}

func elasticAddress(host, port string) string {
	if strings.Contains(host, "://") {
		return host
	}
	return "http://" + net.JoinHostPort(host, port)
}
