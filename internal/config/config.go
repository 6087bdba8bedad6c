// Package config loads the curmap configuration file.
//
// Configuration lives in a TOML file, by default at
// $XDG_CONFIG_HOME/curmap/config.toml. Every field has a working default,
// so a missing file is not an error. CLI flags override file values.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/minhlq/curmap/pkg/errors"
)

// Cache backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Duration wraps time.Duration so TOML values can be written as "24h".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full configuration tree.
type Config struct {
	Cache   CacheConfig   `toml:"cache"`
	Redis   RedisConfig   `toml:"redis"`
	Mongo   MongoConfig   `toml:"mongo"`
	Suggest SuggestConfig `toml:"suggest"`
	Server  ServerConfig  `toml:"server"`
}

// CacheConfig selects and parameterizes the cache backend.
type CacheConfig struct {
	Backend string   `toml:"backend"` // file, redis, or none
	Dir     string   `toml:"dir"`     // file backend only
	TTL     Duration `toml:"ttl"`
}

// RedisConfig parameterizes the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig parameterizes the snapshot store. An empty URI selects the
// in-memory store.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// SuggestConfig parameterizes the remote suggestion service.
type SuggestConfig struct {
	BaseURL  string `toml:"base_url"`
	Token    string `toml:"token"`
	Taxonomy string `toml:"taxonomy"` // Path to a verb,level CSV
}

// ServerConfig parameterizes the HTTP API.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}
	return Config{
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     filepath.Join(cacheDir, "curmap"),
			TTL:     Duration(24 * time.Hour),
		},
		Mongo:  MongoConfig{Database: "curmap"},
		Server: ServerConfig{Listen: ":8080"},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "curmap", "config.toml")
}

// Load reads the config file at path, layered over the defaults. An empty
// path uses DefaultPath; a missing file at either location returns the
// defaults without error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load config %s", path)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid cache backend: %q (must be file, redis, or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == BackendRedis && c.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis backend requires redis.addr")
	}
	return nil
}
