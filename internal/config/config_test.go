package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Backend = %s, want file", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL.Std() != 24*time.Hour {
		t.Errorf("TTL = %s, want 24h", cfg.Cache.TTL.Std())
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %s", cfg.Server.Listen)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("explicit missing file should fail")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[cache]
backend = "redis"
ttl = "1h"

[redis]
addr = "localhost:6379"
db = 2

[suggest]
base_url = "https://suggest.example.edu"
token = "secret"

[server]
listen = ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.TTL.Std() != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.DB != 2 {
		t.Errorf("redis = %+v", cfg.Redis)
	}
	if cfg.Suggest.BaseURL != "https://suggest.example.edu" {
		t.Errorf("suggest = %+v", cfg.Suggest)
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("listen = %s", cfg.Server.Listen)
	}
	// Unset sections keep their defaults.
	if cfg.Mongo.Database != "curmap" {
		t.Errorf("mongo database = %s, want default", cfg.Mongo.Database)
	}
}

func TestLoadRejectsBadBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"memcached\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("unknown backend should fail validation")
	}
}

func TestLoadRejectsRedisWithoutAddr(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"redis\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("redis backend without addr should fail validation")
	}
}
