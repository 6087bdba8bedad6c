package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache is the default CLI backend. Entries land under one
// subdirectory per artifact kind (datasets, renders, suggestions), so
// `curmap cache clear` and manual inspection can tell them apart.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-based cache rooted at dir, creating it if
// needed.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// cacheEntry wraps cached bytes with their expiration. A zero ExpiresAt
// means the entry never expires.
type cacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Get retrieves a value. Corrupt and expired entries are removed on read
// and reported as a miss.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.Data, true, nil
}

// Set stores a value under its kind directory.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := cacheEntry{Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	entryData, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, entryData, 0644)
}

// Delete removes a value. A missing entry is not an error.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for the file backend.
func (c *FileCache) Close() error {
	return nil
}

// path maps a key to <dir>/<kind>/<sha256(key)>.json. Hashing the full key
// keeps filenames filesystem-safe regardless of what went into the key.
func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, kindDir(key), Hash([]byte(key))+".json")
}

// kindDir extracts the artifact kind from a "scope:kind:hash" key. Keys
// produced by a Keyer always carry the kind as the second-to-last segment;
// anything else, including segments unsafe as directory names, falls back
// to "misc".
func kindDir(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "misc"
	}
	kind := parts[len(parts)-2]
	if kind == "" {
		return "misc"
	}
	for _, r := range kind {
		ok := r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_'
		if !ok {
			return "misc"
		}
	}
	return kind
}

var _ Cache = (*FileCache)(nil)
