// Package cache persists parse results on disk keyed by document
// content, so repeated requests for the same scan skip OCR entirely.
//
// Entries live as <key>.json files in a single directory. An entry
// expires after its TTL and the directory as a whole is capped at
// MaxBytes, with the oldest entries evicted first.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	// DefaultDirName is the cache directory under the user home dir.
	DefaultDirName = ".ledgerocr"

	// DefaultTTL is how long an entry stays valid.
	DefaultTTL = 7 * 24 * time.Hour

	// DefaultMaxBytes caps the total size of the cache directory.
	DefaultMaxBytes = 200 << 20
)

// Config controls cache placement and retention.
type Config struct {
	Dir      string
	TTL      time.Duration
	MaxBytes int64
}

// DefaultConfig returns the retention defaults with Dir unset. A Cache
// built from it stores entries under ~/.ledgerocr/cache.
func DefaultConfig() Config {
	return Config{TTL: DefaultTTL, MaxBytes: DefaultMaxBytes}
}

// Cache is a directory of JSON entries keyed by content hash. Safe for
// concurrent use.
type Cache struct {
	mu       sync.Mutex
	dir      string
	ttl      time.Duration
	maxBytes int64
}

// New creates a cache rooted at dir, creating the directory if needed.
// An empty dir selects the default location under the user home dir.
func New(dir string) (*Cache, error) {
	cfg := DefaultConfig()
	cfg.Dir = dir
	return NewWithConfig(cfg)
}

// NewWithConfig creates a cache with explicit retention settings.
// Zero-valued TTL and MaxBytes fall back to the defaults.
func NewWithConfig(cfg Config) (*Cache, error) {
	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve user home directory: %w", err)
		}
		dir = filepath.Join(home, DefaultDirName, "cache")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	maxBytes := cfg.MaxBytes
	if maxBytes == 0 {
		maxBytes = DefaultMaxBytes
	}

	return &Cache{dir: dir, ttl: ttl, maxBytes: maxBytes}, nil
}

// Key derives the cache key for a document and a variant tag. The
// variant distinguishes results produced with different settings
// (language, page selection) for the same bytes.
func Key(content []byte, variant string) string {
	h := sha256.New()
	h.Write(content)
	h.Write([]byte(variant))
	return hex.EncodeToString(h.Sum(nil))
}

// Dir returns the directory entries are stored in.
func (c *Cache) Dir() string {
	return c.dir
}

// Get loads the entry for key into out. It reports false on a miss;
// expired and unreadable entries count as misses and are removed.
func (c *Cache) Get(key string, out any) (bool, error) {
	path, err := c.entryPath(key)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat cache entry: %w", err)
	}
	if time.Since(info.ModTime()) > c.ttl {
		os.Remove(path)
		return false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read cache entry: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		os.Remove(path)
		return false, nil
	}
	return true, nil
}

// Put stores v under key, then evicts oldest entries if the directory
// exceeds its size cap.
func (c *Cache) Put(key string, v any) error {
	path, err := c.entryPath(key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return c.evict()
}

// Cleanup removes expired entries and reports how many were removed.
func (c *Cache) Cleanup() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.listEntries()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if time.Since(e.modTime) <= c.ttl {
			continue
		}
		if err := os.Remove(e.path); err != nil {
			return removed, fmt.Errorf("remove cache entry: %w", err)
		}
		removed++
	}
	return removed, nil
}

// Stats reports the number of entries and their total size in bytes.
func (c *Cache) Stats() (files int, size int64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.listEntries()
	if err != nil {
		return 0, 0, err
	}
	for _, e := range entries {
		files++
		size += e.size
	}
	return files, size, nil
}

// Purge removes every entry.
func (c *Cache) Purge() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.listEntries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.Remove(e.path); err != nil {
			return fmt.Errorf("remove cache entry: %w", err)
		}
	}
	return nil
}

type entryInfo struct {
	path    string
	size    int64
	modTime time.Time
}

// evict removes oldest entries until the directory fits under the size
// cap. Caller holds the lock.
func (c *Cache) evict() error {
	entries, err := c.listEntries()
	if err != nil {
		return err
	}

	var total int64
	for _, e := range entries {
		total += e.size
	}
	if total <= c.maxBytes {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].modTime.Before(entries[j].modTime)
	})

	for _, e := range entries {
		if total <= c.maxBytes {
			break
		}
		if err := os.Remove(e.path); err != nil {
			return fmt.Errorf("evict cache entry: %w", err)
		}
		total -= e.size
	}
	return nil
}

func (c *Cache) listEntries() ([]entryInfo, error) {
	dirEntries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("read cache directory: %w", err)
	}

	var entries []entryInfo
	for _, de := range dirEntries {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return nil, fmt.Errorf("stat cache entry: %w", err)
		}
		entries = append(entries, entryInfo{
			path:    filepath.Join(c.dir, de.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return entries, nil
}

// entryPath maps a key to its file, rejecting keys that would escape
// the cache directory.
func (c *Cache) entryPath(key string) (string, error) {
	if key == "" || key != filepath.Base(key) {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	return filepath.Join(c.dir, key+".json"), nil
}
