package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"
)

// Entry is one cached analysis: the raw model response together with the
// provider call that produced it. The metadata makes cache inspection
// meaningful (which providers answered, how many tokens a hit saves) and
// survives restarts with the response itself.
type Entry struct {
	Key        string    `json:"key"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Response   string    `json:"response"`
	TokensUsed int       `json:"tokens_used,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	TTLSeconds int       `json:"ttl_seconds"`
}

func (e Entry) expired(now time.Time) bool {
	return e.TTLSeconds > 0 && now.Sub(e.CreatedAt) > time.Duration(e.TTLSeconds)*time.Second
}

// Cache is a file-backed store of model responses keyed by the
// provider/model/prompt triple (see BuildKey).
type Cache struct {
	dir        string
	ttlSeconds int
	enabled    bool
}

// New creates a new Cache. If dir is empty, uses the default cache directory.
func New(enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}
	if dir == "" {
		d, err := defaultCacheDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{
		dir:        dir,
		ttlSeconds: ttlSeconds,
		enabled:    true,
	}, nil
}

// Get retrieves a cached analysis by key. Expired entries are removed on
// read and reported as misses.
func (c *Cache) Get(key string) (Entry, bool) {
	if !c.enabled {
		return Entry{}, false
	}
	path := c.entryPath(key)
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, false
	}
	if entry.expired(time.Now()) {
		os.Remove(path)
		return Entry{}, false
	}
	return entry, true
}

// Put stores an analysis under key, stamping the entry with the hashed key,
// creation time, and the cache's TTL.
func (c *Cache) Put(key string, entry Entry) error {
	if !c.enabled {
		return nil
	}
	entry.Key = HashKey(key)
	entry.CreatedAt = time.Now()
	entry.TTLSeconds = c.ttlSeconds
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	return os.WriteFile(c.entryPath(key), data, 0o644)
}

// Clear removes all cached analyses.
func (c *Cache) Clear() error {
	if !c.enabled || c.dir == "" {
		return nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			os.Remove(filepath.Join(c.dir, e.Name()))
		}
	}
	return nil
}

// Stats describes the cache contents in analysis terms: how many model
// responses are held, per provider, and the token spend a full replay of
// them would have cost.
type Stats struct {
	Dir         string         `json:"dir"`
	Analyses    int            `json:"analyses"`
	Expired     int            `json:"expired"`
	TotalBytes  int64          `json:"total_bytes"`
	TokensSaved int            `json:"tokens_saved"`
	ByProvider  map[string]int `json:"by_provider,omitempty"`
}

// Providers returns the provider names present in the stats, sorted.
func (s Stats) Providers() []string {
	names := make([]string, 0, len(s.ByProvider))
	for name := range s.ByProvider {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetStats walks the cache and aggregates its entries.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	if !c.enabled || c.dir == "" {
		return stats, nil
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading cache directory: %w", err)
	}
	now := time.Now()
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.dir, e.Name()))
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		stats.Analyses++
		stats.TotalBytes += info.Size()
		stats.TokensSaved += entry.TokensUsed
		if entry.Provider != "" {
			if stats.ByProvider == nil {
				stats.ByProvider = make(map[string]int)
			}
			stats.ByProvider[entry.Provider]++
		}
		if entry.expired(now) {
			stats.Expired++
		}
	}
	return stats, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// Enabled returns whether caching is enabled.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// HashKey creates a SHA-256 hash of the given key material.
func HashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", h)
}

// BuildKey creates a cache key from the provider, model, and prompt. Any
// change to the prompt (code, criteria selection, schema) changes the key.
func BuildKey(provider, model, prompt string) string {
	return HashKey(fmt.Sprintf("%s:%s:%s", provider, model, prompt))
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, HashKey(key)+".json")
}

func defaultCacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "critiq"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "critiq"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "critiq", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "critiq", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "critiq"), nil
	}
}
