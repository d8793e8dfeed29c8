package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TTL is how long a cached message stays valid.
const TTL = 24 * time.Hour

// Entry is one cached generation result, stored as a JSON file named by
// the request fingerprint.
type Entry struct {
	Message   string    `json:"message"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats summarizes the on-disk cache state.
type Stats struct {
	Dir        string
	Entries    int
	Expired    int
	TotalBytes int64
}

// Cache is a content-addressed store of generated commit messages.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// New opens a cache rooted at dir, creating the directory if needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	return &Cache{dir: dir, ttl: TTL, now: time.Now}, nil
}

// Get returns the cached message for key, or ok=false on a miss. Expired,
// missing, or unreadable entries are all misses; a corrupt entry is removed
// on the way out.
func (c *Cache) Get(key string) (string, bool) {
	path := c.entryPath(key)
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		log.Debug().Str("key", key).Err(err).Msg("removing corrupt cache entry")
		os.Remove(path)
		return "", false
	}
	if c.now().Sub(entry.CreatedAt) > c.ttl {
		log.Debug().Str("key", key).Time("created_at", entry.CreatedAt).Msg("cache entry expired")
		os.Remove(path)
		return "", false
	}
	log.Debug().Str("key", key).Msg("cache hit")
	return entry.Message, true
}

// Put stores a message under key. The entry is written to a temp file and
// renamed into place so a crash mid-write never leaves a partial entry.
func (c *Cache) Put(key, message, model string) error {
	raw, err := json.Marshal(Entry{
		Message:   message,
		Model:     model,
		CreatedAt: c.now(),
	})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	tmp := filepath.Join(c.dir, "tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp, c.entryPath(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("committing cache entry: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (c *Cache) Clear() (int, error) {
	return c.sweep(func(Entry) bool { return true })
}

// ClearExpired removes only entries older than the TTL.
func (c *Cache) ClearExpired() (int, error) {
	return c.sweep(func(e Entry) bool {
		return c.now().Sub(e.CreatedAt) > c.ttl
	})
}

// Stats reports entry counts and total size without modifying anything.
func (c *Cache) Stats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return stats, fmt.Errorf("reading cache dir: %w", err)
	}
	for _, de := range entries {
		if !isEntryFile(de.Name()) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		stats.Entries++
		stats.TotalBytes += info.Size()
		var entry Entry
		raw, err := os.ReadFile(filepath.Join(c.dir, de.Name()))
		if err != nil || json.Unmarshal(raw, &entry) != nil {
			stats.Expired++
			continue
		}
		if c.now().Sub(entry.CreatedAt) > c.ttl {
			stats.Expired++
		}
	}
	return stats, nil
}

func (c *Cache) sweep(drop func(Entry) bool) (int, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache dir: %w", err)
	}
	removed := 0
	for _, de := range entries {
		if !isEntryFile(de.Name()) {
			continue
		}
		path := filepath.Join(c.dir, de.Name())
		var entry Entry
		raw, err := os.ReadFile(path)
		if err == nil && json.Unmarshal(raw, &entry) == nil && !drop(entry) {
			continue
		}
		if err := os.Remove(path); err == nil {
			removed++
		}
	}
	log.Debug().Int("removed", removed).Msg("cache sweep complete")
	return removed, nil
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, key+".json")
}

func isEntryFile(name string) bool {
	return strings.HasSuffix(name, ".json") && !strings.HasPrefix(name, "tmp-")
}
