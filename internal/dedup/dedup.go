// Package dedup remembers which listings were already processed across runs.
package dedup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kataras/golog"
)

// DefaultExpiry is how long a processed listing stays seen.
const DefaultExpiry = 30 * 24 * time.Hour

const fileName = "seen_listings.json"

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// ListingCache is a file-backed set of listing URLs with per-entry expiry.
type ListingCache struct {
	mu       sync.Mutex
	filePath string
	expiry   time.Duration
	seen     map[string]int64
	now      func() time.Time
	log      *golog.Logger
}

// NewListingCache creates cacheDir if needed and loads unexpired entries.
func NewListingCache(cacheDir string, expiry time.Duration, logger *golog.Logger) (*ListingCache, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	if logger == nil {
		logger = golog.Default
	}
	cache := &ListingCache{
		filePath: filepath.Join(cacheDir, fileName),
		expiry:   expiry,
		seen:     make(map[string]int64),
		now:      time.Now,
		log:      logger,
	}
	if err := cache.load(); err != nil {
		return nil, err
	}
	return cache, nil
}

// IsSeen checks if a URL has already been processed
func (c *ListingCache) IsSeen(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.seen[url]
	return exists
}

// Add marks urls as seen and persists the cache when anything changed.
func (c *ListingCache) Add(urls ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixMilli()
	changed := false
	for _, url := range urls {
		if url == "" {
			continue
		}
		if _, exists := c.seen[url]; !exists {
			c.seen[url] = now
			changed = true
		}
	}

	if !changed {
		return nil
	}
	return c.save()
}

func (c *ListingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func (c *ListingCache) load() error {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", fileName, err)
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		// a corrupt cache only costs re-processing
		c.log.Warnf("⚠️ Failed to parse %s: %v", fileName, err)
		return nil
	}

	cutoff := c.now().Add(-c.expiry).UnixMilli()
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	c.log.Infof("📋 Loaded %d previously seen listings (%d expired and removed)", loaded, len(entries)-loaded)
	return nil
}

func (c *ListingCache) save() error {
	entries := make([]seenEntry, 0, len(c.seen))
	for url, ts := range c.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen listings: %w", err)
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", fileName, err)
	}
	c.log.Debugf("💾 Saved %d seen listings to cache", len(entries))
	return nil
}
