// Package rescache caches serialized schedule responses keyed by a hash of
// the request that produced them. The cache lives in memory (otter) with an
// optional gob snapshot on disk so a restarted server keeps its warm set.
package rescache

import (
	"context"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/maypok86/otter/v2"
)

// Entry is one cached response body.
type Entry struct {
	ExpiresAt time.Time `json:"expires_at"`
	Body      []byte    `json:"body"`
}

// Cache is a response cache for schedule requests.
type Cache struct {
	cache      otter.Cache[string, Entry]
	logger     *slog.Logger
	saveCancel context.CancelFunc
	dir        string
	saveWg     sync.WaitGroup
	ttl        time.Duration
	mu         sync.Mutex
}

// New creates a Cache with the given TTL. When dir is non-empty the cache is
// loaded from and periodically snapshotted to dir/slotsmith-cache.gob.
func New(ctx context.Context, dir string, ttl time.Duration, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cache := otter.Must(&otter.Options[string, Entry]{
		MaximumSize:      10_000,
		InitialCapacity:  1_000,
		ExpiryCalculator: otter.ExpiryWriting[string, Entry](ttl),
	})

	c := &Cache{
		cache:  *cache,
		dir:    dir,
		ttl:    ttl,
		logger: logger,
	}

	if dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
		if err := c.loadFromDisk(); err != nil {
			logger.Warn("failed to load response cache from disk", "error", err)
		}
		c.startPeriodicSave(ctx)
	}
	logger.Info("response cache initialized", "dir", dir, "ttl", ttl, "entries", c.cache.EstimatedSize())
	return c, nil
}

// Key derives the cache key for a request by hashing its canonical JSON
// encoding. Identical requests always map to the same key.
func Key(request any) (string, error) {
	data, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("encoding request for cache key: %w", err)
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}

// Get returns the cached response body for a key, if present and fresh.
func (c *Cache) Get(key string) ([]byte, bool) {
	entry, found := c.cache.GetIfPresent(key)
	if !found {
		c.logger.Debug("response cache miss", "key", key)
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		c.cache.Invalidate(key)
		c.logger.Debug("response cache miss", "key", key, "reason", "expired")
		return nil, false
	}
	return entry.Body, true
}

// Set stores a response body under a key.
func (c *Cache) Set(key string, body []byte) {
	c.cache.Set(key, Entry{
		Body:      body,
		ExpiresAt: time.Now().Add(c.ttl),
	})
	c.logger.Debug("response cache set", "key", key, "size", len(body))
}

// Stats reports basic cache metrics.
func (c *Cache) Stats() map[string]any {
	return map[string]any{
		"size": c.cache.EstimatedSize(),
		"ttl":  c.ttl.String(),
	}
}

func (c *Cache) snapshotPath() string {
	return filepath.Join(c.dir, "slotsmith-cache.gob")
}

func (c *Cache) loadFromDisk() error {
	file, err := os.Open(c.snapshotPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening cache snapshot: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			c.logger.Debug("failed to close cache snapshot", "error", closeErr)
		}
	}()

	var entries map[string]Entry
	if err := gob.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("decoding cache snapshot: %w", err)
	}

	now := time.Now()
	valid := 0
	for key, entry := range entries {
		if now.Before(entry.ExpiresAt) {
			c.cache.Set(key, entry)
			valid++
		}
	}
	c.logger.Info("loaded response cache snapshot",
		"total", len(entries), "valid", valid, "expired", len(entries)-valid)
	return nil
}

func (c *Cache) saveToDisk() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	path := c.snapshotPath()
	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	defer func() {
		if removeErr := os.Remove(tempPath); removeErr != nil && !os.IsNotExist(removeErr) {
			c.logger.Debug("failed to remove temp snapshot", "error", removeErr)
		}
	}()

	entries := make(map[string]Entry)
	now := time.Now()
	c.cache.All()(func(key string, entry Entry) bool {
		if now.Before(entry.ExpiresAt) {
			entries[key] = entry
		}
		return true
	})

	if err := gob.NewEncoder(file).Encode(entries); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("syncing snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	c.logger.Info("response cache snapshot saved", "entries", len(entries), "path", path)
	return nil
}

func (c *Cache) startPeriodicSave(ctx context.Context) {
	saveCtx, cancel := context.WithCancel(ctx)
	c.saveCancel = cancel

	c.saveWg.Add(1)
	go func() {
		defer c.saveWg.Done()

		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-saveCtx.Done():
				return
			case <-ticker.C:
				if err := c.saveToDisk(); err != nil {
					c.logger.Error("periodic cache snapshot failed", "error", err)
				}
			}
		}
	}()
}

// Close stops the snapshot goroutine and writes a final snapshot when a
// cache directory is configured.
func (c *Cache) Close() error {
	if c.saveCancel != nil {
		c.saveCancel()
	}
	c.saveWg.Wait()
	if c.dir == "" {
		return nil
	}
	if err := c.saveToDisk(); err != nil {
		c.logger.Error("final cache snapshot failed", "error", err)
		return err
	}
	return nil
}
