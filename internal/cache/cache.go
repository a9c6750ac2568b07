// Package cache persists provider results on disk for a limited time.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/anisan-cli/katalog/filesystem"
	"github.com/anisan-cli/katalog/key"
	"github.com/anisan-cli/katalog/log"
	"github.com/anisan-cli/katalog/util"
	"github.com/anisan-cli/katalog/where"
	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

type cacheData[T any] struct {
	Entries map[string]T `json:"entries"`
}

// Cacher is a string keyed cache backed by a single JSON file.
// The whole file expires at once after its lifetime.
type Cacher[T any] struct {
	internal *gache.Cache[*cacheData[T]]
	mu       sync.RWMutex
}

// New returns a cacher stored in where.SearchCache() under the given name.
// A zero lifetime falls back to cache.ttl.
func New[T any](name string, lifetime time.Duration) *Cacher[T] {
	if lifetime <= 0 {
		lifetime = TTL()
	}

	return &Cacher[T]{
		internal: gache.New[*cacheData[T]](&gache.Options{
			Path:       filepath.Join(where.SearchCache(), util.SanitizeFilename(name)+".json"),
			Lifetime:   lifetime,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// TTL returns the configured cache lifetime.
func TTL() time.Duration {
	ttl, err := time.ParseDuration(viper.GetString(key.CacheTTL))
	if err != nil || ttl <= 0 {
		return 24 * time.Hour
	}
	return ttl
}

// Get returns the value stored under k.
func (c *Cacher[T]) Get(k string) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	if value, ok := data.Entries[k]; ok {
		return mo.Some(value)
	}
	return mo.None[T]()
}

// Set stores value under k, starting a fresh file when the old one expired.
func (c *Cacher[T]) Set(k string, value T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil {
		data = &cacheData[T]{Entries: make(map[string]T)}
	}

	data.Entries[k] = value
	return c.internal.Set(data)
}

// Delete forgets the value stored under k.
func (c *Cacher[T]) Delete(k string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil {
		return nil
	}

	delete(data.Entries, k)
	return c.internal.Set(data)
}

// Key derives a stable identifier from its parts, ignoring case and spaces.
func Key(parts ...string) string {
	normalized := strings.ToLower(strings.ReplaceAll(strings.Join(parts, "\x00"), " ", ""))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

// CollectGarbage removes cache files untouched for longer than the configured lifetime.
func CollectGarbage() {
	ttl := TTL()
	fs := filesystem.API()

	err := afero.Walk(fs, where.SearchCache(), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}

		if time.Since(info.ModTime()) > ttl {
			log.Debugf("removing expired cache file %s", path)
			return fs.Remove(path)
		}
		return nil
	})

	if err != nil {
		log.Warnf("cache garbage collection: %s", err)
	}
}
