// Package cache remembers recently sent usage events as files that expire
// after a TTL.
package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

const entrySuffix = ".json"

// DefaultTTL applies when a zero TTL is given
const DefaultTTL = 24 * time.Hour

// Cache is a directory of entries, one file per key. An entry is fresh while
// its modification time is within TTL.
type Cache struct {
	Dir string
	TTL time.Duration
}

// New opens the cache for appName under the user cache directory
// ($HOME/.cache/<appName>).
func New(appName string, ttl time.Duration) (*Cache, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve home directory")
	}
	return NewAt(filepath.Join(home, ".cache", appName), ttl)
}

// NewAt opens a cache rooted at dir, creating it if needed
func NewAt(dir string, ttl time.Duration) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to create cache directory"), "path", dir)
	}
	return &Cache{Dir: dir, TTL: ttl}, nil
}

// Key hashes a payload into a key
func Key(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// Path is the file backing key
func (c *Cache) Path(key string) string {
	return filepath.Join(c.Dir, strconv.FormatUint(xxhash.Sum64String(key), 16)+entrySuffix)
}

// Get returns the entry for key. Missing, unreadable and stale entries all
// report false.
func (c *Cache) Get(key string) ([]byte, bool) {
	path := c.Path(key)
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) > c.TTL {
		return nil, false
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from a hash
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set writes the entry for key. The write goes through a temp file and a
// rename so a concurrent Get never sees a partial entry.
func (c *Cache) Set(key string, data []byte) error {
	path := c.Path(key)
	tmp, err := os.CreateTemp(c.Dir, ".entry-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create cache entry"), "path", c.Dir)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.With(zerr.Wrap(err, "failed to write cache entry"), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.With(zerr.Wrap(err, "failed to store cache entry"), "path", path)
	}
	return nil
}

// Len counts the entries on disk, stale ones included
func (c *Cache) Len() (int, error) {
	names, err := c.entries()
	return len(names), err
}

// Clear removes every entry. A cache directory that no longer exists is
// already clear.
func (c *Cache) Clear() error {
	names, err := c.entries()
	if err != nil {
		return err
	}
	for _, name := range names {
		path := filepath.Join(c.Dir, name)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.Wrap(err, "failed to remove cache entry"), "path", path)
		}
	}
	return nil
}

func (c *Cache) entries() ([]string, error) {
	dirEntries, err := os.ReadDir(c.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to list cache"), "path", c.Dir)
	}
	var names []string
	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), entrySuffix) {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
