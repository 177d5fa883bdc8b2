package dictionary

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"pronouncer/internal/domain/word"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// CacheFileName is the name of the lookup cache inside the cache directory
const CacheFileName = "lookup_cache.json"

// Cache keeps successful lookups on disk in front of another Lookuper
type Cache struct {
	next      Lookuper
	cacheDir  string
	cacheFile string
	maxAge    time.Duration
	now       func() time.Time
}

// CachedResult is a stored lookup with the time it was fetched
type CachedResult struct {
	Result    word.Result `json:"result"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// CachedLookups is the on-disk layout of the cache file
type CachedLookups struct {
	Entries     map[string]CachedResult `json:"entries"`
	LastUpdated time.Time               `json:"last_updated"`
}

// NewCache wraps next with a file cache in cacheDir. Entries older than maxAge
// are refreshed, but still served when the dictionary cannot be reached.
func NewCache(next Lookuper, cacheDir string, maxAge time.Duration) *Cache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		logrus.WithError(err).Warn("Failed to create cache directory")
	}

	return &Cache{
		next:      next,
		cacheDir:  cacheDir,
		cacheFile: filepath.Join(cacheDir, CacheFileName),
		maxAge:    maxAge,
		now:       time.Now,
	}
}

// Lookup serves fresh entries from disk and delegates everything else
func (c *Cache) Lookup(ctx context.Context, term string) (*word.Result, error) {
	key := strings.ToLower(strings.TrimSpace(term))
	if key == "" {
		return c.next.Lookup(ctx, term)
	}

	data, err := c.load()
	if err != nil {
		logrus.WithError(err).Debug("Ignoring unreadable lookup cache")
		data = newCachedLookups()
	}

	cached, ok := data.Entries[key]
	if ok && c.isFresh(cached) {
		logrus.WithFields(logrus.Fields{
			"word":       key,
			"fetched_at": cached.FetchedAt.Format(time.RFC3339),
		}).Debug("Serving lookup from cache")
		result := cached.Result
		return &result, nil
	}

	result, err := c.next.Lookup(ctx, term)
	if err != nil {
		var notFound *NotFoundError
		if ok && errors.As(err, &notFound) && notFound.Transient() {
			logrus.WithError(err).WithField("word", key).Warn("Dictionary unreachable, using stale cache entry")
			stale := cached.Result
			return &stale, nil
		}
		return nil, err
	}

	data.Entries[key] = CachedResult{
		Result:    *result,
		FetchedAt: c.now(),
	}
	if err := c.save(data); err != nil {
		logrus.WithError(err).Warn("Failed to save lookup cache")
	}

	return result, nil
}

func (c *Cache) isFresh(cached CachedResult) bool {
	return c.now().Sub(cached.FetchedAt) < c.maxAge
}

func newCachedLookups() *CachedLookups {
	return &CachedLookups{Entries: make(map[string]CachedResult)}
}

// load reads the cache file; a missing file is an empty cache
func (c *Cache) load() (*CachedLookups, error) {
	file, err := os.Open(c.cacheFile)
	if err != nil {
		if os.IsNotExist(err) {
			return newCachedLookups(), nil
		}
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	var cached CachedLookups
	if err := json.NewDecoder(file).Decode(&cached); err != nil {
		return nil, fmt.Errorf("failed to decode cache file: %w", err)
	}
	if cached.Entries == nil {
		cached.Entries = make(map[string]CachedResult)
	}

	return &cached, nil
}

func (c *Cache) save(data *CachedLookups) error {
	data.LastUpdated = c.now()

	if err := os.MkdirAll(c.cacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	file, err := os.Create(c.cacheFile)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode cache data: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"entries": len(data.Entries),
		"file":    c.cacheFile,
	}).Debug("Saved lookup cache")

	return nil
}

// Path returns the location of the cache file
func (c *Cache) Path() string {
	return c.cacheFile
}

// Clear removes the cache file
func (c *Cache) Clear() error {
	if err := os.Remove(c.cacheFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	logrus.Info("Cleared lookup cache")
	return nil
}

// Info returns information about the cache
func (c *Cache) Info() (map[string]interface{}, error) {
	info := make(map[string]interface{})

	stat, err := os.Stat(c.cacheFile)
	if err != nil {
		info["exists"] = false
		return info, nil
	}

	data, err := c.load()
	if err != nil {
		return nil, err
	}

	info["exists"] = true
	info["size"] = stat.Size()
	info["last_modified"] = stat.ModTime()
	info["entries"] = len(data.Entries)
	info["max_age_hours"] = c.maxAge.Hours()

	return info, nil
}
