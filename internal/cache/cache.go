// Package cache stores search results as one JSON file per key with
// a time-to-live derived from the file's modification time.
//
// The store assumes a single reader/writer. Concurrent processes
// sharing the same cache directory may race; this is a documented
// limitation, not a guarantee.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"grazbib/internal/models"
)

const fileExt = ".cache"

// Key derives the cache key for a query: the search type plus the
// lower-cased query with spaces replaced by underscores.
func Key(searchType models.SearchType, query string) string {
	normalized := strings.ReplaceAll(strings.ToLower(query), " ", "_")
	return fmt.Sprintf("%s_%s", searchType, normalized)
}

// entry is the persisted projection of a SearchResult.
type entry struct {
	Query        string            `json:"query"`
	SearchType   models.SearchType `json:"search_type"`
	TotalResults int               `json:"total_results"`
	Books        []models.Book     `json:"books"`
}

// Store is a file-based cache of search results.
type Store struct {
	dir string
	ttl time.Duration
}

// NewStore creates a store rooted at dir. The directory is created
// lazily on the first save.
func NewStore(dir string, ttl time.Duration) *Store {
	return &Store{dir: dir, ttl: ttl}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// Load returns the cached result for key, or nil if the entry does
// not exist, has expired, or cannot be decoded. Read failures are a
// miss, never an error to the caller.
func (s *Store) Load(key string) *models.SearchResult {
	path := s.path(key)

	info, err := os.Stat(path)
	if err != nil {
		return nil
	}

	age := time.Since(info.ModTime())
	if age > s.ttl {
		slog.Debug("Cache expired", "key", key, "age", age)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("Error loading from cache", "key", key, "error", err)
		return nil
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		slog.Warn("Corrupt cache entry, treating as miss", "key", key, "error", err)
		return nil
	}

	result := models.NewSearchResult(e.Query, e.SearchType, e.Books)
	slog.Info("Loaded results from cache", "query", e.Query, "count", len(e.Books))
	return result
}

// Save writes the result unconditionally. It is best-effort: a write
// failure is logged and otherwise ignored.
func (s *Store) Save(key string, result *models.SearchResult) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		slog.Warn("Error creating cache directory", "dir", s.dir, "error", err)
		return
	}

	e := entry{
		Query:        result.Query,
		SearchType:   result.SearchType,
		TotalResults: result.TotalResults,
		Books:        result.Books,
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		slog.Warn("Error serializing cache entry", "key", key, "error", err)
		return
	}

	if err := os.WriteFile(s.path(key), data, 0644); err != nil {
		slog.Warn("Error saving to cache", "key", key, "error", err)
		return
	}
	slog.Debug("Cached search results", "query", result.Query, "key", key)
}

// Clear removes the entry for key. Removing a missing entry is not an
// error.
func (s *Store) Clear(key string) {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		slog.Warn("Error clearing cache entry", "key", key, "error", err)
	}
}

// ClearAll removes every cache file in the store's directory.
func (s *Store) ClearAll() {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+fileExt))
	if err != nil {
		slog.Warn("Error listing cache directory", "dir", s.dir, "error", err)
		return
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil {
			slog.Warn("Error removing cache file", "path", path, "error", err)
		}
	}
	slog.Info("Cleared cache", "entries", len(matches))
}
