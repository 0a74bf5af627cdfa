// Package catalog implements the WebOPAC search pipeline: a
// rate-limited HTTP session, the HTML extraction heuristics, and the
// orchestrating scraper that ties them to the result cache.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"grazbib/internal/cache"
	"grazbib/internal/config"
	"grazbib/internal/models"
	"grazbib/internal/validate"
)

// Scraper drives one search end to end: validate, consult the cache,
// fetch, parse, cache. Failures never propagate to the caller; a
// failed search is a nil result plus a logged reason.
type Scraper struct {
	session *Session
	parser  *Parser
	cache   *cache.Store
}

// NewScraper wires a scraper from an immutable configuration value.
func NewScraper(cfg config.Config) *Scraper {
	return &Scraper{
		session: NewSession(cfg),
		parser:  NewParser(cfg.BaseURL),
		cache:   cache.NewStore(cfg.CacheDir, cfg.CacheTTL),
	}
}

// Search queries the catalog. It returns nil when the query is
// invalid or the request fails; an empty result list is a valid
// outcome, not a failure.
func (s *Scraper) Search(ctx context.Context, query string, searchType models.SearchType, useCache bool) *models.SearchResult {
	ok, reason := validate.Query(query)
	if !ok {
		slog.Error("Invalid search query", "query", query, "reason", reason)
		return nil
	}

	key := cache.Key(searchType, query)
	if useCache {
		if cached := s.cache.Load(key); cached != nil {
			return cached
		}
	}

	slog.Info("Searching catalog", "query", query, "type", searchType)
	start := time.Now()

	body, err := s.session.Get(ctx, s.session.SearchURL(query, searchType))
	if err != nil {
		slog.Error("Catalog request failed", "query", query, "error", err)
		return nil
	}

	books := s.parser.ParseSearchResults(body)
	result := models.NewSearchResult(query, searchType, books)
	result.SearchTimeMs = float64(time.Since(start)) / float64(time.Millisecond)

	slog.Info("Search finished",
		"query", query,
		"results", result.TotalResults,
		"elapsed_ms", result.SearchTimeMs)

	s.cache.Save(key, result)
	return result
}

// SearchByAuthor is shorthand for an author-typed search.
func (s *Scraper) SearchByAuthor(ctx context.Context, author string, useCache bool) *models.SearchResult {
	return s.Search(ctx, author, models.SearchAuthor, useCache)
}

// SearchByTitle is shorthand for a title-typed search.
func (s *Scraper) SearchByTitle(ctx context.Context, title string, useCache bool) *models.SearchResult {
	return s.Search(ctx, title, models.SearchTitle, useCache)
}

// SearchByISBN is shorthand for an ISBN-typed search.
func (s *Scraper) SearchByISBN(ctx context.Context, isbn string, useCache bool) *models.SearchResult {
	return s.Search(ctx, isbn, models.SearchISBN, useCache)
}

// Detail fetches and parses a book detail page. A failed fetch is a
// nil result.
func (s *Scraper) Detail(ctx context.Context, detailURL string) *models.Detail {
	body, err := s.session.Get(ctx, detailURL)
	if err != nil {
		slog.Error("Detail request failed", "url", detailURL, "error", err)
		return nil
	}
	return s.parser.ParseBookDetail(body)
}

// ClearCache removes the cached result for one query.
func (s *Scraper) ClearCache(searchType models.SearchType, query string) {
	s.cache.Clear(cache.Key(searchType, query))
}

// ClearAllCache removes every cached search result.
func (s *Scraper) ClearAllCache() {
	s.cache.ClearAll()
}
