package catalog

import (
	"context"
	"log/slog"
	"os"
	"time"

	"grazbib/internal/automation"
	"grazbib/internal/config"
	"grazbib/internal/models"
	"grazbib/internal/ratelimit"
	"grazbib/internal/validate"
)

// resultWaitTimeout bounds how long the browser waits for the result
// list to render before giving up on the page.
const resultWaitTimeout = 15 * time.Second

// BrowserSearcher performs searches through a real browser for pages
// that assemble their result list client-side. The rendered HTML
// feeds the same extraction heuristics as the plain HTTP path.
type BrowserSearcher struct {
	session  *automation.BrowserSession
	parser   *Parser
	limiter  *ratelimit.Limiter
	baseURL  string
	headless bool
}

// NewBrowserSearcher builds a browser-backed searcher. The browser
// itself launches lazily on the first search.
func NewBrowserSearcher(cfg config.Config, headless bool) *BrowserSearcher {
	return &BrowserSearcher{
		parser:   NewParser(cfg.BaseURL),
		limiter:  ratelimit.NewInterval("webopac-browser", cfg.RateLimitDelay),
		baseURL:  cfg.BaseURL,
		headless: headless,
	}
}

// Search runs one catalog query through the browser. Like the HTTP
// path, failures yield nil plus a logged reason, never an error.
func (b *BrowserSearcher) Search(ctx context.Context, query string, searchType models.SearchType) *models.SearchResult {
	ok, reason := validate.Query(query)
	if !ok {
		slog.Error("Invalid search query", "query", query, "reason", reason)
		return nil
	}

	if err := b.limiter.Wait(ctx); err != nil {
		slog.Error("Rate limit wait aborted", "error", err)
		return nil
	}

	if b.session == nil {
		session, err := automation.NewBrowser(automation.Options{Headless: b.headless})
		if err != nil {
			slog.Error("Failed to launch browser", "error", err)
			return nil
		}
		b.session = session
	}

	slog.Info("Browser search", "query", query, "type", searchType)
	start := time.Now()

	searchURL := buildSearchURL(b.baseURL, query, searchType)
	page, err := automation.NavigatePage(b.session.Browser, searchURL)
	if err != nil {
		slog.Error("Browser navigation failed", "url", searchURL, "error", err)
		return nil
	}
	defer func() { _ = page.Close() }()

	// The result containers match the parser's own selector chain.
	_, _, err = automation.WaitForSelector(ctx, page,
		[]string{"div.result-item", "div.hit", "div.result"},
		"search results", resultWaitTimeout)
	if err != nil {
		slog.Warn("No result containers rendered", "query", query, "error", err)
		automation.SaveScreenshot(page, os.TempDir())
		return models.NewSearchResult(query, searchType, nil)
	}

	html, err := automation.PageHTML(page)
	if err != nil {
		slog.Error("Could not read rendered page", "error", err)
		return nil
	}

	result := models.NewSearchResult(query, searchType, b.parser.ParseSearchResults(html))
	result.SearchTimeMs = float64(time.Since(start)) / float64(time.Millisecond)

	slog.Info("Browser search finished",
		"query", query,
		"results", result.TotalResults,
		"elapsed_ms", result.SearchTimeMs)
	return result
}

// Close shuts the browser down. Safe to call before the first search.
func (b *BrowserSearcher) Close() {
	if b.session != nil {
		b.session.Close()
		b.session = nil
	}
}
