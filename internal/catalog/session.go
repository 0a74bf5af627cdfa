package catalog

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"grazbib/internal/config"
	liberrors "grazbib/internal/errors"
	"grazbib/internal/models"
	"grazbib/internal/ratelimit"
)

// searchEndpoint is the simple-search path under the catalog origin.
const searchEndpoint = "/Mediensuche/Einfache-Suche"

// retryStatuses are the only HTTP statuses worth another attempt.
var retryStatuses = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// Session owns the HTTP client for the catalog: retry policy, rate
// limiting and request identity. One Session serves one scraper
// instance; the rate limit is per instance, not global.
type Session struct {
	client  *resty.Client
	limiter *ratelimit.Limiter
	baseURL string
}

// NewSession builds a session from the fixed configuration.
func NewSession(cfg config.Config) *Session {
	client := resty.New()
	client.SetTimeout(cfg.RequestTimeout)
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetHeader("Accept-Language", "de-AT,de;q=0.9")

	// RetryAttempts counts total tries; resty counts retries on top
	// of the first attempt.
	if cfg.RetryAttempts > 1 {
		client.SetRetryCount(cfg.RetryAttempts - 1)
		client.SetRetryWaitTime(time.Second)
		client.SetRetryMaxWaitTime(8 * time.Second)
		client.AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return retryStatuses[r.StatusCode()]
		})
	}

	return &Session{
		client:  client,
		limiter: ratelimit.NewInterval("webopac", cfg.RateLimitDelay),
		baseURL: cfg.BaseURL,
	}
}

// SearchURL builds the search request URL for a query. The query
// parameter name depends on the search type.
func (s *Session) SearchURL(query string, searchType models.SearchType) string {
	return buildSearchURL(s.baseURL, query, searchType)
}

func buildSearchURL(baseURL, query string, searchType models.SearchType) string {
	var param string
	switch searchType {
	case models.SearchTitle:
		param = "title"
	case models.SearchAuthor:
		param = "author"
	case models.SearchISBN:
		param = "isbn"
	default: // keyword
		param = "search"
	}
	return fmt.Sprintf("%s%s?%s=%s", baseURL, searchEndpoint, param, url.QueryEscape(query))
}

// Get performs one rate-limited GET and returns the response body.
// The retry policy runs inside the client; anything still failing
// afterwards surfaces as a NetworkError.
func (s *Session) Get(ctx context.Context, requestURL string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := s.client.R().SetContext(ctx).Get(requestURL)
	if err != nil {
		return "", liberrors.NewNetworkError(fmt.Sprintf("request failed: %v", err))
	}
	if resp.IsError() {
		return "", liberrors.NewHTTPError(resp.StatusCode(), "catalog request failed")
	}

	return resp.String(), nil
}

// BaseURL returns the catalog origin the session targets.
func (s *Session) BaseURL() string {
	return s.baseURL
}
