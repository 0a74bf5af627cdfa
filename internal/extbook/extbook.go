// Package extbook verifies catalog records against external book
// databases: Open Library and Google Books, plus a WorldCat search
// link for manual lookup.
package extbook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"grazbib/internal/ratelimit"
)

// Global HTTP client and rate limiters for reuse
var (
	httpClient      *http.Client
	clientOnce      sync.Once
	olRateLimiter   *ratelimit.Limiter
	olLimiterOnce   sync.Once
	gbRateLimiter   *ratelimit.Limiter
	gbLimiterOnce   sync.Once
	httpClientNew   = func() *http.Client {
		return &http.Client{
			Timeout: 10 * time.Second,
		}
	}
)

// Base URLs are variables so tests can point them at a local server.
var (
	openLibraryBaseURL = "https://openlibrary.org"
	googleBooksBaseURL = "https://www.googleapis.com/books/v1"
	worldCatSearchURL  = "https://www.worldcat.org/search"
)

// Source names used in Result.Source.
const (
	SourceOpenLibrary = "Open Library"
	SourceGoogleBooks = "Google Books"
	SourceWorldCat    = "WorldCat"
)

// Result is one external source's view of a book.
type Result struct {
	Source    string `json:"source"`
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	ISBN      string `json:"isbn,omitempty"`
	Published string `json:"published,omitempty"`
	Pages     int    `json:"pages,omitempty"`
	URL       string `json:"url,omitempty"`
}

func getHTTPClient() *http.Client {
	clientOnce.Do(func() {
		httpClient = httpClientNew()
	})
	return httpClient
}

// getOLRateLimiter returns a singleton rate limiter for Open Library (1 req/sec)
func getOLRateLimiter() *ratelimit.Limiter {
	olLimiterOnce.Do(func() {
		olRateLimiter = ratelimit.New("OpenLibrary", 1)
	})
	return olRateLimiter
}

// getGBRateLimiter returns a singleton rate limiter for Google Books (1 req/sec)
func getGBRateLimiter() *ratelimit.Limiter {
	gbLimiterOnce.Do(func() {
		gbRateLimiter = ratelimit.New("GoogleBooks", 1)
	})
	return gbRateLimiter
}

func getJSON(ctx context.Context, requestURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := getHTTPClient().Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, requestURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type openLibraryDoc struct {
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	ISBN                []string `json:"isbn"`
	FirstPublishYear    int      `json:"first_publish_year"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
	Key                 string   `json:"key"`
}

type openLibraryResponse struct {
	Docs []openLibraryDoc `json:"docs"`
}

// SearchOpenLibrary looks a title up in Open Library and returns the
// best match, or nil when nothing was found.
func SearchOpenLibrary(ctx context.Context, title, author string) (*Result, error) {
	if err := getOLRateLimiter().Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	query := title
	if author != "" {
		query = title + " " + author
	}

	params := url.Values{}
	params.Set("title", query)
	params.Set("limit", "5")

	var response openLibraryResponse
	if err := getJSON(ctx, openLibraryBaseURL+"/search.json?"+params.Encode(), &response); err != nil {
		return nil, err
	}
	if len(response.Docs) == 0 {
		return nil, nil
	}

	doc := response.Docs[0]
	result := &Result{
		Source: SourceOpenLibrary,
		Title:  doc.Title,
		Pages:  doc.NumberOfPagesMedian,
		URL:    openLibraryBaseURL + doc.Key,
	}
	if len(doc.AuthorName) > 0 {
		result.Author = doc.AuthorName[0]
	}
	if len(doc.ISBN) > 0 {
		result.ISBN = doc.ISBN[0]
	}
	if doc.FirstPublishYear != 0 {
		result.Published = strconv.Itoa(doc.FirstPublishYear)
	}
	return result, nil
}

type googleVolumeInfo struct {
	Title               string   `json:"title"`
	Authors             []string `json:"authors"`
	PublishedDate       string   `json:"publishedDate"`
	PageCount           int      `json:"pageCount"`
	InfoLink            string   `json:"infoLink"`
	IndustryIdentifiers []struct {
		Type       string `json:"type"`
		Identifier string `json:"identifier"`
	} `json:"industryIdentifiers"`
}

type googleBooksResponse struct {
	Items []struct {
		VolumeInfo googleVolumeInfo `json:"volumeInfo"`
	} `json:"items"`
}

// SearchGoogleBooks looks a title up in Google Books, preferring
// German-language editions. Returns nil when nothing was found.
func SearchGoogleBooks(ctx context.Context, title, author string) (*Result, error) {
	if err := getGBRateLimiter().Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	query := "intitle:" + title
	if author != "" {
		query += " inauthor:" + author
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", "5")
	params.Set("langRestrict", "de")

	var response googleBooksResponse
	if err := getJSON(ctx, googleBooksBaseURL+"/volumes?"+params.Encode(), &response); err != nil {
		return nil, err
	}
	if len(response.Items) == 0 {
		return nil, nil
	}

	info := response.Items[0].VolumeInfo
	result := &Result{
		Source:    SourceGoogleBooks,
		Title:     info.Title,
		Author:    strings.Join(info.Authors, ", "),
		Published: info.PublishedDate,
		Pages:     info.PageCount,
		URL:       info.InfoLink,
	}
	// ISBN-13 wins over ISBN-10 when both are listed.
	for _, id := range info.IndustryIdentifiers {
		if id.Type == "ISBN_13" {
			result.ISBN = id.Identifier
			break
		}
		if id.Type == "ISBN_10" {
			result.ISBN = id.Identifier
		}
	}
	return result, nil
}

// WorldCatLink builds a manual search link; WorldCat has no free API.
func WorldCatLink(title, author string) *Result {
	query := title
	if author != "" {
		query = title + " " + author
	}
	return &Result{
		Source: SourceWorldCat,
		Title:  title,
		URL:    worldCatSearchURL + "?q=" + url.QueryEscape(query),
	}
}

// SearchAll queries every source. Source errors are swallowed; a
// source that fails simply contributes no result.
func SearchAll(ctx context.Context, title, author string) []Result {
	var results []Result

	if ol, err := SearchOpenLibrary(ctx, title, author); err == nil && ol != nil {
		results = append(results, *ol)
	}
	if gb, err := SearchGoogleBooks(ctx, title, author); err == nil && gb != nil {
		results = append(results, *gb)
	}
	results = append(results, *WorldCatLink(title, author))

	return results
}

// VerifyExists reports whether any queryable source knows the book.
// The WorldCat link is a static reference and does not count.
func VerifyExists(ctx context.Context, title, author string) bool {
	if ol, err := SearchOpenLibrary(ctx, title, author); err == nil && ol != nil {
		return true
	}
	if gb, err := SearchGoogleBooks(ctx, title, author); err == nil && gb != nil {
		return true
	}
	return false
}
