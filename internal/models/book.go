// Package models holds the catalog entities produced by the scraper.
package models

import (
	"fmt"
	"strings"
	"time"
)

// Default values used when extraction cannot determine a field.
const (
	DefaultMediumType   = "Book"
	DefaultAvailability = "Unknown"
)

// Canonical availability categories. Raw status strings that match no
// known keyword are passed through unchanged.
const (
	StatusAvailable  = "Available"
	StatusCheckedOut = "Checked Out"
	StatusOnOrder    = "On Order"
	StatusReserved   = "Reserved"
)

// SearchType selects which query parameter the catalog search uses.
type SearchType string

const (
	SearchKeyword SearchType = "keyword"
	SearchAuthor  SearchType = "author"
	SearchTitle   SearchType = "title"
	SearchISBN    SearchType = "isbn"
)

// ParseSearchType maps a user-supplied string to a SearchType.
func ParseSearchType(s string) (SearchType, error) {
	switch SearchType(strings.ToLower(strings.TrimSpace(s))) {
	case SearchKeyword:
		return SearchKeyword, nil
	case SearchAuthor:
		return SearchAuthor, nil
	case SearchTitle:
		return SearchTitle, nil
	case SearchISBN:
		return SearchISBN, nil
	}
	return "", fmt.Errorf("unknown search type: %q", s)
}

// Book is one catalog record. All fields except Title are optional;
// zero values mean "not extracted".
type Book struct {
	Title           string `json:"title"`
	Author          string `json:"author,omitempty"`
	ISBN            string `json:"isbn,omitempty"`
	Publisher       string `json:"publisher,omitempty"`
	PublicationYear int    `json:"publication_year,omitempty"`
	MediumType      string `json:"medium_type"`
	CatalogID       string `json:"catalog_id,omitempty"`
	Availability    string `json:"availability"`
	Location        string `json:"location,omitempty"`
	CallNumber      string `json:"call_number,omitempty"`
	Description     string `json:"description,omitempty"`
	CoverURL        string `json:"cover_url,omitempty"`
	URL             string `json:"url,omitempty"`
	Branch          string `json:"branch,omitempty"`
	Barcode         string `json:"barcode,omitempty"`
}

// NewBook constructs a Book with defaults applied. An empty title is a
// programmer error, not an environmental condition, and fails hard.
func NewBook(title string) (*Book, error) {
	if title == "" {
		return nil, fmt.Errorf("book title is required")
	}
	return &Book{
		Title:        title,
		MediumType:   DefaultMediumType,
		Availability: DefaultAvailability,
	}, nil
}

func (b *Book) String() string {
	s := b.Title
	if b.Author != "" {
		s += " by " + b.Author
	}
	if b.PublicationYear != 0 {
		s += fmt.Sprintf(" (%d)", b.PublicationYear)
	}
	return fmt.Sprintf("%s [%s]", s, b.Availability)
}

// Copy is one physical holding of a title at a specific branch,
// taken from a row of the Exemplare table on a detail page.
type Copy struct {
	Branch       string `json:"branch"`
	CallNumber   string `json:"call_number,omitempty"`
	Section      string `json:"section,omitempty"`
	Status       string `json:"status,omitempty"`
	Reservations string `json:"reservations,omitempty"`
	MediumType   string `json:"medium_type,omitempty"`
	Barcode      string `json:"barcode,omitempty"`
}

// Detail is the field set extracted from a book detail page. Every
// field is optional; the first Copy, if any, seeds the top-level
// availability fields.
type Detail struct {
	Title           string   `json:"title,omitempty"`
	Author          string   `json:"author,omitempty"`
	ISBN            string   `json:"isbn,omitempty"`
	Publisher       string   `json:"publisher,omitempty"`
	PublicationYear int      `json:"publication_year,omitempty"`
	MediumType      string   `json:"medium_type,omitempty"`
	Language        string   `json:"language,omitempty"`
	Series          string   `json:"series,omitempty"`
	OriginalTitle   string   `json:"original_title,omitempty"`
	PageCount       int      `json:"page_count,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
	Description     string   `json:"description,omitempty"`
	CoverURL        string   `json:"cover_url,omitempty"`
	Copies          []Copy   `json:"exemplare,omitempty"`
	Availability    string   `json:"availability"`
	Location        string   `json:"location,omitempty"`
	CallNumber      string   `json:"call_number,omitempty"`
	Barcode         string   `json:"barcode,omitempty"`
	Branch          string   `json:"branch,omitempty"`
}

// SearchResult is the outcome of one catalog query. TotalResults is
// kept in sync with len(Books) by AddBook.
type SearchResult struct {
	Query        string     `json:"query"`
	SearchType   SearchType `json:"search_type"`
	Books        []Book     `json:"books"`
	TotalResults int        `json:"total_results"`
	Timestamp    time.Time  `json:"timestamp"`
	SearchTimeMs float64    `json:"search_time_ms,omitempty"`
}

// NewSearchResult wraps a book list in document order.
func NewSearchResult(query string, searchType SearchType, books []Book) *SearchResult {
	return &SearchResult{
		Query:        query,
		SearchType:   searchType,
		Books:        books,
		TotalResults: len(books),
		Timestamp:    time.Now(),
	}
}

// AddBook appends a book and keeps the total in sync.
func (r *SearchResult) AddBook(book Book) {
	r.Books = append(r.Books, book)
	r.TotalResults = len(r.Books)
}

func (r *SearchResult) String() string {
	return fmt.Sprintf("SearchResult: %d results for %q", r.TotalResults, r.Query)
}
