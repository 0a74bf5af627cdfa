package extbook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetClient(t *testing.T, server *httptest.Server) {
	t.Helper()

	t.Cleanup(func() {
		httpClient = nil
		clientOnce = sync.Once{}
		httpClientNew = func() *http.Client { return &http.Client{Timeout: 10 * time.Second} }
		openLibraryBaseURL = "https://openlibrary.org"
		googleBooksBaseURL = "https://www.googleapis.com/books/v1"
	})

	clientOnce = sync.Once{}
	httpClient = nil
	httpClientNew = func() *http.Client { return server.Client() }
}

func TestSearchOpenLibrary(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("title"), "Harry Potter")
		_, _ = w.Write([]byte(`{"docs":[{"title":"Harry Potter and the Philosopher's Stone","author_name":["J. K. Rowling"],"isbn":["9780747532743"],"first_publish_year":1997,"number_of_pages_median":223,"key":"/works/OL82563W"}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resetClient(t, server)
	openLibraryBaseURL = server.URL

	result, err := SearchOpenLibrary(context.Background(), "Harry Potter", "Rowling")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Open Library", result.Source)
	assert.Equal(t, "Harry Potter and the Philosopher's Stone", result.Title)
	assert.Equal(t, "J. K. Rowling", result.Author)
	assert.Equal(t, "9780747532743", result.ISBN)
	assert.Equal(t, "1997", result.Published)
	assert.Equal(t, 223, result.Pages)
	assert.Equal(t, server.URL+"/works/OL82563W", result.URL)
}

func TestSearchOpenLibraryNoMatch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"docs":[]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resetClient(t, server)
	openLibraryBaseURL = server.URL

	result, err := SearchOpenLibrary(context.Background(), "Unbekanntes Buch", "")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestSearchGoogleBooks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/volumes", func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "intitle:")
		assert.Equal(t, "de", r.URL.Query().Get("langRestrict"))
		_, _ = w.Write([]byte(`{"items":[{"volumeInfo":{"title":"Harry Potter und der Stein der Weisen","authors":["J. K. Rowling"],"publishedDate":"1998","pageCount":335,"infoLink":"https://books.example/1","industryIdentifiers":[{"type":"ISBN_10","identifier":"3551551677"},{"type":"ISBN_13","identifier":"9783551551672"}]}}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resetClient(t, server)
	googleBooksBaseURL = server.URL

	result, err := SearchGoogleBooks(context.Background(), "Harry Potter", "Rowling")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "Google Books", result.Source)
	assert.Equal(t, "9783551551672", result.ISBN, "ISBN-13 wins over ISBN-10")
	assert.Equal(t, "J. K. Rowling", result.Author)
	assert.Equal(t, 335, result.Pages)
}

func TestSearchGoogleBooksServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/volumes", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resetClient(t, server)
	googleBooksBaseURL = server.URL

	_, err := SearchGoogleBooks(context.Background(), "Harry Potter", "")
	require.Error(t, err)
}

func TestWorldCatLink(t *testing.T) {
	result := WorldCatLink("Harry Potter", "Rowling")

	assert.Equal(t, "WorldCat", result.Source)
	assert.Equal(t, "Harry Potter", result.Title)
	assert.Equal(t, "https://www.worldcat.org/search?q=Harry+Potter+Rowling", result.URL)
}

func TestVerifyExists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"docs":[{"title":"Harry Potter"}]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resetClient(t, server)
	openLibraryBaseURL = server.URL

	assert.True(t, VerifyExists(context.Background(), "Harry Potter", ""))
}

func TestVerifyExistsNoSources(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resetClient(t, server)
	openLibraryBaseURL = server.URL
	googleBooksBaseURL = server.URL

	assert.False(t, VerifyExists(context.Background(), "Harry Potter", ""))
}

func TestSearchAllAlwaysIncludesWorldCat(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resetClient(t, server)
	openLibraryBaseURL = server.URL
	googleBooksBaseURL = server.URL

	results := SearchAll(context.Background(), "Harry Potter", "")
	require.Len(t, results, 1)
	assert.Equal(t, "WorldCat", results[0].Source)
}
