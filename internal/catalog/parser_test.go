package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grazbib/internal/models"
)

const searchResultsHTML = `
<html>
<body>
	<div class="hit">
		<h3 class="title"><a href="/Mediensuche/Detail/12345">Harry Potter und der Stein der Weisen</a></h3>
		<span class="author">Rowling, J.K.</span>
		<span class="status">Verf&uuml;gbar</span>
		<span class="location">Zanklhof</span>
		<span class="medium-type">Kinderbuch</span>
		<p>ISBN: 978-3-551-35401-3, Hamburg 1998</p>
	</div>
	<div class="hit">
		<h3 class="title"><a href="https://example.org/Detail/67890">Harry Potter und die Kammer des Schreckens</a></h3>
		<span class="author">Rowling, J.K.</span>
		<span class="unavailable">ausgeliehen bis 12.09.</span>
	</div>
</body>
</html>`

func TestParseSearchResults(t *testing.T) {
	parser := NewParser("https://www.stadtbibliothek.graz.at")
	books := parser.ParseSearchResults(searchResultsHTML)

	require.Len(t, books, 2)

	first := books[0]
	assert.Equal(t, "Harry Potter und der Stein der Weisen", first.Title)
	assert.Equal(t, "Rowling, J.K.", first.Author)
	assert.Equal(t, "9783551354013", first.ISBN)
	assert.Equal(t, "12345", first.CatalogID)
	assert.Equal(t, models.StatusAvailable, first.Availability)
	assert.Equal(t, "Zanklhof", first.Location)
	assert.Equal(t, "Kinderbuch", first.MediumType)
	assert.Equal(t, 1998, first.PublicationYear)
	assert.Equal(t, "https://www.stadtbibliothek.graz.at/Mediensuche/Detail/12345", first.URL)

	second := books[1]
	assert.Equal(t, "Harry Potter und die Kammer des Schreckens", second.Title)
	assert.Equal(t, models.StatusCheckedOut, second.Availability)
	assert.Equal(t, "https://example.org/Detail/67890", second.URL)
}

func TestParseSearchResultsContainerFallback(t *testing.T) {
	html := `
	<div class="result">
		<h2 class="title">Der Prozess</h2>
		<span class="author">Kafka, Franz</span>
	</div>`

	parser := NewParser("https://example.org")
	books := parser.ParseSearchResults(html)

	require.Len(t, books, 1)
	assert.Equal(t, "Der Prozess", books[0].Title)
}

func TestParseSearchResultsPrimarySelectorWins(t *testing.T) {
	// A page mixing both container classes only yields the primary
	// selector's items.
	html := `
	<div class="hit"><h3 class="title">Primary</h3></div>
	<div class="result"><h2 class="title">Secondary</h2></div>`

	parser := NewParser("https://example.org")
	books := parser.ParseSearchResults(html)

	require.Len(t, books, 1)
	assert.Equal(t, "Primary", books[0].Title)
}

func TestParseSearchResultsSkipsUntitledItems(t *testing.T) {
	html := `
	<div class="hit"><span class="author">No Title Here</span></div>
	<div class="hit"><h3 class="title">Die Verwandlung</h3></div>`

	parser := NewParser("https://example.org")
	books := parser.ParseSearchResults(html)

	require.Len(t, books, 1)
	assert.Equal(t, "Die Verwandlung", books[0].Title)
}

func TestParseSearchResultsEmptyDocument(t *testing.T) {
	parser := NewParser("https://example.org")

	assert.Empty(t, parser.ParseSearchResults(""))
	assert.Empty(t, parser.ParseSearchResults("<html><body><p>Keine Treffer</p></body></html>"))
}

func TestParseSearchResultsDefaults(t *testing.T) {
	html := `<div class="hit"><h3 class="title">Nur Titel</h3></div>`

	parser := NewParser("https://example.org")
	books := parser.ParseSearchResults(html)

	require.Len(t, books, 1)
	assert.Equal(t, models.DefaultAvailability, books[0].Availability)
	assert.Equal(t, models.DefaultMediumType, books[0].MediumType)
	assert.Empty(t, books[0].ISBN)
	assert.Empty(t, books[0].Author)
}

func TestParseSearchResultsRejectsShortISBN(t *testing.T) {
	html := `<div class="hit"><h3 class="title">Broken Record</h3><p>ISBN: 123</p></div>`

	parser := NewParser("https://example.org")
	books := parser.ParseSearchResults(html)

	require.Len(t, books, 1)
	assert.Empty(t, books[0].ISBN)
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Verfügbar", models.StatusAvailable},
		{"verfügbar (Zanklhof)", models.StatusAvailable},
		{"Available", models.StatusAvailable},
		{"Ausgeliehen", models.StatusCheckedOut},
		{"checked out", models.StatusCheckedOut},
		{"Bestellt", models.StatusOnOrder},
		{"reserviert für Sie", models.StatusReserved},
		{"In Bearbeitung", "in bearbeitung"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeStatus(tt.raw))
		})
	}
}

func TestExtractYear(t *testing.T) {
	assert.Equal(t, 2017, extractYear("Stuttgart, Panini-Verl., 2017"))
	assert.Equal(t, 1998, extractYear("Hamburg 1998"))
	assert.Equal(t, 0, extractYear("keine Jahreszahl"))
	assert.Equal(t, 0, extractYear("Signatur 1801"))
}

func TestAbsoluteURL(t *testing.T) {
	parser := NewParser("https://example.org/")

	assert.Equal(t, "https://example.org/Detail/1", parser.absoluteURL("/Detail/1"))
	assert.Equal(t, "https://example.org/Detail/2", parser.absoluteURL("Detail/2"))
	assert.Equal(t, "http://other.example/x", parser.absoluteURL("http://other.example/x"))
}
