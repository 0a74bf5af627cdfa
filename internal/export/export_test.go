package export

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grazbib/internal/models"
	"grazbib/internal/testutil"
)

func sampleResults() []models.SearchResult {
	return []models.SearchResult{
		{
			Query:      "Harry Potter",
			SearchType: models.SearchKeyword,
			Books: []models.Book{
				{
					Title:           "Harry Potter und der Stein der Weisen",
					Author:          "Rowling, J.K.",
					ISBN:            "9783551354013",
					Publisher:       "Carlsen",
					PublicationYear: 1998,
					MediumType:      "Kinderbuch",
					Availability:    models.StatusAvailable,
					Location:        "Zanklhof",
					CatalogID:       "12345",
				},
				{
					Title:        "Harry Potter und die Kammer des Schreckens",
					MediumType:   models.DefaultMediumType,
					Availability: models.StatusCheckedOut,
				},
			},
			TotalResults: 2,
			Timestamp:    time.Now(),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("export.csv")

	require.NoError(t, WriteCSV(path, sampleResults()))

	reader := csv.NewReader(strings.NewReader(env.ReadFileString("export.csv")))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"title", "author", "isbn", "publisher", "publication_year",
		"medium_type", "availability", "location", "catalog_id",
	}, records[0])

	assert.Equal(t, []string{
		"Harry Potter und der Stein der Weisen", "Rowling, J.K.", "9783551354013",
		"Carlsen", "1998", "Kinderbuch", "Available", "Zanklhof", "12345",
	}, records[1])

	// Missing year stays empty, not zero.
	assert.Equal(t, "", records[2][4])
}

func TestWriteJSON(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("export.json")

	require.NoError(t, WriteJSON(path, sampleResults()))

	var doc Document
	require.NoError(t, json.Unmarshal(env.ReadFile("export.json"), &doc))

	assert.Equal(t, 1, doc.TotalSearches)
	assert.False(t, doc.ExportTimestamp.IsZero())
	require.Len(t, doc.Results, 1)
	assert.Equal(t, "Harry Potter", doc.Results[0].Query)
	assert.Equal(t, 2, doc.Results[0].TotalResults)
}

func TestWriteCSVEmptyResults(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("empty.csv")

	require.NoError(t, WriteCSV(path, nil))

	lines := strings.Split(strings.TrimSpace(env.ReadFileString("empty.csv")), "\n")
	assert.Len(t, lines, 1, "only the header row")
}
