// Package export serializes search results to CSV and JSON files and
// reads bulk query lists back in.
package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"grazbib/internal/fileutil"
	"grazbib/internal/models"
)

// csvHeader is the fixed column set of a CSV export.
var csvHeader = []string{
	"title", "author", "isbn", "publisher", "publication_year",
	"medium_type", "availability", "location", "catalog_id",
}

// Document wraps exported results with their export metadata.
type Document struct {
	ExportTimestamp time.Time             `json:"export_timestamp"`
	TotalSearches   int                   `json:"total_searches"`
	Results         []models.SearchResult `json:"results"`
}

// WriteCSV writes every book of every result as one CSV row.
func WriteCSV(path string, results []models.SearchResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	var rows int
	for _, result := range results {
		for _, book := range result.Books {
			year := ""
			if book.PublicationYear != 0 {
				year = strconv.Itoa(book.PublicationYear)
			}
			record := []string{
				book.Title, book.Author, book.ISBN, book.Publisher, year,
				book.MediumType, book.Availability, book.Location, book.CatalogID,
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
			rows++
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	slog.Info("Exported results to CSV", "path", path, "rows", rows)
	return nil
}

// WriteJSON writes results as a single export document.
func WriteJSON(path string, results []models.SearchResult) error {
	doc := Document{
		ExportTimestamp: time.Now(),
		TotalSearches:   len(results),
		Results:         results,
	}

	if _, err := fileutil.WriteJSONFile(doc, path, true); err != nil {
		return fmt.Errorf("failed to export JSON: %w", err)
	}

	slog.Info("Exported results to JSON", "path", path, "searches", doc.TotalSearches)
	return nil
}
