package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"grazbib/internal/catalog"
	"grazbib/internal/config"
	"grazbib/internal/datastore"
	"grazbib/internal/export"
	"grazbib/internal/models"
)

// SearchCmd represents the search command
type SearchCmd struct {
	Query   []string `arg:"" help:"Search terms"`
	Type    string   `short:"t" help:"Search type: keyword, author, title or isbn" default:"keyword"`
	Browser bool     `help:"Use browser automation instead of plain HTTP (for script-rendered pages)"`
	CSV     string   `help:"Export results to a CSV file"`
	JSON    string   `help:"Export results to a JSON file"`
}

func (s *SearchCmd) Run(cli *CLI) error {
	searchType, err := models.ParseSearchType(s.Type)
	if err != nil {
		return err
	}

	query := joinQuery(s.Query)
	cfg := config.FromViper()
	ctx := context.Background()

	var result *models.SearchResult
	if s.Browser {
		searcher := catalog.NewBrowserSearcher(cfg, true)
		defer searcher.Close()
		result = searcher.Search(ctx, query, searchType)
	} else {
		result = catalog.NewScraper(cfg).Search(ctx, query, searchType, !cli.NoCache)
	}

	if result == nil {
		return fmt.Errorf("search failed for %q", query)
	}

	printResults(result)

	if err := archiveResult(cli, result); err != nil {
		return err
	}
	return exportResults(s.CSV, s.JSON, []models.SearchResult{*result})
}

// BulkCmd represents the bulk search command
type BulkCmd struct {
	Input string `short:"f" arg:"" help:"Path to a CSV, JSON or YAML file with one query per row"`
	Type  string `short:"t" help:"Search type applied to every query" default:"keyword"`
	CSV   string `help:"Export all results to a CSV file"`
	JSON  string `help:"Export all results to a JSON file"`
}

func (b *BulkCmd) Run(cli *CLI) error {
	searchType, err := models.ParseSearchType(b.Type)
	if err != nil {
		return err
	}

	queries, err := export.ReadQueries(b.Input)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries found in %s", b.Input)
	}

	cfg := config.FromViper()
	scraper := catalog.NewScraper(cfg)
	ctx := context.Background()

	var results []models.SearchResult
	for _, query := range queries {
		result := scraper.Search(ctx, query, searchType, !cli.NoCache)
		if result == nil {
			slog.Warn("Skipping failed search", "query", query)
			continue
		}
		results = append(results, *result)
		if err := archiveResult(cli, result); err != nil {
			return err
		}
	}

	fmt.Printf("Completed %d of %d searches\n", len(results), len(queries))
	for i := range results {
		printResults(&results[i])
	}

	return exportResults(b.CSV, b.JSON, results)
}

func joinQuery(terms []string) string {
	return strings.Join(terms, " ")
}

func printResults(result *models.SearchResult) {
	fmt.Printf("\n%d results for %q (%s)\n", result.TotalResults, result.Query, result.SearchType)
	if result.TotalResults == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Title", "Author", "Year", "Medium", "Availability", "Location"})

	for i, book := range result.Books {
		year := ""
		if book.PublicationYear != 0 {
			year = fmt.Sprintf("%d", book.PublicationYear)
		}
		t.AppendRow(table.Row{
			i + 1, book.Title, book.Author, year,
			book.MediumType, book.Availability, book.Location,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func archiveResult(cli *CLI, result *models.SearchResult) error {
	if !cli.Archive {
		return nil
	}

	store := datastore.NewSQLiteStore(cli.ArchiveDB)
	if err := store.Connect(); err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveResult(result); err != nil {
		return fmt.Errorf("failed to archive result: %w", err)
	}
	return nil
}

func exportResults(csvPath, jsonPath string, results []models.SearchResult) error {
	if csvPath != "" {
		if err := export.WriteCSV(csvPath, results); err != nil {
			return err
		}
	}
	if jsonPath != "" {
		if err := export.WriteJSON(jsonPath, results); err != nil {
			return err
		}
	}
	return nil
}
