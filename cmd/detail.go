package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"grazbib/internal/catalog"
	"grazbib/internal/config"
	"grazbib/internal/fileutil"
	"grazbib/internal/models"
	"grazbib/internal/tui"
)

// DetailCmd represents the detail command: search, pick a hit, fetch
// its detail page.
type DetailCmd struct {
	Query    []string `arg:"" help:"Search terms"`
	Type     string   `short:"t" help:"Search type: keyword, author, title or isbn" default:"keyword"`
	First    bool     `help:"Skip the interactive picker and take the first hit"`
	Cover    string   `help:"Download the cover image into this directory"`
	CoverMax int      `help:"Maximum cover width in pixels" default:"500"`
}

func (d *DetailCmd) Run(cli *CLI) error {
	searchType, err := models.ParseSearchType(d.Type)
	if err != nil {
		return err
	}

	query := joinQuery(d.Query)
	cfg := config.FromViper()
	scraper := catalog.NewScraper(cfg)
	ctx := context.Background()

	result := scraper.Search(ctx, query, searchType, !cli.NoCache)
	if result == nil {
		return fmt.Errorf("search failed for %q", query)
	}
	if result.TotalResults == 0 {
		fmt.Printf("No results for %q\n", query)
		return nil
	}

	book, err := d.pickBook(query, result.Books)
	if err != nil || book == nil {
		return err
	}
	if book.URL == "" {
		return fmt.Errorf("hit %q carries no detail link", book.Title)
	}

	detail := scraper.Detail(ctx, book.URL)
	if detail == nil {
		return fmt.Errorf("could not fetch detail page for %q", book.Title)
	}

	printDetail(detail)

	if d.Cover != "" && detail.CoverURL != "" {
		coverURL := detail.CoverURL
		if strings.HasPrefix(coverURL, "/") {
			coverURL = cfg.BaseURL + coverURL
		}
		_, err := fileutil.DownloadCover(ctx, fileutil.CoverDownloadOptions{
			URL:       coverURL,
			OutputDir: d.Cover,
			Filename:  fileutil.BuildCoverFilename(detail.Title),
			MaxWidth:  d.CoverMax,
		})
		if err != nil {
			return fmt.Errorf("cover download failed: %w", err)
		}
	}

	return nil
}

func (d *DetailCmd) pickBook(query string, books []models.Book) (*models.Book, error) {
	if d.First {
		return &books[0], nil
	}

	selection, err := tui.SelectBook(query, books)
	if err != nil {
		return nil, err
	}
	switch selection.Action {
	case tui.ActionSelected:
		return selection.Selection, nil
	case tui.ActionStopped:
		return nil, fmt.Errorf("aborted")
	}
	return nil, nil
}

func printDetail(detail *models.Detail) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	addRow := func(label, value string) {
		if value != "" {
			t.AppendRow(table.Row{label, value})
		}
	}

	addRow("Title", detail.Title)
	addRow("Author", detail.Author)
	addRow("Publisher", detail.Publisher)
	if detail.PublicationYear != 0 {
		addRow("Year", fmt.Sprintf("%d", detail.PublicationYear))
	}
	addRow("ISBN", detail.ISBN)
	addRow("Medium", detail.MediumType)
	addRow("Language", detail.Language)
	addRow("Series", detail.Series)
	addRow("Original title", detail.OriginalTitle)
	if detail.PageCount != 0 {
		addRow("Pages", fmt.Sprintf("%d", detail.PageCount))
	}
	addRow("Keywords", strings.Join(detail.Keywords, ", "))
	addRow("Availability", detail.Availability)

	t.SetStyle(table.StyleRounded)
	t.Render()

	if detail.Description != "" {
		fmt.Printf("\n%s\n", detail.Description)
	}

	if len(detail.Copies) > 0 {
		fmt.Println()
		c := table.NewWriter()
		c.SetOutputMirror(os.Stdout)
		c.AppendHeader(table.Row{"Branch", "Call number", "Section", "Status", "Reservations"})
		for _, ex := range detail.Copies {
			c.AppendRow(table.Row{ex.Branch, ex.CallNumber, ex.Section, ex.Status, ex.Reservations})
		}
		c.SetStyle(table.StyleRounded)
		c.Render()
	}
}
