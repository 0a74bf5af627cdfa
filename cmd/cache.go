package cmd

import (
	"fmt"
	"log/slog"

	"grazbib/internal/catalog"
	"grazbib/internal/config"
	"grazbib/internal/models"
)

// CacheCmd groups the cache maintenance subcommands.
type CacheCmd struct {
	Clear CacheClearCmd `cmd:"" help:"Remove cached search results"`
}

// CacheClearCmd removes cached entries, either for one query or all of them.
type CacheClearCmd struct {
	Query []string `arg:"" optional:"" help:"Search terms of the entry to remove"`
	Type  string   `short:"t" help:"Search type: keyword, author, title or isbn" default:"keyword"`
	All   bool     `help:"Remove every cached entry"`
}

func (c *CacheClearCmd) Run(cli *CLI) error {
	cfg := config.FromViper()
	scraper := catalog.NewScraper(cfg)

	if c.All {
		scraper.ClearAllCache()
		slog.Info("Cache cleared")
		return nil
	}

	if len(c.Query) == 0 {
		return fmt.Errorf("provide search terms or --all")
	}

	searchType, err := models.ParseSearchType(c.Type)
	if err != nil {
		return err
	}

	query := joinQuery(c.Query)
	scraper.ClearCache(searchType, query)
	slog.Info("Cache entry cleared", "query", query, "type", searchType)
	return nil
}
