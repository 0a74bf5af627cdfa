package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"

	"grazbib/internal/extbook"
)

// VerifyCmd represents the verify command: cross-check a title against
// external book databases.
type VerifyCmd struct {
	Title  []string `arg:"" help:"Book title"`
	Author string   `short:"a" help:"Author name to narrow the match"`
}

func (v *VerifyCmd) Run(cli *CLI) error {
	title := joinQuery(v.Title)
	ctx := context.Background()

	results := extbook.SearchAll(ctx, title, v.Author)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Source", "Title", "Author", "ISBN", "Published", "URL"})
	for _, r := range results {
		t.AppendRow(table.Row{r.Source, r.Title, r.Author, r.ISBN, r.Published, r.URL})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()

	found := false
	for _, r := range results {
		if r.Source != extbook.SourceWorldCat {
			found = true
			break
		}
	}
	if found {
		fmt.Printf("\n%q was found in at least one external database.\n", title)
	} else {
		fmt.Printf("\n%q was not found in any queried database.\n", title)
	}
	return nil
}
