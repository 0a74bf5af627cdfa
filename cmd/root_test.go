package cmd

import (
	"os"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func resetCmdState(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
}

func parseCLI(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()

	originalArgs := os.Args
	os.Args = append([]string{"grazbib"}, args...)
	t.Cleanup(func() { os.Args = originalArgs })

	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("grazbib"),
		kong.Description("Search the Stadtbibliothek Graz catalog from the command line."),
		kong.UsageOnError(),
		kong.Exit(func(code int) {
			t.Fatalf("unexpected Kong exit %d", code)
		}),
	)

	return cli, ctx
}

func TestSearchCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "search", "Harry", "Potter", "-t", "title", "--csv", "out.csv")

	assert.Equal(t, []string{"Harry", "Potter"}, cli.Search.Query)
	assert.Equal(t, "title", cli.Search.Type)
	assert.Equal(t, "out.csv", cli.Search.CSV)
	assert.Empty(t, cli.Search.JSON)
	assert.False(t, cli.Search.Browser)
}

func TestBulkCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "bulk", "queries.csv", "--json", "results.json")

	assert.Equal(t, "queries.csv", cli.Bulk.Input)
	assert.Equal(t, "keyword", cli.Bulk.Type)
	assert.Equal(t, "results.json", cli.Bulk.JSON)
}

func TestDetailCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "detail", "Der", "Prozess", "--first", "--cover", "covers")

	assert.Equal(t, []string{"Der", "Prozess"}, cli.Detail.Query)
	assert.True(t, cli.Detail.First)
	assert.Equal(t, "covers", cli.Detail.Cover)
	assert.Equal(t, 500, cli.Detail.CoverMax)
}

func TestVerifyCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "verify", "Momo", "-a", "Ende")

	assert.Equal(t, []string{"Momo"}, cli.Verify.Title)
	assert.Equal(t, "Ende", cli.Verify.Author)
}

func TestCacheClearCommandParsing(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "cache", "clear", "--all")

	assert.True(t, cli.Cache.Clear.All)
	assert.Empty(t, cli.Cache.Clear.Query)
}

func TestCLIDefaultFlags(t *testing.T) {
	resetCmdState(t)

	cli, _ := parseCLI(t, "search", "test")

	assert.False(t, cli.NoCache, "NoCache should default to false")
	assert.False(t, cli.Archive, "Archive should default to false")
	assert.Equal(t, "./grazbib.db", cli.ArchiveDB)
	assert.Equal(t, "keyword", cli.Search.Type)
}

func TestJoinQuery(t *testing.T) {
	assert.Equal(t, "Harry Potter", joinQuery([]string{"Harry", "Potter"}))
	assert.Equal(t, "Momo", joinQuery([]string{"Momo"}))
	assert.Empty(t, joinQuery(nil))
}
