package cmd

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"grazbib/internal/config"
)

// CLI represents the complete command structure for the grazbib application
type CLI struct {
	// Global flags
	NoCache   bool   `help:"Bypass the result cache and always hit the catalog"`
	Archive   bool   `help:"Archive results into the local SQLite database" default:"false"`
	ArchiveDB string `help:"Path to the SQLite archive file" default:"./grazbib.db"`

	Search SearchCmd `cmd:"" help:"Search the library catalog"`
	Bulk   BulkCmd   `cmd:"" help:"Run a list of searches from a CSV, JSON or YAML file"`
	Detail DetailCmd `cmd:"" help:"Fetch detail-page information for a search hit"`
	Verify VerifyCmd `cmd:"" help:"Verify a book against external databases"`
	Cache  CacheCmd  `cmd:"" help:"Manage the result cache"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("grazbib"),
		kong.Description("Search the Stadtbibliothek Graz catalog from the command line."),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli)
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}
}

func initLogging() {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	slog.SetDefault(slog.New(handler))
}
