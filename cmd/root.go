package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/bookrank/internal/cache"
	"github.com/lepinkainen/bookrank/internal/config"
)

// stdout receives command output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// CLI represents the complete command structure for the bookrank application
type CLI struct {
	Debug bool `help:"Enable debug logging"`

	// Catalog flags
	Catalog   string `help:"Path to the local catalog export (.xlsx, .xlsm or .csv)"`
	Sheet     string `help:"Worksheet to read from an Excel catalog (defaults to the first one)"`
	Remote    bool   `help:"Search the remote catalog API instead of a local file"`
	BaseURL   string `help:"Remote catalog API endpoint"`
	VerifySSL bool   `name:"verify-ssl" help:"Verify TLS certificates of the remote catalog"`
	Limit     int    `short:"n" help:"Maximum number of results (defaults to search.limit)"`
	Lexicon   string `help:"YAML file extending the built-in synonyms and title aliases"`

	// Cache flags
	NoCache     bool   `help:"Disable the persistent result cache"`
	CacheDBFile string `help:"Path to cache SQLite database file (defaults to cache.dbfile)"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 48h)"`

	Search SearchCmd `cmd:"" help:"Search the catalog with typo correction and fallbacks"`
	Rank   RankCmd   `cmd:"" help:"Show scores for the local catalog candidates of a query"`
	Intent IntentCmd `cmd:"" help:"Show how queries are classified and expanded"`
	Batch  BatchCmd  `cmd:"" help:"Run a file of queries concurrently"`
	Cache  CacheCmd  `cmd:"" help:"Manage the result cache"`
}

// CacheCmd groups the cache maintenance subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Drop cached entries"`
	Prune      cache.PruneCacheCmd      `cmd:"" help:"Drop expired cached entries"`
}

func kongOptions() []kong.Option {
	return []kong.Option{
		kong.Name("bookrank"),
		kong.Description("Rank bookstore catalog records against free-text Spanish queries."),
		kong.UsageOnError(),
	}
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(slog.LevelInfo)
	_ = godotenv.Load()
	initConfig()

	var cli CLI
	ctx := kong.Parse(&cli, kongOptions()...)

	if cli.Debug {
		initLogging(slog.LevelDebug)
	}
	updateGlobalConfig(&cli)

	err := ctx.Run()
	if closeErr := cache.ResetGlobalCache(); closeErr != nil {
		slog.Warn("Failed to close cache database", "error", closeErr)
	}
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()
	bindings := map[string]string{
		"remote.baseurl":   "CATALOG_BASE_URL",
		"remote.verifyssl": "CATALOG_VERIFY_SSL",
		"catalog.file":     "CATALOG_FILE",
	}
	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			slog.Error("Failed to bind environment variable", "key", key, "error", err)
		}
	}

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

	// Initialize global config
	config.InitConfig()
}

// updateGlobalConfig applies the flags that were given on top of the config
// file. Unset flags keep the configured values.
func updateGlobalConfig(cli *CLI) {
	if cli.Catalog != "" {
		config.CatalogFile = cli.Catalog
	}
	if cli.Sheet != "" {
		config.CatalogSheet = cli.Sheet
	}
	if cli.Remote {
		config.CatalogSource = config.SourceRemote
	}
	if cli.BaseURL != "" {
		config.RemoteBaseURL = cli.BaseURL
	}
	if cli.VerifySSL {
		config.RemoteVerifySSL = true
	}
	config.SetSearchLimit(cli.Limit)
	if cli.Lexicon != "" {
		config.LexiconFile = cli.Lexicon
	}

	if cli.NoCache {
		config.CacheEnabled = false
	}
	if cli.CacheDBFile != "" {
		viper.Set("cache.dbfile", cli.CacheDBFile)
	}
	if cli.CacheTTL != "" {
		viper.Set("cache.ttl", cli.CacheTTL)
	}
}

func initLogging(level slog.Level) {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
