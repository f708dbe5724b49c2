package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Catalog sources.
const (
	SourceLocal  = "local"
	SourceRemote = "remote"
)

// Global configuration variables
var (
	// CatalogSource selects where candidate books come from: SourceLocal or SourceRemote
	CatalogSource string
	// CatalogFile is the spreadsheet or CSV export of the local catalog
	CatalogFile string
	// CatalogSheet is the worksheet to read, the first one when empty
	CatalogSheet string
	// RemoteBaseURL is the endpoint of the remote catalog API
	RemoteBaseURL string
	// RemoteVerifySSL enables TLS certificate verification for the remote catalog
	RemoteVerifySSL bool
	// RemoteTimeout bounds a single remote catalog request
	RemoteTimeout time.Duration
	// RemoteRateLimit is the number of remote requests allowed per second
	RemoteRateLimit float64
	// SearchLimit is the default number of results per search
	SearchLimit int
	// CacheEnabled turns the persistent result cache on or off
	CacheEnabled bool
	// LexiconFile optionally extends the built-in synonyms and title aliases
	LexiconFile string
)

// SetDefaults registers the default value of every configuration key.
func SetDefaults() {
	viper.SetDefault("catalog.source", SourceLocal)
	viper.SetDefault("catalog.file", "")
	viper.SetDefault("catalog.sheet", "")
	viper.SetDefault("remote.baseurl", "")
	viper.SetDefault("remote.verifyssl", false)
	viper.SetDefault("remote.timeout", "15s")
	viper.SetDefault("remote.ratelimit", 5.0)
	viper.SetDefault("search.limit", 20)
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.dbfile", "./bookrank-cache.db")
	viper.SetDefault("cache.ttl", "24h")
	viper.SetDefault("lexicon.file", "")
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults()

	// Get values from viper
	CatalogSource = viper.GetString("catalog.source")
	CatalogFile = viper.GetString("catalog.file")
	CatalogSheet = viper.GetString("catalog.sheet")
	RemoteBaseURL = viper.GetString("remote.baseurl")
	RemoteVerifySSL = viper.GetBool("remote.verifyssl")
	RemoteTimeout = viper.GetDuration("remote.timeout")
	RemoteRateLimit = viper.GetFloat64("remote.ratelimit")
	SearchLimit = viper.GetInt("search.limit")
	CacheEnabled = viper.GetBool("cache.enabled")
	LexiconFile = viper.GetString("lexicon.file")
}

// SetCatalogSource sets the CatalogSource, rejecting unknown sources
func SetCatalogSource(source string) error {
	switch source {
	case SourceLocal, SourceRemote:
		CatalogSource = source
		return nil
	}
	return fmt.Errorf("unknown catalog source %q (want %s or %s)", source, SourceLocal, SourceRemote)
}

// SetSearchLimit sets the SearchLimit, ignoring non-positive values
func SetSearchLimit(limit int) {
	if limit > 0 {
		SearchLimit = limit
	}
}
