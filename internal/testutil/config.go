package testutil

import (
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/lepinkainen/bookrank/internal/config"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	CatalogSource   string
	CatalogFile     string
	CatalogSheet    string
	RemoteBaseURL   string
	RemoteVerifySSL bool
	RemoteTimeout   time.Duration
	RemoteRateLimit float64
	SearchLimit     int
	CacheEnabled    bool
	LexiconFile     string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		CatalogSource:   config.CatalogSource,
		CatalogFile:     config.CatalogFile,
		CatalogSheet:    config.CatalogSheet,
		RemoteBaseURL:   config.RemoteBaseURL,
		RemoteVerifySSL: config.RemoteVerifySSL,
		RemoteTimeout:   config.RemoteTimeout,
		RemoteRateLimit: config.RemoteRateLimit,
		SearchLimit:     config.SearchLimit,
		CacheEnabled:    config.CacheEnabled,
		LexiconFile:     config.LexiconFile,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.CatalogSource = state.CatalogSource
	config.CatalogFile = state.CatalogFile
	config.CatalogSheet = state.CatalogSheet
	config.RemoteBaseURL = state.RemoteBaseURL
	config.RemoteVerifySSL = state.RemoteVerifySSL
	config.RemoteTimeout = state.RemoteTimeout
	config.RemoteRateLimit = state.RemoteRateLimit
	config.SearchLimit = state.SearchLimit
	config.CacheEnabled = state.CacheEnabled
	config.LexiconFile = state.LexiconFile
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfigOption is a functional option for configuring test config.
type SetTestConfigOption func(*ConfigState)

// WithCatalogFile points the local catalog at path.
func WithCatalogFile(path string) SetTestConfigOption {
	return func(s *ConfigState) {
		s.CatalogSource = config.SourceLocal
		s.CatalogFile = path
	}
}

// WithRemoteBaseURL switches to the remote catalog at url.
func WithRemoteBaseURL(url string) SetTestConfigOption {
	return func(s *ConfigState) {
		s.CatalogSource = config.SourceRemote
		s.RemoteBaseURL = url
	}
}

// WithSearchLimit sets the default number of results.
func WithSearchLimit(limit int) SetTestConfigOption {
	return func(s *ConfigState) {
		s.SearchLimit = limit
	}
}

// WithCacheEnabled turns the persistent result cache on or off.
func WithCacheEnabled(v bool) SetTestConfigOption {
	return func(s *ConfigState) {
		s.CacheEnabled = v
	}
}

// SetTestConfig installs a test configuration with a local catalog and the
// result cache disabled. It saves the current state and restores it when the
// test completes.
func SetTestConfig(t *testing.T, opts ...SetTestConfigOption) {
	t.Helper()

	ResetConfig(t)

	state := ConfigState{
		CatalogSource:   config.SourceLocal,
		RemoteTimeout:   5 * time.Second,
		RemoteRateLimit: 1000,
		SearchLimit:     20,
		CacheEnabled:    false,
	}
	for _, opt := range opts {
		opt(&state)
	}
	RestoreConfigState(state)
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// viper has no Unset, so an unset key stays set to the test value.
	})
}

// SetupTestCache configures viper for test caching with a temporary directory.
// It creates the cache directory and returns the database path.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	env.MkdirAll("cache")
	dbPath := env.Path("cache", "test-cache.db")

	SetViperValue(t, "cache.dbfile", dbPath)
	SetViperValue(t, "cache.ttl", "24h")

	return dbPath
}
