// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// ClientConfig is the top-level configuration container for the vault
// client. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
//
// All env lookups additionally carry the global VAULT_ prefix.
type ClientConfig struct {
	// Server holds the vault server endpoint settings.
	Server Server `envPrefix:"SERVER_"`

	// Session holds local session persistence settings.
	Session SessionStore `envPrefix:"SESSION_"`

	// Cache holds the offline vault cache settings.
	Cache Cache `envPrefix:"CACHE_"`

	// Workers holds configuration for background workers such as the
	// periodic vault sync job.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the VAULT_CONFIG environment variable or the
	// -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Server holds the vault server endpoint and outbound request settings.
type Server struct {
	// BaseURL is the base URL of the vault server
	// (e.g. "https://vault.example.com").
	// Env: VAULT_SERVER_URL
	BaseURL string `env:"URL"`

	// RequestTimeout is the maximum duration allowed for a single outbound
	// request before the client cancels it (e.g. "30s", "1m").
	// Env: VAULT_SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// SessionStore holds settings for the encrypted session file kept between
// runs so the user does not have to log in every time.
type SessionStore struct {
	// Path is the file the encrypted session record is written to.
	// Env: VAULT_SESSION_PATH
	Path string `env:"PATH"`
}

// Cache holds the offline vault cache settings.
type Cache struct {
	// DB holds the local SQLite cache connection settings.
	DB CacheDB `envPrefix:"DB_"`
}

// CacheDB contains local cache database connection settings.
type CacheDB struct {
	// DSN is the SQLite connection string for the offline blob cache
	// (a file path, or ":memory:" for tests).
	// Env: VAULT_CACHE_DB_DSN
	DSN string `env:"DSN"`
}

// Workers contains background worker settings.
type Workers struct {
	// SyncInterval defines how often the background sync job refetches
	// the vault blob from the server. Zero disables periodic sync.
	// Env: VAULT_WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// GetClientConfig loads, merges, and validates the client configuration
// from all available sources in the following priority order (first source
// wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *ClientConfig or an error if any source fails
// to load or the final config fails validation.
func GetClientConfig() (*ClientConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
