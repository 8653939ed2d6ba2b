package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-s/-server vault server base URL
//	-request-timeout outbound request timeout (e.g., "30s", "1m")
//	-session-path encrypted session file path
//	-d cache database DSN (SQLite file path)
//	-sync-interval background sync period (e.g., "5m")
//	-c/-config json file path with configs
func ParseFlags() *ClientConfig {
	var serverURL string
	var requestTimeout time.Duration
	var sessionPath string
	var cacheDSN string
	var syncInterval time.Duration
	var jsonConfigPath string

	flag.StringVar(&serverURL, "s", "", "Vault server base URL")
	flag.StringVar(&serverURL, "server", "", "Vault server base URL (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&sessionPath, "session-path", "", "Encrypted session file path")
	flag.StringVar(&cacheDSN, "d", "", "Cache database DSN")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync period (e.g., 5m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &ClientConfig{
		Server: Server{
			BaseURL:        serverURL,
			RequestTimeout: requestTimeout,
		},
		Session: SessionStore{
			Path: sessionPath,
		},
		Cache: Cache{
			DB: CacheDB{DSN: cacheDSN},
		},
		Workers: Workers{
			SyncInterval: syncInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
