// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	defaultBaseURL        = "https://vault.example.com"
	defaultRequestTimeout = 30 * time.Second
	defaultSyncInterval   = 5 * time.Minute

	configDirName   = ".vault-client"
	sessionFileName = "session"
	cacheFileName   = "cache.db"
)

// defaultConfig supplies values for anything no other source set. Paths
// land under ~/.vault-client; if the home directory cannot be resolved the
// current directory is used.
func defaultConfig() *ClientConfig {
	dir := configDirName
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, configDirName)
	}

	return &ClientConfig{
		Server: Server{
			BaseURL:        defaultBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Session: SessionStore{
			Path: filepath.Join(dir, sessionFileName),
		},
		Cache: Cache{
			DB: CacheDB{DSN: filepath.Join(dir, cacheFileName)},
		},
		Workers: Workers{
			SyncInterval: defaultSyncInterval,
		},
	}
}
