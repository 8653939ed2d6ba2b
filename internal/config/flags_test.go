package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestParseFlags tests the ParseFlags function
func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *ClientConfig
	}{
		{
			name: "all flags",
			args: []string{
				"-s", "https://vault.test",
				"-request-timeout", "45s",
				"-session-path", "/tmp/session",
				"-d", "/tmp/cache.db",
				"-sync-interval", "10m",
				"-c", "/tmp/config.json",
			},
			expected: &ClientConfig{
				Server: Server{
					BaseURL:        "https://vault.test",
					RequestTimeout: 45 * time.Second,
				},
				Session:      SessionStore{Path: "/tmp/session"},
				Cache:        Cache{DB: CacheDB{DSN: "/tmp/cache.db"}},
				Workers:      Workers{SyncInterval: 10 * time.Minute},
				JSONFilePath: "/tmp/config.json",
			},
		},
		{
			name: "aliases",
			args: []string{
				"-server", "https://vault.test",
				"-config", "/tmp/config.json",
			},
			expected: &ClientConfig{
				Server:       Server{BaseURL: "https://vault.test"},
				JSONFilePath: "/tmp/config.json",
			},
		},
		{
			name:     "no flags",
			args:     []string{},
			expected: &ClientConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flag.CommandLine for each test
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

			// Set os.Args to simulate command line arguments
			oldArgs := os.Args
			os.Args = append([]string{"cmd"}, tt.args...)
			defer func() { os.Args = oldArgs }()

			cfg := ParseFlags()
			assert.Equal(t, tt.expected, cfg)
		})
	}
}
