// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"VAULT_CONFIG": "/path/to/config.json",

		"VAULT_SERVER_URL":             "https://vault.test:8443",
		"VAULT_SERVER_REQUEST_TIMEOUT": "30s",

		"VAULT_SESSION_PATH": "/home/kate/.vault-client/session",

		// Cache has a nested prefix: CACHE_ + DB_
		"VAULT_CACHE_DB_DSN": "/home/kate/.vault-client/cache.db",

		"VAULT_WORKERS_SYNC_INTERVAL": "5m",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &ClientConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "https://vault.test:8443", cfg.Server.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "/home/kate/.vault-client/session", cfg.Session.Path)
	assert.Equal(t, "/home/kate/.vault-client/cache.db", cfg.Cache.DB.DSN)
	assert.Equal(t, 5*time.Minute, cfg.Workers.SyncInterval)
}

func TestParseEnv_PartialFields(t *testing.T) {
	setEnvVars(t, map[string]string{
		"VAULT_SERVER_URL": "https://vault.test",
	})

	cfg := &ClientConfig{}
	err := parseEnv(cfg)

	require.NoError(t, err)
	assert.Equal(t, "https://vault.test", cfg.Server.BaseURL)
	assert.Zero(t, cfg.Server.RequestTimeout)
	assert.Empty(t, cfg.Session.Path)
	assert.Empty(t, cfg.Cache.DB.DSN)
}

func TestParseEnv_BadDuration(t *testing.T) {
	setEnvVars(t, map[string]string{
		"VAULT_SERVER_REQUEST_TIMEOUT": "not-a-duration",
	})

	cfg := &ClientConfig{}
	err := parseEnv(cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}

func TestParseEnv_UnprefixedVariablesIgnored(t *testing.T) {
	setEnvVars(t, map[string]string{
		"SERVER_URL": "https://wrong.example.com",
	})
	t.Cleanup(func() { _ = os.Unsetenv("SERVER_URL") })

	cfg := &ClientConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Empty(t, cfg.Server.BaseURL)
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"VAULT_CONFIG",
		"VAULT_SERVER_URL",
		"VAULT_SERVER_REQUEST_TIMEOUT",
		"VAULT_SESSION_PATH",
		"VAULT_CACHE_DB_DSN",
		"VAULT_WORKERS_SYNC_INTERVAL",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
