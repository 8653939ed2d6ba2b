// SPDX-License-Identifier: Apache-2.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_EnvWinsOverLaterSources(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&ClientConfig{Server: Server{BaseURL: "https://from-env.test"}},
		&ClientConfig{Server: Server{BaseURL: "https://from-flags.test", RequestTimeout: time.Minute}},
	)
	b.configs = append(b.configs, defaultConfig())

	cfg, err := b.build()
	require.NoError(t, err)

	// Earlier sources win; later ones only fill what is still zero.
	assert.Equal(t, "https://from-env.test", cfg.Server.BaseURL)
	assert.Equal(t, time.Minute, cfg.Server.RequestTimeout)
	assert.Equal(t, defaultSyncInterval, cfg.Workers.SyncInterval)
}

func TestBuild_DefaultsAlone(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, defaultConfig())

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, defaultBaseURL, cfg.Server.BaseURL)
	assert.Equal(t, defaultRequestTimeout, cfg.Server.RequestTimeout)
	assert.NotEmpty(t, cfg.Session.Path)
	assert.NotEmpty(t, cfg.Cache.DB.DSN)
}

func TestBuild_PropagatesSourceError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	_, err := b.build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error occured during building config")
}

func TestValidate(t *testing.T) {
	base := func() *ClientConfig {
		return &ClientConfig{
			Server:  Server{BaseURL: "https://vault.test", RequestTimeout: 30 * time.Second},
			Session: SessionStore{Path: "/tmp/session"},
			Cache:   Cache{DB: CacheDB{DSN: "/tmp/cache.db"}},
			Workers: Workers{SyncInterval: 5 * time.Minute},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*ClientConfig)
		wantErr error
	}{
		{name: "valid", mutate: func(*ClientConfig) {}, wantErr: nil},
		{
			name:    "sync disabled is valid",
			mutate:  func(c *ClientConfig) { c.Workers.SyncInterval = 0 },
			wantErr: nil,
		},
		{
			name:    "relative server URL",
			mutate:  func(c *ClientConfig) { c.Server.BaseURL = "vault.test" },
			wantErr: ErrInvalidServerConfigs,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *ClientConfig) { c.Server.RequestTimeout = 0 },
			wantErr: ErrInvalidServerConfigs,
		},
		{
			name:    "empty session path",
			mutate:  func(c *ClientConfig) { c.Session.Path = "" },
			wantErr: ErrInvalidSessionConfigs,
		},
		{
			name:    "empty cache DSN",
			mutate:  func(c *ClientConfig) { c.Cache.DB.DSN = "" },
			wantErr: ErrInvalidCacheConfigs,
		},
		{
			name:    "negative sync interval",
			mutate:  func(c *ClientConfig) { c.Workers.SyncInterval = -time.Second },
			wantErr: ErrInvalidWorkerConfigs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
