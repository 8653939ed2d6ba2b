// SPDX-License-Identifier: Apache-2.0

package config

import (
	"net/url"
)

// validate checks that the final merged [ClientConfig] satisfies all client
// invariants before it is used at startup.
func (cfg *ClientConfig) validate() error {
	u, err := url.Parse(cfg.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidServerConfigs
	}
	if cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Session.Path == "" {
		return ErrInvalidSessionConfigs
	}

	if cfg.Cache.DB.DSN == "" {
		return ErrInvalidCacheConfigs
	}

	// Zero disables periodic sync; negative makes no sense.
	if cfg.Workers.SyncInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}
