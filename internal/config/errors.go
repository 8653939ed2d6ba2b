package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidServerConfigs indicates invalid vault server settings
	// (for example, a base URL that does not parse or a negative timeout).
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidSessionConfigs indicates invalid session settings
	// (for example, an empty session file path).
	ErrInvalidSessionConfigs = errors.New("invalid session configuration")
	// ErrInvalidCacheConfigs indicates invalid offline cache settings
	// (for example, an empty DSN).
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a negative sync interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
