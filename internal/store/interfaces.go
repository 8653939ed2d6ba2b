// SPDX-License-Identifier: Apache-2.0

// Package store keeps the last fetched vault blob on disk so the client
// can still open the vault when the server is unreachable. Only opaque
// ciphertext is cached; nothing in the cache is readable without the
// user's master password.
package store

import (
	"context"
	"time"
)

// CachedBlob is a previously fetched vault blob together with the time
// it was fetched from the server.
type CachedBlob struct {
	Username  string
	Blob      []byte
	FetchedAt time.Time
}

// VaultCache persists encrypted vault blobs and attachment bodies
// between sessions.
type VaultCache interface {
	SaveBlob(ctx context.Context, username string, blob []byte) error
	LoadBlob(ctx context.Context, username string) (*CachedBlob, error)
	SaveAttachment(ctx context.Context, username, storageKey string, body []byte) error
	LoadAttachment(ctx context.Context, storageKey string) ([]byte, error)
	Clear(ctx context.Context, username string) error
}
