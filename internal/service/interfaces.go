// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"time"

	"github.com/mlevkov/go-vault-client/models"
)

// AuthService defines the client-side contract for signing in to the vault
// server. Implementations own the full login sequence: iteration count
// lookup, key derivation, credential exchange, and session persistence.
type AuthService interface {
	// Login authenticates against the server with the master password.
	// It fetches the account's PBKDF2 iteration count, derives the login
	// hash and vault key, exchanges the hash for a session token, and
	// persists the session encrypted at rest. otp is forwarded when the
	// server demands a one-time code; trustDevice asks it to stop asking.
	// The master password never leaves the process.
	Login(ctx context.Context, email string, password []byte, otp string, trustDevice bool) (models.Session, models.KeyPair, error)

	// Resume re-opens a previously persisted session without contacting
	// the server: the iteration count is read from the local session
	// record, keys are re-derived from the password, and the encrypted
	// session is unlocked. Returns session.ErrSessionNotFound when
	// nothing was persisted.
	Resume(ctx context.Context, email string, password []byte) (models.Session, models.KeyPair, error)

	// Logout invalidates the session server-side and removes the local
	// session record and cached vault data. Local cleanup runs even if
	// the server call fails.
	Logout(ctx context.Context, sess models.Session) error
}

// VaultService defines the contract for obtaining and decoding the user's
// vault.
type VaultService interface {
	// Fetch downloads the encrypted vault blob, decodes it into the
	// entity graph, and caches the raw blob for offline use. When the
	// server is unreachable it falls back to the cached blob.
	Fetch(ctx context.Context, sess models.Session, keys models.KeyPair) (*models.Vault, error)

	// FetchOffline decodes the most recently cached blob without any
	// network access. Returns store.ErrBlobNotCached when nothing has
	// been cached for the user.
	FetchOffline(ctx context.Context, sess models.Session, keys models.KeyPair) (*models.Vault, error)

	// Attachment returns the decrypted body of one attachment. The body
	// is served from the local cache when present, otherwise downloaded
	// and cached. Decryption uses the owning account's attachment key.
	Attachment(ctx context.Context, sess models.Session, acct *models.Account, att models.Attachment) ([]byte, error)
}

// SyncService holds the live vault snapshot and refreshes it from the
// server. Every refresh replaces the snapshot wholesale; nothing is merged.
type SyncService interface {
	// SetCredentials arms the service with the session and keys obtained
	// at login. Must be called before the first FullSync.
	SetCredentials(sess models.Session, keys models.KeyPair)

	// FullSync refetches and redecodes the vault, then swaps the
	// snapshot. Returns ErrNotLoggedIn before SetCredentials.
	FullSync(ctx context.Context) error

	// Vault returns the current snapshot, or nil before the first
	// successful FullSync. The returned graph is read-only.
	Vault() *models.Vault
}

// SyncJob defines the contract for a background worker that periodically
// calls FullSync for the authenticated user.
type SyncJob interface {
	// Start launches the background sync goroutine, syncing every
	// interval. A zero or negative interval disables the job. Any
	// previously running job is stopped before the new one begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it
	// has fully terminated.
	Stop()
}
