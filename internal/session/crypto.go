// SPDX-License-Identifier: Apache-2.0

// Package session owns the encryption contract and on-disk bookkeeping of
// the persisted session record: the token, username, iteration count,
// encrypted RSA private key and trust flag that survive between runs so
// the user does not re-authenticate every time.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mlevkov/go-vault-client/internal/crypto"
	"github.com/mlevkov/go-vault-client/models"
)

var (
	// ErrInvalidSession indicates a corrupted or tampered persisted
	// session. Callers must fall back to a fresh login, never crash.
	ErrInvalidSession = errors.New("invalid session record")

	// ErrSessionNotFound indicates that no session has been persisted yet.
	ErrSessionNotFound = errors.New("session record not found")
)

// Crypto encrypts and decrypts the small at-rest session record with
// AES-CBC under a storage key derived from the vault key (see
// [crypto.SessionStorageKey]).
type Crypto struct {
	keychain crypto.Keychain
}

func NewCrypto(keychain crypto.Keychain) *Crypto {
	return &Crypto{keychain: keychain}
}

// Encrypt serialises rec and encrypts it for storage.
func (c *Crypto) Encrypt(rec models.Session, vaultKey []byte) ([]byte, error) {
	key := crypto.SessionStorageKey(vaultKey, rec.Username)
	defer crypto.Wipe(key)

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode session record: %w", err)
	}
	defer crypto.Wipe(payload)

	blob, err := c.keychain.EncryptAESCBC(payload, key)
	if err != nil {
		return nil, fmt.Errorf("encrypt session record: %w", err)
	}
	return blob, nil
}

// Decrypt recovers the session record persisted for username. Any
// failure - bad padding, garbage JSON, or a record written for a
// different user - degrades to ErrInvalidSession so the caller can run
// the re-login flow.
func (c *Crypto) Decrypt(blob []byte, vaultKey []byte, username string) (models.Session, error) {
	key := crypto.SessionStorageKey(vaultKey, username)
	defer crypto.Wipe(key)

	payload, err := c.keychain.DecryptAESCBC(blob, key)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	defer crypto.Wipe(payload)

	var rec models.Session
	if err := json.Unmarshal(payload, &rec); err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if !strings.EqualFold(rec.Username, username) {
		return models.Session{}, fmt.Errorf("%w: record belongs to %q", ErrInvalidSession, rec.Username)
	}

	return rec, nil
}
