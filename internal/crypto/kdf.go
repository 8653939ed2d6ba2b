// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/mlevkov/go-vault-client/models"
)

// kdfKeyLen is the output length of every derivation: 32 bytes (256 bits),
// matching the AES-256 key size used throughout the vault.
const kdfKeyLen = 32

// keychain is the private implementation of [Keychain].
type keychain struct{}

// NewKeychain constructs the production [Keychain].
func NewKeychain() Keychain {
	return &keychain{}
}

// DeriveKeys implements [Keychain]. The derivation mirrors the server's
// scheme exactly:
//
//	iterations == 1: vaultKey = SHA-256(SHA-256(email ‖ password) ‖ password)
//	iterations  > 1: vaultKey = PBKDF2-HMAC-SHA-256(password, lower(email), iterations, 32)
//	loginHash       = hex(PBKDF2-HMAC-SHA-256(vaultKey, password, 1, 32))
//
// The single-iteration branch is the legacy pre-PBKDF2 scheme, a one-shot
// hash rather than iterative stretching. The configured iteration count
// always runs to completion; account data was encrypted under that exact
// key, so there is no early exit.
func (k *keychain) DeriveKeys(email string, password []byte, iterations int) (models.KeyPair, error) {
	if iterations < 1 {
		return models.KeyPair{}, fmt.Errorf("key derivation: iteration count must be positive, got %d", iterations)
	}

	var vaultKey []byte
	if iterations == 1 {
		inner := sha256.Sum256(append([]byte(email), password...))
		outer := sha256.Sum256(append(inner[:], password...))
		vaultKey = outer[:]
	} else {
		salt := []byte(strings.ToLower(email))
		vaultKey = pbkdf2.Key(password, salt, iterations, kdfKeyLen, sha256.New)
	}

	loginHash := pbkdf2.Key(vaultKey, password, 1, kdfKeyLen, sha256.New)

	return models.KeyPair{
		LoginHashHex: hex.EncodeToString(loginHash),
		VaultKey:     vaultKey,
	}, nil
}

// SessionStorageKey derives the key under which the at-rest session record
// is encrypted: one PBKDF2 pass with the vault key as password and the
// lowercased username as salt. A distinct derivation keeps the session
// file key domain-separated from the vault key itself.
func SessionStorageKey(vaultKey []byte, username string) []byte {
	return pbkdf2.Key(vaultKey, []byte(strings.ToLower(username)), 1, kdfKeyLen, sha256.New)
}

// Wipe overwrites b with zeros. Best-effort secret hygiene for
// intermediate key buffers; the garbage collector gives no hard guarantee.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
