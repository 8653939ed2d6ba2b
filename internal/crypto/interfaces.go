package crypto

import (
	"crypto/rsa"

	"github.com/mlevkov/go-vault-client/models"
)

// Keychain gathers every cryptographic primitive the client needs: key
// derivation from the master password, the symmetric ciphers applied to
// vault fields, and the asymmetric unwrap of shared-folder keys.
// It knows nothing about the network, the blob layout, or storage.
//
// All methods are pure: no I/O, no retained state beyond returning bytes
// or signalling failure.
type Keychain interface {
	// DeriveKeys turns (email, master password, iteration count) into the
	// login hash sent to the server and the 256-bit vault key used to
	// decrypt fields. The iteration count must be the server-reported one;
	// a wrong count yields keys the server silently rejects, never a local
	// error. iterations < 1 is an input error.
	DeriveKeys(email string, password []byte, iterations int) (models.KeyPair, error)

	// DecryptAESCBC decrypts an AES-256-CBC ciphertext with key. Both
	// on-wire encodings are accepted: raw bytes with a 16-byte IV
	// prepended, and the base64 form where IV and ciphertext are encoded
	// separately and joined with '|'. Returns ErrDecryption (wrapped) on
	// padding or format mismatch.
	DecryptAESCBC(ciphertext, key []byte) ([]byte, error)

	// EncryptAESCBC encrypts plaintext with AES-256-CBC under a random IV
	// and returns IV ‖ ciphertext (the raw on-wire encoding).
	EncryptAESCBC(plaintext, key []byte) ([]byte, error)

	// EncryptAESCBCBase64 encrypts like EncryptAESCBC but emits the
	// base64 text encoding: base64(IV) '|' base64(ciphertext).
	EncryptAESCBCBase64(plaintext, key []byte) ([]byte, error)

	// DecryptAESECB decrypts a legacy AES-256-ECB ciphertext (fields
	// created before the CBC migration carry no IV).
	DecryptAESECB(ciphertext, key []byte) ([]byte, error)

	// EncryptAESECB encrypts plaintext in the legacy ECB form.
	EncryptAESECB(plaintext, key []byte) ([]byte, error)

	// DecryptShareKey unwraps a shared-folder key: PKCS#1 v1.5 RSA
	// decryption of ciphertext with priv, whose plaintext is the
	// hex-encoded 32-byte symmetric key of the folder.
	DecryptShareKey(ciphertext []byte, priv *rsa.PrivateKey) ([]byte, error)

	// DecryptPrivateKey recovers the user's RSA private key, which the
	// server stores AES-CBC-encrypted under the vault key (PKCS#8 DER
	// inside). Called lazily on the first shared-folder chunk of a decode
	// pass and cached by the caller.
	DecryptPrivateKey(encrypted, vaultKey []byte) (*rsa.PrivateKey, error)
}
