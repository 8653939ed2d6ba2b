package models

// Session holds the server-issued state established by a successful login.
// It is persisted at rest only in encrypted form (see internal/session).
type Session struct {
	// Token is the opaque session identifier issued by the server.
	// Sent back on every authenticated request.
	Token string `json:"token"`

	// Username is the account email the session belongs to.
	Username string `json:"username"`

	// Iterations is the PBKDF2 work factor the server reported for this
	// account. Cached so the vault key can be re-derived without an extra
	// round trip.
	Iterations int `json:"iterations"`

	// EncryptedPrivateKey is the user's RSA private key as stored by the
	// server: AES-encrypted under the vault key. Decrypted lazily the
	// first time a shared folder is encountered during a blob decode.
	EncryptedPrivateKey []byte `json:"encrypted_private_key,omitempty"`

	// Trusted reports whether this device was marked as trusted, which
	// lets the server skip the OTP prompt on subsequent logins.
	Trusted bool `json:"trusted,omitempty"`
}

// KeyPair bundles the two values produced by one key derivation pass.
type KeyPair struct {
	// LoginHashHex is the hex-encoded login hash sent to the server to
	// prove knowledge of the master password without transmitting it.
	LoginHashHex string

	// VaultKey is the 256-bit symmetric key used to decrypt vault fields.
	// Held only in process memory, never serialized in plaintext.
	VaultKey []byte
}
