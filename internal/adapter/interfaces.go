// SPDX-License-Identifier: Apache-2.0

// Package adapter provides the transport layer for communicating with the
// vault server.
//
// The primary abstraction is [ServerAdapter], which decouples the service
// layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]); the core never issues HTTP
// requests itself and treats the downloaded blob as a value in hand.
//
// Error values defined in errors.go are mapped from server responses by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrTwoFactorRequired] when the server demands an
// OTP, [ErrLoginFailed] for rejected credentials).
package adapter

import (
	"context"

	"github.com/mlevkov/go-vault-client/models"
)

// LoginRequest carries everything the login endpoint needs. The master
// password itself never appears here: only the derived login hash is
// transmitted.
type LoginRequest struct {
	// Email is the account identifier.
	Email string `json:"email"`

	// LoginHashHex proves knowledge of the master password.
	LoginHashHex string `json:"login_hash"`

	// Iterations echoes the server-reported work factor the hash was
	// derived with, letting the server detect stale counts.
	Iterations int `json:"iterations"`

	// OTP is the one-time code, set only when the server demanded one.
	OTP string `json:"otp,omitempty"`

	// TrustDevice asks the server to skip the OTP prompt next time.
	TrustDevice bool `json:"trust_device,omitempty"`
}

// ServerAdapter defines transport-agnostic communication with the vault
// server. Implementations are responsible for serialisation, session
// header management, and mapping transport-level errors to the sentinel
// values defined in this package.
type ServerAdapter interface {
	// RequestIterations fetches the PBKDF2 iteration count registered
	// for email. The count must be obtained before any key derivation;
	// deriving with a stale count produces a login hash the server
	// silently rejects.
	RequestIterations(ctx context.Context, email string) (int, error)

	// Login authenticates with the pre-computed login hash. On success
	// the returned session carries the opaque token and the user's
	// AES-encrypted RSA private key. Returns [ErrTwoFactorRequired]
	// (wrapped) when the server demands an OTP and [ErrLoginFailed] for
	// rejected credentials, reporting no more detail than the server
	// itself disclosed.
	Login(ctx context.Context, req LoginRequest) (models.Session, error)

	// FetchBlob downloads the full encrypted vault for the session.
	// The returned bytes are the raw chunk stream, ready for decoding.
	FetchBlob(ctx context.Context, token string) ([]byte, error)

	// FetchAttachment downloads one encrypted attachment body by its
	// storage reference. Decryption is the caller's concern.
	FetchAttachment(ctx context.Context, token, storageKey string) ([]byte, error)

	// Logout invalidates the session server-side.
	Logout(ctx context.Context, token string) error
}
