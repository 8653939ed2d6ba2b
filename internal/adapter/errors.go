package adapter

import "errors"

var (
	// ErrLoginFailed indicates the server rejected the credentials: a
	// wrong password, a wrong iteration count, or a locked account all
	// surface identically, exactly as the server reported them.
	ErrLoginFailed = errors.New("login failed")

	// ErrTwoFactorRequired indicates the server demands a one-time code
	// before it will issue a session. Not itself a failure: the caller
	// retries the login with the OTP attached.
	ErrTwoFactorRequired = errors.New("two-factor code required")

	// ErrUnauthorized indicates an expired or invalidated session token
	// on an authenticated endpoint.
	ErrUnauthorized = errors.New("session unauthorized")

	// ErrNotFound indicates the requested resource does not exist
	// (for example an attachment storage key that was rotated away).
	ErrNotFound = errors.New("not found")
)
