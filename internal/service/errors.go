package service

import "errors"

var (
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrVaultUnavailable = errors.New("vault unavailable")
	ErrNoAttachmentKey  = errors.New("account has no attachment key")
)
