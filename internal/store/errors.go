package store

import "errors"

var (
	// ErrBlobNotCached is returned when no vault blob has been cached
	// for the requested user.
	ErrBlobNotCached = errors.New("vault blob not cached")

	// ErrAttachmentNotCached is returned when the requested attachment
	// body is absent from the local cache.
	ErrAttachmentNotCached = errors.New("attachment not cached")
)
