package blob

import "errors"

// ErrMalformedBlob indicates a chunk-length inconsistency in the vault
// stream. It is fatal for the whole decode: once alignment is lost the
// graph cannot be trusted, so no partial result is returned.
var ErrMalformedBlob = errors.New("malformed blob")
