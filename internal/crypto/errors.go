package crypto

import "errors"

// ErrDecryption indicates a padding or format failure on a specific
// ciphertext. Callers match it with errors.Is; the blob decoder degrades
// a per-field ErrDecryption to an empty value instead of aborting.
var ErrDecryption = errors.New("decryption failed")
