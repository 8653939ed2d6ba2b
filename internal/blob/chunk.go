// SPDX-License-Identifier: Apache-2.0

// Package blob reconstructs the plaintext entity graph from the opaque
// binary vault downloaded from the server.
//
// The wire format is a sequence of chunks with no overall trailer:
//
//	tag (4 ASCII bytes) ‖ length (4 bytes, big-endian) ‖ payload
//
// Within recognised payloads, sub-fields are themselves length-prefixed
// byte strings in a fixed, tag-implied order. A decoder must skip any
// chunk whose tag it does not recognise using only the length field, so
// newer server-side chunk types never break older clients.
package blob

import (
	"encoding/binary"
	"fmt"
)

// Chunk tags emitted by the server and recognised by the decoder.
const (
	tagAccount      = "ACCT"
	tagAccountField = "ACFL"
	tagShare        = "SHAR"
	tagAttachment   = "ATTA"
	tagLocalStorage = "LOCL"
)

// Per-field encoding flag, the first byte of every encryptable field.
// The decoder, not the cipher, reads the flag and routes the remaining
// bytes to the matching primitive.
const (
	EncodingPlain     byte = 0 // no encryption, bytes are the value
	EncodingCBC       byte = 1 // AES-CBC, raw IV ‖ ciphertext
	EncodingCBCBase64 byte = 2 // AES-CBC, base64(IV) '|' base64(ct)
	EncodingECB       byte = 3 // AES-ECB, pre-CBC legacy fields
)

const chunkHeaderLen = 8

// chunk is one tagged, length-prefixed unit of the stream.
type chunk struct {
	tag     string
	payload []byte
}

// chunkReader walks the blob strictly sequentially. The payload slices it
// hands out alias the underlying buffer; the decoder never mutates them.
type chunkReader struct {
	buf []byte
	off int
}

// next returns the following chunk, or done=true on clean exhaustion.
// A partial header or a declared length exceeding the remaining bytes is
// a malformed stream, not a silent truncation.
func (r *chunkReader) next() (c chunk, done bool, err error) {
	if r.off == len(r.buf) {
		return chunk{}, true, nil
	}
	if len(r.buf)-r.off < chunkHeaderLen {
		return chunk{}, false, fmt.Errorf("%w: %d trailing bytes, chunk header needs %d",
			ErrMalformedBlob, len(r.buf)-r.off, chunkHeaderLen)
	}

	tag := string(r.buf[r.off : r.off+4])
	size := binary.BigEndian.Uint32(r.buf[r.off+4 : r.off+8])
	r.off += chunkHeaderLen

	if uint32(len(r.buf)-r.off) < size {
		return chunk{}, false, fmt.Errorf("%w: chunk %q declares %d bytes, %d remain",
			ErrMalformedBlob, tag, size, len(r.buf)-r.off)
	}

	payload := r.buf[r.off : r.off+int(size)]
	r.off += int(size)

	return chunk{tag: tag, payload: payload}, false, nil
}

// itemReader walks the length-prefixed sub-fields of one chunk payload.
type itemReader struct {
	buf []byte
	off int
}

// next returns the following field value. A cleanly exhausted payload
// yields nil with no error, so decoders tolerate servers that omit
// trailing fields; a length overrunning the payload is malformed.
func (r *itemReader) next() ([]byte, error) {
	if r.off == len(r.buf) {
		return nil, nil
	}
	if len(r.buf)-r.off < 4 {
		return nil, fmt.Errorf("%w: %d trailing bytes, field length needs 4",
			ErrMalformedBlob, len(r.buf)-r.off)
	}

	size := binary.BigEndian.Uint32(r.buf[r.off : r.off+4])
	r.off += 4

	if uint32(len(r.buf)-r.off) < size {
		return nil, fmt.Errorf("%w: field declares %d bytes, %d remain in chunk",
			ErrMalformedBlob, size, len(r.buf)-r.off)
	}

	item := r.buf[r.off : r.off+int(size)]
	r.off += int(size)

	return item, nil
}
