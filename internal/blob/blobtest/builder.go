// Package blobtest assembles wire-format vault blobs for tests. It lives
// outside the production decode path; fixtures built here exercise the
// same byte layout the server emits.
package blobtest

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"testing"

	"github.com/mlevkov/go-vault-client/internal/blob"
	"github.com/mlevkov/go-vault-client/internal/crypto"
)

// Builder accumulates chunks in stream order.
type Builder struct {
	buf bytes.Buffer
}

func New() *Builder {
	return &Builder{}
}

// Chunk appends one tag ‖ length ‖ payload unit. The tag must be exactly
// four ASCII bytes.
func (b *Builder) Chunk(tag string, payload []byte) *Builder {
	if len(tag) != 4 {
		panic("blobtest: chunk tag must be 4 bytes: " + tag)
	}
	b.buf.WriteString(tag)
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(payload)))
	b.buf.Write(size[:])
	b.buf.Write(payload)
	return b
}

// RawChunkHeader appends a header that declares size bytes without
// writing a payload, producing a malformed stream on purpose.
func (b *Builder) RawChunkHeader(tag string, size uint32) *Builder {
	b.buf.WriteString(tag)
	var s [4]byte
	binary.BigEndian.PutUint32(s[:], size)
	b.buf.Write(s[:])
	return b
}

func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

// Payload accumulates the length-prefixed sub-fields of one chunk.
type Payload struct {
	buf bytes.Buffer
}

func NewPayload() *Payload {
	return &Payload{}
}

// Item appends one length-prefixed byte string.
func (p *Payload) Item(data []byte) *Payload {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(data)))
	p.buf.Write(size[:])
	p.buf.Write(data)
	return p
}

// String appends a plaintext metadata field (no encoding flag).
func (p *Payload) String(s string) *Payload {
	return p.Item([]byte(s))
}

// Flag appends the server's "1"/"0" boolean form.
func (p *Payload) Flag(v bool) *Payload {
	if v {
		return p.String("1")
	}
	return p.String("0")
}

// Flagged appends an encryptable field: encoding flag byte followed by
// the (possibly encrypted) data.
func (p *Payload) Flagged(flag byte, data []byte) *Payload {
	return p.Item(append([]byte{flag}, data...))
}

func (p *Payload) Bytes() []byte {
	return p.buf.Bytes()
}

// Account describes one ACCT fixture. Zero-value string fields become
// empty items; Encoding selects how the encryptable fields are written
// (the zero value writes them plaintext-flagged).
type Account struct {
	ID       string
	Name     string
	Group    string
	URL      string
	Notes    string
	Username string
	Password string

	PwProtect     bool
	Generated     bool
	ShareID       string
	LastTouch     string
	AttachKey     string
	AttachPresent bool
	LastModified  string

	Encoding byte
}

// Chunk renders the fixture as a full ACCT chunk with every encryptable
// field encrypted under key.
func (a Account) Chunk(t *testing.T, kc crypto.Keychain, key []byte) []byte {
	t.Helper()

	enc := a.Encoding

	p := NewPayload().String(a.ID)
	for _, v := range []string{a.Name, a.Group, a.URL, a.Notes, a.Username, a.Password} {
		appendEncrypted(t, p, kc, key, enc, v)
	}
	p.Flag(a.PwProtect).
		Flag(a.Generated).
		String(a.ShareID).
		String(a.LastTouch)
	appendEncrypted(t, p, kc, key, enc, a.AttachKey)
	p.Flag(a.AttachPresent).
		String(a.LastModified)

	return New().Chunk("ACCT", p.Bytes()).Bytes()
}

func appendEncrypted(t *testing.T, p *Payload, kc crypto.Keychain, key []byte, encoding byte, value string) {
	t.Helper()

	if value == "" {
		p.Item(nil)
		return
	}

	switch encoding {
	case blob.EncodingPlain:
		p.Flagged(blob.EncodingPlain, []byte(value))
	case blob.EncodingCBC:
		ct, err := kc.EncryptAESCBC([]byte(value), key)
		if err != nil {
			t.Fatalf("blobtest: encrypt cbc: %v", err)
		}
		p.Flagged(blob.EncodingCBC, ct)
	case blob.EncodingCBCBase64:
		ct, err := kc.EncryptAESCBCBase64([]byte(value), key)
		if err != nil {
			t.Fatalf("blobtest: encrypt cbc base64: %v", err)
		}
		p.Flagged(blob.EncodingCBCBase64, ct)
	case blob.EncodingECB:
		ct, err := kc.EncryptAESECB([]byte(value), key)
		if err != nil {
			t.Fatalf("blobtest: encrypt ecb: %v", err)
		}
		p.Flagged(blob.EncodingECB, ct)
	default:
		t.Fatalf("blobtest: unknown encoding %d", encoding)
	}
}

// ShareChunk renders a SHAR chunk: the 32-byte shareKey is hex-encoded,
// RSA-wrapped with pub, and the folder name encrypted under shareKey.
func ShareChunk(t *testing.T, kc crypto.Keychain, pub *rsa.PublicKey, id, name string, shareKey []byte, readonly bool) []byte {
	t.Helper()

	wrapped, err := rsa.EncryptPKCS1v15(rand.Reader, pub, []byte(hex.EncodeToString(shareKey)))
	if err != nil {
		t.Fatalf("blobtest: wrap share key: %v", err)
	}

	nameCT, err := kc.EncryptAESCBC([]byte(name), shareKey)
	if err != nil {
		t.Fatalf("blobtest: encrypt share name: %v", err)
	}

	p := NewPayload().
		String(id).
		Flagged(blob.EncodingCBC, nameCT).
		Item(wrapped).
		Flag(readonly)

	return New().Chunk("SHAR", p.Bytes()).Bytes()
}

// FieldChunk renders an ACFL custom-field chunk encrypted under key.
func FieldChunk(t *testing.T, kc crypto.Keychain, key []byte, accountID, name, typ, value string, checked bool) []byte {
	t.Helper()

	nameCT, err := kc.EncryptAESCBC([]byte(name), key)
	if err != nil {
		t.Fatalf("blobtest: encrypt field name: %v", err)
	}
	valueCT, err := kc.EncryptAESCBC([]byte(value), key)
	if err != nil {
		t.Fatalf("blobtest: encrypt field value: %v", err)
	}

	p := NewPayload().
		String(accountID).
		Flagged(blob.EncodingCBC, nameCT).
		String(typ).
		Flagged(blob.EncodingCBC, valueCT).
		Flag(checked)

	return New().Chunk("ACFL", p.Bytes()).Bytes()
}

// AttachmentChunk renders an ATTA metadata chunk.
func AttachmentChunk(id, parentID, mime, storageKey string, size int64, filename string) []byte {
	p := NewPayload().
		String(id).
		String(parentID).
		String(mime).
		String(storageKey).
		String(strconv.FormatInt(size, 10)).
		String(filename)

	return New().Chunk("ATTA", p.Bytes()).Bytes()
}

// Keys bundles the RSA material a share fixture needs.
type Keys struct {
	Private             *rsa.PrivateKey
	EncryptedPrivateKey []byte
}

// GenerateKeys produces an RSA key pair and its at-rest form: PKCS#8 DER
// AES-CBC-encrypted under vaultKey, the way the server stores it.
func GenerateKeys(t *testing.T, kc crypto.Keychain, vaultKey []byte) Keys {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("blobtest: generate rsa key: %v", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		t.Fatalf("blobtest: marshal pkcs8: %v", err)
	}

	enc, err := kc.EncryptAESCBC(der, vaultKey)
	if err != nil {
		t.Fatalf("blobtest: encrypt private key: %v", err)
	}

	return Keys{Private: priv, EncryptedPrivateKey: enc}
}
