// SPDX-License-Identifier: Apache-2.0

package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
)

// base64Separator joins the base64-encoded IV and ciphertext halves in the
// text encoding of CBC values: base64(IV) '|' base64(ciphertext).
const base64Separator = '|'

// DecryptAESCBC implements [Keychain]. The wire carries two historical
// encodings of the same construction; both must be accepted:
//
//	raw:    IV (16 bytes) ‖ ciphertext
//	base64: base64(IV) '|' base64(ciphertext)
//
// The base64 form is detected by the presence of the separator byte with
// both halves decoding cleanly; anything else is treated as raw.
func (k *keychain) DecryptAESCBC(ciphertext, key []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, nil
	}

	iv, ct, ok := splitBase64Encoding(ciphertext)
	if !ok {
		if len(ciphertext) < 2*aes.BlockSize {
			return nil, fmt.Errorf("%w: cbc ciphertext too short (%d bytes)", ErrDecryption, len(ciphertext))
		}
		iv, ct = ciphertext[:aes.BlockSize], ciphertext[aes.BlockSize:]
	}

	if len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: cbc ciphertext length %d is not a block multiple", ErrDecryption, len(ct))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("%w: iv length %d, want %d", ErrDecryption, len(iv), aes.BlockSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	plaintext := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ct)

	return pkcs7Unpad(plaintext)
}

// EncryptAESCBC implements [Keychain]. Output is IV ‖ ciphertext with a
// random 16-byte IV, the raw on-wire encoding.
func (k *keychain) EncryptAESCBC(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}

	padded := pkcs7Pad(plaintext)
	out := make([]byte, aes.BlockSize+len(padded))
	copy(out, iv)
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)

	return out, nil
}

// EncryptAESCBCBase64 implements [Keychain].
func (k *keychain) EncryptAESCBCBase64(plaintext, key []byte) ([]byte, error) {
	raw, err := k.EncryptAESCBC(plaintext, key)
	if err != nil {
		return nil, err
	}

	iv, ct := raw[:aes.BlockSize], raw[aes.BlockSize:]
	out := make([]byte, 0, base64.StdEncoding.EncodedLen(len(iv))+1+base64.StdEncoding.EncodedLen(len(ct)))
	out = base64.StdEncoding.AppendEncode(out, iv)
	out = append(out, base64Separator)
	out = base64.StdEncoding.AppendEncode(out, ct)

	return out, nil
}

// DecryptAESECB implements [Keychain]. ECB carries no IV; each block is
// decrypted independently. Kept only for fields written before the CBC
// migration.
func (k *keychain) DecryptAESECB(ciphertext, key []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, nil
	}
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ecb ciphertext length %d is not a block multiple", ErrDecryption, len(ciphertext))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += aes.BlockSize {
		block.Decrypt(plaintext[i:i+aes.BlockSize], ciphertext[i:i+aes.BlockSize])
	}

	return pkcs7Unpad(plaintext)
}

// EncryptAESECB implements [Keychain].
func (k *keychain) EncryptAESECB(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	padded := pkcs7Pad(plaintext)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += aes.BlockSize {
		block.Encrypt(out[i:i+aes.BlockSize], padded[i:i+aes.BlockSize])
	}

	return out, nil
}

// DecryptShareKey implements [Keychain]. The RSA plaintext is the
// hex-encoded 32-byte folder key, so a successful unwrap always yields
// exactly 64 hex characters.
func (k *keychain) DecryptShareKey(ciphertext []byte, priv *rsa.PrivateKey) ([]byte, error) {
	hexKey, err := rsa.DecryptPKCS1v15(nil, priv, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: rsa unwrap share key: %v", ErrDecryption, err)
	}
	defer Wipe(hexKey)

	key := make([]byte, hex.DecodedLen(len(hexKey)))
	if _, err := hex.Decode(key, hexKey); err != nil {
		return nil, fmt.Errorf("%w: share key is not hex: %v", ErrDecryption, err)
	}
	if len(key) != kdfKeyLen {
		return nil, fmt.Errorf("%w: share key length %d, want %d", ErrDecryption, len(key), kdfKeyLen)
	}

	return key, nil
}

// DecryptPrivateKey implements [Keychain]. The stored form is the PKCS#8
// DER of the user's RSA key, AES-CBC-encrypted under the vault key.
func (k *keychain) DecryptPrivateKey(encrypted, vaultKey []byte) (*rsa.PrivateKey, error) {
	der, err := k.DecryptAESCBC(encrypted, vaultKey)
	if err != nil {
		return nil, fmt.Errorf("decrypt private key: %w", err)
	}
	defer Wipe(der)

	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("%w: parse private key: %v", ErrDecryption, err)
	}

	priv, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: private key is %T, want *rsa.PrivateKey", ErrDecryption, parsed)
	}

	return priv, nil
}

// splitBase64Encoding recognises the base64 text encoding of a CBC value.
// Returns ok=false when the input does not carry the separator or either
// half fails to decode, in which case the caller falls back to raw.
func splitBase64Encoding(in []byte) (iv, ct []byte, ok bool) {
	sep := bytes.IndexByte(in, base64Separator)
	if sep <= 0 || sep == len(in)-1 {
		return nil, nil, false
	}

	iv, err := base64.StdEncoding.AppendDecode(nil, in[:sep])
	if err != nil {
		return nil, nil, false
	}
	ct, err = base64.StdEncoding.AppendDecode(nil, in[sep+1:])
	if err != nil {
		return nil, nil, false
	}

	return iv, ct, true
}

func pkcs7Pad(in []byte) []byte {
	n := aes.BlockSize - len(in)%aes.BlockSize
	return append(append([]byte{}, in...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(in []byte) ([]byte, error) {
	if len(in) == 0 || len(in)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: invalid padded length %d", ErrDecryption, len(in))
	}

	n := int(in[len(in)-1])
	if n == 0 || n > aes.BlockSize || n > len(in) {
		return nil, fmt.Errorf("%w: bad pkcs7 padding", ErrDecryption)
	}
	for _, b := range in[len(in)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad pkcs7 padding", ErrDecryption)
		}
	}

	return in[:len(in)-n], nil
}
