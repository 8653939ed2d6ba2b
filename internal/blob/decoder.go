// SPDX-License-Identifier: Apache-2.0

package blob

import (
	"crypto/rsa"
	"fmt"
	"strconv"

	"github.com/mlevkov/go-vault-client/internal/crypto"
	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/models"
)

// Decoder turns a raw vault blob into a [models.Vault]. It owns no state
// between calls; every Decode runs on a fresh context.
type Decoder struct {
	keychain crypto.Keychain
	log      *logger.Logger
}

// NewDecoder constructs a Decoder that uses keychain for every field and
// share-key decryption performed during the walk.
func NewDecoder(keychain crypto.Keychain, log *logger.Logger) *Decoder {
	if log == nil {
		log = logger.Nop()
	}
	return &Decoder{keychain: keychain, log: log}
}

// decodeContext is the scratch state carried across one chunk-stream walk.
// It is mutable only during decode; the vault it yields is immutable
// afterwards and safe to share read-only.
//
// activeKey starts as the vault key and is replaced - never stacked - by
// each share chunk: every subsequent account or attachment uses the most
// recent share key until another share chunk supersedes it or the stream
// ends.
type decodeContext struct {
	vaultKey    []byte
	activeKey   []byte
	activeShare string

	encryptedPrivateKey []byte
	privateKey          *rsa.PrivateKey

	accounts []models.Account
	shares   []models.Share

	// byID locates an account for trailing ACFL/ATTA chunks; keyByID
	// remembers the key scope each account was decoded under.
	byID    map[string]int
	keyByID map[string][]byte
}

// Decode walks the chunk stream until exhaustion and returns the frozen
// entity graph. encryptedPrivateKey is the user's RSA private key as the
// server stores it (AES-encrypted under the vault key); it is decrypted
// lazily the first time a share chunk appears and discarded with the rest
// of the context when Decode returns.
//
// An empty blob is a valid vault. A per-field decryption failure degrades
// that field to empty and the walk continues; a structural length
// inconsistency aborts the whole decode with [ErrMalformedBlob].
func (d *Decoder) Decode(raw, vaultKey, encryptedPrivateKey []byte) (*models.Vault, error) {
	ctx := &decodeContext{
		vaultKey:            vaultKey,
		activeKey:           vaultKey,
		encryptedPrivateKey: encryptedPrivateKey,
		byID:                make(map[string]int),
		keyByID:             make(map[string][]byte),
	}

	r := &chunkReader{buf: raw}
	for {
		c, done, err := r.next()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}

		switch c.tag {
		case tagAccount:
			if err := d.decodeAccount(ctx, c.payload); err != nil {
				return nil, err
			}
		case tagAccountField:
			if err := d.decodeCustomField(ctx, c.payload); err != nil {
				return nil, err
			}
		case tagShare:
			// A share chunk opens a new key scope: the walk continues on
			// a replacement context, never by mutating the current one.
			next, err := d.decodeShare(ctx, c.payload)
			if err != nil {
				return nil, err
			}
			ctx = next
		case tagAttachment:
			if err := d.decodeAttachment(ctx, c.payload); err != nil {
				return nil, err
			}
		case tagLocalStorage:
			// Recognised but intentionally not materialised.
		default:
			// Forward compatibility: unknown chunk types are skipped
			// using only the length field, keeping stream alignment.
			d.log.Debug().Str("tag", c.tag).Int("size", len(c.payload)).Msg("skipping unknown chunk")
		}
	}

	return &models.Vault{Accounts: ctx.accounts, Shares: ctx.shares}, nil
}

// decodeAccount parses an ACCT payload. Sub-fields arrive in a fixed,
// tag-implied order; encryptable ones carry the leading encoding flag and
// are decrypted under the currently active key.
func (d *Decoder) decodeAccount(ctx *decodeContext, payload []byte) error {
	r := &itemReader{buf: payload}

	id, err := r.next()
	if err != nil {
		return err
	}

	acct := models.Account{ID: string(id)}
	acct.Name = d.decryptField(ctx, "name", r, &err)
	acct.Group = d.decryptField(ctx, "group", r, &err)
	acct.URL = d.decryptField(ctx, "url", r, &err)
	acct.Notes = d.decryptField(ctx, "notes", r, &err)
	acct.Username = d.decryptField(ctx, "username", r, &err)
	acct.Password = d.decryptField(ctx, "password", r, &err)
	acct.PasswordProtected = plainFlag(r, &err)
	acct.Generated = plainFlag(r, &err)
	acct.ShareID = plainString(r, &err)
	acct.LastTouch = plainString(r, &err)
	acct.AttachKey = d.decryptField(ctx, "attachkey", r, &err)
	attachPresent := plainFlag(r, &err)
	acct.LastModifiedGMT = plainString(r, &err)
	if err != nil {
		return err
	}
	_ = attachPresent // bodies are fetched out-of-band; metadata arrives in ATTA chunks

	if acct.ShareID == "" {
		acct.ShareID = ctx.activeShare
	}
	if acct.Group != "" {
		acct.Fullname = acct.Group + "/" + acct.Name
	} else {
		acct.Fullname = acct.Name
	}

	ctx.byID[acct.ID] = len(ctx.accounts)
	ctx.keyByID[acct.ID] = ctx.activeKey
	ctx.accounts = append(ctx.accounts, acct)

	return nil
}

// decodeCustomField parses an ACFL payload and attaches the field to its
// owning account, decrypting under that account's key scope.
func (d *Decoder) decodeCustomField(ctx *decodeContext, payload []byte) error {
	r := &itemReader{buf: payload}

	accountID, err := r.next()
	if err != nil {
		return err
	}

	idx, known := ctx.byID[string(accountID)]
	key := ctx.activeKey
	if known {
		key = ctx.keyByID[string(accountID)]
	}

	field := models.Field{}
	field.Name = d.decryptWith(key, "field name", r, &err)
	field.Type = plainString(r, &err)
	field.Value = d.decryptWith(key, "field value", r, &err)
	field.Checked = plainFlag(r, &err)
	if err != nil {
		return err
	}

	if !known {
		d.log.Debug().Str("account_id", string(accountID)).Msg("custom field for unknown account, dropped")
		return nil
	}

	ctx.accounts[idx].Fields = append(ctx.accounts[idx].Fields, field)
	return nil
}

// decodeShare parses a SHAR payload: id, encrypted folder name, then the
// RSA-wrapped folder key, unwrapped with the user's private key (decrypted
// lazily on the first share). It returns a successor context whose active
// key is the folder key. This is a forward-only reassignment, mirroring
// the server's flat share scoping; shares never nest.
func (d *Decoder) decodeShare(ctx *decodeContext, payload []byte) (*decodeContext, error) {
	r := &itemReader{buf: payload}

	var err error
	id := plainString(r, &err)
	nameCipher, itemErr := r.next()
	if err == nil {
		err = itemErr
	}
	wrappedKey, itemErr := r.next()
	if err == nil {
		err = itemErr
	}
	readonly := plainFlag(r, &err)
	if err != nil {
		return nil, err
	}

	priv := ctx.privateKey
	if priv == nil {
		// The private key is wrapped with the master vault key, never
		// with a share key, regardless of the scope active here.
		priv, err = d.keychain.DecryptPrivateKey(ctx.encryptedPrivateKey, ctx.vaultKey)
		if err != nil {
			return nil, fmt.Errorf("share %s: %w", id, err)
		}
	}

	shareKey, err := d.keychain.DecryptShareKey(wrappedKey, priv)
	if err != nil {
		// There is no safe fallback key: every following chunk would be
		// decoded under the wrong scope.
		return nil, fmt.Errorf("share %s: %w", id, err)
	}

	share := models.Share{ID: id, Key: shareKey, ReadOnly: readonly}

	// The folder's own name is encrypted under the folder key.
	name, decErr := d.decrypt(nameCipher, shareKey)
	if decErr != nil {
		d.log.Warn().Err(decErr).Str("share_id", id).Msg("share name undecryptable, left empty")
	}
	share.Name = name

	next := *ctx
	next.privateKey = priv
	next.shares = append(ctx.shares, share)
	next.activeKey = shareKey
	next.activeShare = id

	return &next, nil
}

// decodeAttachment parses an ATTA payload: plaintext metadata plus the
// storage reference used to fetch and decrypt the body out-of-band.
func (d *Decoder) decodeAttachment(ctx *decodeContext, payload []byte) error {
	r := &itemReader{buf: payload}

	var err error
	att := models.Attachment{}
	att.ID = plainString(r, &err)
	att.ParentID = plainString(r, &err)
	att.MimeType = plainString(r, &err)
	att.StorageKey = plainString(r, &err)
	sizeRaw := plainString(r, &err)
	att.Filename = plainString(r, &err)
	if err != nil {
		return err
	}

	if sizeRaw != "" {
		size, convErr := strconv.ParseInt(sizeRaw, 10, 64)
		if convErr != nil {
			d.log.Debug().Str("attachment_id", att.ID).Str("size", sizeRaw).Msg("unparsable attachment size")
		} else {
			att.Size = size
		}
	}

	idx, known := ctx.byID[att.ParentID]
	if !known {
		d.log.Debug().Str("parent_id", att.ParentID).Msg("attachment for unknown account, dropped")
		return nil
	}

	ctx.accounts[idx].Attachments = append(ctx.accounts[idx].Attachments, att)
	return nil
}

// decryptField reads the next item and decrypts it under the currently
// active key. On a per-field decryption failure the value degrades to
// empty and the decode continues; only structural errors propagate via
// firstErr.
func (d *Decoder) decryptField(ctx *decodeContext, name string, r *itemReader, firstErr *error) string {
	return d.decryptWith(ctx.activeKey, name, r, firstErr)
}

func (d *Decoder) decryptWith(key []byte, name string, r *itemReader, firstErr *error) string {
	if *firstErr != nil {
		return ""
	}

	item, err := r.next()
	if err != nil {
		*firstErr = err
		return ""
	}

	value, err := d.decrypt(item, key)
	if err != nil {
		d.log.Warn().Err(err).Str("field", name).Msg("field undecryptable, left empty")
		return ""
	}
	return value
}

// decrypt routes one flagged field value to the matching cipher primitive.
func (d *Decoder) decrypt(item, key []byte) (string, error) {
	if len(item) == 0 {
		return "", nil
	}

	flag, data := item[0], item[1:]
	switch flag {
	case EncodingPlain:
		return string(data), nil
	case EncodingCBC, EncodingCBCBase64:
		plain, err := d.keychain.DecryptAESCBC(data, key)
		if err != nil {
			return "", err
		}
		return string(plain), nil
	case EncodingECB:
		plain, err := d.keychain.DecryptAESECB(data, key)
		if err != nil {
			return "", err
		}
		return string(plain), nil
	default:
		return "", fmt.Errorf("%w: unknown field encoding flag %d", crypto.ErrDecryption, flag)
	}
}

// plainString reads the next item as unencrypted text.
func plainString(r *itemReader, firstErr *error) string {
	if *firstErr != nil {
		return ""
	}
	item, err := r.next()
	if err != nil {
		*firstErr = err
		return ""
	}
	return string(item)
}

// plainFlag reads the next item as the server's "1"/"0" boolean form.
func plainFlag(r *itemReader, firstErr *error) bool {
	return plainString(r, firstErr) == "1"
}
