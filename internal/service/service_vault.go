// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mlevkov/go-vault-client/internal/adapter"
	"github.com/mlevkov/go-vault-client/internal/blob"
	"github.com/mlevkov/go-vault-client/internal/crypto"
	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/internal/store"
	"github.com/mlevkov/go-vault-client/models"
)

type vaultService struct {
	adapter  adapter.ServerAdapter
	decoder  *blob.Decoder
	keychain crypto.Keychain
	cache    store.VaultCache
	log      *logger.Logger
}

func NewVaultService(serverAdapter adapter.ServerAdapter, decoder *blob.Decoder, keychain crypto.Keychain, cache store.VaultCache, log *logger.Logger) VaultService {
	return &vaultService{adapter: serverAdapter, decoder: decoder, keychain: keychain, cache: cache, log: log}
}

func (v *vaultService) Fetch(ctx context.Context, sess models.Session, keys models.KeyPair) (*models.Vault, error) {
	raw, err := v.adapter.FetchBlob(ctx, sess.Token)
	if err != nil {
		// An expired session will not get better by reading the cache.
		if errors.Is(err, adapter.ErrUnauthorized) {
			return nil, err
		}

		v.log.Warn().Err(err).Msg("blob fetch failed, falling back to cache")
		vault, offErr := v.FetchOffline(ctx, sess, keys)
		if offErr != nil {
			return nil, fmt.Errorf("%w: %v", ErrVaultUnavailable, err)
		}
		return vault, nil
	}

	vault, err := v.decoder.Decode(raw, keys.VaultKey, sess.EncryptedPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("decode vault blob: %w", err)
	}

	// Cache only what has proven decodable.
	if err := v.cache.SaveBlob(ctx, sess.Username, raw); err != nil {
		v.log.Warn().Err(err).Msg("could not cache vault blob")
	}

	v.log.Info().Int("accounts", len(vault.Accounts)).Int("shares", len(vault.Shares)).Msg("vault fetched")
	return vault, nil
}

func (v *vaultService) FetchOffline(ctx context.Context, sess models.Session, keys models.KeyPair) (*models.Vault, error) {
	cached, err := v.cache.LoadBlob(ctx, sess.Username)
	if err != nil {
		return nil, err
	}

	vault, err := v.decoder.Decode(cached.Blob, keys.VaultKey, sess.EncryptedPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("decode cached vault blob: %w", err)
	}

	v.log.Info().Time("fetched_at", cached.FetchedAt).Msg("vault opened from offline cache")
	return vault, nil
}

func (v *vaultService) Attachment(ctx context.Context, sess models.Session, acct *models.Account, att models.Attachment) ([]byte, error) {
	if acct.AttachKey == "" {
		return nil, ErrNoAttachmentKey
	}
	key, err := hex.DecodeString(acct.AttachKey)
	if err != nil || len(key) != 32 {
		return nil, fmt.Errorf("%w: bad attachment key", ErrNoAttachmentKey)
	}

	body, err := v.cache.LoadAttachment(ctx, att.StorageKey)
	if err != nil {
		if !errors.Is(err, store.ErrAttachmentNotCached) {
			return nil, err
		}

		body, err = v.adapter.FetchAttachment(ctx, sess.Token, att.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("fetch attachment: %w", err)
		}
		if err := v.cache.SaveAttachment(ctx, sess.Username, att.StorageKey, body); err != nil {
			v.log.Warn().Err(err).Msg("could not cache attachment")
		}
	}

	plain, err := v.keychain.DecryptAESCBC(body, key)
	if err != nil {
		return nil, fmt.Errorf("decrypt attachment %s: %w", att.ID, err)
	}
	return plain, nil
}
