// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/mlevkov/go-vault-client/internal/logger"
)

type vaultCache struct {
	db     *DB
	logger *logger.Logger
	now    func() time.Time
}

func NewVaultCache(db *DB, log *logger.Logger) VaultCache {
	return &vaultCache{db: db, logger: log, now: time.Now}
}

func (c *vaultCache) SaveBlob(ctx context.Context, username string, blob []byte) error {
	query, args, err := buildSaveBlobQuery(username, blob, c.now().UTC())
	if err != nil {
		c.logger.Err(err).Str("func", "SaveBlob").Msg("error building query")
		return fmt.Errorf("build save blob query: %w", err)
	}

	if _, err = c.db.ExecContext(ctx, query, args...); err != nil {
		c.logger.Err(err).Str("func", "SaveBlob").Msg("error caching vault blob")
		return fmt.Errorf("cache vault blob: %w", err)
	}

	c.logger.Debug().Str("func", "SaveBlob").Int("size", len(blob)).Msg("vault blob cached")
	return nil
}

func (c *vaultCache) LoadBlob(ctx context.Context, username string) (*CachedBlob, error) {
	query, args, err := buildLoadBlobQuery(username)
	if err != nil {
		return nil, fmt.Errorf("build load blob query: %w", err)
	}

	cached := CachedBlob{Username: username}
	row := c.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&cached.Blob, &cached.FetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBlobNotCached
		}
		c.logger.Err(err).Str("func", "LoadBlob").Msg("error reading cached vault blob")
		return nil, fmt.Errorf("read cached vault blob: %w", err)
	}

	return &cached, nil
}

func (c *vaultCache) SaveAttachment(ctx context.Context, username, storageKey string, body []byte) error {
	query, args, err := buildSaveAttachmentQuery(username, storageKey, body, c.now().UTC())
	if err != nil {
		return fmt.Errorf("build save attachment query: %w", err)
	}

	if _, err = c.db.ExecContext(ctx, query, args...); err != nil {
		c.logger.Err(err).Str("func", "SaveAttachment").Msg("error caching attachment")
		return fmt.Errorf("cache attachment: %w", err)
	}

	return nil
}

func (c *vaultCache) LoadAttachment(ctx context.Context, storageKey string) ([]byte, error) {
	query, args, err := buildLoadAttachmentQuery(storageKey)
	if err != nil {
		return nil, fmt.Errorf("build load attachment query: %w", err)
	}

	var body []byte
	row := c.db.QueryRowContext(ctx, query, args...)
	if err = row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttachmentNotCached
		}
		c.logger.Err(err).Str("func", "LoadAttachment").Msg("error reading cached attachment")
		return nil, fmt.Errorf("read cached attachment: %w", err)
	}

	return body, nil
}

// Clear drops everything cached for the user. Called on logout so no
// ciphertext outlives the account it belongs to.
func (c *vaultCache) Clear(ctx context.Context, username string) error {
	for _, table := range []string{"attachment_cache", "vault_cache"} {
		query, args, err := sq.Delete(table).Where(sq.Eq{"username": username}).ToSql()
		if err != nil {
			return fmt.Errorf("build clear query: %w", err)
		}
		if _, err = c.db.ExecContext(ctx, query, args...); err != nil {
			c.logger.Err(err).Str("func", "Clear").Str("table", table).Msg("error clearing cache")
			return fmt.Errorf("clear cache: %w", err)
		}
	}

	c.logger.Debug().Str("func", "Clear").Msg("local cache cleared")
	return nil
}
