// SPDX-License-Identifier: Apache-2.0

package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"
)

func buildSaveBlobQuery(username string, blob []byte, fetchedAt time.Time) (string, []any, error) {
	return sq.Insert("vault_cache").
		Columns("username", "blob", "fetched_at").
		Values(username, blob, fetchedAt).
		Suffix("ON CONFLICT(username) DO UPDATE SET blob = excluded.blob, fetched_at = excluded.fetched_at").
		ToSql()
}

func buildLoadBlobQuery(username string) (string, []any, error) {
	return sq.Select("blob", "fetched_at").
		From("vault_cache").
		Where(sq.Eq{"username": username}).
		ToSql()
}

func buildSaveAttachmentQuery(username, storageKey string, body []byte, fetchedAt time.Time) (string, []any, error) {
	return sq.Insert("attachment_cache").
		Columns("storage_key", "username", "body", "fetched_at").
		Values(storageKey, username, body, fetchedAt).
		Suffix("ON CONFLICT(storage_key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at").
		ToSql()
}

func buildLoadAttachmentQuery(storageKey string) (string, []any, error) {
	return sq.Select("body").
		From("attachment_cache").
		Where(sq.Eq{"storage_key": storageKey}).
		ToSql()
}
