// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"sync"

	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/models"
)

type syncService struct {
	vaultService VaultService
	log          *logger.Logger

	mu       sync.RWMutex
	sess     models.Session
	keys     models.KeyPair
	vault    *models.Vault
	loggedIn bool
}

func NewSyncService(vaultService VaultService, log *logger.Logger) SyncService {
	return &syncService{vaultService: vaultService, log: log}
}

func (s *syncService) SetCredentials(sess models.Session, keys models.KeyPair) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	s.keys = keys
	s.loggedIn = true
}

// FullSync replaces the snapshot wholesale. Readers holding the previous
// *models.Vault keep a consistent (if stale) graph; nothing is mutated in
// place.
func (s *syncService) FullSync(ctx context.Context) error {
	s.mu.RLock()
	if !s.loggedIn {
		s.mu.RUnlock()
		return ErrNotLoggedIn
	}
	sess, keys := s.sess, s.keys
	s.mu.RUnlock()

	vault, err := s.vaultService.Fetch(ctx, sess, keys)
	if err != nil {
		s.log.Err(err).Str("func", "FullSync").Msg("vault sync failed")
		return err
	}

	s.mu.Lock()
	s.vault = vault
	s.mu.Unlock()

	return nil
}

func (s *syncService) Vault() *models.Vault {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vault
}
