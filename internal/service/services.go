package service

import (
	"github.com/mlevkov/go-vault-client/internal/adapter"
	"github.com/mlevkov/go-vault-client/internal/blob"
	"github.com/mlevkov/go-vault-client/internal/crypto"
	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/internal/session"
	"github.com/mlevkov/go-vault-client/internal/store"
	"github.com/mlevkov/go-vault-client/internal/workers"
)

type Services struct {
	Auth    AuthService
	Vault   VaultService
	Sync    SyncService
	SyncJob SyncJob
}

func NewServices(serverAdapter adapter.ServerAdapter, cache store.VaultCache, sessions *session.Store, keychain crypto.Keychain, kdf *workers.KDFWorker, log *logger.Logger) *Services {
	decoder := blob.NewDecoder(keychain, log.GetChildLogger())
	vaultSvc := NewVaultService(serverAdapter, decoder, keychain, cache, log.GetChildLogger())
	syncSvc := NewSyncService(vaultSvc, log.GetChildLogger())

	return &Services{
		Auth:    NewAuthService(serverAdapter, kdf, sessions, cache, log.GetChildLogger()),
		Vault:   vaultSvc,
		Sync:    syncSvc,
		SyncJob: NewSyncJob(syncSvc),
	}
}
