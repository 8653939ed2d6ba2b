// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/mlevkov/go-vault-client/internal/config"
	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/internal/service"
	"github.com/mlevkov/go-vault-client/internal/tui"
	"github.com/mlevkov/go-vault-client/models"
)

type App struct {
	services *service.Services
	ui       userInterface
	workers  config.Workers
	log      *logger.Logger
}

func NewApp(services *service.Services, ui *tui.TUI, workers config.Workers, log *logger.Logger) (*App, error) {
	if services == nil || ui == nil {
		return nil, errors.New("nil dependency")
	}
	return &App{services: services, ui: ui, workers: workers, log: log}, nil
}

// Run drives the whole client lifecycle: login, background sync, the vault
// browser, and on logout a fresh login round.
func (a *App) Run() error {
	ctx := context.Background()

	sess, keys, err := a.ui.LoginFlow(ctx)
	if err != nil {
		if errors.Is(err, tui.ErrUserQuit) {
			return nil
		}
		return fmt.Errorf("login: %w", err)
	}

	a.services.Sync.SetCredentials(sess, keys)
	a.services.SyncJob.Start(ctx, a.workers.SyncInterval)
	defer a.services.SyncJob.Stop()

	logout, err := a.ui.Browse(ctx, sess, keys)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	// The sync service holds the same key slice; a tick after the wipe
	// would resync the vault under a zeroed key.
	a.services.SyncJob.Stop()
	a.wipe(keys)

	if logout {
		if err := a.services.Auth.Logout(ctx, sess); err != nil {
			a.log.Warn().Err(err).Msg("logout cleanup failed")
		}
		return a.Run()
	}

	return nil
}

func (a *App) wipe(keys models.KeyPair) {
	for i := range keys.VaultKey {
		keys.VaultKey[i] = 0
	}
}
