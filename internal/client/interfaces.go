// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"

	"github.com/mlevkov/go-vault-client/models"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run() error
}

// userInterface is the interactive surface App drives. *tui.TUI
// satisfies it.
type userInterface interface {
	LoginFlow(ctx context.Context) (models.Session, models.KeyPair, error)
	Browse(ctx context.Context, sess models.Session, keys models.KeyPair) (logout bool, err error)
}
