package tui

import (
	"github.com/mlevkov/go-vault-client/models"
)

type loginResultMsg struct {
	session models.Session
	keys    models.KeyPair
	err     error
}

type vaultLoadedMsg struct {
	vault *models.Vault
	err   error
}

type copiedMsg struct {
	what string
}

type clearStatusMsg struct{}
