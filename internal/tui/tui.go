package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/internal/service"
	"github.com/mlevkov/go-vault-client/models"
)

var ErrUserQuit = errors.New("user quit")

type TUI struct {
	services *service.Services
}

func New(services *service.Services, _ *logger.Logger) (*TUI, error) {
	return &TUI{services: services}, nil
}

// LoginFlow runs the interactive login screen until the user either
// authenticates or quits.
func (t *TUI) LoginFlow(ctx context.Context) (models.Session, models.KeyPair, error) {
	model := NewLoginModel(ctx, t.services.Auth)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return models.Session{}, models.KeyPair{}, runErr
	}

	result, ok := finalModel.(*LoginModel)
	if !ok {
		return models.Session{}, models.KeyPair{}, tea.ErrProgramKilled
	}
	if result.quitByUser {
		return models.Session{}, models.KeyPair{}, ErrUserQuit
	}

	return result.session, result.keys, nil
}

// Browse runs the vault browser until the user quits or logs out.
func (t *TUI) Browse(ctx context.Context, sess models.Session, keys models.KeyPair) (logout bool, err error) {
	model := newBrowserModel(ctx, t.services, sess, keys)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(*browserModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return result.logout, nil
}
