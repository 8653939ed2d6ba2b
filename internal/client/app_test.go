// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlevkov/go-vault-client/internal/config"
	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/internal/service"
	"github.com/mlevkov/go-vault-client/internal/tui"
	"github.com/mlevkov/go-vault-client/models"
)

type stubUI struct {
	sess   models.Session
	keys   models.KeyPair
	logout bool

	logins int
}

func (u *stubUI) LoginFlow(context.Context) (models.Session, models.KeyPair, error) {
	u.logins++
	if u.logins > 1 {
		// The logout branch restarts the lifecycle; end it here.
		return models.Session{}, models.KeyPair{}, tui.ErrUserQuit
	}
	return u.sess, u.keys, nil
}

func (u *stubUI) Browse(context.Context, models.Session, models.KeyPair) (bool, error) {
	return u.logout, nil
}

type stubAuth struct {
	logoutCalls int
}

func (a *stubAuth) Login(context.Context, string, []byte, string, bool) (models.Session, models.KeyPair, error) {
	return models.Session{}, models.KeyPair{}, nil
}

func (a *stubAuth) Resume(context.Context, string, []byte) (models.Session, models.KeyPair, error) {
	return models.Session{}, models.KeyPair{}, nil
}

func (a *stubAuth) Logout(context.Context, models.Session) error {
	a.logoutCalls++
	return nil
}

type stubSync struct {
	keys models.KeyPair
}

func (s *stubSync) SetCredentials(_ models.Session, keys models.KeyPair) { s.keys = keys }
func (s *stubSync) FullSync(context.Context) error                       { return nil }
func (s *stubSync) Vault() *models.Vault                                 { return nil }

// spySyncJob records a copy of the armed vault key at the moment Stop is
// first called, so a test can tell whether the key was still intact then.
type spySyncJob struct {
	sync *stubSync

	started   int
	stops     int
	keyAtStop []byte
}

func (j *spySyncJob) Start(context.Context, time.Duration) { j.started++ }

func (j *spySyncJob) Stop() {
	j.stops++
	if j.stops == 1 {
		j.keyAtStop = append([]byte(nil), j.sync.keys.VaultKey...)
	}
}

func newTestApp(ui *stubUI, auth *stubAuth) (*App, *spySyncJob) {
	sy := &stubSync{}
	job := &spySyncJob{sync: sy}
	services := &service.Services{Auth: auth, Sync: sy, SyncJob: job}
	return &App{services: services, ui: ui, log: logger.Nop()}, job
}

func TestRun_StopsSyncBeforeWipingKeys(t *testing.T) {
	keys := models.KeyPair{VaultKey: bytes.Repeat([]byte{0x11}, 32)}
	ui := &stubUI{keys: keys}
	app, job := newTestApp(ui, &stubAuth{})

	require.NoError(t, app.Run())

	require.Equal(t, 1, job.started)
	require.GreaterOrEqual(t, job.stops, 1)
	assert.Equal(t, bytes.Repeat([]byte{0x11}, 32), job.keyAtStop,
		"sync job stopped after the vault key was wiped")
	assert.Equal(t, bytes.Repeat([]byte{0x00}, 32), keys.VaultKey,
		"vault key must be zeroed once the browser exits")
}

func TestRun_LogoutRestartsLoginFlow(t *testing.T) {
	keys := models.KeyPair{VaultKey: bytes.Repeat([]byte{0x22}, 32)}
	ui := &stubUI{keys: keys, logout: true}
	auth := &stubAuth{}
	app, job := newTestApp(ui, auth)

	require.NoError(t, app.Run())

	assert.Equal(t, 2, ui.logins)
	assert.Equal(t, 1, auth.logoutCalls)
	assert.Equal(t, bytes.Repeat([]byte{0x22}, 32), job.keyAtStop,
		"sync job stopped after the vault key was wiped")
}

func TestNewApp_NilDependencies(t *testing.T) {
	_, err := NewApp(nil, nil, config.Workers{}, logger.Nop())
	require.Error(t, err)
}
