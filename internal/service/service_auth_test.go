// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlevkov/go-vault-client/internal/adapter"
	"github.com/mlevkov/go-vault-client/internal/crypto"
	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/internal/session"
	"github.com/mlevkov/go-vault-client/internal/store"
	"github.com/mlevkov/go-vault-client/internal/workers"
	"github.com/mlevkov/go-vault-client/models"
)

// fakeServerAdapter is a hand-rolled test double for adapter.ServerAdapter.
type fakeServerAdapter struct {
	iterations    int
	iterationsErr error

	loginSession models.Session
	loginErr     error
	lastLogin    adapter.LoginRequest

	blob      []byte
	blobErr   error
	blobCalls int

	attachment      []byte
	attachmentErr   error
	attachmentCalls int

	logoutErr    error
	logoutCalled bool
}

func (f *fakeServerAdapter) RequestIterations(_ context.Context, _ string) (int, error) {
	return f.iterations, f.iterationsErr
}

func (f *fakeServerAdapter) Login(_ context.Context, req adapter.LoginRequest) (models.Session, error) {
	f.lastLogin = req
	if f.loginErr != nil {
		return models.Session{}, f.loginErr
	}
	sess := f.loginSession
	if sess.Username == "" {
		sess.Username = req.Email
	}
	return sess, nil
}

func (f *fakeServerAdapter) FetchBlob(_ context.Context, _ string) ([]byte, error) {
	f.blobCalls++
	return f.blob, f.blobErr
}

func (f *fakeServerAdapter) FetchAttachment(_ context.Context, _, _ string) ([]byte, error) {
	f.attachmentCalls++
	return f.attachment, f.attachmentErr
}

func (f *fakeServerAdapter) Logout(_ context.Context, _ string) error {
	f.logoutCalled = true
	return f.logoutErr
}

// fakeVaultCache is an in-memory store.VaultCache.
type fakeVaultCache struct {
	blobs       map[string]*store.CachedBlob
	attachments map[string][]byte
	cleared     []string
}

func newFakeVaultCache() *fakeVaultCache {
	return &fakeVaultCache{
		blobs:       make(map[string]*store.CachedBlob),
		attachments: make(map[string][]byte),
	}
}

func (f *fakeVaultCache) SaveBlob(_ context.Context, username string, blob []byte) error {
	f.blobs[username] = &store.CachedBlob{Username: username, Blob: blob}
	return nil
}

func (f *fakeVaultCache) LoadBlob(_ context.Context, username string) (*store.CachedBlob, error) {
	cached, ok := f.blobs[username]
	if !ok {
		return nil, store.ErrBlobNotCached
	}
	return cached, nil
}

func (f *fakeVaultCache) SaveAttachment(_ context.Context, _, storageKey string, body []byte) error {
	f.attachments[storageKey] = body
	return nil
}

func (f *fakeVaultCache) LoadAttachment(_ context.Context, storageKey string) ([]byte, error) {
	body, ok := f.attachments[storageKey]
	if !ok {
		return nil, store.ErrAttachmentNotCached
	}
	return body, nil
}

func (f *fakeVaultCache) Clear(_ context.Context, username string) error {
	f.cleared = append(f.cleared, username)
	delete(f.blobs, username)
	return nil
}

func newTestKDF(t *testing.T) *workers.KDFWorker {
	t.Helper()
	w := workers.NewKDFWorker(crypto.NewKeychain(), logger.Nop())
	w.Run()
	return w
}

func newSessionStore(t *testing.T) *session.Store {
	t.Helper()
	cr := session.NewCrypto(crypto.NewKeychain())
	return session.NewStore(filepath.Join(t.TempDir(), "session.bin"), cr, logger.Nop())
}

func TestAuthService_Login(t *testing.T) {
	srv := &fakeServerAdapter{
		iterations:   1000,
		loginSession: models.Session{Token: "sess-1", EncryptedPrivateKey: []byte("epk")},
	}
	cache := newFakeVaultCache()
	sessions := newSessionStore(t)
	auth := NewAuthService(srv, newTestKDF(t), sessions, cache, logger.Nop())

	sess, keys, err := auth.Login(context.Background(), "kate@example.com", []byte("hunter2"), "", true)
	require.NoError(t, err)

	assert.Equal(t, "sess-1", sess.Token)
	assert.Equal(t, 1000, sess.Iterations)
	assert.Len(t, keys.VaultKey, 32)

	// The adapter saw the derived hash, never the password.
	assert.Equal(t, keys.LoginHashHex, srv.lastLogin.LoginHashHex)
	assert.Equal(t, 1000, srv.lastLogin.Iterations)
	assert.True(t, srv.lastLogin.TrustDevice)

	// Session persisted for resume.
	n, err := sessions.Iterations()
	require.NoError(t, err)
	assert.Equal(t, 1000, n)
}

func TestAuthService_Login_IterationsError(t *testing.T) {
	srv := &fakeServerAdapter{iterationsErr: errors.New("unreachable")}
	auth := NewAuthService(srv, newTestKDF(t), newSessionStore(t), newFakeVaultCache(), logger.Nop())

	_, _, err := auth.Login(context.Background(), "kate@example.com", []byte("pw"), "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request iterations")
}

func TestAuthService_Login_TwoFactorPassthrough(t *testing.T) {
	srv := &fakeServerAdapter{iterations: 1000, loginErr: adapter.ErrTwoFactorRequired}
	auth := NewAuthService(srv, newTestKDF(t), newSessionStore(t), newFakeVaultCache(), logger.Nop())

	_, _, err := auth.Login(context.Background(), "kate@example.com", []byte("pw"), "", false)
	assert.ErrorIs(t, err, adapter.ErrTwoFactorRequired)
}

func TestAuthService_Resume(t *testing.T) {
	srv := &fakeServerAdapter{
		iterations:   1000,
		loginSession: models.Session{Token: "sess-1", EncryptedPrivateKey: []byte("epk")},
	}
	sessions := newSessionStore(t)
	auth := NewAuthService(srv, newTestKDF(t), sessions, newFakeVaultCache(), logger.Nop())

	_, loginKeys, err := auth.Login(context.Background(), "kate@example.com", []byte("hunter2"), "", false)
	require.NoError(t, err)

	sess, keys, err := auth.Resume(context.Background(), "kate@example.com", []byte("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, "sess-1", sess.Token)
	assert.Equal(t, []byte("epk"), sess.EncryptedPrivateKey)
	assert.Equal(t, loginKeys.VaultKey, keys.VaultKey)
}

func TestAuthService_Resume_WrongPassword(t *testing.T) {
	srv := &fakeServerAdapter{iterations: 1000, loginSession: models.Session{Token: "sess-1"}}
	sessions := newSessionStore(t)
	auth := NewAuthService(srv, newTestKDF(t), sessions, newFakeVaultCache(), logger.Nop())

	_, _, err := auth.Login(context.Background(), "kate@example.com", []byte("hunter2"), "", false)
	require.NoError(t, err)

	_, _, err = auth.Resume(context.Background(), "kate@example.com", []byte("wrong"))
	assert.ErrorIs(t, err, session.ErrInvalidSession)
}

func TestAuthService_Resume_NothingPersisted(t *testing.T) {
	auth := NewAuthService(&fakeServerAdapter{}, newTestKDF(t), newSessionStore(t), newFakeVaultCache(), logger.Nop())

	_, _, err := auth.Resume(context.Background(), "kate@example.com", []byte("pw"))
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestAuthService_Logout_ClearsLocalStateEvenWhenServerFails(t *testing.T) {
	srv := &fakeServerAdapter{iterations: 1000, loginSession: models.Session{Token: "sess-1"}, logoutErr: errors.New("down")}
	cache := newFakeVaultCache()
	sessions := newSessionStore(t)
	auth := NewAuthService(srv, newTestKDF(t), sessions, cache, logger.Nop())

	sess, _, err := auth.Login(context.Background(), "kate@example.com", []byte("hunter2"), "", false)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(context.Background(), sess))
	assert.True(t, srv.logoutCalled)
	assert.Equal(t, []string{"kate@example.com"}, cache.cleared)

	_, err = sessions.Iterations()
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
}
