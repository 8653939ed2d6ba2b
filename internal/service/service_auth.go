// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"

	"github.com/mlevkov/go-vault-client/internal/adapter"
	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/internal/session"
	"github.com/mlevkov/go-vault-client/internal/store"
	"github.com/mlevkov/go-vault-client/internal/workers"
	"github.com/mlevkov/go-vault-client/models"
)

type authService struct {
	adapter  adapter.ServerAdapter
	kdf      *workers.KDFWorker
	sessions *session.Store
	cache    store.VaultCache
	log      *logger.Logger
}

func NewAuthService(serverAdapter adapter.ServerAdapter, kdf *workers.KDFWorker, sessions *session.Store, cache store.VaultCache, log *logger.Logger) AuthService {
	return &authService{adapter: serverAdapter, kdf: kdf, sessions: sessions, cache: cache, log: log}
}

func (a *authService) Login(ctx context.Context, email string, password []byte, otp string, trustDevice bool) (models.Session, models.KeyPair, error) {
	iterations, err := a.adapter.RequestIterations(ctx, email)
	if err != nil {
		return models.Session{}, models.KeyPair{}, fmt.Errorf("request iterations: %w", err)
	}

	keys, err := a.kdf.Derive(ctx, email, password, iterations)
	if err != nil {
		return models.Session{}, models.KeyPair{}, fmt.Errorf("derive keys: %w", err)
	}

	sess, err := a.adapter.Login(ctx, adapter.LoginRequest{
		Email:        email,
		LoginHashHex: keys.LoginHashHex,
		Iterations:   iterations,
		OTP:          otp,
		TrustDevice:  trustDevice,
	})
	if err != nil {
		return models.Session{}, models.KeyPair{}, err
	}
	sess.Iterations = iterations

	if err := a.sessions.Save(sess, keys.VaultKey); err != nil {
		// Login itself succeeded; a failed save only costs the next
		// resume.
		a.log.Warn().Err(err).Str("func", "Login").Msg("could not persist session")
	}

	a.log.Info().Str("user", email).Int("iterations", iterations).Msg("logged in")
	return sess, keys, nil
}

func (a *authService) Resume(ctx context.Context, email string, password []byte) (models.Session, models.KeyPair, error) {
	iterations, err := a.sessions.Iterations()
	if err != nil {
		return models.Session{}, models.KeyPair{}, err
	}

	keys, err := a.kdf.Derive(ctx, email, password, iterations)
	if err != nil {
		return models.Session{}, models.KeyPair{}, fmt.Errorf("derive keys: %w", err)
	}

	sess, err := a.sessions.Load(email, keys.VaultKey)
	if err != nil {
		return models.Session{}, models.KeyPair{}, err
	}

	a.log.Info().Str("user", email).Msg("session resumed")
	return sess, keys, nil
}

func (a *authService) Logout(ctx context.Context, sess models.Session) error {
	if err := a.adapter.Logout(ctx, sess.Token); err != nil {
		a.log.Warn().Err(err).Str("func", "Logout").Msg("server-side logout failed")
	}

	if err := a.sessions.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	if err := a.cache.Clear(ctx, sess.Username); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	a.log.Info().Str("user", sess.Username).Msg("logged out")
	return nil
}
