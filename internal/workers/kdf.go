// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"

	"github.com/mlevkov/go-vault-client/internal/crypto"
	"github.com/mlevkov/go-vault-client/internal/logger"
	"github.com/mlevkov/go-vault-client/models"
)

// KDFWorker runs key derivation on a dedicated goroutine so the hundreds
// of thousands of PBKDF2 rounds never stall the UI loop. Requests are
// serialized; a caller that gives up waiting leaves the in-flight
// derivation to finish and be discarded.
type KDFWorker struct {
	keychain crypto.Keychain
	jobs     chan deriveJob
	log      *logger.Logger
}

type deriveJob struct {
	email      string
	password   []byte
	iterations int
	out        chan deriveResult
}

type deriveResult struct {
	keys models.KeyPair
	err  error
}

func NewKDFWorker(keychain crypto.Keychain, log *logger.Logger) *KDFWorker {
	return &KDFWorker{
		keychain: keychain,
		jobs:     make(chan deriveJob),
		log:      log,
	}
}

// Run starts the derivation loop. Call once, before the first Derive.
func (w *KDFWorker) Run() {
	go func() {
		for job := range w.jobs {
			keys, err := w.keychain.DeriveKeys(job.email, job.password, job.iterations)
			if err != nil {
				w.log.Err(err).Str("func", "Run").Msg("key derivation failed")
			}
			// The receive side is buffered, so an abandoned caller
			// never blocks the loop.
			job.out <- deriveResult{keys: keys, err: err}
		}
	}()
}

// Derive submits a derivation and waits for the result or ctx cancellation.
func (w *KDFWorker) Derive(ctx context.Context, email string, password []byte, iterations int) (models.KeyPair, error) {
	job := deriveJob{
		email:      email,
		password:   password,
		iterations: iterations,
		out:        make(chan deriveResult, 1),
	}

	select {
	case w.jobs <- job:
	case <-ctx.Done():
		return models.KeyPair{}, ctx.Err()
	}

	select {
	case res := <-job.out:
		return res.keys, res.err
	case <-ctx.Done():
		return models.KeyPair{}, ctx.Err()
	}
}
