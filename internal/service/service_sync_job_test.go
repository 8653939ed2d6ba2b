// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlevkov/go-vault-client/models"
)

// spySyncService counts FullSync calls.
type spySyncService struct {
	calls atomic.Int64
	err   error
}

func (s *spySyncService) SetCredentials(_ models.Session, _ models.KeyPair) {}

func (s *spySyncService) FullSync(_ context.Context) error {
	s.calls.Add(1)
	return s.err
}

func (s *spySyncService) Vault() *models.Vault { return nil }

func TestSyncJob_Start_CallsFullSync(t *testing.T) {
	spy := &spySyncService{}
	job := NewSyncJob(spy)

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	got := spy.calls.Load()
	assert.GreaterOrEqual(t, got, int64(3), "FullSync should tick repeatedly, got %d", got)
}

func TestSyncJob_Stop_StopsGoroutine(t *testing.T) {
	spy := &spySyncService{}
	job := NewSyncJob(spy)

	job.Start(context.Background(), 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	callsAfterStop := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, callsAfterStop, spy.calls.Load())
}

func TestSyncJob_Stop_BeforeStart_NoPanic(t *testing.T) {
	job := NewSyncJob(&spySyncService{})
	assert.NotPanics(t, func() { job.Stop() })
}

func TestSyncJob_ZeroIntervalDisables(t *testing.T) {
	spy := &spySyncService{}
	job := NewSyncJob(spy)

	job.Start(context.Background(), 0)
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	require.Zero(t, spy.calls.Load())
}

func TestSyncJob_Restart(t *testing.T) {
	spy := &spySyncService{}
	job := NewSyncJob(spy)
	ctx := context.Background()

	job.Start(ctx, 10*time.Millisecond)
	job.Start(ctx, 10*time.Millisecond) // replaces the first run
	time.Sleep(35 * time.Millisecond)
	job.Stop()

	assert.Greater(t, spy.calls.Load(), int64(0))
}
