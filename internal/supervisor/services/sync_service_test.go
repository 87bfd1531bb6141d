// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type mockManager struct {
	startErr error
	stopErr  error
	starts   atomic.Int32
	stops    atomic.Int32
	started  chan struct{}
}

func newMockManager() *mockManager {
	return &mockManager{started: make(chan struct{}, 1)}
}

func (m *mockManager) Start(ctx context.Context) error {
	m.starts.Add(1)
	if m.startErr != nil {
		return m.startErr
	}
	m.started <- struct{}{}
	return nil
}

func (m *mockManager) Stop() error {
	m.stops.Add(1)
	return m.stopErr
}

func TestSyncService_Lifecycle(t *testing.T) {
	t.Parallel()

	manager := newMockManager()
	svc := NewSyncService(manager)
	if svc.String() != "sync-manager" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	select {
	case <-manager.started:
	case <-time.After(2 * time.Second):
		t.Fatal("manager was not started")
	}
	if n := manager.stops.Load(); n != 0 {
		t.Errorf("Stop called %d times before cancel", n)
	}
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
	if n := manager.stops.Load(); n != 1 {
		t.Errorf("Stop called %d times, want 1", n)
	}
}

func TestSyncService_Errors(t *testing.T) {
	t.Parallel()

	t.Run("start", func(t *testing.T) {
		t.Parallel()
		manager := newMockManager()
		manager.startErr = errors.New("sync manager is already running")

		err := NewSyncService(manager).Serve(context.Background())
		if !errors.Is(err, manager.startErr) {
			t.Errorf("Serve() error = %v, want wrapped start error", err)
		}
		if n := manager.stops.Load(); n != 0 {
			t.Errorf("Stop called %d times after failed start", n)
		}
	})

	t.Run("stop", func(t *testing.T) {
		t.Parallel()
		manager := newMockManager()
		manager.stopErr = errors.New("sync manager is not running")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewSyncService(manager).Serve(ctx)
		if !errors.Is(err, manager.stopErr) {
			t.Errorf("Serve() error = %v, want wrapped stop error", err)
		}
	})
}
