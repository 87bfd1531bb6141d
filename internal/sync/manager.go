// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

/*
manager.go - Store Sync Lifecycle and Orchestration

The sync manager copies the reconciled SmartOLT device list into the device
store so /api/onus can serve it without touching the upstream API.

Manager Components:
  - Reconciler: produces the merged device list (smartolt.Engine)
  - DeviceStore: persists devices keyed by id (store.BadgerStore)
  - WebSocketHub: notifies dashboard clients after each run

Lifecycle Methods:
  - NewManager(): Initialize manager with configuration and dependencies
  - Start(): Begin the periodic sync loop (no-op loop when interval is 0)
  - Stop(): Stop the loop and wait for an in-flight run
  - TriggerSync(): On-demand run (mutex-protected, used by the HTTP route)
  - LastSyncTime(): Timestamp of the last successful run

Thread Safety:
  - syncMu: Prevents concurrent sync execution
  - mu: Protects shared state (running, lastSync, stopChan)
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/fibermap/internal/config"
	"github.com/tomtom215/fibermap/internal/logging"
	"github.com/tomtom215/fibermap/internal/metrics"
	"github.com/tomtom215/fibermap/internal/models"
)

// ErrNoDevices is returned when reconciliation yields nothing to store.
// Mock data is never written to the store.
var ErrNoDevices = errors.New("no devices returned from SmartOLT (or rate limits blocked every feed)")

// Reconciler produces the merged device list.
// Implemented by *smartolt.Engine.
type Reconciler interface {
	Reconcile(ctx context.Context) []models.DashboardOnu
}

// DeviceStore persists synced devices.
// Implemented by *store.BadgerStore.
type DeviceStore interface {
	UpsertMany(ctx context.Context, devices []models.StoredOnu) (int, error)
}

// WebSocketHub broadcasts sync results to frontend clients.
// Implemented by *websocket.Hub.
type WebSocketHub interface {
	BroadcastSyncCompleted(syncedCount int, duration time.Duration, syncErr error)
}

// Manager orchestrates copying reconciled devices into the store.
type Manager struct {
	engine   Reconciler
	store    DeviceStore
	wsHub    WebSocketHub // optional
	interval time.Duration
	now      func() time.Time

	lastSync time.Time
	running  bool
	mu       sync.RWMutex
	syncMu   sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewManager creates a sync manager. wsHub may be nil.
func NewManager(engine Reconciler, store DeviceStore, cfg *config.SyncConfig, wsHub WebSocketHub) *Manager {
	logging.Info().Dur("interval", cfg.Interval).Msg("Sync manager config loaded")
	return &Manager{
		engine:   engine,
		store:    store,
		wsHub:    wsHub,
		interval: cfg.Interval,
		now:      time.Now,
	}
}

// Start begins the periodic sync loop. With a zero interval only on-demand
// syncs run. Start is safe to call again after Stop.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("sync manager is already running")
	}
	m.running = true
	m.stopChan = make(chan struct{})

	if m.interval <= 0 {
		logging.Info().Msg("Periodic sync disabled (SYNC_INTERVAL=0), on-demand only")
		return nil
	}

	m.wg.Add(1)
	go m.syncLoop(ctx, m.stopChan)
	logging.Info().Dur("interval", m.interval).Msg("Sync manager started")
	return nil
}

// Stop stops the loop and waits for an in-flight periodic run to finish.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return fmt.Errorf("sync manager is not running")
	}
	m.running = false
	close(m.stopChan)
	m.mu.Unlock()

	m.wg.Wait()
	logging.Info().Msg("Sync manager stopped")
	return nil
}

// LastSyncTime returns the timestamp of the last successful sync
func (m *Manager) LastSyncTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync
}

// TriggerSync runs one sync now and returns the number of devices stored.
// Concurrent calls are serialized.
func (m *Manager) TriggerSync(ctx context.Context) (int, error) {
	m.syncMu.Lock()
	defer m.syncMu.Unlock()

	return m.syncDevices(ctx)
}

func (m *Manager) syncLoop(ctx context.Context, stop <-chan struct{}) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if _, err := m.TriggerSync(ctx); err != nil {
				logging.Error().Err(err).Msg("Periodic sync failed")
			}
		}
	}
}

// syncDevices reconciles, stores and reports one run. Callers hold syncMu.
func (m *Manager) syncDevices(ctx context.Context) (synced int, err error) {
	start := time.Now()
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logging.CtxInfo(ctx).Msg("Starting SmartOLT device sync")

	defer func() {
		duration := time.Since(start)
		metrics.RecordSyncOperation(duration, synced, err)
		if m.wsHub != nil {
			m.wsHub.BroadcastSyncCompleted(synced, duration, err)
		}
	}()

	devices := m.engine.Reconcile(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, fmt.Errorf("sync interrupted: %w", ctxErr)
	}
	if len(devices) == 0 {
		return 0, ErrNoDevices
	}

	seenAt := m.now().UTC()
	records := make([]models.StoredOnu, len(devices))
	for i := range devices {
		records[i] = models.NewStoredOnu(devices[i], seenAt)
	}

	logging.CtxInfo(ctx).Int("devices", len(records)).Msg("Fetched devices from SmartOLT, writing to store")
	synced, err = m.store.UpsertMany(ctx, records)
	if err != nil {
		return 0, fmt.Errorf("store devices: %w", err)
	}

	m.mu.Lock()
	m.lastSync = seenAt
	m.mu.Unlock()

	logging.CtxInfo(ctx).
		Int("synced", synced).
		Dur("duration", time.Since(start)).
		Msg("SmartOLT device sync completed")
	return synced, nil
}
