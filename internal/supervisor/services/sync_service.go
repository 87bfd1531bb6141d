// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package services

import (
	"context"
	"fmt"

	"github.com/tomtom215/fibermap/internal/logging"
)

// StartStopManager is the lifecycle of *sync.Manager.
type StartStopManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// SyncService keeps the periodic SmartOLT sync loop running.
type SyncService struct {
	manager StartStopManager
}

func NewSyncService(manager StartStopManager) *SyncService {
	return &SyncService{manager: manager}
}

// Serve starts the loop and holds it until ctx ends. Stop blocks until an
// in-flight sync has written its results.
func (s *SyncService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("start %s: %w", s, err)
	}
	logging.Debug().Str("service", s.String()).Msg("periodic sync started")

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("stop %s: %w", s, err)
	}
	return ctx.Err()
}

func (s *SyncService) String() string { return "sync-manager" }
