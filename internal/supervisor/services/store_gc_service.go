// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package services

import (
	"context"
	"time"

	"github.com/tomtom215/fibermap/internal/logging"
)

// GarbageCollector is satisfied by *store.BadgerStore.
type GarbageCollector interface {
	CollectGarbage(discardRatio float64) (int, error)
}

// StoreGCService reclaims device store disk space on a fixed interval.
// Every sync rewrites all devices, so the value log fills with stale
// versions quickly.
type StoreGCService struct {
	store        GarbageCollector
	interval     time.Duration
	discardRatio float64
	name         string
}

// NewStoreGCService runs store's GC every interval, rewriting value log
// files that are at least discardRatio stale.
func NewStoreGCService(store GarbageCollector, interval time.Duration, discardRatio float64) *StoreGCService {
	return &StoreGCService{
		store:        store,
		interval:     interval,
		discardRatio: discardRatio,
		name:         "store-gc",
	}
}

// Serve implements suture.Service. GC errors are logged and retried on the
// next tick rather than restarting the service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.collect()
		}
	}
}

func (s *StoreGCService) collect() {
	start := time.Now()
	rewritten, err := s.store.CollectGarbage(s.discardRatio)
	if err != nil {
		logging.Warn().Err(err).Msg("device store GC failed")
		return
	}
	if rewritten > 0 {
		logging.Info().
			Int("files_rewritten", rewritten).
			Dur("duration", time.Since(start)).
			Msg("device store GC completed")
	}
}

func (s *StoreGCService) String() string {
	return s.name
}
