// Fibermap - Fiber Network GIS Dashboard and SmartOLT Reconciliation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fibermap

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/goccy/go-json"

	"github.com/tomtom215/fibermap/internal/config"
	"github.com/tomtom215/fibermap/internal/logging"
	"github.com/tomtom215/fibermap/internal/metrics"
	"github.com/tomtom215/fibermap/internal/models"
)

// deviceKeyPrefix namespaces device records by id.
const deviceKeyPrefix = "device:"

var (
	// ErrDeviceNotFound is returned when no device has the requested id.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrStoreClosed is returned for operations on a closed store.
	ErrStoreClosed = errors.New("device store is closed")

	// ErrEmptyID is returned when a device without an id is written.
	ErrEmptyID = errors.New("device id cannot be empty")
)

// Store persists synced devices.
type Store interface {
	UpsertMany(ctx context.Context, devices []models.StoredOnu) (int, error)
	List(ctx context.Context) ([]models.StoredOnu, error)
	Get(ctx context.Context, id string) (*models.StoredOnu, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
	Close() error
}

var _ Store = (*BadgerStore)(nil)

// BadgerStore implements Store on BadgerDB. Each device is one JSON value
// under "device:<id>", so an upsert is a plain overwrite.
type BadgerStore struct {
	db *badger.DB
}

// Open opens (or creates) the store described by cfg.
func Open(cfg *config.StoreConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("store path is required for on-disk storage")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	// Device records are small repetitive JSON
	opts.Compression = options.Snappy
	// Badger's own logger is too chatty for the service log
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Device store opened")
	return &BadgerStore{db: db}, nil
}

// UpsertMany writes every device, replacing any stored record with the same
// id. It returns the number of devices written.
func (s *BadgerStore) UpsertMany(ctx context.Context, devices []models.StoredOnu) (n int, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("upsert", time.Since(start), err) }()

	if s.db.IsClosed() {
		return 0, ErrStoreClosed
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for i := range devices {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		d := &devices[i]
		if d.ID == "" {
			return 0, fmt.Errorf("device %q: %w", d.SN, ErrEmptyID)
		}
		data, err := json.Marshal(d)
		if err != nil {
			return 0, fmt.Errorf("marshal device %s: %w", d.ID, err)
		}
		if err := wb.Set([]byte(deviceKeyPrefix+d.ID), data); err != nil {
			return 0, fmt.Errorf("set device %s: %w", d.ID, err)
		}
	}

	if err := wb.Flush(); err != nil {
		return 0, fmt.Errorf("flush devices: %w", err)
	}
	return len(devices), nil
}

// List returns the devices that have coordinates, ordered by name and then id.
func (s *BadgerStore) List(ctx context.Context) (devices []models.StoredOnu, err error) {
	start := time.Now()
	defer func() { metrics.RecordStoreOperation("list", time.Since(start), err) }()

	if s.db.IsClosed() {
		return nil, ErrStoreClosed
	}

	devices = make([]models.StoredOnu, 0)
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(deviceKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var d models.StoredOnu
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &d)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if d.HasCoordinates() {
				devices = append(devices, d)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}

	sort.SliceStable(devices, func(i, j int) bool {
		if devices[i].Name != devices[j].Name {
			return devices[i].Name < devices[j].Name
		}
		return devices[i].ID < devices[j].ID
	})
	return devices, nil
}

// Get returns the device with the given id, or ErrDeviceNotFound.
func (s *BadgerStore) Get(ctx context.Context, id string) (*models.StoredOnu, error) {
	if s.db.IsClosed() {
		return nil, ErrStoreClosed
	}

	var d models.StoredOnu
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(deviceKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrDeviceNotFound
		}
		if err != nil {
			return fmt.Errorf("get device: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &d)
		})
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Count returns the number of stored devices, with or without coordinates.
func (s *BadgerStore) Count(ctx context.Context) (int, error) {
	if s.db.IsClosed() {
		return 0, ErrStoreClosed
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(deviceKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// Ping reports whether the store can serve reads.
func (s *BadgerStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return ErrStoreClosed
	}
	return s.db.View(func(txn *badger.Txn) error { return nil })
}

// DefaultGCDiscardRatio is the share of stale data a value log file must
// hold before CollectGarbage rewrites it.
const DefaultGCDiscardRatio = 0.5

// CollectGarbage rewrites value log files until Badger reports nothing left
// to reclaim. It returns the number of files rewritten. In-memory stores
// have no value log and return immediately.
func (s *BadgerStore) CollectGarbage(discardRatio float64) (int, error) {
	if s.db.IsClosed() {
		return 0, ErrStoreClosed
	}
	if s.db.Opts().InMemory {
		return 0, nil
	}

	rewritten := 0
	for {
		err := s.db.RunValueLogGC(discardRatio)
		switch {
		case err == nil:
			rewritten++
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrRejected):
			return rewritten, nil
		default:
			return rewritten, fmt.Errorf("value log gc: %w", err)
		}
	}
}

// Close closes the underlying database. Closing twice is a no-op.
func (s *BadgerStore) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	return s.db.Close()
}
