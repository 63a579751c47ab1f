// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package storage provides the opaque key/value store the session and
transaction engine persists its state to. keys.go names session:current,
session:<id>, gameState:current, and the legacy offlineQueue key (spec §6);
the engine writes only session:current and session:<id>, and nothing writes
gameState:current or offlineQueue. It is a thin
JSON-over-Badger layer — the engine owns all interpretation of what's
stored under each key; this package only knows bytes and keys.
*/
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/cartographus/internal/config"
)

// ErrNotFound is returned by Load when key does not exist.
var ErrNotFound = errors.New("storage: key not found")

// Store is the opaque KV interface the engine depends on.
type Store interface {
	Save(ctx context.Context, key string, value []byte) error
	Load(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Cleanup(ctx context.Context) error
	Close() error
}

// badgerStore implements Store over an embedded BadgerDB instance.
type badgerStore struct {
	db     *badger.DB
	logger zerolog.Logger
	cfg    config.StorageConfig
}

// New opens (or creates) the Badger data directory described by cfg and
// returns a Store. Callers must call Close on shutdown.
func New(cfg config.StorageConfig, logger zerolog.Logger) (Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithLogger(nil)
	if cfg.ValueLogGCPeriod > 0 {
		opts = opts.WithValueLogFileSize(1 << 28)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}

	return &badgerStore{db: db, logger: logger, cfg: cfg}, nil
}

// Save writes value under key. It returns ctx.Err() once ctx is done, so the
// caller's deadline bounds how long it waits; a write already under way may
// still land after Save has returned.
func (s *badgerStore) Save(ctx context.Context, key string, value []byte) error {
	done := make(chan error, 1)
	go func() {
		done <- s.db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(key), value)
		})
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *badgerStore) Load(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *badgerStore) Delete(ctx context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Cleanup runs BadgerDB's value-log garbage collection. It is safe to call
// on a running store; Badger itself serializes GC against writes.
func (s *badgerStore) Cleanup(ctx context.Context) error {
	err := s.db.RunValueLogGC(0.5)
	if err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		return fmt.Errorf("storage cleanup: %w", err)
	}
	return nil
}

func (s *badgerStore) Close() error {
	return s.db.Close()
}
