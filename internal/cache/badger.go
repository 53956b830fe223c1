package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aevon-lab/uniqterms/internal/core/aggregation"
	"github.com/dgraph-io/badger/v4"
)

var errBadgerClosed = errors.New("badger store is closed")

// BadgerStore persists partition results in an embedded badger database.
// Values are stored as JSON.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (or creates) a badger database in dir. An empty dir
// opens an in-memory database.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store %q: %w", dir, err)
	}

	slog.Info("[BadgerStore] Opened", "dir", dir, "in_memory", dir == "")
	return &BadgerStore{db: db}, nil
}

// Get returns the entry for key, or ErrNotFound.
func (s *BadgerStore) Get(_ context.Context, key string) (*aggregation.PartialResult, error) {
	var result aggregation.PartialResult
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &result)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return &result, nil
}

// Put stores result under key, overwriting any previous value.
func (s *BadgerStore) Put(_ context.Context, key string, result *aggregation.PartialResult) error {
	val, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode partial result: %w", err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
	if err != nil {
		return fmt.Errorf("badger put: %w", err)
	}
	return nil
}

// Clear drops every entry.
func (s *BadgerStore) Clear(context.Context) error {
	if err := s.db.DropAll(); err != nil {
		return fmt.Errorf("badger drop all: %w", err)
	}
	return nil
}

// Ping reports whether the database is open.
func (s *BadgerStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errBadgerClosed
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
