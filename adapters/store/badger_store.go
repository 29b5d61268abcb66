package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/layer-3/nearstore/core"
	"go.uber.org/zap"
)

// BadgerStore keeps values in an on-disk Badger database
type BadgerStore struct {
	db     *badger.DB
	logger *zap.Logger
	done   chan struct{}
}

// OpenBadger opens (or creates) the database at path. An empty path opens an
// in-memory database.
func OpenBadger(path string, logger *zap.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}

	bs := &BadgerStore{
		db:     db,
		logger: logger,
		done:   make(chan struct{}),
	}
	if path != "" {
		go bs.collectGarbage(5 * time.Minute)
	}
	return bs, nil
}

func (bs *BadgerStore) collectGarbage(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-bs.done:
			return
		case <-ticker.C:
			lsm, vlog := bs.db.Size()
			if lsm > 1024*1024*8 || vlog > 1024*1024*32 {
				err := bs.db.RunValueLogGC(0.5)
				bs.logger.Debug("badger value log gc", zap.Int64("lsm", lsm), zap.Int64("vlog", vlog), zap.Error(err))
			}
		}
	}
}

// Close stops background work and closes the database
func (bs *BadgerStore) Close() error {
	close(bs.done)
	return bs.db.Close()
}

// Get retrieves a value by key
func (bs *BadgerStore) Get(ctx context.Context, key string) (string, error) {
	var value []byte
	err := bs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", core.ErrKeyNotFound
	} else if err != nil {
		return "", fmt.Errorf("%w: get %s: %v", core.ErrStoreOperationFailed, key, err)
	}
	return string(value), nil
}

// Set stores a key with a value
func (bs *BadgerStore) Set(ctx context.Context, key, value string) error {
	err := bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("%w: set %s: %v", core.ErrStoreOperationFailed, key, err)
	}
	return nil
}

// Delete removes a key
func (bs *BadgerStore) Delete(ctx context.Context, key string) error {
	err := bs.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: delete %s: %v", core.ErrStoreOperationFailed, key, err)
	}
	return nil
}

// InvalidateToken records tokenID with a TTL of expiry. A concurrent
// transaction that got there first makes this one report false.
func (bs *BadgerStore) InvalidateToken(ctx context.Context, tokenID string, expiry time.Duration) (bool, error) {
	key := []byte(invalidatedPrefix + tokenID)
	fresh := false

	err := bs.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		fresh = true
		return txn.SetEntry(badger.NewEntry(key, []byte("1")).WithTTL(expiry))
	})
	if errors.Is(err, badger.ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: invalidate %s: %v", core.ErrStoreOperationFailed, tokenID, err)
	}
	return fresh, nil
}
