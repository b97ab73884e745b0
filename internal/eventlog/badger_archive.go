// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package eventlog

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Archive storage key prefix for namespacing in BadgerDB.
const badgerEntryKeyPrefix = "eventlog:"

// BadgerArchive persists the most recent event log entries in BadgerDB so the
// console history survives restarts. Only the latest capacity entries are
// retained; older keys are deleted as new ones arrive.
type BadgerArchive struct {
	db       *badger.DB
	capacity int
}

// OpenBadgerArchive opens (or creates) an archive at path. An empty path
// opens an in-memory database.
func OpenBadgerArchive(path string, capacity int) (*BadgerArchive, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
		opts.SyncWrites = true
	}
	opts.Logger = nil // Suppress BadgerDB internal logs
	opts.ValueLogFileSize = 16 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for event log: %w", err)
	}

	a := &BadgerArchive{db: db, capacity: capacity}
	if err := a.trim(); err != nil {
		_ = db.Close() //nolint:errcheck // already returning the trim error
		return nil, err
	}
	return a, nil
}

func entryKey(seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%020d", badgerEntryKeyPrefix, seq))
}

// Store writes e and removes the entry that fell out of the retention window.
func (a *BadgerArchive) Store(e Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event log entry: %w", err)
	}

	return a.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(entryKey(e.Seq), data); err != nil {
			return err
		}
		if e.Seq > uint64(a.capacity) {
			err := txn.Delete(entryKey(e.Seq - uint64(a.capacity)))
			if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
}

// Recent returns up to n of the newest entries, oldest first.
func (a *BadgerArchive) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	entries := make([]Entry, 0, n)
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(badgerEntryKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		seekKey := append([]byte(badgerEntryKeyPrefix), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(opts.Prefix) && len(entries) < n; it.Next() {
			var e Entry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return fmt.Errorf("decode event log entry: %w", err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// size returns the number of archived entries.
func (a *BadgerArchive) size() (int, error) {
	count := 0
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(badgerEntryKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.ValidForPrefix(opts.Prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// trim deletes everything older than the newest capacity entries. Needed when
// the configured capacity shrinks between runs.
func (a *BadgerArchive) trim() error {
	var stale [][]byte
	err := a.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		opts.Prefix = []byte(badgerEntryKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		kept := 0
		seekKey := append([]byte(badgerEntryKeyPrefix), 0xFF)
		for it.Seek(seekKey); it.ValidForPrefix(opts.Prefix); it.Next() {
			if kept < a.capacity {
				kept++
				continue
			}
			stale = append(stale, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil || len(stale) == 0 {
		return err
	}

	wb := a.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range stale {
		if err := wb.Delete(k); err != nil {
			return fmt.Errorf("trim event log archive: %w", err)
		}
	}
	return wb.Flush()
}

// RunGC reclaims value log space. It is a no-op for in-memory databases.
func (a *BadgerArchive) RunGC(discardRatio float64) error {
	for {
		err := a.db.RunValueLogGC(discardRatio)
		switch {
		case err == nil:
			continue
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		default:
			return err
		}
	}
}

// Close closes the underlying database.
func (a *BadgerArchive) Close() error {
	return a.db.Close()
}
