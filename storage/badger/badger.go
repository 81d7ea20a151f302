// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package badger provides a BadgerDB-backed storage backend for the task
// store and the history log.
//
// BadgerDB gives local embedded storage with low-latency access; the
// lifecycle and query logic are identical to the in-memory backend
// because both sit behind the tasks.TaskStore / tasks.HistoryLog
// contract.
//
// Key layout:
//
//	task:<id>         -> JSON task record
//	hist:<taskID>:<seq> -> JSON history entry (seq zero-padded for order)
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package badger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/AleutianTasks/tasks"
)

const (
	taskKeyPrefix = "task:"
	histKeyPrefix = "hist:"
)

// Config holds configuration for a BadgerDB-backed store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults for the given path.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns configuration optimized for testing.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// DB is a BadgerDB-backed implementation of both tasks.TaskStore and
// tasks.HistoryLog.
//
// # Thread Safety
//
// Safe for concurrent use; BadgerDB transactions provide isolation and
// the history sequence is an atomic counter seeded at open.
type DB struct {
	db  *badger.DB
	seq atomic.Uint64
}

var (
	_ tasks.TaskStore  = (*DB)(nil)
	_ tasks.HistoryLog = (*DB)(nil)
)

// Open creates and opens a BadgerDB-backed store.
//
// # Description
//
// Opens the database at the configured path, or in memory when InMemory
// is set, and seeds the history sequence counter from the highest stored
// entry so sequence numbers stay monotonic across restarts.
//
// # Outputs
//
//   - *DB: the opened store. Caller must Close() when done.
//   - error: non-nil if the path is invalid or the database cannot open.
func Open(cfg Config) (*DB, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	inner, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	db := &DB{db: inner}
	if err := db.seedSequence(); err != nil {
		_ = inner.Close()
		return nil, fmt.Errorf("seed history sequence: %w", err)
	}
	return db, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.db.Close()
}

// seedSequence scans existing history entries and seeds the atomic
// counter with the highest sequence number found.
func (d *DB) seedSequence() error {
	return d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(histKeyPrefix)})
		defer it.Close()
		var max uint64
		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			idx := strings.LastIndex(key, ":")
			if idx < 0 {
				continue
			}
			seq, err := strconv.ParseUint(key[idx+1:], 10, 64)
			if err == nil && seq > max {
				max = seq
			}
		}
		d.seq.Store(max)
		return nil
	})
}

// =============================================================================
// tasks.TaskStore
// =============================================================================

func taskKey(id string) []byte {
	return []byte(taskKeyPrefix + id)
}

// Insert adds a new task. Fails when the ID already exists.
func (d *DB) Insert(task tasks.Task) error {
	return d.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(taskKey(task.ID)); err == nil {
			return fmt.Errorf("task %s already exists", task.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		data, err := json.Marshal(task)
		if err != nil {
			return fmt.Errorf("marshal task %s: %w", task.ID, err)
		}
		return txn.Set(taskKey(task.ID), data)
	})
}

// Find returns the task with the given ID, or ok=false when absent.
func (d *DB) Find(id string) (tasks.Task, bool) {
	var task tasks.Task
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(taskKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &task)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			slog.Error("badger find failed", "task_id", id, "error", err)
		}
		return tasks.Task{}, false
	}
	return task, true
}

// FindAll returns a snapshot of all tasks ordered by creation time, with
// the ID as a tie-break so the order is deterministic.
func (d *DB) FindAll() []tasks.Task {
	var out []tasks.Task
	err := d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix:         []byte(taskKeyPrefix),
			PrefetchValues: true,
			PrefetchSize:   64,
		})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var task tasks.Task
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &task)
			}); err != nil {
				return err
			}
			out = append(out, task)
		}
		return nil
	})
	if err != nil {
		slog.Error("badger scan failed", "error", err)
		return nil
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Replace swaps the stored task for the given ID. Returns false when absent.
func (d *DB) Replace(id string, updated tasks.Task) bool {
	err := d.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(taskKey(id)); err != nil {
			return err
		}
		data, err := json.Marshal(updated)
		if err != nil {
			return fmt.Errorf("marshal task %s: %w", id, err)
		}
		return txn.Set(taskKey(id), data)
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			slog.Error("badger replace failed", "task_id", id, "error", err)
		}
		return false
	}
	return true
}

// Remove deletes the task record. History entries are kept; the log is
// append-only and survives task deletion.
func (d *DB) Remove(id string) bool {
	err := d.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(taskKey(id)); err != nil {
			return err
		}
		return txn.Delete(taskKey(id))
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			slog.Error("badger remove failed", "task_id", id, "error", err)
		}
		return false
	}
	return true
}

// =============================================================================
// tasks.HistoryLog
// =============================================================================

func histKey(taskID string, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d", histKeyPrefix, taskID, seq))
}

// Append stores the entry under the next sequence number and returns the
// stored copy.
func (d *DB) Append(entry tasks.HistoryEntry) (tasks.HistoryEntry, error) {
	entry.Seq = d.seq.Add(1)
	data, err := json.Marshal(entry)
	if err != nil {
		return tasks.HistoryEntry{}, fmt.Errorf("marshal history entry: %w", err)
	}
	err = d.db.Update(func(txn *badger.Txn) error {
		return txn.Set(histKey(entry.TaskID, entry.Seq), data)
	})
	if err != nil {
		return tasks.HistoryEntry{}, fmt.Errorf("append history entry: %w", err)
	}
	return entry, nil
}

// ForTask returns all entries for the task in sequence (append) order.
func (d *DB) ForTask(taskID string) []tasks.HistoryEntry {
	var out []tasks.HistoryEntry
	prefix := []byte(histKeyPrefix + taskID + ":")
	err := d.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			Prefix:         prefix,
			PrefetchValues: true,
			PrefetchSize:   64,
		})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			var entry tasks.HistoryEntry
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return err
			}
			out = append(out, entry)
		}
		return nil
	})
	if err != nil {
		slog.Error("badger history scan failed", "task_id", taskID, "error", err)
		return nil
	}
	return out
}
