// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package memory provides the reference in-process storage backend.
//
// It models the capability contract only: map lookups plus an
// insertion-ordered index for deterministic snapshots. Durable
// deployments swap in storage/badger behind the same interfaces.
package memory

import (
	"fmt"
	"sync"

	"github.com/AleutianAI/AleutianTasks/tasks"
)

// Store is an in-memory tasks.TaskStore.
//
// # Thread Safety
//
// Safe for concurrent use via an internal RWMutex.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]tasks.Task
	order []string
}

var _ tasks.TaskStore = (*Store)(nil)

// NewStore returns an empty in-memory task store.
func NewStore() *Store {
	return &Store{byID: make(map[string]tasks.Task)}
}

// Insert adds a new task. Fails when the ID already exists.
func (s *Store) Insert(task tasks.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[task.ID]; exists {
		return fmt.Errorf("task %s already exists", task.ID)
	}
	s.byID[task.ID] = task
	s.order = append(s.order, task.ID)
	return nil
}

// Find returns the task with the given ID, or ok=false when absent.
func (s *Store) Find(id string) (tasks.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.byID[id]
	return task, ok
}

// FindAll returns a snapshot copy of all tasks in insertion order.
func (s *Store) FindAll() []tasks.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]tasks.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Replace swaps the stored task for the given ID. Returns false when absent.
func (s *Store) Replace(id string, updated tasks.Task) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	s.byID[id] = updated
	return true
}

// Remove deletes the task with the given ID. Returns false when absent.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Log is an in-memory tasks.HistoryLog. Entries are append-only and
// survive removal of the task they reference.
type Log struct {
	mu      sync.RWMutex
	entries []tasks.HistoryEntry
	seq     uint64
}

var _ tasks.HistoryLog = (*Log)(nil)

// NewLog returns an empty in-memory history log.
func NewLog() *Log {
	return &Log{}
}

// Append stores the entry, assigns its sequence number, and returns the
// stored copy. Appends to the in-memory log never fail.
func (l *Log) Append(entry tasks.HistoryEntry) (tasks.HistoryEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	entry.Seq = l.seq
	l.entries = append(l.entries, entry)
	return entry, nil
}

// ForTask returns a snapshot of all entries for the task in append order.
func (l *Log) ForTask(taskID string) []tasks.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []tasks.HistoryEntry
	for _, e := range l.entries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out
}
