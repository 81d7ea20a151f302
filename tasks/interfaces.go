// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package tasks

// =============================================================================
// Storage Interfaces
// =============================================================================

// TaskStore holds the current set of task records.
//
// # Description
//
// The store has no logic of its own beyond storage and lookup. Identifier
// uniqueness is guaranteed by generation (UUID v4), so implementations do
// not need uniqueness checks beyond the key. Linear lookup is acceptable
// at this scale; implementations may index by identifier without changing
// the contract.
//
// # Implementations
//
//   - storage/memory: reference in-process backend
//   - storage/badger: durable BadgerDB backend
//
// # Thread Safety
//
// Implementations must be safe for concurrent use. The Service serializes
// mutations on top of this, so a store never observes a half-applied
// logical change.
type TaskStore interface {
	// Insert adds a new task. The ID must not already exist.
	Insert(task Task) error

	// Find returns the task with the given ID, or ok=false when absent.
	Find(id string) (Task, bool)

	// FindAll returns a snapshot copy of all tasks in creation order.
	// Mutating the returned slice never affects the store.
	FindAll() []Task

	// Replace swaps the stored task for the given ID with updated.
	// Returns false when the ID is absent.
	Replace(id string, updated Task) bool

	// Remove deletes the task with the given ID. Returns false when absent.
	Remove(id string) bool
}

// HistoryLog is the append-only audit log.
//
// # Description
//
// Entries are immutable once appended and survive deletion of the task
// they reference. Append assigns the entry's monotonic sequence number;
// everything else is filled in by the caller.
type HistoryLog interface {
	// Append stores the entry, assigns its Seq, and returns the stored copy.
	Append(entry HistoryEntry) (HistoryEntry, error)

	// ForTask returns a snapshot of all entries referencing the task, in
	// append order.
	ForTask(taskID string) []HistoryEntry
}
