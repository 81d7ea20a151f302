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

import "time"

// =============================================================================
// Enumerations
// =============================================================================

// Status is the lifecycle state of a task.
type Status string

const (
	// StatusPending is the initial state of every task.
	StatusPending Status = "pending"

	// StatusCompleted marks a task the user finished.
	StatusCompleted Status = "completed"

	// StatusOverdue marks a pending task whose due moment has passed.
	// Only the sweep can enter this state; SetStatus never can.
	StatusOverdue Status = "overdue"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// Importance is the ordered priority level of a task (high > medium > low).
type Importance string

const (
	ImportanceHigh   Importance = "high"
	ImportanceMedium Importance = "medium"
	ImportanceLow    Importance = "low"
)

// Valid reports whether i is one of the three known levels.
func (i Importance) Valid() bool {
	switch i {
	case ImportanceHigh, ImportanceMedium, ImportanceLow:
		return true
	}
	return false
}

// Rank returns the sort rank of the importance level. Lower rank means
// more important: high=1, medium=2, low=3. Unknown levels sort last.
func (i Importance) Rank() int {
	switch i {
	case ImportanceHigh:
		return 1
	case ImportanceMedium:
		return 2
	case ImportanceLow:
		return 3
	default:
		return 4
	}
}

// ChangeKind classifies a history entry.
type ChangeKind string

const (
	KindCreation     ChangeKind = "creation"
	KindEdit         ChangeKind = "edit"
	KindStatusChange ChangeKind = "status_change"
	KindDeletion     ChangeKind = "deletion"
)

// Valid reports whether k is one of the four known kinds.
func (k ChangeKind) Valid() bool {
	switch k {
	case KindCreation, KindEdit, KindStatusChange, KindDeletion:
		return true
	}
	return false
}

// Origin records whether a change was caused by explicit user action or
// by system logic (the overdue sweep and the overdue reset on due-date edit).
type Origin string

const (
	OriginManual    Origin = "manual"
	OriginAutomatic Origin = "automatic"
)

// =============================================================================
// Date/Time Layouts
// =============================================================================

// Due dates and times are naive local calendar values with no timezone.
// They are kept in their textual wire format and parsed on demand; do not
// introduce timezone-aware semantics here.
const (
	// DueDateLayout is the day/month/year wire format for due dates.
	DueDateLayout = "02/01/2006"

	// DueTimeLayout is the hour:minute wire format for due times.
	DueTimeLayout = "15:04"
)

// =============================================================================
// Records
// =============================================================================

// Task is a user-managed to-do item.
//
// # Description
//
// Tasks are owned exclusively by the TaskStore and mutated only through
// the Service entry points, never in place by external callers. The ID is
// generated at creation and never reused. CreatedAt is immutable;
// UpdatedAt is set on every mutation including automatic ones.
//
// # Fields
//
//   - Title: required, 1-100 characters, never whitespace-only.
//   - Description: optional, at most 500 characters.
//   - DueDate: optional calendar date in DueDateLayout; empty means absent.
//   - DueTime: optional clock time in DueTimeLayout; only meaningful when
//     DueDate is set.
//   - Importance: one of high, medium, low.
//   - Status: one of pending, completed, overdue.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     string     `json:"due_date,omitempty"`
	DueTime     string     `json:"due_time,omitempty"`
	Importance  Importance `json:"importance"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DueMoment returns the effective due moment of the task: the due date at
// the due time, or at end of day (23:59:59) when no due time was set.
// The second return value is false when the task has no due date.
func (t Task) DueMoment() (time.Time, bool) {
	if t.DueDate == "" {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(DueDateLayout, t.DueDate, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	if t.DueTime != "" {
		if clock, err := time.ParseInLocation(DueTimeLayout, t.DueTime, time.Local); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				clock.Hour(), clock.Minute(), 0, 0, time.Local), true
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, time.Local), true
}

// HistoryEntry is an immutable audit record of one discrete change to a task.
//
// # Description
//
// Entries are append-only: once written they are never mutated or removed,
// even after the referenced task is deleted. TaskID is a weak reference by
// identifier that survives task deletion. Seq is a process-wide monotonic
// sequence used to order entries deterministically when timestamps collide.
//
// Field is empty for whole-record changes (creation, deletion, status
// changes). OldValue and NewValue are nil when there is no previous or new
// value; otherwise they hold the value rendered as text, including for
// enum and date fields.
type HistoryEntry struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"task_id"`
	Seq       uint64     `json:"seq"`
	Timestamp time.Time  `json:"timestamp"`
	Kind      ChangeKind `json:"kind"`
	Field     string     `json:"field,omitempty"`
	OldValue  *string    `json:"old_value"`
	NewValue  *string    `json:"new_value"`
	Origin    Origin     `json:"origin"`
}
