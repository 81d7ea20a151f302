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

import (
	"log/slog"
	"time"
)

// =============================================================================
// Status Lifecycle
// =============================================================================

// canTransition reports whether an explicit status change from one state
// to another is legal. Only pending<->completed is ever allowed through
// SetStatus:
//
//   - pending->overdue happens exclusively via the sweep
//   - overdue->pending happens exclusively as a side effect of editing
//     the due date to today or later
//   - completed->overdue never happens at all
//
// Requests that name the current status are rejected too; they are not
// transitions.
func canTransition(from, to Status) bool {
	switch {
	case from == StatusPending && to == StatusCompleted:
		return true
	case from == StatusCompleted && to == StatusPending:
		return true
	}
	return false
}

// SetStatus applies an explicit, user-driven status change.
//
// # Description
//
// Returns ok=false when the task is absent. Illegal transitions fail
// with ErrIllegalStatusTransition and leave the task untouched. A legal
// change bumps UpdatedAt and records a status_change entry with origin
// manual carrying the old and new status as text.
func (s *Service) SetStatus(id string, next Status) (Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.store.Find(id)
	if !ok {
		return Task{}, false, nil
	}
	if !canTransition(task.Status, next) {
		return Task{}, true, ErrIllegalStatusTransition
	}

	prev := task.Status
	task.Status = next
	task.UpdatedAt = s.clock.Now()
	s.store.Replace(id, task)
	s.recorder.Record(id, KindStatusChange, "", statusValue(prev), statusValue(next), OriginManual)

	slog.Info("task status changed", "task_id", id, "from", prev, "to", next)
	return task, true, nil
}

// CheckOverdue runs the overdue-detection sweep and returns the number of
// tasks it flipped.
//
// # Description
//
// For every pending task with a due date, the sweep computes the
// effective due moment (due time applied, end of day otherwise) and, when
// that moment is strictly before the current moment, flips the status to
// overdue, bumps UpdatedAt, and records a status_change entry with origin
// automatic. Completed tasks are never considered.
//
// The sweep is a consistency pass, not a background job: List runs it
// before every read so overdue filters match the current moment. It is
// idempotent and has no side effect beyond the status flips it makes.
func (s *Service) CheckOverdue() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

// sweepLocked is the sweep body. Callers must hold s.mu.
func (s *Service) sweepLocked() int {
	started := time.Now()
	now := s.clock.Now()
	flipped := 0
	for _, task := range s.store.FindAll() {
		if task.Status != StatusPending {
			continue
		}
		due, hasDue := task.DueMoment()
		if !hasDue || !due.Before(now) {
			continue
		}
		task.Status = StatusOverdue
		task.UpdatedAt = now
		s.store.Replace(task.ID, task)
		s.recorder.Record(task.ID, KindStatusChange, "",
			statusValue(StatusPending), statusValue(StatusOverdue), OriginAutomatic)
		flipped++
	}
	if flipped > 0 {
		slog.Info("overdue sweep flipped tasks", "count", flipped)
	}
	if s.onSweep != nil {
		s.onSweep(flipped, time.Since(started))
	}
	return flipped
}
