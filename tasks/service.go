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
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service is the task lifecycle engine facade.
//
// # Description
//
// Service is the single entry point for all task reads and mutations. It
// composes a TaskStore, the history Recorder, and a Clock. Every mutation
// validates first, then mutates the store and records history as one
// atomic unit under an internal mutex, so "exactly one history entry set
// per logical change" holds even with concurrent callers.
//
// # Thread Safety
//
// Safe for concurrent use.
type Service struct {
	store    TaskStore
	recorder *Recorder
	clock    Clock
	mu       sync.Mutex

	// onSweep, when set, observes every sweep pass. Used to wire
	// Prometheus metrics without coupling the core to a metrics library.
	onSweep func(flipped int, elapsed time.Duration)
}

// NewService creates a Service over the given store and history log.
// A nil clock defaults to the system clock.
func NewService(store TaskStore, history HistoryLog, clock Clock) *Service {
	if clock == nil {
		clock = NewSystemClock()
	}
	return &Service{
		store:    store,
		recorder: NewRecorder(history, clock),
		clock:    clock,
	}
}

// OnSweep registers an observer called after every sweep pass with the
// number of flipped tasks and the pass duration. Call before serving.
func (s *Service) OnSweep(fn func(flipped int, elapsed time.Duration)) {
	s.onSweep = fn
}

// OnRecord registers an observer called with the kind of every history
// entry written to the log. Call before serving.
func (s *Service) OnRecord(fn func(kind ChangeKind)) {
	s.recorder.onRecord = fn
}

// CreateInput carries the caller-supplied fields for a new task.
// An empty Importance defaults to medium.
type CreateInput struct {
	Title       string
	Description string
	DueDate     string
	DueTime     string
	Importance  Importance
}

// UpdateInput carries a partial task edit. Nil fields are left unchanged;
// a pointer to the empty string clears an optional field.
type UpdateInput struct {
	Title       *string
	Description *string
	DueDate     *string
	DueTime     *string
	Importance  *Importance
}

// Create validates the input and stores a new pending task.
//
// # Description
//
// Fails with ErrTitleRequired, ErrTitleTooLong, ErrDescriptionTooLong, or
// a format error before the store is touched. On success the task gets a
// fresh identifier, status pending, and exactly one creation history
// entry with null field and values.
func (s *Service) Create(in CreateInput) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ValidateFields(in.Title, in.Description, in.DueDate, in.DueTime); err != nil {
		return Task{}, err
	}
	importance := in.Importance
	if importance == "" {
		importance = ImportanceMedium
	}

	now := s.clock.Now()
	task := Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     in.DueDate,
		DueTime:     in.DueTime,
		Importance:  importance,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(task); err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	s.recorder.Record(task.ID, KindCreation, "", nil, nil, OriginManual)

	slog.Info("task created", "task_id", task.ID, "importance", importance)
	return task, nil
}

// Get returns the task with the given ID, or ok=false when absent.
func (s *Service) Get(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Find(id)
}

// List runs the overdue sweep, then applies the query pipeline to a
// snapshot of the collection. The store itself is never mutated by the
// query stage.
func (s *Service) List(spec QuerySpec) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return ApplyQuery(spec, s.store.FindAll(), s.clock.Now())
}

// Update applies a partial edit to a task.
//
// # Description
//
// Returns ok=false when the task is absent. The merged snapshot is
// validated with the same rules as Create; validation failures leave the
// store untouched. One edit history entry is recorded per changed tracked
// field, with origin manual. An update that changes nothing records
// nothing and does not bump UpdatedAt.
//
// Editing the due date of an overdue task to today or later silently
// resets the status to pending as part of the same update; the reset is
// recorded as a status_change entry with origin automatic, distinct from
// the field edits.
func (s *Service) Update(id string, in UpdateInput) (Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, ok := s.store.Find(id)
	if !ok {
		return Task{}, false, nil
	}

	after := before
	if in.Title != nil {
		after.Title = *in.Title
	}
	if in.Description != nil {
		after.Description = *in.Description
	}
	if in.DueDate != nil {
		after.DueDate = *in.DueDate
	}
	if in.DueTime != nil {
		after.DueTime = *in.DueTime
	}
	if in.Importance != nil {
		after.Importance = *in.Importance
	}

	if err := ValidateFields(after.Title, after.Description, after.DueDate, after.DueTime); err != nil {
		return Task{}, true, err
	}

	now := s.clock.Now()
	resetToPending := before.Status == StatusOverdue &&
		in.DueDate != nil &&
		after.DueDate != before.DueDate &&
		after.DueDate != "" &&
		!DueDateInPast(after.DueDate, now)

	changed := after != before
	if !changed && !resetToPending {
		return before, true, nil
	}

	if resetToPending {
		after.Status = StatusPending
	}
	after.UpdatedAt = now
	s.store.Replace(id, after)

	edits := s.recorder.RecordDiff(before, after)
	if resetToPending {
		s.recorder.Record(id, KindStatusChange, "",
			statusValue(StatusOverdue), statusValue(StatusPending), OriginAutomatic)
	}

	slog.Info("task updated", "task_id", id, "fields_changed", len(edits),
		"status_reset", resetToPending)
	return after, true, nil
}

// Delete removes a task, writing its final deletion history entry first.
// The task's prior history survives and stays queryable. Returns false
// when the task is absent.
func (s *Service) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.store.Find(id); !ok {
		return false
	}
	s.recorder.Record(id, KindDeletion, "", nil, nil, OriginManual)
	s.store.Remove(id)

	slog.Info("task deleted", "task_id", id)
	return true
}

// History returns the audit entries for a task, newest first, optionally
// filtered by kind and origin. The empty string disables a filter.
func (s *Service) History(taskID string, kind ChangeKind, origin Origin) []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recorder.History(taskID, kind, origin)
}
