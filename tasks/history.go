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
	"sort"

	"github.com/google/uuid"
)

// =============================================================================
// History Recorder
// =============================================================================

// trackedField pairs a history field name with its accessor. The recorder
// diffs update snapshots over exactly these five fields.
type trackedField struct {
	name string
	get  func(Task) string
}

var trackedFields = []trackedField{
	{"title", func(t Task) string { return t.Title }},
	{"description", func(t Task) string { return t.Description }},
	{"due_date", func(t Task) string { return t.DueDate }},
	{"due_time", func(t Task) string { return t.DueTime }},
	{"importance", func(t Task) string { return string(t.Importance) }},
}

// Recorder appends audit entries to the history log.
//
// # Description
//
// Record never fails from the caller's perspective: the append-only log
// is the post-condition of every mutation, so an infrastructure failure
// on append is logged and swallowed rather than surfaced as a business
// error. With the in-memory backend appends cannot fail at all.
type Recorder struct {
	log   HistoryLog
	clock Clock

	// onRecord, when set, observes every entry written to the log. Used
	// to wire Prometheus metrics without coupling the core to a metrics
	// library.
	onRecord func(kind ChangeKind)
}

// NewRecorder returns a Recorder writing to log with timestamps from clock.
func NewRecorder(log HistoryLog, clock Clock) *Recorder {
	return &Recorder{log: log, clock: clock}
}

// Record appends one history entry with a fresh identifier and the
// current timestamp. Field is empty for whole-record changes; oldVal and
// newVal are nil when there is no previous or new value.
func (r *Recorder) Record(taskID string, kind ChangeKind, field string, oldVal, newVal *string, origin Origin) HistoryEntry {
	entry := HistoryEntry{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Timestamp: r.clock.Now(),
		Kind:      kind,
		Field:     field,
		OldValue:  oldVal,
		NewValue:  newVal,
		Origin:    origin,
	}
	stored, err := r.log.Append(entry)
	if err != nil {
		slog.Error("history append failed", "task_id", taskID, "kind", kind, "error", err)
		return entry
	}
	if r.onRecord != nil {
		r.onRecord(kind)
	}
	return stored
}

// RecordDiff compares two task snapshots field by field over the five
// tracked fields and records one edit entry per changed field, with the
// old and new values rendered as text. Unchanged fields record nothing.
// Returns the entries in tracked-field order.
func (r *Recorder) RecordDiff(before, after Task) []HistoryEntry {
	var entries []HistoryEntry
	for _, f := range trackedFields {
		oldVal, newVal := f.get(before), f.get(after)
		if oldVal == newVal {
			continue
		}
		entries = append(entries,
			r.Record(before.ID, KindEdit, f.name, textValue(oldVal), textValue(newVal), OriginManual))
	}
	return entries
}

// History returns the entries for a task, newest first.
//
// # Description
//
// kind and origin are optional filters; the empty string is the "All"
// sentinel that disables the corresponding filter. Entries are sorted by
// change timestamp descending, with the append sequence as a descending
// tie-break so entries written in the same instant keep a deterministic
// order.
func (r *Recorder) History(taskID string, kind ChangeKind, origin Origin) []HistoryEntry {
	all := r.log.ForTask(taskID)
	out := make([]HistoryEntry, 0, len(all))
	for _, e := range all {
		if kind != "" && e.Kind != kind {
			continue
		}
		if origin != "" && e.Origin != origin {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}

// textValue renders a field value for a history entry. Empty values are
// recorded as null, not as the empty string.
func textValue(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// statusValue renders a status for a status-change history entry.
func statusValue(s Status) *string {
	v := string(s)
	return &v
}
