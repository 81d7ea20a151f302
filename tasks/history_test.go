// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the history recorder

package tasks_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianTasks/storage/memory"
	"github.com/AleutianAI/AleutianTasks/tasks"
)

func newTestRecorder(clock *fakeClock) *tasks.Recorder {
	return tasks.NewRecorder(memory.NewLog(), clock)
}

func TestRecord_FillsIdentityAndTimestamp(t *testing.T) {
	clock := newFakeClock(baseTime)
	rec := newTestRecorder(clock)

	entry := rec.Record("task-1", tasks.KindCreation, "", nil, nil, tasks.OriginManual)
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "task-1", entry.TaskID)
	assert.Equal(t, baseTime, entry.Timestamp)
	assert.Equal(t, uint64(1), entry.Seq)
	assert.Nil(t, entry.OldValue)
	assert.Nil(t, entry.NewValue)
}

func TestRecordDiff_OneEntryPerChangedField(t *testing.T) {
	clock := newFakeClock(baseTime)
	rec := newTestRecorder(clock)

	before := tasks.Task{
		ID: "task-1", Title: "old", Description: "",
		DueDate: "", Importance: tasks.ImportanceMedium,
	}
	after := before
	after.Title = "new"
	after.DueDate = "20/03/2025"
	after.Importance = tasks.ImportanceHigh

	entries := rec.RecordDiff(before, after)
	require.Len(t, entries, 3)

	// Entries come back in tracked-field order.
	assert.Equal(t, "title", entries[0].Field)
	assert.Equal(t, "old", *entries[0].OldValue)
	assert.Equal(t, "new", *entries[0].NewValue)

	assert.Equal(t, "due_date", entries[1].Field)
	assert.Nil(t, entries[1].OldValue, "empty previous value is recorded as null")
	assert.Equal(t, "20/03/2025", *entries[1].NewValue)

	assert.Equal(t, "importance", entries[2].Field)
	assert.Equal(t, "medium", *entries[2].OldValue)
	assert.Equal(t, "high", *entries[2].NewValue)

	for _, e := range entries {
		assert.Equal(t, tasks.KindEdit, e.Kind)
		assert.Equal(t, tasks.OriginManual, e.Origin)
	}
}

func TestRecordDiff_NoChangesNoEntries(t *testing.T) {
	rec := newTestRecorder(newFakeClock(baseTime))
	task := tasks.Task{ID: "task-1", Title: "same"}
	assert.Empty(t, rec.RecordDiff(task, task))
}

func TestHistory_NewestFirstWithSequenceTieBreak(t *testing.T) {
	clock := newFakeClock(baseTime)
	rec := newTestRecorder(clock)

	// Three entries at the same instant, then one later.
	rec.Record("task-1", tasks.KindCreation, "", nil, nil, tasks.OriginManual)
	rec.Record("task-1", tasks.KindEdit, "title", nil, nil, tasks.OriginManual)
	rec.Record("task-1", tasks.KindEdit, "due_date", nil, nil, tasks.OriginManual)
	clock.Advance(time.Minute)
	rec.Record("task-1", tasks.KindDeletion, "", nil, nil, tasks.OriginManual)

	entries := rec.History("task-1", "", "")
	require.Len(t, entries, 4)
	assert.Equal(t, tasks.KindDeletion, entries[0].Kind)
	// Same-instant entries fall back to descending sequence order.
	assert.Equal(t, "due_date", entries[1].Field)
	assert.Equal(t, "title", entries[2].Field)
	assert.Equal(t, tasks.KindCreation, entries[3].Kind)
}

func TestHistory_KindAndOriginFilters(t *testing.T) {
	clock := newFakeClock(baseTime)
	rec := newTestRecorder(clock)

	rec.Record("task-1", tasks.KindCreation, "", nil, nil, tasks.OriginManual)
	rec.Record("task-1", tasks.KindStatusChange, "", nil, nil, tasks.OriginAutomatic)
	rec.Record("task-1", tasks.KindStatusChange, "", nil, nil, tasks.OriginManual)
	rec.Record("task-2", tasks.KindCreation, "", nil, nil, tasks.OriginManual)

	assert.Len(t, rec.History("task-1", "", ""), 3)
	assert.Len(t, rec.History("task-1", tasks.KindStatusChange, ""), 2)
	assert.Len(t, rec.History("task-1", "", tasks.OriginAutomatic), 1)
	assert.Len(t, rec.History("task-1", tasks.KindStatusChange, tasks.OriginManual), 1)
	assert.Empty(t, rec.History("task-1", tasks.KindDeletion, ""))
	assert.Empty(t, rec.History("unknown", "", ""))
}
