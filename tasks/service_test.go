// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the task service facade

package tasks_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianTasks/storage/memory"
	"github.com/AleutianAI/AleutianTasks/tasks"
)

// =============================================================================
// Test Fixtures
// =============================================================================

// baseTime is the pinned "current moment" for the service tests:
// Saturday 15/03/2025 at noon local time.
var baseTime = time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)

// fakeClock is a settable tasks.Clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (*tasks.Service, *fakeClock) {
	t.Helper()
	clock := newFakeClock(baseTime)
	return tasks.NewService(memory.NewStore(), memory.NewLog(), clock), clock
}

// dateOf renders a moment in the due-date wire format.
func dateOf(t time.Time) string {
	return t.Format(tasks.DueDateLayout)
}

func strPtr(s string) *string {
	return &s
}

// =============================================================================
// Create Tests
// =============================================================================

func TestCreate_DefaultsAndCreationEntry(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.Create(tasks.CreateInput{Title: "Pay bills"})
	require.NoError(t, err)

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Pay bills", task.Title)
	assert.Equal(t, tasks.StatusPending, task.Status)
	assert.Equal(t, tasks.ImportanceMedium, task.Importance)
	assert.Equal(t, baseTime, task.CreatedAt)
	assert.Equal(t, baseTime, task.UpdatedAt)

	entries := svc.History(task.ID, "", "")
	require.Len(t, entries, 1)
	assert.Equal(t, tasks.KindCreation, entries[0].Kind)
	assert.Equal(t, tasks.OriginManual, entries[0].Origin)
	assert.Empty(t, entries[0].Field)
	assert.Nil(t, entries[0].OldValue)
	assert.Nil(t, entries[0].NewValue)
}

func TestCreate_KeepsExplicitImportance(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.Create(tasks.CreateInput{Title: "Pay bills", Importance: tasks.ImportanceHigh})
	require.NoError(t, err)
	assert.Equal(t, tasks.ImportanceHigh, task.Importance)
}

func TestCreate_ValidationFailuresTouchNothing(t *testing.T) {
	svc, _ := newTestService(t)

	cases := []struct {
		name string
		in   tasks.CreateInput
		want error
	}{
		{"empty title", tasks.CreateInput{Title: ""}, tasks.ErrTitleRequired},
		{"whitespace title", tasks.CreateInput{Title: "   \t"}, tasks.ErrTitleRequired},
		{"long title", tasks.CreateInput{Title: strings.Repeat("x", 101)}, tasks.ErrTitleTooLong},
		{"long description", tasks.CreateInput{
			Title: "ok", Description: strings.Repeat("y", 501)}, tasks.ErrDescriptionTooLong},
		{"bad due date", tasks.CreateInput{Title: "ok", DueDate: "2025-03-15"}, tasks.ErrBadDueDate},
		{"bad due time", tasks.CreateInput{Title: "ok", DueTime: "9pm"}, tasks.ErrBadDueTime},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.Empty(t, svc.List(tasks.QuerySpec{}))
}

func TestCreate_TitleLengthIsCountedInRunes(t *testing.T) {
	svc, _ := newTestService(t)

	// 100 multi-byte runes are within the limit even though the byte
	// count is larger.
	_, err := svc.Create(tasks.CreateInput{Title: strings.Repeat("é", 100)})
	assert.NoError(t, err)
}

// =============================================================================
// Update Tests
// =============================================================================

func TestUpdate_OneEditEntryPerChangedField(t *testing.T) {
	svc, clock := newTestService(t)
	task, err := svc.Create(tasks.CreateInput{Title: "Pay bills"})
	require.NoError(t, err)

	clock.Advance(time.Minute)
	high := tasks.ImportanceHigh
	updated, ok, err := svc.Update(task.ID, tasks.UpdateInput{
		Title:      strPtr("Pay all bills"),
		Importance: &high,
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Pay all bills", updated.Title)
	assert.Equal(t, tasks.ImportanceHigh, updated.Importance)
	assert.Equal(t, baseTime.Add(time.Minute), updated.UpdatedAt)
	assert.Equal(t, baseTime, updated.CreatedAt)

	edits := svc.History(task.ID, tasks.KindEdit, "")
	require.Len(t, edits, 2)
	for _, e := range edits {
		assert.Equal(t, tasks.OriginManual, e.Origin)
	}
	// Newest first: the importance edit is recorded after the title edit.
	assert.Equal(t, "importance", edits[0].Field)
	require.NotNil(t, edits[0].OldValue)
	require.NotNil(t, edits[0].NewValue)
	assert.Equal(t, "medium", *edits[0].OldValue)
	assert.Equal(t, "high", *edits[0].NewValue)
	assert.Equal(t, "title", edits[1].Field)
	assert.Equal(t, "Pay bills", *edits[1].OldValue)
	assert.Equal(t, "Pay all bills", *edits[1].NewValue)
}

func TestUpdate_NoOpRecordsNothing(t *testing.T) {
	svc, clock := newTestService(t)
	task, err := svc.Create(tasks.CreateInput{Title: "Pay bills", Description: "March"})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	same, ok, err := svc.Update(task.ID, tasks.UpdateInput{
		Title:       strPtr("Pay bills"),
		Description: strPtr("March"),
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, baseTime, same.UpdatedAt, "no-op must not bump UpdatedAt")

	entries := svc.History(task.ID, "", "")
	require.Len(t, entries, 1)
	assert.Equal(t, tasks.KindCreation, entries[0].Kind)
}

func TestUpdate_AbsentTask(t *testing.T) {
	svc, _ := newTestService(t)
	_, ok, err := svc.Update("missing", tasks.UpdateInput{Title: strPtr("x")})
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestUpdate_ValidationFailureLeavesTaskUntouched(t *testing.T) {
	svc, _ := newTestService(t)
	task, err := svc.Create(tasks.CreateInput{Title: "Pay bills"})
	require.NoError(t, err)

	_, ok, err := svc.Update(task.ID, tasks.UpdateInput{Title: strPtr("  ")})
	assert.True(t, ok)
	assert.ErrorIs(t, err, tasks.ErrTitleRequired)

	stored, found := svc.Get(task.ID)
	require.True(t, found)
	assert.Equal(t, "Pay bills", stored.Title)
	assert.Len(t, svc.History(task.ID, "", ""), 1)
}

func TestUpdate_ClearingDueDateRecordsNullNewValue(t *testing.T) {
	svc, _ := newTestService(t)
	due := dateOf(baseTime.AddDate(0, 0, 3))
	task, err := svc.Create(tasks.CreateInput{Title: "Pay bills", DueDate: due})
	require.NoError(t, err)

	updated, ok, err := svc.Update(task.ID, tasks.UpdateInput{DueDate: strPtr("")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, updated.DueDate)

	edits := svc.History(task.ID, tasks.KindEdit, "")
	require.Len(t, edits, 1)
	assert.Equal(t, "due_date", edits[0].Field)
	require.NotNil(t, edits[0].OldValue)
	assert.Equal(t, due, *edits[0].OldValue)
	assert.Nil(t, edits[0].NewValue)
}

func TestUpdate_DueDateChangeResetsOverdueTask(t *testing.T) {
	svc, _ := newTestService(t)
	task, err := svc.Create(tasks.CreateInput{
		Title:   "Pay bills",
		DueDate: dateOf(baseTime.AddDate(0, 0, -1)),
	})
	require.NoError(t, err)
	require.Equal(t, 1, svc.CheckOverdue())

	tomorrow := dateOf(baseTime.AddDate(0, 0, 1))
	updated, ok, err := svc.Update(task.ID, tasks.UpdateInput{DueDate: strPtr(tomorrow)})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tasks.StatusPending, updated.Status)

	// One automatic status_change on top of the sweep's, plus the edit.
	auto := svc.History(task.ID, tasks.KindStatusChange, tasks.OriginAutomatic)
	require.Len(t, auto, 2)
	require.NotNil(t, auto[0].OldValue)
	require.NotNil(t, auto[0].NewValue)
	assert.Equal(t, "overdue", *auto[0].OldValue)
	assert.Equal(t, "pending", *auto[0].NewValue)
	assert.Len(t, svc.History(task.ID, tasks.KindEdit, ""), 1)
}

func TestUpdate_OtherEditsLeaveOverdueAlone(t *testing.T) {
	svc, _ := newTestService(t)
	task, err := svc.Create(tasks.CreateInput{
		Title:   "Pay bills",
		DueDate: dateOf(baseTime.AddDate(0, 0, -1)),
	})
	require.NoError(t, err)
	require.Equal(t, 1, svc.CheckOverdue())

	updated, ok, err := svc.Update(task.ID, tasks.UpdateInput{Title: strPtr("Pay all bills")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tasks.StatusOverdue, updated.Status)
}

func TestUpdate_PastDueDateDoesNotResetOverdue(t *testing.T) {
	svc, _ := newTestService(t)
	task, err := svc.Create(tasks.CreateInput{
		Title:   "Pay bills",
		DueDate: dateOf(baseTime.AddDate(0, 0, -1)),
	})
	require.NoError(t, err)
	require.Equal(t, 1, svc.CheckOverdue())

	// Moving the due date to another past day keeps the task overdue.
	updated, ok, err := svc.Update(task.ID, tasks.UpdateInput{
		DueDate: strPtr(dateOf(baseTime.AddDate(0, 0, -2))),
	})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tasks.StatusOverdue, updated.Status)
}

// =============================================================================
// Delete Tests
// =============================================================================

func TestDelete_HistorySurvives(t *testing.T) {
	svc, _ := newTestService(t)
	task, err := svc.Create(tasks.CreateInput{Title: "Pay bills"})
	require.NoError(t, err)

	require.True(t, svc.Delete(task.ID))
	_, found := svc.Get(task.ID)
	assert.False(t, found)
	assert.Empty(t, svc.List(tasks.QuerySpec{}))

	entries := svc.History(task.ID, "", "")
	require.Len(t, entries, 2)
	assert.Equal(t, tasks.KindDeletion, entries[0].Kind)
	assert.Equal(t, tasks.KindCreation, entries[1].Kind)
}

func TestDelete_AbsentTask(t *testing.T) {
	svc, _ := newTestService(t)
	assert.False(t, svc.Delete("missing"))
}

// =============================================================================
// Record Observer
// =============================================================================

func TestOnRecord_ObserverSeesEveryEntryKind(t *testing.T) {
	svc, _ := newTestService(t)

	var kinds []tasks.ChangeKind
	svc.OnRecord(func(kind tasks.ChangeKind) {
		kinds = append(kinds, kind)
	})

	task, err := svc.Create(tasks.CreateInput{Title: "Pay bills"})
	require.NoError(t, err)
	_, _, err = svc.Update(task.ID, tasks.UpdateInput{Title: strPtr("Pay all bills")})
	require.NoError(t, err)
	_, _, err = svc.SetStatus(task.ID, tasks.StatusCompleted)
	require.NoError(t, err)
	require.True(t, svc.Delete(task.ID))

	assert.Equal(t, []tasks.ChangeKind{
		tasks.KindCreation,
		tasks.KindEdit,
		tasks.KindStatusChange,
		tasks.KindDeletion,
	}, kinds)
	assert.Len(t, kinds, len(svc.History(task.ID, "", "")),
		"the observer fires once per entry in the log")
}

// =============================================================================
// Concurrency
// =============================================================================

func TestService_ConcurrentMutations(t *testing.T) {
	svc, _ := newTestService(t)
	task, err := svc.Create(tasks.CreateInput{Title: "Pay bills"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = svc.Update(task.ID, tasks.UpdateInput{Title: strPtr("Pay all bills")})
			_ = svc.List(tasks.QuerySpec{})
			_ = svc.History(task.ID, "", "")
		}()
	}
	wg.Wait()

	stored, found := svc.Get(task.ID)
	require.True(t, found)
	assert.Equal(t, "Pay all bills", stored.Title)
	// Exactly one update actually changed the title; the rest were no-ops.
	assert.Len(t, svc.History(task.ID, tasks.KindEdit, ""), 1)
}
