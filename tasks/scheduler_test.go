// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the background sweep scheduler

package tasks_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianTasks/tasks"
)

func TestSweepScheduler_RunNow(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(tasks.CreateInput{
		Title: "past", DueDate: dateOf(baseTime.AddDate(0, 0, -1))})
	require.NoError(t, err)

	scheduler := tasks.NewSweepScheduler(svc, time.Hour)
	assert.Equal(t, 1, scheduler.RunNow())
	assert.Equal(t, 0, scheduler.RunNow())
}

func TestSweepScheduler_StartRejectsBadInterval(t *testing.T) {
	svc, _ := newTestService(t)
	scheduler := tasks.NewSweepScheduler(svc, 0)
	assert.Error(t, scheduler.Start(context.Background()))
}

func TestSweepScheduler_DoubleStartFails(t *testing.T) {
	svc, _ := newTestService(t)
	scheduler := tasks.NewSweepScheduler(svc, time.Hour)

	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()
	assert.Error(t, scheduler.Start(context.Background()))
}

func TestSweepScheduler_StopIsIdempotentAndRestartable(t *testing.T) {
	svc, _ := newTestService(t)
	scheduler := tasks.NewSweepScheduler(svc, time.Hour)

	require.NoError(t, scheduler.Start(context.Background()))
	scheduler.Stop()
	scheduler.Stop()

	require.NoError(t, scheduler.Start(context.Background()))
	scheduler.Stop()
}

func TestSweepScheduler_TicksSweepTheStore(t *testing.T) {
	svc, _ := newTestService(t)
	task, err := svc.Create(tasks.CreateInput{
		Title: "past", DueDate: dateOf(baseTime.AddDate(0, 0, -1))})
	require.NoError(t, err)

	scheduler := tasks.NewSweepScheduler(svc, 10*time.Millisecond)
	require.NoError(t, scheduler.Start(context.Background()))
	defer scheduler.Stop()

	deadline := time.After(2 * time.Second)
	for {
		if stored, ok := svc.Get(task.ID); ok && stored.Status == tasks.StatusOverdue {
			return
		}
		select {
		case <-deadline:
			t.Fatal("scheduler never flipped the past-due task")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSweepScheduler_ContextCancelStopsLoop(t *testing.T) {
	svc, _ := newTestService(t)
	scheduler := tasks.NewSweepScheduler(svc, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, scheduler.Start(ctx))
	cancel()

	// After cancellation the loop marks itself stopped, so a fresh Start
	// must succeed again.
	assert.Eventually(t, func() bool {
		if err := scheduler.Start(context.Background()); err != nil {
			return false
		}
		scheduler.Stop()
		return true
	}, 2*time.Second, 20*time.Millisecond)
}
