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
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// SweepScheduler runs the overdue sweep periodically in the background.
//
// # Description
//
// The pre-listing sweep is the consistency guarantee; this scheduler is
// an optional extra that keeps durable backends fresh between requests.
// It uses the ticker + done channel pattern for graceful shutdown.
//
// # Limitations
//
//   - Only one scheduler should run per service instance.
//   - The scheduler does not persist state between restarts; the sweep
//     is idempotent, so nothing is lost.
//
// # Thread Safety
//
// All methods are safe for concurrent use.
type SweepScheduler struct {
	service  *Service
	interval time.Duration
	done     chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewSweepScheduler creates a scheduler that calls CheckOverdue every
// interval. The scheduler is created stopped; call Start to run it.
func NewSweepScheduler(service *Service, interval time.Duration) *SweepScheduler {
	return &SweepScheduler{
		service:  service,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the background sweep loop.
//
// Returns an error when the scheduler is already running or the interval
// is not positive. The loop stops when Stop is called or ctx is
// cancelled.
func (s *SweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("sweep scheduler already running")
	}
	if s.interval <= 0 {
		return fmt.Errorf("sweep interval must be positive, got %v", s.interval)
	}
	s.running = true
	s.done = make(chan struct{})

	go s.run(ctx)
	slog.Info("sweep scheduler started", "interval", s.interval)
	return nil
}

// Stop signals the loop to exit. Safe to call multiple times.
func (s *SweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.done)
	s.running = false
	slog.Info("sweep scheduler stopped")
}

// RunNow triggers an immediate sweep outside the schedule and returns
// the number of tasks flipped to overdue.
func (s *SweepScheduler) RunNow() int {
	return s.service.CheckOverdue()
}

func (s *SweepScheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			flipped := s.service.CheckOverdue()
			slog.Debug("scheduled overdue sweep completed", "flipped", flipped)
		case <-s.done:
			return
		case <-ctx.Done():
			s.Stop()
			return
		}
	}
}
