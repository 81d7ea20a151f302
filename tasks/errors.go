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

import "errors"

// Sentinel errors for task operations.
//
// These are business-rule failures, not infrastructure faults: they are
// synchronous, locally detectable, and non-retryable. They propagate to
// the HTTP boundary untouched so handlers can map them to stable error
// codes. Lookup misses are NOT errors; every operation that takes an
// identifier reports absence through an explicit boolean instead.
var (
	// ErrTitleRequired is returned when a title is empty or whitespace-only.
	ErrTitleRequired = errors.New("title is required")

	// ErrTitleTooLong is returned when a title exceeds MaxTitleLen characters.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrDescriptionTooLong is returned when a description exceeds
	// MaxDescriptionLen characters.
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")

	// ErrBadDueDate is returned when a due date does not match DueDateLayout.
	ErrBadDueDate = errors.New("due date must match DD/MM/YYYY")

	// ErrBadDueTime is returned when a due time does not match DueTimeLayout.
	ErrBadDueTime = errors.New("due time must match HH:MM")

	// ErrPastDueDate is returned by the request boundary when a due date is
	// earlier than the current calendar day. The time component is ignored.
	ErrPastDueDate = errors.New("due date is in the past")

	// ErrIllegalStatusTransition is returned by SetStatus for any transition
	// other than pending->completed or completed->pending. In particular,
	// overdue->pending is only ever allowed as a side effect of editing the
	// due date, never via an explicit status change.
	ErrIllegalStatusTransition = errors.New("illegal status transition")
)
