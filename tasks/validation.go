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
	"strings"
	"time"
	"unicode/utf8"
)

// Field constraints applied identically on create and update.
const (
	// MaxTitleLen is the maximum title length in characters.
	MaxTitleLen = 100

	// MaxDescriptionLen is the maximum description length in characters.
	MaxDescriptionLen = 500
)

// ValidateFields checks the business constraints on task fields.
//
// # Description
//
// Pure predicate checks over the input only; no side effects. Applied
// identically by Create and Update before the store is touched:
//
//   - ErrTitleRequired when the title is empty or whitespace-only
//   - ErrTitleTooLong when the title exceeds MaxTitleLen characters
//   - ErrDescriptionTooLong when the description exceeds MaxDescriptionLen
//   - ErrBadDueDate / ErrBadDueTime when a non-empty due date or due time
//     does not parse in its fixed layout
//
// The past-due-date rule is deliberately NOT here: it belongs to the
// request boundary (see datatypes), not to pure storage.
func ValidateFields(title, description, dueDate, dueTime string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return ErrTitleTooLong
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if dueDate != "" {
		if _, err := time.ParseInLocation(DueDateLayout, dueDate, time.Local); err != nil {
			return ErrBadDueDate
		}
	}
	if dueTime != "" {
		if _, err := time.ParseInLocation(DueTimeLayout, dueTime, time.Local); err != nil {
			return ErrBadDueTime
		}
	}
	return nil
}

// DueDateInPast reports whether dueDate falls before the calendar day of
// now. The time component of now is ignored. Unparseable or empty dates
// report false; format errors are caught by ValidateFields.
func DueDateInPast(dueDate string, now time.Time) bool {
	if dueDate == "" {
		return false
	}
	day, err := time.ParseInLocation(DueDateLayout, dueDate, time.Local)
	if err != nil {
		return false
	}
	return day.Before(startOfDay(now))
}
