// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package tasks implements the task lifecycle and history-tracking engine.
//
// The package is the core of the AleutianTasks service. It owns:
//
//   - Task state transitions (pending / completed / overdue) and the
//     overdue-detection sweep
//   - Field-level change detection that drives the append-only history log
//   - The filter / search / sort pipeline applied to the task collection
//
// Everything else in the repository (HTTP routing, request schemas,
// middleware) is thin plumbing around this package.
//
// # Control Flow
//
// Callers go through the Service facade. Mutating operations validate
// their input, mutate the TaskStore, apply lifecycle rules, and record
// history entries as a single atomic unit. Listing runs the overdue
// sweep first so that overdue filters and badges are always consistent
// with the current moment.
//
// # Concurrency
//
// Service serializes mutating operations with an internal mutex so that
// each logical change commits exactly one set of history entries before
// the next operation is observed. Store implementations must additionally
// be safe for concurrent use on their own.
package tasks
