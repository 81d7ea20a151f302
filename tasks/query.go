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
	"sort"
	"strings"
	"time"
)

// =============================================================================
// Query Engine
// =============================================================================

// Period is the schedule-window filter applied to the task collection.
type Period string

const (
	// PeriodAll passes every task through.
	PeriodAll Period = ""

	// PeriodToday keeps tasks due on the current calendar day.
	PeriodToday Period = "today"

	// PeriodThisWeek keeps tasks due within [today, today+7 days]
	// inclusive. This is a rolling window from today, not a calendar
	// week; the cutoff moves with the current day.
	PeriodThisWeek Period = "this_week"

	// PeriodThisMonth keeps tasks whose due date is in the current
	// calendar month and year.
	PeriodThisMonth Period = "this_month"

	// PeriodDueSoon keeps pending tasks whose effective due moment falls
	// within the next 48 hours.
	PeriodDueSoon Period = "due_soon"

	// PeriodOverdue keeps tasks whose status is overdue.
	PeriodOverdue Period = "overdue"

	// PeriodNoDate keeps tasks without a due date.
	PeriodNoDate Period = "no_date"
)

// Valid reports whether p is a known period, including the All sentinel.
func (p Period) Valid() bool {
	switch p {
	case PeriodAll, PeriodToday, PeriodThisWeek, PeriodThisMonth,
		PeriodDueSoon, PeriodOverdue, PeriodNoDate:
		return true
	}
	return false
}

// OrderBy selects the sort key for query results.
type OrderBy string

const (
	// OrderByNone keeps the store's creation order.
	OrderByNone OrderBy = ""

	// OrderByDueDate sorts by effective due date. Tasks without a due
	// date always sort after all dated tasks, in both directions.
	OrderByDueDate OrderBy = "due_date"

	// OrderByImportance sorts by importance rank; ascending puts the
	// most important (high) first.
	OrderByImportance OrderBy = "importance"

	// OrderByCreatedAt sorts by creation timestamp.
	OrderByCreatedAt OrderBy = "created_at"
)

// Valid reports whether o is a known sort key, including none.
func (o OrderBy) Valid() bool {
	switch o {
	case OrderByNone, OrderByDueDate, OrderByImportance, OrderByCreatedAt:
		return true
	}
	return false
}

// OrderDir is the sort direction. Ascending is the default.
type OrderDir string

const (
	OrderAsc  OrderDir = "asc"
	OrderDesc OrderDir = "desc"
)

// QuerySpec is a request-supplied filter/sort specification.
//
// Zero values are the "All" sentinels: an empty Status, Importance, or
// Period disables that filter, an empty Search skips searching, and an
// empty OrderBy keeps creation order.
type QuerySpec struct {
	Status     Status
	Importance Importance
	Period     Period
	Search     string
	OrderBy    OrderBy
	OrderDir   OrderDir
}

// ApplyQuery runs the filter/sort pipeline over a task snapshot.
//
// # Description
//
// Stages run in this exact order, each narrowing the working set:
// status filter, importance filter, period filter, free-text search,
// sort. Tasks without a due date are excluded from every date-bound
// period except no_date and All. Search is a case-insensitive substring
// match against title or description; an absent description never
// matches. The sort is stable, so ties keep their original order.
//
// The input slice is never mutated; the result is a new ordered sequence.
func ApplyQuery(spec QuerySpec, snapshot []Task, now time.Time) []Task {
	out := make([]Task, 0, len(snapshot))
	needle := strings.ToLower(spec.Search)
	for _, t := range snapshot {
		if spec.Status != "" && t.Status != spec.Status {
			continue
		}
		if spec.Importance != "" && t.Importance != spec.Importance {
			continue
		}
		if !inPeriod(t, spec.Period, now) {
			continue
		}
		if needle != "" && !matchesSearch(t, needle) {
			continue
		}
		out = append(out, t)
	}
	sortTasks(out, spec.OrderBy, spec.OrderDir)
	return out
}

// inPeriod reports whether the task falls inside the period window.
func inPeriod(t Task, p Period, now time.Time) bool {
	switch p {
	case PeriodAll:
		return true
	case PeriodOverdue:
		return t.Status == StatusOverdue
	case PeriodNoDate:
		return t.DueDate == ""
	}

	// Every remaining period is date-bound; tasks without a due date are
	// excluded from all of them.
	if t.DueDate == "" {
		return false
	}
	day, err := time.ParseInLocation(DueDateLayout, t.DueDate, time.Local)
	if err != nil {
		return false
	}
	today := startOfDay(now)

	switch p {
	case PeriodToday:
		return day.Equal(today)
	case PeriodThisWeek:
		return !day.Before(today) && !day.After(today.AddDate(0, 0, 7))
	case PeriodThisMonth:
		return day.Month() == now.Month() && day.Year() == now.Year()
	case PeriodDueSoon:
		if t.Status != StatusPending {
			return false
		}
		due, ok := t.DueMoment()
		return ok && !due.Before(now) && !due.After(now.Add(48*time.Hour))
	}
	return false
}

// matchesSearch reports whether the lowercase needle occurs in the title
// or the description.
func matchesSearch(t Task, needle string) bool {
	if strings.Contains(strings.ToLower(t.Title), needle) {
		return true
	}
	return t.Description != "" && strings.Contains(strings.ToLower(t.Description), needle)
}

// sortTasks orders tasks in place by the given key and direction.
//
// When sorting by due date, the no-date-last placement is a fixed
// tie-break: direction only flips the comparison between two dated
// tasks. For the other keys direction flips the full comparison sign.
func sortTasks(out []Task, key OrderBy, dir OrderDir) {
	if key == OrderByNone {
		return
	}
	desc := dir == OrderDesc
	sort.SliceStable(out, func(i, j int) bool {
		switch key {
		case OrderByDueDate:
			di, iOK := out[i].DueMoment()
			dj, jOK := out[j].DueMoment()
			if iOK != jOK {
				return iOK // dated tasks before no-date tasks, always
			}
			if !iOK || di.Equal(dj) {
				return false
			}
			if desc {
				return di.After(dj)
			}
			return di.Before(dj)
		case OrderByImportance:
			ri, rj := out[i].Importance.Rank(), out[j].Importance.Rank()
			if ri == rj {
				return false
			}
			if desc {
				return ri > rj
			}
			return ri < rj
		case OrderByCreatedAt:
			ci, cj := out[i].CreatedAt, out[j].CreatedAt
			if ci.Equal(cj) {
				return false
			}
			if desc {
				return ci.After(cj)
			}
			return ci.Before(cj)
		}
		return false
	})
}
