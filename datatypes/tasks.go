// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes provides request and response types for the tasks
// service HTTP boundary.
//
// Request schema validation lives here (formats, enums, and the
// past-due-date rule); business validation (title and description
// bounds, status transitions) lives in the tasks package. The split
// matches the contract: the past-due-date check is a boundary rule, not
// a storage rule, so routes that replay stored tasks are unaffected by
// the passage of time.
package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AleutianTasks/tasks"
)

// =============================================================================
// Shared Validator Instance
// =============================================================================

// taskValidate is the validator instance for task request types.
// Initialized in init() with the date/time format validators.
var taskValidate *validator.Validate

func init() {
	taskValidate = validator.New()

	_ = taskValidate.RegisterValidation("duedate", validateDueDate)
	_ = taskValidate.RegisterValidation("duetime", validateDueTime)
	_ = taskValidate.RegisterValidation("notpast", validateNotPast)
}

// validateDueDate checks the DD/MM/YYYY due date format. The empty
// string passes: omitempty does not skip a pointer to "", and clearing a
// due date must stay legal.
func validateDueDate(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if v == "" {
		return true
	}
	_, err := time.ParseInLocation(tasks.DueDateLayout, v, time.Local)
	return err == nil
}

// validateDueTime checks the HH:MM due time format. The empty string
// passes for the same reason as validateDueDate.
func validateDueTime(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	if v == "" {
		return true
	}
	_, err := time.ParseInLocation(tasks.DueTimeLayout, v, time.Local)
	return err == nil
}

// validateNotPast rejects due dates before the current calendar day.
// The time component is ignored; a task due today is still schedulable.
func validateNotPast(fl validator.FieldLevel) bool {
	return !tasks.DueDateInPast(fl.Field().String(), time.Now())
}

// sentinelFor maps a failed validation tag on a field to the matching
// business error so handlers surface one stable code per rule.
func sentinelFor(fieldErr validator.FieldError) error {
	switch fieldErr.Tag() {
	case "notpast":
		return tasks.ErrPastDueDate
	case "duedate":
		return tasks.ErrBadDueDate
	case "duetime":
		return tasks.ErrBadDueTime
	}
	return fieldErr
}

func firstSentinel(err error) error {
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		return sentinelFor(errs[0])
	}
	return err
}

// =============================================================================
// Request Types
// =============================================================================

// CreateTaskRequest is the body of POST /v1/tasks.
//
// # Validation
//
//   - Title: required (length bounds are enforced by the tasks package)
//   - DueDate: optional, DD/MM/YYYY, not before the current calendar day
//   - DueTime: optional, HH:MM
//   - Importance: optional, one of high / medium / low (default medium)
type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" validate:"omitempty,duedate,notpast"`
	DueTime     string `json:"due_time" validate:"omitempty,duetime"`
	Importance  string `json:"importance" validate:"omitempty,oneof=high medium low"`
}

// Validate checks the request schema. Returns a tasks sentinel error for
// rule violations so the handler can map it to a stable code.
func (r *CreateTaskRequest) Validate() error {
	return firstSentinel(taskValidate.Struct(r))
}

// Input converts the request to the core create input.
func (r *CreateTaskRequest) Input() tasks.CreateInput {
	return tasks.CreateInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		DueTime:     r.DueTime,
		Importance:  tasks.Importance(r.Importance),
	}
}

// UpdateTaskRequest is the body of PATCH /v1/tasks/:taskId.
//
// Absent fields are left unchanged; an explicit empty string clears an
// optional field. The empty string skips the format and past-date rules,
// so clearing a due date is always allowed.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date" validate:"omitempty,duedate,notpast"`
	DueTime     *string `json:"due_time" validate:"omitempty,duetime"`
	Importance  *string `json:"importance" validate:"omitempty,oneof=high medium low"`
}

// Validate checks the request schema.
func (r *UpdateTaskRequest) Validate() error {
	return firstSentinel(taskValidate.Struct(r))
}

// Input converts the request to the core update input.
func (r *UpdateTaskRequest) Input() tasks.UpdateInput {
	in := tasks.UpdateInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		DueTime:     r.DueTime,
	}
	if r.Importance != nil {
		imp := tasks.Importance(*r.Importance)
		in.Importance = &imp
	}
	return in
}

// SetStatusRequest is the body of POST /v1/tasks/:taskId/status. The
// schema admits all three statuses; the lifecycle rules decide which
// transitions are actually legal.
type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending completed overdue"`
}

// Validate checks the request schema.
func (r *SetStatusRequest) Validate() error {
	return firstSentinel(taskValidate.Struct(r))
}

// ListTasksQuery is the query string of GET /v1/tasks. Empty values are
// the "All" sentinels.
type ListTasksQuery struct {
	Status     string `form:"status" validate:"omitempty,oneof=pending completed overdue"`
	Importance string `form:"importance" validate:"omitempty,oneof=high medium low"`
	Period     string `form:"period" validate:"omitempty,oneof=today this_week this_month due_soon overdue no_date"`
	Search     string `form:"search"`
	OrderBy    string `form:"order_by" validate:"omitempty,oneof=due_date importance created_at"`
	OrderDir   string `form:"order_dir" validate:"omitempty,oneof=asc desc"`
}

// Validate checks the query schema.
func (q *ListTasksQuery) Validate() error {
	return firstSentinel(taskValidate.Struct(q))
}

// Spec converts the query to a core query specification.
func (q *ListTasksQuery) Spec() tasks.QuerySpec {
	return tasks.QuerySpec{
		Status:     tasks.Status(q.Status),
		Importance: tasks.Importance(q.Importance),
		Period:     tasks.Period(q.Period),
		Search:     q.Search,
		OrderBy:    tasks.OrderBy(q.OrderBy),
		OrderDir:   tasks.OrderDir(q.OrderDir),
	}
}

// HistoryQuery is the query string of GET /v1/tasks/:taskId/history.
type HistoryQuery struct {
	Kind   string `form:"kind" validate:"omitempty,oneof=creation edit status_change deletion"`
	Origin string `form:"origin" validate:"omitempty,oneof=manual automatic"`
}

// Validate checks the query schema.
func (q *HistoryQuery) Validate() error {
	return firstSentinel(taskValidate.Struct(q))
}

// =============================================================================
// Response Types
// =============================================================================

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type TaskListResponse struct {
	Tasks []tasks.Task `json:"tasks"`
	Count int          `json:"count"`
}

type HistoryResponse struct {
	Entries []tasks.HistoryEntry `json:"entries"`
	Count   int                  `json:"count"`
}

type DeleteResponse struct {
	Status        string `json:"status"`
	DeletedTaskID string `json:"deleted_task_id"`
}
