// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers maps HTTP requests onto the tasks service.
//
// Handlers own transport concerns only: binding, request schema
// validation, status codes, and the error-code envelope. Business rules
// stay in the tasks package and their failures pass through untouched.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianTasks/datatypes"
	"github.com/AleutianAI/AleutianTasks/observability"
	"github.com/AleutianAI/AleutianTasks/tasks"
)

// errorCode maps a business failure to its stable wire code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, tasks.ErrTitleRequired):
		return "title_required"
	case errors.Is(err, tasks.ErrTitleTooLong):
		return "title_too_long"
	case errors.Is(err, tasks.ErrDescriptionTooLong):
		return "description_too_long"
	case errors.Is(err, tasks.ErrPastDueDate):
		return "past_due_date"
	case errors.Is(err, tasks.ErrBadDueDate):
		return "bad_due_date"
	case errors.Is(err, tasks.ErrBadDueTime):
		return "bad_due_time"
	case errors.Is(err, tasks.ErrIllegalStatusTransition):
		return "illegal_status_transition"
	}
	return "invalid_request"
}

// abortWithError writes the error envelope for a business-rule failure.
func abortWithError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
		Code:  errorCode(err),
		Error: err.Error(),
	})
}

// CreateTask handles POST /v1/tasks.
func CreateTask(svc *tasks.Service, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req datatypes.CreateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			m.RecordOperation("create", "error")
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Code: "invalid_body", Error: err.Error(),
			})
			return
		}
		if err := req.Validate(); err != nil {
			m.RecordOperation("create", "error")
			abortWithError(c, err)
			return
		}

		task, err := svc.Create(req.Input())
		if err != nil {
			m.RecordOperation("create", "error")
			abortWithError(c, err)
			return
		}
		m.RecordOperation("create", "success")
		c.JSON(http.StatusCreated, task)
	}
}

// ListTasks handles GET /v1/tasks. The overdue sweep runs inside
// Service.List before the snapshot is filtered.
func ListTasks(svc *tasks.Service, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query datatypes.ListTasksQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			m.RecordOperation("list", "error")
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Code: "invalid_query", Error: err.Error(),
			})
			return
		}
		if err := query.Validate(); err != nil {
			m.RecordOperation("list", "error")
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Code: "invalid_query", Error: err.Error(),
			})
			return
		}

		result := svc.List(query.Spec())
		m.RecordOperation("list", "success")
		c.JSON(http.StatusOK, datatypes.TaskListResponse{Tasks: result, Count: len(result)})
	}
}

// GetTask handles GET /v1/tasks/:taskId.
func GetTask(svc *tasks.Service, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("taskId")
		task, ok := svc.Get(id)
		if !ok {
			m.RecordOperation("get", "not_found")
			c.JSON(http.StatusNotFound, datatypes.ErrorResponse{
				Code: "task_not_found", Error: "no task with id " + id,
			})
			return
		}
		m.RecordOperation("get", "success")
		c.JSON(http.StatusOK, task)
	}
}

// UpdateTask handles PATCH /v1/tasks/:taskId.
func UpdateTask(svc *tasks.Service, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("taskId")
		var req datatypes.UpdateTaskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			m.RecordOperation("update", "error")
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Code: "invalid_body", Error: err.Error(),
			})
			return
		}
		if err := req.Validate(); err != nil {
			m.RecordOperation("update", "error")
			abortWithError(c, err)
			return
		}

		task, ok, err := svc.Update(id, req.Input())
		if !ok {
			m.RecordOperation("update", "not_found")
			c.JSON(http.StatusNotFound, datatypes.ErrorResponse{
				Code: "task_not_found", Error: "no task with id " + id,
			})
			return
		}
		if err != nil {
			m.RecordOperation("update", "error")
			abortWithError(c, err)
			return
		}
		m.RecordOperation("update", "success")
		c.JSON(http.StatusOK, task)
	}
}

// DeleteTask handles DELETE /v1/tasks/:taskId.
func DeleteTask(svc *tasks.Service, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("taskId")
		if !svc.Delete(id) {
			m.RecordOperation("delete", "not_found")
			c.JSON(http.StatusNotFound, datatypes.ErrorResponse{
				Code: "task_not_found", Error: "no task with id " + id,
			})
			return
		}
		slog.Info("task deleted via API", "task_id", id)
		m.RecordOperation("delete", "success")
		c.JSON(http.StatusOK, datatypes.DeleteResponse{Status: "deleted", DeletedTaskID: id})
	}
}

// SetTaskStatus handles POST /v1/tasks/:taskId/status.
func SetTaskStatus(svc *tasks.Service, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("taskId")
		var req datatypes.SetStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			m.RecordOperation("set_status", "error")
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Code: "invalid_body", Error: err.Error(),
			})
			return
		}
		if err := req.Validate(); err != nil {
			m.RecordOperation("set_status", "error")
			abortWithError(c, err)
			return
		}

		task, ok, err := svc.SetStatus(id, tasks.Status(req.Status))
		if !ok {
			m.RecordOperation("set_status", "not_found")
			c.JSON(http.StatusNotFound, datatypes.ErrorResponse{
				Code: "task_not_found", Error: "no task with id " + id,
			})
			return
		}
		if err != nil {
			m.RecordOperation("set_status", "error")
			abortWithError(c, err)
			return
		}
		m.RecordOperation("set_status", "success")
		c.JSON(http.StatusOK, task)
	}
}
