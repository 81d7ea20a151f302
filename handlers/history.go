// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianTasks/datatypes"
	"github.com/AleutianAI/AleutianTasks/observability"
	"github.com/AleutianAI/AleutianTasks/tasks"
)

// GetTaskHistory handles GET /v1/tasks/:taskId/history.
//
// The audit trail survives task deletion, so this endpoint answers for
// deleted identifiers too; an identifier with no recorded history simply
// returns an empty list.
func GetTaskHistory(svc *tasks.Service, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("taskId")
		var query datatypes.HistoryQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			m.RecordOperation("history", "error")
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Code: "invalid_query", Error: err.Error(),
			})
			return
		}
		if err := query.Validate(); err != nil {
			m.RecordOperation("history", "error")
			c.JSON(http.StatusBadRequest, datatypes.ErrorResponse{
				Code: "invalid_query", Error: err.Error(),
			})
			return
		}

		entries := svc.History(id, tasks.ChangeKind(query.Kind), tasks.Origin(query.Origin))
		m.RecordOperation("history", "success")
		c.JSON(http.StatusOK, datatypes.HistoryResponse{Entries: entries, Count: len(entries)})
	}
}
