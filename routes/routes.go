// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AleutianAI/AleutianTasks/handlers"
	"github.com/AleutianAI/AleutianTasks/observability"
	"github.com/AleutianAI/AleutianTasks/tasks"
)

// SetupRoutes registers every endpoint of the tasks service.
func SetupRoutes(router *gin.Engine, svc *tasks.Service, metrics *observability.Metrics) {
	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		taskRoutes := v1.Group("/tasks")
		{
			taskRoutes.POST("", handlers.CreateTask(svc, metrics))
			taskRoutes.GET("", handlers.ListTasks(svc, metrics))
			taskRoutes.GET("/:taskId", handlers.GetTask(svc, metrics))
			taskRoutes.PATCH("/:taskId", handlers.UpdateTask(svc, metrics))
			taskRoutes.DELETE("/:taskId", handlers.DeleteTask(svc, metrics))
			taskRoutes.POST("/:taskId/status", handlers.SetTaskStatus(svc, metrics))
			taskRoutes.GET("/:taskId/history", handlers.GetTaskHistory(svc, metrics))
		}
	}
}
