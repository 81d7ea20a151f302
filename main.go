// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command AleutianTasks starts the personal task manager HTTP service.
//
// # Environment Variables
//
//   - TASKS_CONFIG: path to the YAML config file (default: ./tasks.yaml)
//   - TASKS_PORT: HTTP server port (default: 12280)
//   - TASKS_STORAGE_BACKEND: "memory" or "badger" (default: memory)
//   - TASKS_STORAGE_PATH: BadgerDB directory for the badger backend
//   - TASKS_SWEEP_INTERVAL: background sweep period, e.g. "5m" (default: off)
//   - TASKS_LOG_LEVEL: debug, info, warn, error (default: info)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OpenTelemetry collector; tracing is
//     disabled when unset
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/AleutianTasks/config"
	"github.com/AleutianAI/AleutianTasks/middleware"
	"github.com/AleutianAI/AleutianTasks/observability"
	"github.com/AleutianAI/AleutianTasks/routes"
	badgerstore "github.com/AleutianAI/AleutianTasks/storage/badger"
	"github.com/AleutianAI/AleutianTasks/storage/memory"
	"github.com/AleutianAI/AleutianTasks/tasks"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// initTracer wires the OTLP gRPC trace exporter. Returns a nil cleanup
// when no collector endpoint is configured.
func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		slog.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, tracing disabled")
		return nil, nil
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("tasks-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func logLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	configPath := os.Getenv("TASKS_CONFIG")
	if configPath == "" {
		configPath = "./tasks.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout,
		&slog.HandlerOptions{Level: logLevel(cfg.Log.Level)}))
	slog.SetDefault(logger)

	// --- Init the tracer ---
	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	if cleanup != nil {
		defer cleanup(context.Background())
	}

	// --- Storage backend ---
	var (
		store   tasks.TaskStore
		history tasks.HistoryLog
	)
	switch cfg.Storage.Backend {
	case "badger":
		db, err := badgerstore.Open(badgerstore.Config{
			Path:       cfg.Storage.Path,
			SyncWrites: cfg.Storage.SyncWrites,
			Logger:     logger,
		})
		if err != nil {
			log.Fatalf("failed to open badger storage: %v", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				slog.Error("failed to close badger storage", "error", err)
			}
		}()
		store, history = db, db
		slog.Info("using badger storage backend", "path", cfg.Storage.Path)
	default:
		store, history = memory.NewStore(), memory.NewLog()
		slog.Info("using in-memory storage backend")
	}

	metrics := observability.NewMetrics()
	svc := tasks.NewService(store, history, tasks.NewSystemClock())
	svc.OnSweep(func(flipped int, elapsed time.Duration) {
		metrics.RecordSweep(flipped, elapsed.Seconds())
	})
	svc.OnRecord(func(kind tasks.ChangeKind) {
		metrics.RecordHistoryEntry(string(kind))
	})

	// --- Optional background sweep ---
	interval, err := cfg.SweepInterval()
	if err != nil {
		log.Fatalf("invalid sweep configuration: %v", err)
	}
	if interval > 0 {
		scheduler := tasks.NewSweepScheduler(svc, interval)
		if err := scheduler.Start(context.Background()); err != nil {
			log.Fatalf("failed to start sweep scheduler: %v", err)
		}
		defer scheduler.Stop()
	}

	// gin.New instead of gin.Default: the slog middleware is the single
	// request log line.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		router.Use(otelgin.Middleware("tasks-service"))
	}
	routes.SetupRoutes(router, svc, metrics)

	port := strconv.Itoa(cfg.Server.Port)
	slog.Info("starting the tasks server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
