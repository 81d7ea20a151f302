// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the tasks service.
//
// Metrics are exposed via the /metrics endpoint. All metric operations
// are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace and subsystem for all metrics.
const (
	metricsNamespace = "aleutian"
	tasksSubsystem   = "tasks"
)

// Metrics holds the Prometheus metrics for task operations.
//
// # Fields
//
//   - OperationsTotal: counter of service operations by operation and outcome
//   - SweepTransitionsTotal: counter of tasks flipped to overdue by the sweep
//   - SweepDurationSeconds: histogram of sweep pass duration
//   - HistoryEntriesTotal: counter of history entries written, by kind
type Metrics struct {
	// OperationsTotal counts task operations.
	// Labels: operation (create, list, get, update, delete, set_status,
	// history), status (success, error, not_found)
	OperationsTotal *prometheus.CounterVec

	// SweepTransitionsTotal counts pending->overdue flips made by the sweep.
	SweepTransitionsTotal prometheus.Counter

	// SweepDurationSeconds measures how long a sweep pass takes.
	SweepDurationSeconds prometheus.Histogram

	// HistoryEntriesTotal counts audit entries written.
	// Labels: kind (creation, edit, status_change, deletion)
	HistoryEntriesTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the task metrics with the default
// Prometheus registerer. Call once at startup.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates the task metrics against a specific registerer.
// Tests use this with a fresh prometheus.NewRegistry() to avoid duplicate
// registration panics.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		OperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: tasksSubsystem,
			Name:      "operations_total",
			Help:      "Task service operations by operation and outcome.",
		}, []string{"operation", "status"}),
		SweepTransitionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: tasksSubsystem,
			Name:      "sweep_transitions_total",
			Help:      "Tasks flipped from pending to overdue by the sweep.",
		}),
		SweepDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: tasksSubsystem,
			Name:      "sweep_duration_seconds",
			Help:      "Duration of an overdue sweep pass.",
			Buckets:   prometheus.DefBuckets,
		}),
		HistoryEntriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: tasksSubsystem,
			Name:      "history_entries_total",
			Help:      "History entries written to the audit log by kind.",
		}, []string{"kind"}),
	}
}

// RecordOperation increments the operation counter.
func (m *Metrics) RecordOperation(operation, status string) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
}

// RecordHistoryEntry counts one audit entry written to the history log.
func (m *Metrics) RecordHistoryEntry(kind string) {
	if m == nil {
		return
	}
	m.HistoryEntriesTotal.WithLabelValues(kind).Inc()
}

// RecordSweep records the outcome of one sweep pass.
func (m *Metrics) RecordSweep(flipped int, seconds float64) {
	if m == nil {
		return
	}
	m.SweepTransitionsTotal.Add(float64(flipped))
	m.SweepDurationSeconds.Observe(seconds)
}
