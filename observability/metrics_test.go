// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the Prometheus metrics

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsWith_RegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWith(reg)
	require.NotNil(t, m)

	m.RecordOperation("create", "success")
	m.RecordSweep(2, 0.01)
	m.RecordHistoryEntry("creation")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["aleutian_tasks_operations_total"])
	assert.True(t, names["aleutian_tasks_sweep_transitions_total"])
	assert.True(t, names["aleutian_tasks_sweep_duration_seconds"])
	assert.True(t, names["aleutian_tasks_history_entries_total"])
}

func TestRecordOperation_CountsByLabels(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	m.RecordOperation("create", "success")
	m.RecordOperation("create", "success")
	m.RecordOperation("create", "error")

	assert.Equal(t, 2.0,
		testutil.ToFloat64(m.OperationsTotal.WithLabelValues("create", "success")))
	assert.Equal(t, 1.0,
		testutil.ToFloat64(m.OperationsTotal.WithLabelValues("create", "error")))
}

func TestRecordSweep_AccumulatesTransitions(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	m.RecordSweep(3, 0.02)
	m.RecordSweep(0, 0.01)
	m.RecordSweep(1, 0.05)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.SweepTransitionsTotal))
}

func TestRecordHistoryEntry_CountsByKind(t *testing.T) {
	m := NewMetricsWith(prometheus.NewRegistry())

	m.RecordHistoryEntry("creation")
	m.RecordHistoryEntry("edit")
	m.RecordHistoryEntry("edit")

	assert.Equal(t, 1.0,
		testutil.ToFloat64(m.HistoryEntriesTotal.WithLabelValues("creation")))
	assert.Equal(t, 2.0,
		testutil.ToFloat64(m.HistoryEntriesTotal.WithLabelValues("edit")))
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordOperation("create", "success")
		m.RecordSweep(1, 0.01)
		m.RecordHistoryEntry("creation")
	})
}
