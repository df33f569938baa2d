package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	// 各テストで新しいレジストリを使用
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.ReservationsTotal)
	assert.NotNil(t, m.CommitConflictsTotal)
	assert.NotNil(t, m.CommitAttempts)
	assert.NotNil(t, m.CompensationsTotal)
}

func TestReservationsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.ReservationsTotal.WithLabelValues("confirmed").Inc()
	m.ReservationsTotal.WithLabelValues("confirmed").Inc()
	m.ReservationsTotal.WithLabelValues("seat_unavailable").Inc()
	m.ReservationsTotal.WithLabelValues("validation_error").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "reservations_total" {
			found = true
			assert.Equal(t, 3, len(f.GetMetric()))
		}
	}
	assert.True(t, found, "reservations_total metric not found")
}

func TestCommitConflictsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.CommitConflictsTotal.Inc()
	m.CommitConflictsTotal.Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "seat_map_commit_conflicts_total" {
			found = true
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, float64(2), f.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found, "seat_map_commit_conflicts_total metric not found")
}

func TestCommitAttempts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.CommitAttempts.Observe(1)
	m.CommitAttempts.Observe(1)
	m.CommitAttempts.Observe(3)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "seat_map_commit_attempts" {
			found = true
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, uint64(3), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	assert.True(t, found, "seat_map_commit_attempts metric not found")
}

func TestCompensationsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.CompensationsTotal.WithLabelValues("reappend").Inc()
	m.CompensationsTotal.WithLabelValues("release").Inc()
	m.CompensationsTotal.WithLabelValues("failed").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "reservation_compensations_total" {
			found = true
			assert.Equal(t, 3, len(f.GetMetric()))
		}
	}
	assert.True(t, found, "reservation_compensations_total metric not found")
}
