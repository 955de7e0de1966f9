package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestUpdateSystemMetrics(t *testing.T) {
	UpdateSystemMetrics()

	assert.Greater(t, testutil.ToFloat64(SystemGoroutines), 0.0)
	assert.Greater(t, testutil.ToFloat64(SystemMemoryUsage), 0.0)
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(DroppedRecords.WithLabelValues("self_edge"))
	DroppedRecords.WithLabelValues("self_edge").Add(2)
	assert.Equal(t, before+2, testutil.ToFloat64(DroppedRecords.WithLabelValues("self_edge")))
}
