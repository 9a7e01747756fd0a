package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistration(t *testing.T) {
	// Verify all metrics are registered without conflicts
	metrics := []prometheus.Collector{
		CoreAPIRequestsTotal,
		CommandsTotal,
		RelayRequestsTotal,
		RelaySendDuration,
		IdentityCacheLookupsTotal,
	}

	for _, metric := range metrics {
		desc := make(chan *prometheus.Desc, 1)
		metric.Describe(desc)
		close(desc)

		require.NotNil(t, <-desc, "metric should have a valid descriptor")
	}
}

func TestCounterMetrics(t *testing.T) {
	tests := []struct {
		name   string
		metric *prometheus.CounterVec
		labels prometheus.Labels
	}{
		{
			name:   "core api requests counter",
			metric: CoreAPIRequestsTotal,
			labels: prometheus.Labels{"operation": "register_identity", "status": "200"},
		},
		{
			name:   "commands counter",
			metric: CommandsTotal,
			labels: prometheus.Labels{"command": "add", "outcome": "success"},
		},
		{
			name:   "relay requests counter",
			metric: RelayRequestsTotal,
			labels: prometheus.Labels{"outcome": "success"},
		},
		{
			name:   "identity cache lookups counter",
			metric: IdentityCacheLookupsTotal,
			labels: prometheus.Labels{"result": "hit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(tt.metric.With(tt.labels))
			tt.metric.With(tt.labels).Inc()
			after := testutil.ToFloat64(tt.metric.With(tt.labels))
			assert.Equal(t, before+1, after)
		})
	}
}
