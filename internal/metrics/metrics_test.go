package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestObserveMappingIncrementsRequestCounter(t *testing.T) {
	require := require.New(t)
	before := counterValue(t, "identity", "true")

	ObserveMapping("identity", true, 5*time.Millisecond)

	after := counterValue(t, "identity", "true")
	require.Equal(before+1, after)
}

func TestObserveMappingRecordsFailureOutcome(t *testing.T) {
	require := require.New(t)
	before := counterValue(t, "error", "false")

	ObserveMapping("error", false, time.Microsecond)

	after := counterValue(t, "error", "false")
	require.Equal(before+1, after)
}

// counterValue scrapes the current value of the unitalgebra_mapper_requests_total
// counter for the given label pair straight off the default registry, the
// only seam prometheus.CounterVec exposes without a custom registerer.
func counterValue(t *testing.T, kind, ok string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != "unitalgebra_mapper_requests_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["kind"] == kind && labels["ok"] == ok {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
