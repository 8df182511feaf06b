package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistered(t *testing.T) {
	PipelineSteps.WithLabelValues("test", "step", OutcomeContinue).Inc()
	PipelineResponses.WithLabelValues("test", "200").Inc()
	PipelineDuration.WithLabelValues("test").Observe(0.01)
	HashDuration.WithLabelValues("hash").Observe(0.05)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	expected := map[string]bool{
		"bookshelf_pipeline_steps_total":      false,
		"bookshelf_pipeline_responses_total":  false,
		"bookshelf_pipeline_duration_seconds": false,
		"bookshelf_hash_duration_seconds":     false,
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		assert.True(t, found, "metric %s not registered", name)
	}
}

func TestPipelineStepsCounts(t *testing.T) {
	c := PipelineSteps.WithLabelValues("counting", "verifyToken", OutcomeHalt)
	before := counterValue(t, c)
	c.Inc()
	c.Inc()
	assert.Equal(t, before+2, counterValue(t, c))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
