// Package observability provides Prometheus metrics for the request pipeline
// and the credential hasher.
package observability

import "github.com/prometheus/client_golang/prometheus"

// Step outcomes recorded in PipelineSteps.
const (
	OutcomeContinue = "continue"
	OutcomeHalt     = "halt"
	OutcomeFail     = "fail"
)

var (
	// PipelineSteps counts step executions by pipeline, step and outcome.
	PipelineSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshelf_pipeline_steps_total",
			Help: "Pipeline step executions",
		},
		[]string{"pipeline", "step", "outcome"},
	)

	// PipelineResponses counts terminal responses by pipeline and status code.
	PipelineResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshelf_pipeline_responses_total",
			Help: "Pipeline responses",
		},
		[]string{"pipeline", "status"},
	)

	// PipelineDuration records end-to-end pipeline latency in seconds.
	PipelineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookshelf_pipeline_duration_seconds",
			Help:    "Pipeline duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"pipeline"},
	)

	// HashDuration records bcrypt hash and compare latency in seconds.
	HashDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookshelf_hash_duration_seconds",
			Help:    "Credential hashing duration",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(
		PipelineSteps,
		PipelineResponses,
		PipelineDuration,
		HashDuration,
	)
}
