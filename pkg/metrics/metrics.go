// Package metrics exposes pipeline run and stage metrics in Prometheus format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	Namespace string `default:"weather_advisor"`
}

// Collector owns a private registry so tests and multiple instances never
// collide on the global one.
type Collector struct {
	registry *prometheus.Registry

	runs          *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	toolCalls     *prometheus.CounterVec
}

func New(cfg Config) *Collector {
	ns := cfg.Namespace
	if ns == "" {
		ns = "weather_advisor"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &Collector{
		registry: reg,
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by pipeline, status and error kind.",
		}, []string{"pipeline", "status", "kind"}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "pipeline_run_duration_seconds",
			Help:      "Wall time of complete pipeline runs.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pipeline"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Wall time of individual stages.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"pipeline", "stage"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "pipeline_stage_failures_total",
			Help:      "Stage failures by error kind.",
		}, []string{"pipeline", "stage", "kind"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "tool_calls_total",
			Help:      "Tool adapter invocations by outcome.",
		}, []string{"tool", "outcome"}),
	}
	reg.MustRegister(c.runs, c.runDuration, c.stageDuration, c.stageFailures, c.toolCalls)
	return c
}

func (c *Collector) StageFinished(pipeline, stage string, elapsed time.Duration, errKind string) {
	c.stageDuration.WithLabelValues(pipeline, stage).Observe(elapsed.Seconds())
	if errKind != "" {
		c.stageFailures.WithLabelValues(pipeline, stage, errKind).Inc()
	}
}

func (c *Collector) RunFinished(pipeline, status, errKind string, elapsed time.Duration) {
	c.runs.WithLabelValues(pipeline, status, errKind).Inc()
	c.runDuration.WithLabelValues(pipeline).Observe(elapsed.Seconds())
}

// ToolCalled records one tool outcome: "ok", "error" or "timeout".
func (c *Collector) ToolCalled(tool, outcome string) {
	c.toolCalls.WithLabelValues(tool, outcome).Inc()
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
