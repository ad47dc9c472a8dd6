// ============================================================================
// Pool Metrics - Prometheus Monitoring
// ============================================================================
//
// Package: pool/metrics
// File: collector.go
// Purpose: Collect and expose per-pool Prometheus metrics.
//
// Metric Categories:
//   1. Status (Gauge): active_workers, queue_depth
//   2. Counters: tasks_processed_total, panics_recovered_total
//   3. Performance (Histogram): task_latency_seconds
//
// All metrics carry a "pool" label so a process running several pools
// exposes one time series per pool instead of panicking on duplicate
// registration, which is the one meaningful deviation from the teacher's
// single-collector-per-process layout.
//
// HTTP Endpoint:
//   Exposed via /metrics, scraped by Prometheus. Started on demand by the
//   caller (cmd/demo wires it behind --metrics-port); the core pool package
//   never starts an HTTP server itself.
//
// ============================================================================

package metrics

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	activeWorkers   *prometheus.GaugeVec
	queueDepth      *prometheus.GaugeVec
	tasksProcessed  *prometheus.CounterVec
	panicsRecovered *prometheus.CounterVec
	taskLatency     *prometheus.HistogramVec
)

func ensureRegistered() {
	registerOnce.Do(func() {
		activeWorkers = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "taskpool_active_workers",
			Help: "Current number of live worker goroutines",
		}, []string{"pool"})
		queueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "taskpool_queue_depth",
			Help: "Current number of tasks waiting in the queue",
		}, []string{"pool"})
		tasksProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskpool_tasks_processed_total",
			Help: "Total number of tasks that ran to completion",
		}, []string{"pool"})
		panicsRecovered = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskpool_panics_recovered_total",
			Help: "Total number of task panics recovered by the pool",
		}, []string{"pool"})
		taskLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskpool_task_latency_seconds",
			Help:    "Task execution latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"pool"})

		prometheus.MustRegister(activeWorkers, queueDepth, tasksProcessed, panicsRecovered, taskLatency)
	})
}

// Collector reports metrics for a single named pool.
type Collector struct {
	pool string
}

// NewCollector returns a Collector that labels every metric with poolName.
func NewCollector(poolName string) *Collector {
	ensureRegistered()
	return &Collector{pool: poolName}
}

// SetActiveWorkers records the current live-worker count.
func (c *Collector) SetActiveWorkers(n int) {
	activeWorkers.WithLabelValues(c.pool).Set(float64(n))
}

// SetQueueDepth records the current queue length.
func (c *Collector) SetQueueDepth(n int) {
	queueDepth.WithLabelValues(c.pool).Set(float64(n))
}

// RecordTaskCompleted records a successful task execution and its latency.
func (c *Collector) RecordTaskCompleted(latencySeconds float64) {
	tasksProcessed.WithLabelValues(c.pool).Inc()
	taskLatency.WithLabelValues(c.pool).Observe(latencySeconds)
}

// RecordPanic records a task panic recovered by the pool.
func (c *Collector) RecordPanic() {
	panicsRecovered.WithLabelValues(c.pool).Inc()
}

// StartServer starts a Prometheus metrics HTTP server on port, blocking until
// it exits. Callers typically run it in its own goroutine.
func StartServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
