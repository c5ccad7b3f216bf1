package workerpool

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus instrumentation for a Pool and the Workers
// registered to it. spec.md's Non-goals exclude per-task results and
// priorities, but are silent on metrics; wiring an optional, pool-scoped
// Metrics (rather than the package-level task-tally globals the original
// examples use, which spec.md §9 explicitly says not to reproduce) is an
// enrichment grounded in the wider example pack, not the teacher itself —
// see DESIGN.md.
type Metrics struct {
	workersActive prometheus.Gauge
	tasksExecuted prometheus.Counter
	tasksFailed   prometheus.Counter
	queueDepth    prometheus.Gauge
}

// NewMetrics constructs a Metrics and registers its collectors with reg. A
// nil reg is accepted and uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		workersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workerpool_workers_active",
			Help:      "Number of workers currently registered and running.",
		}),
		tasksExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workerpool_tasks_executed_total",
			Help:      "Number of tasks that completed without error.",
		}),
		tasksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workerpool_tasks_failed_total",
			Help:      "Number of tasks that returned an error or panicked.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workerpool_queue_depth",
			Help:      "Aggregate number of tasks queued but not yet executed, across all workers.",
		}),
	}

	reg.MustRegister(m.workersActive, m.tasksExecuted, m.tasksFailed, m.queueDepth)
	return m
}
