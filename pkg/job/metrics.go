package job

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "metropolis"

// Metrics tracks job progress and sampler behaviour
type Metrics struct {
	TasksIssued      prometheus.Counter
	TasksSubmitted   prometheus.Counter
	TasksRequeued    prometheus.Counter
	TasksFailed      prometheus.Counter
	SamplesSubmitted prometheus.Counter
	Proposals        *prometheus.CounterVec
	TaskDuration     prometheus.Histogram
}

// NewMetrics registers the job metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TasksIssued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_issued_total",
			Help:      "Tasks handed to workers, including reissued ones.",
		}),
		TasksSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_submitted_total",
			Help:      "Tasks whose partial raster was merged.",
		}),
		TasksRequeued: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_requeued_total",
			Help:      "Cancelled tasks returned to the pending queue.",
		}),
		TasksFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_failed_total",
			Help:      "Tasks that ended in an error.",
		}),
		SamplesSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_submitted_total",
			Help:      "Samples accounted for by merged rasters.",
		}),
		Proposals: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_total",
			Help:      "Metropolis proposals by mutation kind and outcome.",
		}, []string{"kind", "outcome"}),
		TaskDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Wall time spent running one task.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		}),
	}
}

// ObserveTask folds a finished task's statistics into the metrics
func (m *Metrics) ObserveTask(stat *TaskStat) {
	if m == nil {
		return
	}
	m.TaskDuration.Observe(stat.Duration.Seconds())
	for kind, n := range stat.Accepted {
		m.Proposals.WithLabelValues(kind, "accepted").Add(float64(n))
	}
	for kind, n := range stat.Rejected {
		m.Proposals.WithLabelValues(kind, "rejected").Add(float64(n))
	}
}
