package metrics

import (
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/exporter/model"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dtx"

// PrometheusSink maps cycle reports onto Prometheus metrics. Metric names
// cannot start with a digit, so the protocol ("2pc", "saga", "tcc") is
// carried as a constant label rather than a name prefix.
type PrometheusSink struct {
	transactionsAnalyzed *prometheus.CounterVec
	rollbackRate         prometheus.Gauge
	durationP50          prometheus.Gauge
	durationP95          prometheus.Gauge
	durationP99          prometheus.Gauge
	durationMean         prometheus.Gauge
	transactionsInWindow prometheus.Gauge
}

func NewPrometheusSink(p protocol.Protocol, registerer prometheus.Registerer) *PrometheusSink {
	factory := promauto.With(registerer)
	constLabels := prometheus.Labels{"protocol": string(p)}
	return &PrometheusSink{
		transactionsAnalyzed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "transactions_analyzed_total",
			Help:        "Total transactions analyzed, counted once per trace id",
			ConstLabels: constLabels,
		}, []string{"has_rollback"}),
		rollbackRate: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "rollback_rate_percent",
			Help:        "Percentage of transactions with a rollback in the last analysis window",
			ConstLabels: constLabels,
		}),
		durationP50: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "transaction_duration_p50_ms",
			Help:        "P50 of the per-transaction duration in the last analysis window",
			ConstLabels: constLabels,
		}),
		durationP95: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "transaction_duration_p95_ms",
			Help:        "P95 of the per-transaction duration in the last analysis window",
			ConstLabels: constLabels,
		}),
		durationP99: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "transaction_duration_p99_ms",
			Help:        "P99 of the per-transaction duration in the last analysis window",
			ConstLabels: constLabels,
		}),
		durationMean: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "transaction_duration_mean_ms",
			Help:        "Mean per-transaction duration in the last analysis window",
			ConstLabels: constLabels,
		}),
		transactionsInWindow: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "transactions_in_analysis_window",
			Help:        "Transactions analyzed in the last window",
			ConstLabels: constLabels,
		}),
	}
}

func (s *PrometheusSink) Publish(report model.CycleReport) {
	s.transactionsAnalyzed.WithLabelValues("false").Add(float64(report.NewCompleted))
	s.transactionsAnalyzed.WithLabelValues("true").Add(float64(report.NewRollbacks))
	s.rollbackRate.Set(report.RollbackRate)
	s.durationP50.Set(report.P50)
	s.durationP95.Set(report.P95)
	s.durationP99.Set(report.P99)
	s.durationMean.Set(report.Mean)
	s.transactionsInWindow.Set(float64(report.SampleCount))
}
