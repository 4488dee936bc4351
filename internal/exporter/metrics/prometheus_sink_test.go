package metrics

import (
	"testing"

	"github.com/matheusmosca/distributed-transactions-benchmark/internal/exporter/model"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusSink_Publish(t *testing.T) {
	t.Run("should map a report onto gauges and counters", func(t *testing.T) {
		sink := NewPrometheusSink(protocol.Saga, prometheus.NewRegistry())

		sink.Publish(model.CycleReport{
			SampleCount:   10,
			RollbackCount: 2,
			NewCompleted:  8,
			NewRollbacks:  2,
			RollbackRate:  20.0,
			P50:           12.5,
			P95:           40.0,
			P99:           55.0,
			Mean:          18.0,
		})

		assert.Equal(t, 8.0, testutil.ToFloat64(sink.transactionsAnalyzed.WithLabelValues("false")))
		assert.Equal(t, 2.0, testutil.ToFloat64(sink.transactionsAnalyzed.WithLabelValues("true")))
		assert.Equal(t, 20.0, testutil.ToFloat64(sink.rollbackRate))
		assert.Equal(t, 12.5, testutil.ToFloat64(sink.durationP50))
		assert.Equal(t, 40.0, testutil.ToFloat64(sink.durationP95))
		assert.Equal(t, 55.0, testutil.ToFloat64(sink.durationP99))
		assert.Equal(t, 18.0, testutil.ToFloat64(sink.durationMean))
		assert.Equal(t, 10.0, testutil.ToFloat64(sink.transactionsInWindow))
	})

	t.Run("should accumulate counters and overwrite gauges across cycles", func(t *testing.T) {
		sink := NewPrometheusSink(protocol.TCC, prometheus.NewRegistry())

		sink.Publish(model.CycleReport{SampleCount: 5, NewCompleted: 5, RollbackRate: 0})
		sink.Publish(model.CycleReport{SampleCount: 3, NewCompleted: 2, NewRollbacks: 1, RollbackRate: 33.3})

		assert.Equal(t, 7.0, testutil.ToFloat64(sink.transactionsAnalyzed.WithLabelValues("false")))
		assert.Equal(t, 1.0, testutil.ToFloat64(sink.transactionsAnalyzed.WithLabelValues("true")))
		assert.Equal(t, 33.3, testutil.ToFloat64(sink.rollbackRate))
		assert.Equal(t, 3.0, testutil.ToFloat64(sink.transactionsInWindow))
	})
}
