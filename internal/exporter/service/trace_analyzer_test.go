package service

import (
	"testing"

	"github.com/matheusmosca/distributed-transactions-benchmark/internal/exporter/source"
	traceModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/model"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/protocol"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var logger, _ = zap.NewDevelopment()

func TestTraceAnalyzer_Analyze(t *testing.T) {
	analyzer := NewTraceAnalyzer(protocol.Saga, logger)

	t.Run("should sum only action span durations", func(t *testing.T) {
		trace := source.Trace{
			TraceID: "trace-1",
			Spans: []traceModel.SpanTiming{
				{Operation: "saga_action_create_order", StartTimeNs: 1_000_000, EndTimeNs: 3_000_000},
				{Operation: "saga_action_reserve_stock", StartTimeNs: 3_000_000, EndTimeNs: 4_500_000},
				{Operation: "HTTP POST", StartTimeNs: 500_000, EndTimeNs: 9_000_000},
			},
		}

		durationMs, hasRollback, ok := analyzer.Analyze(trace)
		assert.True(t, ok)
		assert.False(t, hasRollback)
		assert.InDelta(t, 3.5, durationMs, 1e-9)
	})

	t.Run("should flag a rollback when any compensation span exists", func(t *testing.T) {
		trace := source.Trace{
			TraceID: "trace-2",
			Spans: []traceModel.SpanTiming{
				{Operation: "saga_action_create_order", StartTimeNs: 1_000_000, EndTimeNs: 2_000_000},
				{Operation: "saga_compensation_cancel_order", StartTimeNs: 2_000_000, EndTimeNs: 3_000_000},
			},
		}

		durationMs, hasRollback, ok := analyzer.Analyze(trace)
		assert.True(t, ok)
		assert.True(t, hasRollback)
		assert.InDelta(t, 1.0, durationMs, 1e-9)
	})

	t.Run("should exclude a trace with no action spans", func(t *testing.T) {
		trace := source.Trace{
			TraceID: "trace-3",
			Spans: []traceModel.SpanTiming{
				{Operation: "HTTP GET", StartTimeNs: 1_000_000, EndTimeNs: 2_000_000},
				{Operation: "saga_compensation_cancel_order", StartTimeNs: 2_000_000, EndTimeNs: 3_000_000},
			},
		}

		_, hasRollback, ok := analyzer.Analyze(trace)
		assert.False(t, ok)
		assert.True(t, hasRollback)
	})

	t.Run("should use the protocol's own span vocabulary", func(t *testing.T) {
		tccAnalyzer := NewTraceAnalyzer(protocol.TCC, logger)
		trace := source.Trace{
			TraceID: "trace-4",
			Spans: []traceModel.SpanTiming{
				{Operation: "tcc_action_try_order", StartTimeNs: 1_000_000, EndTimeNs: 2_000_000},
				{Operation: "saga_action_create_order", StartTimeNs: 2_000_000, EndTimeNs: 5_000_000},
			},
		}

		durationMs, hasRollback, ok := tccAnalyzer.Analyze(trace)
		assert.True(t, ok)
		assert.False(t, hasRollback)
		assert.InDelta(t, 1.0, durationMs, 1e-9)
	})
}
