package service

import (
	"strings"

	"github.com/matheusmosca/distributed-transactions-benchmark/internal/exporter/source"
	traceService "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/service"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/protocol"
	"go.uber.org/zap"
)

// TraceAnalyzer classifies one fetched trace. It measures cumulative actor
// work, the summed duration of the protocol's action spans, which is a
// different quantity from the wall-clock extent the offline pipeline reports.
type TraceAnalyzer struct {
	strategy           traceService.DurationStrategy
	compensationPrefix string
	logger             *zap.Logger
}

func NewTraceAnalyzer(p protocol.Protocol, logger *zap.Logger) *TraceAnalyzer {
	return &TraceAnalyzer{
		strategy:           traceService.ActorWorkSum{ActionPrefix: p.ActionSpanPrefix()},
		compensationPrefix: p.CompensationSpanPrefix(),
		logger:             logger,
	}
}

// Analyze returns the transaction's duration in milliseconds and whether any
// compensation span ran. ok is false when the trace carries no action spans;
// such a trace is excluded from the sample rather than counted as zero.
func (a *TraceAnalyzer) Analyze(trace source.Trace) (durationMs float64, hasRollback bool, ok bool) {
	for _, span := range trace.Spans {
		if strings.HasPrefix(span.Operation, a.compensationPrefix) {
			hasRollback = true
			break
		}
	}

	durationNs, ok := a.strategy.TraceDuration(trace.Spans)
	if !ok {
		a.logger.Warn(
			"Trace carries no action spans, excluding from sample",
			zap.String("trace_id", trace.TraceID),
		)
		return 0, hasRollback, false
	}
	return float64(durationNs) / 1e6, hasRollback, true
}
