package source

import (
	"context"
	"time"

	"github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/model"
)

// Trace is one transaction fetched from a tracing backend, reduced to the
// span timings the analysis needs.
type Trace struct {
	TraceID string
	Spans   []model.SpanTiming
}

// TraceSource fetches a bounded window of recently recorded traces for one
// service from a tracing backend.
type TraceSource interface {
	FetchTraces(ctx context.Context, service string, lookback time.Duration, limit int) ([]Trace, error)
}
