package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/exporter/metrics"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/exporter/model"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/exporter/source"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/stats"
	"go.uber.org/zap"
)

const seenTraceCost = 1

// Exporter runs the continuous scrape loop. Each cycle fetches a bounded
// window of traces, analyzes them into one CycleReport and publishes the
// report to the sink, then sleeps for the configured interval. A failed cycle
// is logged and skipped; the next scheduled cycle is the retry.
type Exporter struct {
	source   source.TraceSource
	analyzer *TraceAnalyzer
	sink     metrics.Sink
	seen     *ristretto.Cache
	service  string
	lookback time.Duration
	limit    int
	interval time.Duration
	state    model.State
	logger   *zap.Logger
}

func NewExporter(
	traceSource source.TraceSource,
	analyzer *TraceAnalyzer,
	sink metrics.Sink,
	serviceName string,
	lookback time.Duration,
	limit int,
	interval time.Duration,
	logger *zap.Logger,
) (*Exporter, error) {
	seen, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create seen-trace cache: %w", err)
	}
	return &Exporter{
		source:   traceSource,
		analyzer: analyzer,
		sink:     sink,
		seen:     seen,
		service:  serviceName,
		lookback: lookback,
		limit:    limit,
		interval: interval,
		state:    model.StateIdle,
		logger:   logger,
	}, nil
}

// Run drives the scrape loop until ctx is cancelled.
func (e *Exporter) Run(ctx context.Context) error {
	e.logger.Info(
		"Starting scrape loop",
		zap.String("service", e.service),
		zap.Duration("lookback", e.lookback),
		zap.Int("limit", e.limit),
		zap.Duration("interval", e.interval),
	)
	for {
		if err := e.runCycle(ctx); err != nil {
			e.logger.Error("Cycle failed, skipping until next interval", zap.Error(err))
		}
		e.transition(model.StateSleeping)
		select {
		case <-ctx.Done():
			e.transition(model.StateIdle)
			return ctx.Err()
		case <-time.After(e.interval):
		}
	}
}

func (e *Exporter) runCycle(ctx context.Context) error {
	e.transition(model.StateScraping)
	traces, err := e.source.FetchTraces(ctx, e.service, e.lookback, e.limit)
	if err != nil {
		return fmt.Errorf("failed to fetch traces: %w", err)
	}
	if len(traces) == 0 {
		e.logger.Warn("No traces found in lookback window")
		return nil
	}

	e.transition(model.StateAnalyzing)
	report, ok := e.analyze(traces)
	if !ok {
		e.logger.Warn("No analyzable transactions in lookback window", zap.Int("trace_count", len(traces)))
		return nil
	}

	e.transition(model.StatePublishing)
	e.sink.Publish(report)
	e.logger.Info(
		"Published cycle report",
		zap.Int("sample_count", report.SampleCount),
		zap.Int("rollback_count", report.RollbackCount),
		zap.Int("new_completed", report.NewCompleted),
		zap.Int("new_rollbacks", report.NewRollbacks),
		zap.Float64("rollback_rate_percent", report.RollbackRate),
		zap.Float64("p50_ms", report.P50),
		zap.Float64("p95_ms", report.P95),
		zap.Float64("p99_ms", report.P99),
		zap.Float64("mean_ms", report.Mean),
	)
	return nil
}

// analyze folds the fetched traces into one report. The report is only
// published by the caller when ok is true, keeping the publish step
// all-or-nothing.
func (e *Exporter) analyze(traces []source.Trace) (model.CycleReport, bool) {
	var report model.CycleReport
	durations := make([]float64, 0, len(traces))
	for _, trace := range traces {
		durationMs, hasRollback, ok := e.analyzer.Analyze(trace)
		if !ok {
			continue
		}
		report.SampleCount++
		durations = append(durations, durationMs)
		if hasRollback {
			report.RollbackCount++
		}
		if e.firstSighting(trace.TraceID) {
			if hasRollback {
				report.NewRollbacks++
			} else {
				report.NewCompleted++
			}
		}
	}
	if report.SampleCount == 0 {
		return model.CycleReport{}, false
	}

	summary, err := stats.Summarize(durations, stats.UnitMilliseconds)
	if err != nil {
		return model.CycleReport{}, false
	}
	report.RollbackRate = float64(report.RollbackCount) / float64(report.SampleCount) * 100
	report.P50 = summary.Median
	report.P95 = summary.P95
	report.P99 = summary.P99
	report.Mean = summary.Mean

	// Ristretto buffers writes; wait so the next cycle sees every id marked
	// during this one.
	e.seen.Wait()
	return report, true
}

// firstSighting reports whether traceID has not been counted before and marks
// it. Consecutive lookback windows overlap, so counter-type metrics must only
// move for traces entering the window for the first time.
func (e *Exporter) firstSighting(traceID string) bool {
	if _, found := e.seen.Get(traceID); found {
		return false
	}
	e.seen.Set(traceID, struct{}{}, seenTraceCost)
	return true
}

func (e *Exporter) transition(next model.State) {
	e.logger.Debug(
		"State transition",
		zap.String("from", string(e.state)),
		zap.String("to", string(next)),
	)
	e.state = next
}
