package service

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	reliabilityModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/reliability/model"
	reliabilityService "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/reliability/service"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/stats"
	traceModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/model"
	traceService "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/service"
	windowModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/window/model"
	windowService "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/window/service"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/protocol"
	reconciliationService "github.com/matheusmosca/distributed-transactions-benchmark/internal/reconciliation/service"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/report"
	"go.uber.org/zap"
)

const preChaosWindowName = "pre_chaos"

// ErrNoUsableData marks a run where no protocol had both trace exports and
// consistency snapshots. The analyzer exits non-zero on it so harness
// scripts notice empty runs.
var ErrNoUsableData = errors.New("no protocol produced usable benchmark data")

// AnalysisPipeline drives the offline analysis: it rebuilds each protocol's
// dataset from trace exports, summarizes latency per chaos window, merges
// consistency snapshots and scores reliability, writing one JSON artifact
// per result.
type AnalysisPipeline struct {
	datasets       *traceService.DatasetBuilder
	classifier     *windowService.Classifier
	consolidator   *reconciliationService.Consolidator
	scorer         *reliabilityService.Scorer
	writer         *report.Writer
	tracingsDir    string
	consistencyDir string
	windows        windowModel.Windows
	logger         *zap.Logger
}

func NewAnalysisPipeline(
	datasets *traceService.DatasetBuilder,
	classifier *windowService.Classifier,
	consolidator *reconciliationService.Consolidator,
	scorer *reliabilityService.Scorer,
	writer *report.Writer,
	tracingsDir string,
	consistencyDir string,
	windows windowModel.Windows,
	logger *zap.Logger,
) *AnalysisPipeline {
	return &AnalysisPipeline{
		datasets:       datasets,
		classifier:     classifier,
		consolidator:   consolidator,
		scorer:         scorer,
		writer:         writer,
		tracingsDir:    tracingsDir,
		consistencyDir: consistencyDir,
		windows:        windows,
		logger:         logger,
	}
}

// Run analyzes every supported protocol. Protocols without data are skipped;
// the run only fails when nothing at all could be scored.
func (p *AnalysisPipeline) Run() error {
	runID := uuid.NewString()
	var reliabilityReports []reliabilityModel.Report

	for _, proto := range protocol.All() {
		dataset := p.datasets.FromDirectory(filepath.Join(p.tracingsDir, proto.String()))
		if len(dataset) == 0 {
			p.logger.Warn("No traces reconstructed for protocol, skipping", zap.String("protocol", proto.String()))
			continue
		}

		if err := p.writeLatencyArtifacts(runID, proto, dataset); err != nil {
			return err
		}

		snapshot := p.consolidator.Consolidate(filepath.Join(p.consistencyDir, proto.String()))
		if snapshot == nil {
			p.logger.Warn("No consistency snapshots for protocol, skipping reliability",
				zap.String("protocol", proto.String()),
			)
			continue
		}
		if _, err := p.writer.WriteConsolidatedSnapshot(proto.String(), snapshot); err != nil {
			return err
		}

		score, err := p.scorer.Score(proto, snapshot, len(dataset))
		if err != nil {
			return err
		}
		reliabilityReports = append(reliabilityReports, score)
	}

	if len(reliabilityReports) == 0 {
		return ErrNoUsableData
	}
	_, err := p.writer.WriteReliabilityReport(report.ReliabilityReport{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Protocols:   reliabilityReports,
	})
	return err
}

func (p *AnalysisPipeline) writeLatencyArtifacts(runID string, proto protocol.Protocol, dataset []traceModel.ProtocolRecord) error {
	latency := report.LatencyReport{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Protocol:    proto.String(),
		Windows:     p.windows,
		TotalTraces: len(dataset),
	}

	latency.WholeRun = summarizeMs(dataset)

	preChaos := p.classifier.PreChaos(dataset)
	latency.WithoutChaos = summarizeMs(preChaos)

	postChaos := p.classifier.PostChaos(dataset)
	latency.WithChaos = summarizeSec(postChaos)

	if _, err := p.writer.WriteLatencyReport(latency); err != nil {
		return err
	}

	// The plotted series is smoothed with the IQR filter; the summaries
	// above intentionally are not.
	filtered := windowService.RemoveOutliers(preChaos)
	_, err := p.writer.WriteComparisonSeries(report.ComparisonSeries{
		RunID:    runID,
		Protocol: proto.String(),
		Window:   preChaosWindowName,
		Records:  filtered,
	})
	return err
}

func summarizeMs(records []traceModel.ProtocolRecord) *stats.Summary {
	summary, err := stats.Summarize(durations(records, 1), stats.UnitMilliseconds)
	if err != nil {
		return nil
	}
	return &summary
}

// summarizeSec reports the chaos window in seconds because fault downtime
// stretches durations well past the millisecond scale.
func summarizeSec(records []traceModel.ProtocolRecord) *stats.Summary {
	summary, err := stats.Summarize(durations(records, 1000), stats.UnitSeconds)
	if err != nil {
		return nil
	}
	return &summary
}

func durations(records []traceModel.ProtocolRecord, divisor float64) []float64 {
	values := make([]float64, 0, len(records))
	for _, record := range records {
		values = append(values, record.DurationMs/divisor)
	}
	return values
}
