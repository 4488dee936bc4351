package report

import (
	"time"

	reliabilityModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/reliability/model"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/stats"
	traceModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/model"
	windowModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/window/model"
)

// LatencyReport summarizes one protocol's transaction durations for the
// whole run and for each chaos window. Windows without samples are omitted
// rather than reported as zeroes.
type LatencyReport struct {
	RunID        string              `json:"run_id"`
	GeneratedAt  time.Time           `json:"generated_at"`
	Protocol     string              `json:"protocol"`
	Windows      windowModel.Windows `json:"windows"`
	TotalTraces  int                 `json:"total_traces"`
	WholeRun     *stats.Summary      `json:"whole_run,omitempty"`
	WithoutChaos *stats.Summary      `json:"without_chaos,omitempty"`
	WithChaos    *stats.Summary      `json:"with_chaos,omitempty"`
}

// ReliabilityReport compares the protocols' reliability scores side by side.
type ReliabilityReport struct {
	RunID       string                    `json:"run_id"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Protocols   []reliabilityModel.Report `json:"protocols"`
}

// ComparisonSeries is the outlier-filtered time series of one window, kept
// for plotting latency over the run-relative axis. The filtering is purely
// presentational; summary statistics never use it.
type ComparisonSeries struct {
	RunID    string                      `json:"run_id"`
	Protocol string                      `json:"protocol"`
	Window   string                      `json:"window"`
	Records  []traceModel.ProtocolRecord `json:"records"`
}
