package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	reliabilityService "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/reliability/service"
	traceService "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/service"
	windowModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/window/model"
	windowService "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/window/service"
	reconciliationService "github.com/matheusmosca/distributed-transactions-benchmark/internal/reconciliation/service"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/report"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var logger, _ = zap.NewDevelopment()

func newPipeline(base string) *AnalysisPipeline {
	reconstructor := traceService.NewReconstructor(logger)
	return NewAnalysisPipeline(
		traceService.NewDatasetBuilder(reconstructor, logger),
		windowService.NewClassifier(windowModel.DefaultWindows()),
		reconciliationService.NewConsolidator(logger),
		reliabilityService.NewScorer(logger),
		report.NewWriter(filepath.Join(base, "results"), logger),
		filepath.Join(base, "tracings"),
		filepath.Join(base, "consistency"),
		windowModel.DefaultWindows(),
		logger,
	)
}

func writeTrace(t *testing.T, dir string, traceID string, startNs uint64, endNs uint64) {
	t.Helper()
	line := fmt.Sprintf(
		`{"resourceSpans":[{"scopeSpans":[{"spans":[{"traceId":%q,"name":"saga_action_step","startTimeUnixNano":"%d","endTimeUnixNano":"%d"}]}]}]}`+"\n",
		traceID, startNs, endNs,
	)
	path := filepath.Join(dir, "run.json")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	assert.Nil(t, err)
	defer f.Close()
	_, err = f.WriteString(line)
	assert.Nil(t, err)
}

func TestAnalysisPipeline_Run(t *testing.T) {
	t.Run("Produces latency, consolidated and reliability artifacts", func(t *testing.T) {
		base := t.TempDir()
		traceDir := filepath.Join(base, "tracings", "saga")
		assert.Nil(t, os.MkdirAll(traceDir, 0o755))
		writeTrace(t, traceDir, "ramp-up", 1_000_000_000, 2_000_000_000)
		writeTrace(t, traceDir, "baseline", 11_000_000_000, 12_000_000_000)
		writeTrace(t, traceDir, "chaotic", 71_000_000_000, 72_000_000_000)

		consistencyDir := filepath.Join(base, "consistency", "saga")
		assert.Nil(t, os.MkdirAll(consistencyDir, 0o755))
		snapshot := `{
			"protocol": "saga",
			"dtm_transactions": {"total": 3, "succeed": 1, "failed": 1, "aborting": 0, "rollbacks": 1},
			"orders": {"total": 3, "completed": 1, "failed": 2},
			"inventory_inconsistencies": 0,
			"payment_inconsistencies": 5
		}`
		assert.Nil(t, os.WriteFile(filepath.Join(consistencyDir, "20260101_120000.json"), []byte(snapshot), 0o644))

		err := newPipeline(base).Run()
		assert.Nil(t, err)

		resultsDir := filepath.Join(base, "results")

		var latency report.LatencyReport
		readJSON(t, filepath.Join(resultsDir, "saga_latency.json"), &latency)
		assert.Equal(t, 3, latency.TotalTraces)
		assert.Equal(t, 3, latency.WholeRun.Samples)
		assert.Equal(t, 1, latency.WithoutChaos.Samples)
		assert.InDelta(t, 1000.0, latency.WithoutChaos.Mean, 1e-9)
		assert.Equal(t, 1, latency.WithChaos.Samples)
		assert.InDelta(t, 1.0, latency.WithChaos.Mean, 1e-9)

		var series report.ComparisonSeries
		readJSON(t, filepath.Join(resultsDir, "saga_pre_chaos_comparison_series.json"), &series)
		assert.Len(t, series.Records, 1)
		assert.Equal(t, "baseline", series.Records[0].TraceID)
		assert.Equal(t, latency.RunID, series.RunID)

		var reliability report.ReliabilityReport
		readJSON(t, filepath.Join(resultsDir, "reliability.json"), &reliability)
		assert.Len(t, reliability.Protocols, 1)
		assert.Equal(t, "saga", reliability.Protocols[0].Protocol)
		assert.Equal(t, 3, reliability.Protocols[0].TotalTransactions)
		assert.Equal(t, 2, reliability.Protocols[0].Failures)
		assert.Equal(t, 1, reliability.Protocols[0].Rollbacks)

		_, err = os.Stat(filepath.Join(resultsDir, "saga_consistency_consolidated.json"))
		assert.Nil(t, err)
	})

	t.Run("Fails when no protocol yields reliability data", func(t *testing.T) {
		err := newPipeline(t.TempDir()).Run()
		assert.ErrorIs(t, err, ErrNoUsableData)
	})

	t.Run("Writes latency artifacts even when consistency snapshots are missing", func(t *testing.T) {
		base := t.TempDir()
		traceDir := filepath.Join(base, "tracings", "tcc")
		assert.Nil(t, os.MkdirAll(traceDir, 0o755))
		writeTrace(t, traceDir, "t1", 1_000_000_000, 2_000_000_000)

		err := newPipeline(base).Run()
		assert.ErrorIs(t, err, ErrNoUsableData)

		_, statErr := os.Stat(filepath.Join(base, "results", "tcc_latency.json"))
		assert.Nil(t, statErr)
	})
}

func readJSON(t *testing.T, path string, target interface{}) {
	t.Helper()
	data, err := os.ReadFile(path)
	assert.Nil(t, err)
	assert.Nil(t, json.Unmarshal(data, target))
}
