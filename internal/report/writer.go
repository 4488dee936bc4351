package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	chaosModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/chaos/model"
	reconciliationModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/reconciliation/model"
	"go.uber.org/zap"
)

// Writer persists analysis artifacts as indented JSON under the results
// directory.
type Writer struct {
	dir    string
	logger *zap.Logger
}

func NewWriter(dir string, logger *zap.Logger) *Writer {
	return &Writer{
		dir:    dir,
		logger: logger,
	}
}

func (w *Writer) WriteLatencyReport(r LatencyReport) (string, error) {
	return w.writeJSON(fmt.Sprintf("%s_latency.json", r.Protocol), r)
}

func (w *Writer) WriteReliabilityReport(r ReliabilityReport) (string, error) {
	return w.writeJSON("reliability.json", r)
}

func (w *Writer) WriteComparisonSeries(s ComparisonSeries) (string, error) {
	return w.writeJSON(fmt.Sprintf("%s_%s_comparison_series.json", s.Protocol, s.Window), s)
}

func (w *Writer) WriteConsolidatedSnapshot(protocol string, snapshot *reconciliationModel.Snapshot) (string, error) {
	snapshot.Protocol = protocol
	return w.writeJSON(fmt.Sprintf("%s_consistency_consolidated.json", protocol), snapshot)
}

func (w *Writer) WriteChaosTimeline(timeline chaosModel.Timeline) (string, error) {
	return w.writeJSON("chaos_windows.json", timeline)
}

// WriteSnapshot persists one reconciliation snapshot under the protocol's
// consistency directory, named by timestamp so repeated runs accumulate.
func WriteSnapshot(baseDir string, snapshot *reconciliationModel.Snapshot, logger *zap.Logger) (string, error) {
	dir := filepath.Join(baseDir, snapshot.Protocol)
	writer := NewWriter(dir, logger)
	name := fmt.Sprintf("%s.json", timestampName())
	return writer.writeJSON(name, snapshot)
}

func timestampName() string {
	return time.Now().Format("20060102_150405")
}

func (w *Writer) writeJSON(name string, payload interface{}) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory %s: %w", w.dir, err)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report %s: %w", name, err)
	}
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", name, err)
	}
	w.logger.Info("Wrote report", zap.String("path", path))
	return path, nil
}
