package service

import (
	"bytes"
	"encoding/json"
	otlpModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/otlp/model"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/model"
	"go.uber.org/zap"
	"os"
	"sort"
)

// Reconstructor rebuilds whole transactions from OTLP JSON export files.
// The collector flushes one export batch per line, but single-document files
// are accepted as well, and malformed content is skipped rather than failing
// the run.
type Reconstructor struct {
	extent WallClockExtent
	logger *zap.Logger
}

func NewReconstructor(logger *zap.Logger) *Reconstructor {
	return &Reconstructor{
		extent: WallClockExtent{},
		logger: logger,
	}
}

// ReconstructFile reads one export file and returns one record per trace id.
// An unreadable file yields no records.
func (r *Reconstructor) ReconstructFile(path string) []model.TraceRecord {
	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.Warn("Unable to read trace export file", zap.String("path", path), zap.Error(err))
		return nil
	}
	return r.Reconstruct(data)
}

// Reconstruct aggregates every span of the export content by trace id and
// materializes the wall-clock bounds of each trace. Traces whose bounds
// cannot be established are dropped.
func (r *Reconstructor) Reconstruct(data []byte) []model.TraceRecord {
	spansByTrace := make(map[string][]model.SpanTiming)
	for _, batch := range r.decodeBatches(data) {
		for _, resourceSpans := range batch.ResourceSpans {
			for _, scopeSpans := range resourceSpans.ScopeSpans {
				for _, span := range scopeSpans.Spans {
					if span.TraceID == "" {
						continue
					}
					if span.StartTimeUnixNano == 0 || span.EndTimeUnixNano == 0 {
						continue
					}
					spansByTrace[span.TraceID] = append(spansByTrace[span.TraceID], model.SpanTiming{
						Operation:   span.Operation(),
						StartTimeNs: uint64(span.StartTimeUnixNano),
						EndTimeNs:   uint64(span.EndTimeUnixNano),
					})
				}
			}
		}
	}

	records := make([]model.TraceRecord, 0, len(spansByTrace))
	for traceID, spans := range spansByTrace {
		start, end, ok := r.extent.Extent(spans)
		if !ok {
			continue
		}
		records = append(records, model.TraceRecord{
			TraceID:     traceID,
			StartTimeNs: start,
			EndTimeNs:   end,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].StartTimeNs != records[j].StartTimeNs {
			return records[i].StartTimeNs < records[j].StartTimeNs
		}
		return records[i].TraceID < records[j].TraceID
	})
	return records
}

// decodeBatches first tries the content as a single export document and only
// then falls back to line-delimited batches, skipping lines that do not parse.
func (r *Reconstructor) decodeBatches(data []byte) []otlpModel.ExportBatch {
	var whole otlpModel.ExportBatch
	if err := json.Unmarshal(data, &whole); err == nil {
		return []otlpModel.ExportBatch{whole}
	}

	var batches []otlpModel.ExportBatch
	skipped := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var batch otlpModel.ExportBatch
		if err := json.Unmarshal(line, &batch); err != nil {
			skipped++
			continue
		}
		batches = append(batches, batch)
	}
	if skipped > 0 {
		r.logger.Debug("Skipped malformed export lines", zap.Int("count", skipped))
	}
	return batches
}
