package service

import (
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/model"
	"go.uber.org/zap"
	"os"
	"path/filepath"
	"sort"
)

// DatasetBuilder assembles the per-protocol dataset from a directory of
// export files. Each file is anchored to its own earliest trace start so
// that runs captured at different absolute times share one relative axis.
type DatasetBuilder struct {
	reconstructor *Reconstructor
	logger        *zap.Logger
}

func NewDatasetBuilder(reconstructor *Reconstructor, logger *zap.Logger) *DatasetBuilder {
	return &DatasetBuilder{
		reconstructor: reconstructor,
		logger:        logger,
	}
}

// FromDirectory reads every .json export in dir and returns the combined
// dataset sorted by relative start time. A missing directory or a directory
// with no usable traces yields an empty dataset.
func (b *DatasetBuilder) FromDirectory(dir string) []model.ProtocolRecord {
	if _, err := os.Stat(dir); err != nil {
		b.logger.Warn("Trace export directory is not readable, skipping", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		b.logger.Warn("Unable to list trace export directory", zap.String("dir", dir), zap.Error(err))
		return nil
	}
	sort.Strings(files)

	var dataset []model.ProtocolRecord
	for _, file := range files {
		records := b.reconstructor.ReconstructFile(file)
		if len(records) == 0 {
			b.logger.Warn("Trace export file produced no traces", zap.String("path", file))
			continue
		}
		zero := records[0].StartTimeNs
		for _, record := range records {
			if record.StartTimeNs < zero {
				zero = record.StartTimeNs
			}
		}
		for _, record := range records {
			dataset = append(dataset, model.ProtocolRecord{
				TraceID:         record.TraceID,
				RelativeTimeSec: float64(record.StartTimeNs-zero) / 1e9,
				RelativeEndSec:  float64(record.EndTimeNs-zero) / 1e9,
				DurationMs:      record.DurationMs(),
			})
		}
	}
	sort.Slice(dataset, func(i, j int) bool {
		return dataset[i].RelativeTimeSec < dataset[j].RelativeTimeSec
	})
	b.logger.Info("Assembled trace dataset",
		zap.String("dir", dir),
		zap.Int("files", len(files)),
		zap.Int("traces", len(dataset)),
	)
	return dataset
}
