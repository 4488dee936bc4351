package service

import (
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/stats"
	traceModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/model"
)

const iqrFenceFactor = 1.5

// RemoveOutliers drops records whose duration falls outside the Tukey fences
// [Q1 - 1.5*IQR, Q3 + 1.5*IQR]. It smooths comparison time series for
// presentation and must never feed the summary statistics, which are always
// computed over the unfiltered windows.
func RemoveOutliers(records []traceModel.ProtocolRecord) []traceModel.ProtocolRecord {
	if len(records) == 0 {
		return records
	}
	durations := make([]float64, len(records))
	for i, record := range records {
		durations[i] = record.DurationMs
	}
	q1, err := stats.Percentile(durations, 25)
	if err != nil {
		return records
	}
	q3, _ := stats.Percentile(durations, 75)
	iqr := q3 - q1
	lower := q1 - iqrFenceFactor*iqr
	upper := q3 + iqrFenceFactor*iqr

	filtered := make([]traceModel.ProtocolRecord, 0, len(records))
	for _, record := range records {
		if record.DurationMs >= lower && record.DurationMs <= upper {
			filtered = append(filtered, record)
		}
	}
	return filtered
}
