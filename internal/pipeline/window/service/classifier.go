package service

import (
	traceModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/model"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/window/model"
)

// Classifier assigns dataset records to the chaos experiment windows.
type Classifier struct {
	windows model.Windows
}

func NewClassifier(windows model.Windows) *Classifier {
	return &Classifier{windows: windows}
}

// PreChaos returns the records that started after ramp-up and also finished
// before the first fault. Transactions still in flight when chaos begins are
// excluded so that fault effects never leak into the baseline.
func (c *Classifier) PreChaos(records []traceModel.ProtocolRecord) []traceModel.ProtocolRecord {
	var window []traceModel.ProtocolRecord
	for _, record := range records {
		if record.RelativeTimeSec >= c.windows.RampUpSec && record.RelativeEndSec <= c.windows.PreChaosEndSec {
			window = append(window, record)
		}
	}
	return window
}

// PostChaos returns the records that started at or after the first fault.
func (c *Classifier) PostChaos(records []traceModel.ProtocolRecord) []traceModel.ProtocolRecord {
	var window []traceModel.ProtocolRecord
	for _, record := range records {
		if record.RelativeTimeSec >= c.windows.PostChaosStartSec {
			window = append(window, record)
		}
	}
	return window
}
