package metrics

import (
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/exporter/model"
)

// Sink receives the complete outcome of one analysis cycle. Implementations
// must apply the whole report at once so that observers never see a mix of
// two cycles.
type Sink interface {
	Publish(report model.CycleReport)
}
