package service

import (
	"fmt"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/reliability/model"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/protocol"
	reconciliationModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/reconciliation/model"
	"go.uber.org/zap"
)

// failureCounter derives the number of failed transactions for one protocol
// family from the consolidated order counters.
type failureCounter func(totalTransactions int, orders map[string]int) int

// The 2pc services only persist an order once the transaction commits, so
// failures surface as traces without a matching order. The saga and tcc
// services persist failed orders explicitly.
var failureCounters = map[protocol.Protocol]failureCounter{
	protocol.TwoPhaseCommit: orderDeficitFailures,
	protocol.Saga:           failedOrderFailures,
	protocol.TCC:            failedOrderFailures,
}

func orderDeficitFailures(totalTransactions int, orders map[string]int) int {
	return totalTransactions - orders[reconciliationModel.KeyTotal]
}

func failedOrderFailures(_ int, orders map[string]int) int {
	return orders[reconciliationModel.KeyFailed]
}

// Scorer turns a consolidated consistency snapshot and the reconstructed
// transaction count into a reliability report.
type Scorer struct {
	logger *zap.Logger
}

func NewScorer(logger *zap.Logger) *Scorer {
	return &Scorer{logger: logger}
}

func (s *Scorer) Score(
	p protocol.Protocol,
	snapshot *reconciliationModel.Snapshot,
	totalTransactions int,
) (model.Report, error) {
	counter, ok := failureCounters[p]
	if !ok {
		return model.Report{}, fmt.Errorf("failed to score reliability: %w: %q", protocol.ErrUnsupportedProtocol, p)
	}

	rollbacks := snapshot.DTMTransactions[reconciliationModel.KeyRollbacks]
	failures := counter(totalTransactions, snapshot.Orders)

	report := model.Report{
		Protocol:          p.String(),
		TotalTransactions: totalTransactions,
		Rollbacks:         rollbacks,
		Failures:          failures,
	}
	if totalTransactions == 0 {
		s.logger.Warn("No transactions reconstructed, reporting zero rates", zap.String("protocol", p.String()))
		return report, nil
	}

	report.RollbackRate = float64(rollbacks) / float64(totalTransactions) * 100
	report.FailureRate = float64(failures-rollbacks) / float64(totalTransactions) * 100
	if report.FailureRate < 0 {
		s.logger.Warn("Rollbacks exceed derived failures, clamping failure rate to zero",
			zap.String("protocol", p.String()),
			zap.Int("failures", failures),
			zap.Int("rollbacks", rollbacks),
		)
		report.FailureRate = 0
	}
	report.TotalFailureRate = report.RollbackRate + report.FailureRate
	return report, nil
}
