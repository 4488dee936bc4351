package service

import (
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/protocol"
	reconciliationModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/reconciliation/model"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"testing"
)

var logger, _ = zap.NewDevelopment()

func TestScorer_Score(t *testing.T) {
	t.Run("Counts 2pc failures as traces without a persisted order", func(t *testing.T) {
		snapshot := reconciliationModel.NewSnapshot("2pc")
		snapshot.DTMTransactions[reconciliationModel.KeyRollbacks] = 10
		snapshot.Orders[reconciliationModel.KeyTotal] = 80

		report, err := NewScorer(logger).Score(protocol.TwoPhaseCommit, snapshot, 100)
		assert.Nil(t, err)
		assert.Equal(t, 20, report.Failures)
		assert.InDelta(t, 10.0, report.RollbackRate, 1e-9)
		assert.InDelta(t, 10.0, report.FailureRate, 1e-9)
		assert.InDelta(t, 20.0, report.TotalFailureRate, 1e-9)
	})

	t.Run("Counts saga and tcc failures from explicitly failed orders", func(t *testing.T) {
		snapshot := reconciliationModel.NewSnapshot("saga")
		snapshot.DTMTransactions[reconciliationModel.KeyRollbacks] = 5
		snapshot.Orders[reconciliationModel.KeyFailed] = 12

		report, err := NewScorer(logger).Score(protocol.Saga, snapshot, 200)
		assert.Nil(t, err)
		assert.Equal(t, 12, report.Failures)
		assert.InDelta(t, 2.5, report.RollbackRate, 1e-9)
		assert.InDelta(t, 3.5, report.FailureRate, 1e-9)
	})

	t.Run("Fails loudly for a protocol without a failure model", func(t *testing.T) {
		snapshot := reconciliationModel.NewSnapshot("3pc")
		_, err := NewScorer(logger).Score(protocol.Protocol("3pc"), snapshot, 10)
		assert.ErrorIs(t, err, protocol.ErrUnsupportedProtocol)
	})

	t.Run("Reports zero rates when no transactions were reconstructed", func(t *testing.T) {
		snapshot := reconciliationModel.NewSnapshot("tcc")
		snapshot.DTMTransactions[reconciliationModel.KeyRollbacks] = 4

		report, err := NewScorer(logger).Score(protocol.TCC, snapshot, 0)
		assert.Nil(t, err)
		assert.Equal(t, 0.0, report.RollbackRate)
		assert.Equal(t, 0.0, report.FailureRate)
		assert.Equal(t, 0.0, report.TotalFailureRate)
	})

	t.Run("Clamps the failure rate when rollbacks exceed derived failures", func(t *testing.T) {
		snapshot := reconciliationModel.NewSnapshot("2pc")
		snapshot.DTMTransactions[reconciliationModel.KeyRollbacks] = 30
		snapshot.Orders[reconciliationModel.KeyTotal] = 90

		report, err := NewScorer(logger).Score(protocol.TwoPhaseCommit, snapshot, 100)
		assert.Nil(t, err)
		assert.Equal(t, 10, report.Failures)
		assert.Equal(t, 0.0, report.FailureRate)
		assert.InDelta(t, 30.0, report.TotalFailureRate, 1e-9)
	})
}
