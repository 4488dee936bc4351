package service

import (
	"context"
	"fmt"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/protocol"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/reconciliation/model"
	"go.uber.org/zap"
	"time"
)

// TransactionStatusSource exposes the DTM coordinator's global transaction
// table grouped by status.
type TransactionStatusSource interface {
	StatusCounts(ctx context.Context) (map[string]int, error)
}

// OrderSource exposes the order service's table.
type OrderSource interface {
	TotalCount(ctx context.Context) (int, error)
	StatusCounts(ctx context.Context) (map[string]int, error)
	CompletedCounts(ctx context.Context) (model.CompletedCounts, error)
}

// EntityStateSource exposes the observed numeric state of one entity table,
// wallet balances or inventory stock levels.
type EntityStateSource interface {
	States(ctx context.Context) (map[string]int64, error)
}

// SnapshotBuilder runs one reconciliation pass across the protocol's four
// databases and produces the consistency snapshot persisted for later
// consolidation.
type SnapshotBuilder struct {
	protocol     protocol.Protocol
	transactions TransactionStatusSource
	orders       OrderSource
	wallets      EntityStateSource
	inventory    EntityStateSource
	engine       *Engine
	logger       *zap.Logger
}

func NewSnapshotBuilder(
	p protocol.Protocol,
	transactions TransactionStatusSource,
	orders OrderSource,
	wallets EntityStateSource,
	inventory EntityStateSource,
	engine *Engine,
	logger *zap.Logger,
) *SnapshotBuilder {
	return &SnapshotBuilder{
		protocol:     p,
		transactions: transactions,
		orders:       orders,
		wallets:      wallets,
		inventory:    inventory,
		engine:       engine,
		logger:       logger,
	}
}

func (b *SnapshotBuilder) Build(ctx context.Context) (*model.Snapshot, error) {
	snapshot := model.NewSnapshot(b.protocol.String())
	snapshot.Timestamp = time.Now().UTC().Format(time.RFC3339)

	if err := b.collectTransactionCounts(ctx, snapshot); err != nil {
		return nil, err
	}
	completed, err := b.collectOrderCounts(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	walletStates, err := b.wallets.States(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read wallet balances: %w", err)
	}
	snapshot.PaymentInconsistencies = b.engine.Reconcile(walletStates, completed.ByUser).Drift

	inventoryStates, err := b.inventory.States(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory stock levels: %w", err)
	}
	snapshot.InventoryInconsistencies = b.engine.Reconcile(inventoryStates, completed.ByProduct).Drift

	b.logger.Info("Built consistency snapshot",
		zap.String("protocol", b.protocol.String()),
		zap.Int("transactions_total", snapshot.DTMTransactions[model.KeyTotal]),
		zap.Int("rollbacks", snapshot.DTMTransactions[model.KeyRollbacks]),
		zap.Int("orders_total", snapshot.Orders[model.KeyTotal]),
		zap.Int64("payment_inconsistencies", snapshot.PaymentInconsistencies),
		zap.Int64("inventory_inconsistencies", snapshot.InventoryInconsistencies),
	)
	return snapshot, nil
}

// collectTransactionCounts totals every coordinator status, copies the known
// ones into the snapshot and derives rollbacks as failed plus aborting.
func (b *SnapshotBuilder) collectTransactionCounts(ctx context.Context, snapshot *model.Snapshot) error {
	statusCounts, err := b.transactions.StatusCounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to analyze coordinator transactions: %w", err)
	}
	for status, count := range statusCounts {
		snapshot.DTMTransactions[model.KeyTotal] += count
		switch status {
		case model.KeySucceed, model.KeyAborting, model.KeySubmitted, model.KeyPrepared, model.KeyFailed:
			snapshot.DTMTransactions[status] = count
		}
		if status == model.KeyFailed || status == model.KeyAborting {
			snapshot.DTMTransactions[model.KeyRollbacks] += count
		}
	}
	return nil
}

func (b *SnapshotBuilder) collectOrderCounts(ctx context.Context, snapshot *model.Snapshot) (model.CompletedCounts, error) {
	total, err := b.orders.TotalCount(ctx)
	if err != nil {
		return model.CompletedCounts{}, fmt.Errorf("failed to count orders: %w", err)
	}
	snapshot.Orders[model.KeyTotal] = total

	statusCounts, err := b.orders.StatusCounts(ctx)
	if err != nil {
		return model.CompletedCounts{}, fmt.Errorf("failed to analyze order statuses: %w", err)
	}
	failedStatus := b.protocol.FailedOrderStatus()
	for status, count := range statusCounts {
		switch status {
		case model.KeyCompleted:
			snapshot.Orders[model.KeyCompleted] = count
		case model.KeyPending:
			snapshot.Orders[model.KeyPending] = count
		case failedStatus:
			snapshot.Orders[model.KeyFailed] += count
		}
	}

	completed, err := b.orders.CompletedCounts(ctx)
	if err != nil {
		return model.CompletedCounts{}, fmt.Errorf("failed to collect completed order counts: %w", err)
	}
	return completed, nil
}
