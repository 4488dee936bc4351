package postgres

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/reconciliation/model"
	"go.uber.org/zap"
)

const (
	orderTotalQuery     = "SELECT COUNT(*) FROM orders"
	orderStatusQuery    = "SELECT status, COUNT(*) FROM orders GROUP BY status"
	orderCompletedQuery = "SELECT user_id, product_id FROM orders WHERE status = $1"
)

// OrderStore reads the order service's table, which is shaped identically
// across the three protocols.
type OrderStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewOrderStore(pool *pgxpool.Pool, logger *zap.Logger) *OrderStore {
	return &OrderStore{
		pool:   pool,
		logger: logger,
	}
}

func (s *OrderStore) TotalCount(ctx context.Context) (int, error) {
	var total int64
	if err := s.pool.QueryRow(ctx, orderTotalQuery).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return int(total), nil
}

func (s *OrderStore) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, orderStatusQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query order statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan order status row: %w", err)
		}
		counts[status] = int(count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order status rows: %w", err)
	}
	return counts, nil
}

// CompletedCounts tallies completed orders per user and per product. These
// drive the expected balance and stock derivation during reconciliation.
func (s *OrderStore) CompletedCounts(ctx context.Context) (model.CompletedCounts, error) {
	rows, err := s.pool.Query(ctx, orderCompletedQuery, model.KeyCompleted)
	if err != nil {
		return model.CompletedCounts{}, fmt.Errorf("failed to query completed orders: %w", err)
	}
	defer rows.Close()

	completed := model.NewCompletedCounts()
	scanned := 0
	for rows.Next() {
		var userID, productID string
		if err := rows.Scan(&userID, &productID); err != nil {
			return model.CompletedCounts{}, fmt.Errorf("failed to scan completed order row: %w", err)
		}
		completed.ByUser[userID]++
		completed.ByProduct[productID]++
		scanned++
	}
	if err := rows.Err(); err != nil {
		return model.CompletedCounts{}, fmt.Errorf("failed to iterate completed order rows: %w", err)
	}
	s.logger.Debug("Collected completed order counts", zap.Int("orders", scanned))
	return completed, nil
}
