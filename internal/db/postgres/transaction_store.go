package postgres

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const transactionStatusQuery = "SELECT status, COUNT(*) FROM trans_global GROUP BY status"

// TransactionStore reads the DTM coordinator's global transaction table.
type TransactionStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionStore(pool *pgxpool.Pool, logger *zap.Logger) *TransactionStore {
	return &TransactionStore{
		pool:   pool,
		logger: logger,
	}
}

func (s *TransactionStore) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.pool.Query(ctx, transactionStatusQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction statuses: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan transaction status row: %w", err)
		}
		counts[status] = int(count)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction status rows: %w", err)
	}
	s.logger.Debug("Collected coordinator transaction statuses", zap.Int("statuses", len(counts)))
	return counts, nil
}
