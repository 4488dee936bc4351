package postgres

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/protocol"
	"go.uber.org/zap"
)

// InventoryStore reads observed stock levels from the inventory service's
// database. The product id column differs between the saga schema and the
// 2pc/tcc schemas, so the query is built from the protocol's vocabulary.
type InventoryStore struct {
	pool   *pgxpool.Pool
	query  string
	logger *zap.Logger
}

func NewInventoryStore(pool *pgxpool.Pool, p protocol.Protocol, logger *zap.Logger) *InventoryStore {
	return &InventoryStore{
		pool:   pool,
		query:  fmt.Sprintf("SELECT %s, current_stock FROM products_inventory", p.InventoryIDColumn()),
		logger: logger,
	}
}

func (s *InventoryStore) States(ctx context.Context) (map[string]int64, error) {
	rows, err := s.pool.Query(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory stock levels: %w", err)
	}
	defer rows.Close()

	stocks := make(map[string]int64)
	for rows.Next() {
		var productID string
		var stock int64
		if err := rows.Scan(&productID, &stock); err != nil {
			return nil, fmt.Errorf("failed to scan inventory row: %w", err)
		}
		stocks[productID] = stock
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate inventory rows: %w", err)
	}
	s.logger.Debug("Collected inventory stock levels", zap.Int("products", len(stocks)))
	return stocks, nil
}
