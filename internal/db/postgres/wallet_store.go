package postgres

import (
	"context"
	"fmt"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const walletBalancesQuery = "SELECT user_id, current_amount FROM wallets"

// WalletStore reads observed balances from the payment service's database.
type WalletStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewWalletStore(pool *pgxpool.Pool, logger *zap.Logger) *WalletStore {
	return &WalletStore{
		pool:   pool,
		logger: logger,
	}
}

func (s *WalletStore) States(ctx context.Context) (map[string]int64, error) {
	rows, err := s.pool.Query(ctx, walletBalancesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallet balances: %w", err)
	}
	defer rows.Close()

	balances := make(map[string]int64)
	for rows.Next() {
		var userID string
		var amount int64
		if err := rows.Scan(&userID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan wallet row: %w", err)
		}
		balances[userID] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet rows: %w", err)
	}
	s.logger.Debug("Collected wallet balances", zap.Int("wallets", len(balances)))
	return balances, nil
}
