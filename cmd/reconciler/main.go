package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/config"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/db/postgres"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/logging"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/protocol"
	reconciliationService "github.com/matheusmosca/distributed-transactions-benchmark/internal/reconciliation/service"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/report"
	"go.uber.org/zap"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: reconciler <protocol>")
	fmt.Fprintln(os.Stderr, "  protocol: one of 2pc, tcc, saga")
}

func main() {
	if len(os.Args) != 2 {
		usage()
		os.Exit(2)
	}
	proto, err := protocol.Parse(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connCfg := postgres.ConnectionConfig{
		Host:           cfg.Postgres.Host,
		Port:           cfg.Postgres.Port,
		User:           cfg.Postgres.User,
		Password:       cfg.Postgres.Password,
		ConnectTimeout: cfg.Postgres.GetConnectTimeout(),
	}
	pools := make([]*pgxpool.Pool, 0, 4)
	defer func() {
		for _, pool := range pools {
			pool.Close()
		}
	}()
	connect := func(database string) *pgxpool.Pool {
		pool, err := postgres.Connect(ctx, connCfg, database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.String("database", database), zap.Error(err))
		}
		pools = append(pools, pool)
		return pool
	}

	builder := reconciliationService.NewSnapshotBuilder(
		proto,
		postgres.NewTransactionStore(connect(cfg.Postgres.Databases.DTM), logger),
		postgres.NewOrderStore(connect(cfg.Postgres.Databases.Orders), logger),
		postgres.NewWalletStore(connect(cfg.Postgres.Databases.Payments), logger),
		postgres.NewInventoryStore(connect(cfg.Postgres.Databases.Inventory), proto, logger),
		reconciliationService.NewEngine(cfg.Reconciliation.InitialValue, logger),
		logger,
	)

	snapshot, err := builder.Build(ctx)
	if err != nil {
		logger.Fatal("Reconciliation failed", zap.String("protocol", proto.String()), zap.Error(err))
	}
	path, err := report.WriteSnapshot(cfg.Paths.ConsistencyDir, snapshot, logger)
	if err != nil {
		logger.Fatal("Failed to write consistency snapshot", zap.Error(err))
	}
	logger.Info("Reconciliation complete", zap.String("protocol", proto.String()), zap.String("path", path))
}
