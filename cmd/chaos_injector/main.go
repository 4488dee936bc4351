package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matheusmosca/distributed-transactions-benchmark/internal/chaos/model"
	chaosService "github.com/matheusmosca/distributed-transactions-benchmark/internal/chaos/service"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/config"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/logging"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/report"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger, err := logging.New(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	plan := model.Plan{
		Seed:                   cfg.Chaos.Seed,
		Targets:                cfg.Chaos.Targets,
		MinDowntimeSec:         cfg.Chaos.MinDowntimeSec,
		MaxDowntimeSec:         cfg.Chaos.MaxDowntimeSec,
		MinPauseSec:            cfg.Chaos.MinPauseSec,
		MaxPauseSec:            cfg.Chaos.MaxPauseSec,
		CoordinatorName:        cfg.Chaos.CoordinatorName,
		CoordinatorDowntimeSec: cfg.Chaos.CoordinatorDowntimeSec,
	}
	runner := chaosService.NewRunner(
		chaosService.NewPlanner(plan),
		chaosService.NewDockerController(logger),
		cfg.Chaos.Targets,
		time.Duration(cfg.Chaos.StabilizationSec)*time.Second,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Chaos.DurationSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.Chaos.DurationSec)*time.Second)
		defer cancel()
	}

	startedAt := time.Now()
	logger.Info("Starting chaos schedule",
		zap.Int64("seed", plan.Seed),
		zap.Strings("targets", plan.Targets),
	)
	windows := runner.Run(ctx)

	writer := report.NewWriter(cfg.Paths.ResultsDir, logger)
	if _, err := writer.WriteChaosTimeline(model.Timeline{
		Seed:      plan.Seed,
		StartedAt: startedAt,
		Windows:   windows,
	}); err != nil {
		logger.Fatal("Failed to write chaos timeline", zap.Error(err))
	}
	logger.Info("Chaos schedule finished", zap.Int("attacks", len(windows)))
}
