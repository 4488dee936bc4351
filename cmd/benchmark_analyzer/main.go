package main

import (
	"log"

	"github.com/matheusmosca/distributed-transactions-benchmark/internal/config"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/logging"
	analysisService "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/analysis/service"
	reliabilityService "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/reliability/service"
	traceService "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/trace/service"
	windowModel "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/window/model"
	windowService "github.com/matheusmosca/distributed-transactions-benchmark/internal/pipeline/window/service"
	reconciliationService "github.com/matheusmosca/distributed-transactions-benchmark/internal/reconciliation/service"
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

	windows := windowModel.Windows{
		RampUpSec:         cfg.Windows.RampUpSec,
		PreChaosEndSec:    cfg.Windows.PreChaosEndSec,
		PostChaosStartSec: cfg.Windows.PostChaosStartSec,
	}

	reconstructor := traceService.NewReconstructor(logger)
	pipeline := analysisService.NewAnalysisPipeline(
		traceService.NewDatasetBuilder(reconstructor, logger),
		windowService.NewClassifier(windows),
		reconciliationService.NewConsolidator(logger),
		reliabilityService.NewScorer(logger),
		report.NewWriter(cfg.Paths.ResultsDir, logger),
		cfg.Paths.TracingsDir,
		cfg.Paths.ConsistencyDir,
		windows,
		logger,
	)

	if err := pipeline.Run(); err != nil {
		logger.Fatal("Benchmark analysis failed", zap.Error(err))
	}
	logger.Info("Benchmark analysis complete", zap.String("results_dir", cfg.Paths.ResultsDir))
}
