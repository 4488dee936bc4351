package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-chi/chi/v5"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/config"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/exporter/metrics"
	exporterService "github.com/matheusmosca/distributed-transactions-benchmark/internal/exporter/service"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/exporter/source"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/logging"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/protocol"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

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

	proto, err := protocol.Parse(cfg.Exporter.Protocol)
	if err != nil {
		logger.Fatal("Invalid exporter protocol", zap.Error(err))
	}

	traceSource, err := newTraceSource(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create trace source", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	exporter, err := exporterService.NewExporter(
		traceSource,
		exporterService.NewTraceAnalyzer(proto, logger),
		metrics.NewPrometheusSink(proto, registry),
		cfg.Exporter.ServiceName,
		cfg.Exporter.GetLookback(),
		cfg.Exporter.Limit,
		cfg.Exporter.GetScrapeInterval(),
		logger,
	)
	if err != nil {
		logger.Fatal("Failed to create exporter", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := chi.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Exporter.Host, cfg.Exporter.Port),
		Handler: router,
	}
	go func() {
		logger.Info("Serving metrics", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Metrics server failed", zap.Error(err))
		}
	}()

	if err := exporter.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Scrape loop stopped", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shut down metrics server", zap.Error(err))
	}
	logger.Info("Exporter stopped")
}

func newTraceSource(cfg *config.Config, logger *zap.Logger) (source.TraceSource, error) {
	switch cfg.Exporter.Backend {
	case "jaeger":
		return source.NewJaegerSource(cfg.Exporter.Jaeger.URL, cfg.Exporter.Jaeger.GetTimeout(), logger), nil
	case "elasticsearch":
		es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: cfg.Exporter.Elasticsearch.Addresses})
		if err != nil {
			return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
		}
		return source.NewElasticsearchSource(es, cfg.Exporter.Elasticsearch.SpanIndex, logger), nil
	}
	return nil, fmt.Errorf("unsupported trace backend %q", cfg.Exporter.Backend)
}
