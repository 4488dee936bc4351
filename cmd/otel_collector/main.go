package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/matheusmosca/distributed-transactions-benchmark/internal/collector/export"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/collector/server"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/config"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/logging"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/protocol"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	_ "google.golang.org/grpc/encoding/gzip"
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

	proto, err := protocol.Parse(cfg.Collector.Protocol)
	if err != nil {
		logger.Fatal("Invalid collector protocol", zap.Error(err))
	}

	exportPath := filepath.Join(
		cfg.Paths.TracingsDir,
		proto.String(),
		time.Now().Format("20060102_150405")+".json",
	)
	buffer := export.NewFileExportBufferImpl(exportPath, cfg.Collector.BufferSize, logger)

	listener, err := net.Listen("tcp", cfg.Collector.ListenAddress)
	if err != nil {
		logger.Fatal("Failed to listen", zap.String("addr", cfg.Collector.ListenAddress), zap.Error(err))
	}

	srv := grpc.NewServer()
	protoTrace.RegisterTraceServiceServer(srv, server.NewTraceCollectorServer(buffer, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go flushLoop(ctx, buffer, cfg.Collector.GetFlushInterval(), logger)

	go func() {
		logger.Info("gRPC service started, listening for OpenTelemetry traces",
			zap.String("addr", cfg.Collector.ListenAddress),
			zap.String("export_path", exportPath),
		)
		if err := srv.Serve(listener); err != nil {
			logger.Fatal("Failed to serve", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down collector")
	srv.GracefulStop()
	if err := buffer.Flush(); err != nil {
		logger.Error("Failed to flush remaining trace exports", zap.Error(err))
	}
}

// flushLoop drains the export buffer on a fixed interval so sparse traffic
// still reaches the file while the benchmark is running.
func flushLoop(ctx context.Context, buffer export.ExportBuffer, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := buffer.Flush(); err != nil {
				logger.Error("Failed to flush trace exports", zap.Error(err))
			}
		}
	}
}
