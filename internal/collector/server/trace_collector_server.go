package server

import (
	"context"
	"encoding/hex"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/collector/export"
	"github.com/matheusmosca/distributed-transactions-benchmark/internal/otlp/model"
	protoTrace "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	v1 "go.opentelemetry.io/proto/otlp/trace/v1"
	"go.uber.org/zap"
)

// TraceCollectorServer accepts OTLP trace exports from the instrumented
// services and queues them for the file exporter. Each export request
// becomes one line of the run's trace file.
type TraceCollectorServer struct {
	protoTrace.UnimplementedTraceServiceServer
	buffer export.ExportBuffer
	logger *zap.Logger
}

func NewTraceCollectorServer(buffer export.ExportBuffer, logger *zap.Logger) TraceCollectorServer {
	logger.Info("Creating new TraceCollectorServer")
	return TraceCollectorServer{
		buffer: buffer,
		logger: logger,
	}
}

func (tcs TraceCollectorServer) Export(
	_ context.Context,
	req *protoTrace.ExportTraceServiceRequest,
) (*protoTrace.ExportTraceServiceResponse, error) {
	batch := toExportBatch(req)
	if len(batch.ResourceSpans) > 0 {
		tcs.buffer.WriteToBuffer([]model.ExportBatch{batch})
	}
	return &protoTrace.ExportTraceServiceResponse{}, nil
}

func toExportBatch(req *protoTrace.ExportTraceServiceRequest) model.ExportBatch {
	var resourceSpans []model.ResourceSpans
	for _, protoResourceSpans := range req.ResourceSpans {
		var scopeSpans []model.ScopeSpans
		for _, protoScopeSpans := range protoResourceSpans.ScopeSpans {
			if len(protoScopeSpans.Spans) == 0 {
				continue
			}
			scopeSpans = append(scopeSpans, model.ScopeSpans{
				Spans: toSpans(protoScopeSpans.Spans),
			})
		}
		if len(scopeSpans) > 0 {
			resourceSpans = append(resourceSpans, model.ResourceSpans{ScopeSpans: scopeSpans})
		}
	}
	return model.ExportBatch{ResourceSpans: resourceSpans}
}

func toSpans(protoSpans []*v1.Span) []model.Span {
	spans := make([]model.Span, 0, len(protoSpans))
	for _, span := range protoSpans {
		spans = append(spans, model.Span{
			TraceID:           hex.EncodeToString(span.TraceId),
			SpanID:            hex.EncodeToString(span.SpanId),
			Name:              span.Name,
			StartTimeUnixNano: model.UnixNano(span.StartTimeUnixNano),
			EndTimeUnixNano:   model.UnixNano(span.EndTimeUnixNano),
		})
	}
	return spans
}
